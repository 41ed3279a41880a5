package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/selfplay"
	"github.com/hailam/chesscore/internal/storage"
)

func main() {
	// Flags (env fallbacks). Unset search flags fall back to the saved
	// preferences.
	games := flag.Int("games", config.GetenvInt("CHESSCORE_GAMES", 1), "number of matches to play")
	parallel := flag.Int("parallel", config.GetenvInt("CHESSCORE_PARALLEL", 0), "matches run at once")
	whiteDepth := flag.Int("white-depth", config.GetenvInt("CHESSCORE_WHITE_DEPTH", 0), "search depth for White")
	blackDepth := flag.Int("black-depth", config.GetenvInt("CHESSCORE_BLACK_DEPTH", 0), "search depth for Black")
	moveTime := flag.Duration("movetime", config.GetenvDuration("CHESSCORE_MOVETIME", 0), "time budget per move")
	maxPlies := flag.Int("max-plies", config.GetenvInt("CHESSCORE_MAX_PLIES", 0), "stop a match after this many half-moves")
	fen := flag.String("fen", config.Getenv("CHESSCORE_FEN", ""), "start position (default: standard)")
	dbDir := flag.String("db", config.Getenv("CHESSCORE_DB", ""), `database directory, "none" to disable (default: user data dir)`)
	verbose := flag.Bool("v", config.GetenvBool("CHESSCORE_VERBOSE", false), "verbose logging")
	flag.Parse()

	log := newLogger(*verbose)

	var store *storage.Storage
	prefs := storage.DefaultPreferences()
	if *dbDir != "none" {
		var err error
		if *dbDir == "" {
			store, err = storage.OpenDefault(log)
		} else {
			store, err = storage.Open(*dbDir, log)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("opening database")
		}
		defer store.Close()

		if prefs, err = store.LoadPreferences(); err != nil {
			log.Fatal().Err(err).Msg("loading preferences")
		}
	}

	// Explicit flags win over preferences and are remembered for next time.
	if *whiteDepth > 0 {
		prefs.WhiteDepth = *whiteDepth
	}
	if *blackDepth > 0 {
		prefs.BlackDepth = *blackDepth
	}
	if *moveTime > 0 {
		prefs.MoveTime = *moveTime
	}
	if *maxPlies > 0 {
		prefs.MaxPlies = *maxPlies
	}
	if *parallel > 0 {
		prefs.Parallel = *parallel
	}

	tour := &selfplay.Tournament{
		Match: selfplay.Config{
			White:    engine.Limits{Depth: prefs.WhiteDepth, TimeBudget: prefs.MoveTime},
			Black:    engine.Limits{Depth: prefs.BlackDepth, TimeBudget: prefs.MoveTime},
			MaxPlies: prefs.MaxPlies,
			StartFEN: *fen,
		},
		Games:    *games,
		Parallel: prefs.Parallel,
		Log:      log,
	}
	if store != nil {
		tour.Recorder = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Int("games", tour.Games).
		Int("parallel", tour.Parallel).
		Int("white_depth", prefs.WhiteDepth).
		Int("black_depth", prefs.BlackDepth).
		Dur("movetime", prefs.MoveTime).
		Msg("starting self-play")

	sum, err := tour.Run(ctx)
	if err != nil {
		if selfplay.IsCancelled(err) {
			log.Warn().Msg("interrupted")
			return
		}
		log.Fatal().Err(err).Msg("self-play failed")
	}

	for _, m := range sum.Matches {
		fmt.Printf("[%d] %s\n", m.ID, m.MoveText())
	}
	fmt.Printf("\nWhite %d  Black %d  Draws %d  Capped %d\n", sum.WhiteWins, sum.BlackWins, sum.Draws, sum.Capped)

	if store == nil {
		return
	}
	if err := store.SavePreferences(prefs); err != nil {
		log.Error().Err(err).Msg("saving preferences")
	}
	stats, err := store.LoadStats()
	if err != nil {
		log.Error().Err(err).Msg("loading stats")
		return
	}
	fmt.Printf("All time: %d games, White scores %.1f%%, average %.1f plies\n",
		stats.GamesPlayed, stats.WhiteScore(), stats.AveragePlies())
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().
		Logger()
}
