package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	// Flags (env fallbacks).
	difficulty := flag.String("difficulty", config.Getenv("CHESSCORE_DIFFICULTY", engine.Medium.String()), "search preset: easy, medium, hard or expert")
	depth := flag.Int("depth", config.GetenvInt("CHESSCORE_DEPTH", 0), "default search depth, overrides the preset")
	moveTime := flag.Duration("movetime", config.GetenvDuration("CHESSCORE_MOVETIME", 0), "default time per move, overrides the preset")
	cpuprofile := flag.String("cpuprofile", config.Getenv("CHESSCORE_CPUPROFILE", ""), "write cpu profile to file")
	verbose := flag.Bool("v", config.GetenvBool("CHESSCORE_VERBOSE", false), "log search diagnostics to stderr")
	flag.Parse()

	log := newLogger(*verbose)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("CPU profiling enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -difficulty")
	}
	limits, _ := d.Limits()
	if *depth > 0 {
		limits.Depth = *depth
	}
	if *moveTime > 0 {
		limits.TimeBudget = *moveTime
	}

	protocol := uci.New(os.Stdout, log)
	if err := protocol.SetLimits(limits); err != nil {
		log.Fatal().Err(err).Msg("bad search defaults")
	}
	log.Debug().Int("depth", limits.Depth).Dur("movetime", limits.TimeBudget).Msg("defaults applied")

	if err := protocol.Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().
		Logger()
}
