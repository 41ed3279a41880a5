// Package selfplay pits two engines against each other, one game at a time or
// many in parallel.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// DefaultMaxPlies caps a match that neither side can finish.
const DefaultMaxPlies = 200

// Config describes one match.
type Config struct {
	White    engine.Limits
	Black    engine.Limits
	MaxPlies int    // 0 means DefaultMaxPlies
	StartFEN string // empty means the standard position
}

// Validate checks both sides' limits.
func (c Config) Validate() error {
	if err := c.White.Validate(); err != nil {
		return fmt.Errorf("white: %w", err)
	}
	if err := c.Black.Validate(); err != nil {
		return fmt.Errorf("black: %w", err)
	}
	if c.MaxPlies < 0 {
		return fmt.Errorf("%w: max plies %d", engine.ErrInvalidConfig, c.MaxPlies)
	}
	return nil
}

func (c Config) maxPlies() int {
	if c.MaxPlies == 0 {
		return DefaultMaxPlies
	}
	return c.MaxPlies
}

// Match is the record of one finished (or ply-capped) game.
type Match struct {
	ID         int
	StartFEN   string
	FinalFEN   string
	Status     game.Status
	Result     game.Result
	DrawReason game.DrawReason
	Moves      []board.Move
	SAN        []string
	Duration   time.Duration
}

// Plies returns the number of half-moves played.
func (m *Match) Plies() int { return len(m.Moves) }

// Record converts the match into a storage record.
func (m *Match) Record() storage.MatchRecord {
	rec := storage.MatchRecord{
		Result:   m.Result.String(),
		Plies:    m.Plies(),
		Duration: m.Duration,
	}
	if m.DrawReason != game.NoDraw {
		rec.DrawReason = m.DrawReason.String()
	}
	return rec
}

// MoveText renders the SAN record with move numbers and the result, e.g.
// "1. e4 e5 2. Nf3 *". Games from a FEN with Black to move start "1...".
func (m *Match) MoveText() string {
	var sb strings.Builder
	number, black := 1, false
	if m.StartFEN != "" {
		if f := strings.Fields(m.StartFEN); len(f) == 6 {
			black = f[1] == "b"
			if n, err := strconv.Atoi(f[5]); err == nil && n > 0 {
				number = n
			}
		}
	}

	for i, san := range m.SAN {
		switch {
		case !black:
			sb.WriteString(strconv.Itoa(number))
			sb.WriteString(". ")
		case i == 0:
			sb.WriteString(strconv.Itoa(number))
			sb.WriteString("... ")
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
		if black {
			number++
		}
		black = !black
	}
	sb.WriteString(m.Result.String())
	return sb.String()
}

// Play runs a single match between white and black. It returns when the game
// reaches a terminal status, the ply cap is hit or ctx is cancelled; in the
// last case the partial match is returned together with ctx.Err().
func Play(ctx context.Context, cfg Config, white, black *engine.Engine, log zerolog.Logger) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := game.New()
	if cfg.StartFEN != "" {
		var err error
		if g, err = game.NewFromFEN(cfg.StartFEN); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	m := &Match{StartFEN: g.FEN()}
	finish := func() *Match {
		m.FinalFEN = g.FEN()
		m.Status = g.Status()
		m.Result = g.Result()
		m.DrawReason = g.DrawReason()
		m.Moves = g.Moves()
		m.SAN = g.SANMoves()
		m.Duration = time.Since(start)
		return m
	}

	for !g.Status().IsTerminal() && g.Ply() < cfg.maxPlies() {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		side := g.SideToMove()
		eng, limits := white, cfg.White
		if side == board.Black {
			eng, limits = black, cfg.Black
		}

		move, err := eng.ChooseMove(ctx, g.Board(), side, limits)
		if err != nil {
			return finish(), fmt.Errorf("ply %d: %w", g.Ply()+1, err)
		}
		status, err := g.MakeMove(move)
		if err != nil {
			return finish(), err
		}

		log.Trace().
			Int("ply", g.Ply()).
			Str("side", side.String()).
			Str("move", move.String()).
			Str("status", status.String()).
			Msg("move played")
	}

	finish()
	log.Debug().
		Str("result", m.Result.String()).
		Str("status", m.Status.String()).
		Int("plies", m.Plies()).
		Dur("elapsed", m.Duration).
		Msg("match finished")
	return m, nil
}

// Recorder receives every finished match. *storage.Storage implements it.
type Recorder interface {
	RecordMatch(storage.MatchRecord) error
}

// Tournament plays Games matches with at most Parallel running at once.
type Tournament struct {
	Match    Config
	Games    int
	Parallel int // 0 or less means one at a time

	// NewEngine builds the engine for one side of one match. Nil means
	// engine.New with the tournament logger.
	NewEngine func(side board.Color) *engine.Engine

	Recorder Recorder
	Log      zerolog.Logger
}

// Summary totals a tournament.
type Summary struct {
	Matches   []*Match
	WhiteWins int
	BlackWins int
	Draws     int
	Capped    int
}

// Run plays the tournament. Matches are independent: each goroutine owns its
// game and engines. The first failing match cancels the rest.
func (t *Tournament) Run(ctx context.Context) (*Summary, error) {
	if t.Games <= 0 {
		return nil, fmt.Errorf("%w: games %d", engine.ErrInvalidConfig, t.Games)
	}
	if err := t.Match.Validate(); err != nil {
		return nil, err
	}

	newEngine := t.NewEngine
	if newEngine == nil {
		newEngine = func(board.Color) *engine.Engine {
			return engine.New(engine.WithLogger(t.Log))
		}
	}

	matches := make([]*Match, t.Games)
	eg, ctx := errgroup.WithContext(ctx)
	if t.Parallel > 0 {
		eg.SetLimit(t.Parallel)
	} else {
		eg.SetLimit(1)
	}

	for i := range matches {
		id := i + 1
		eg.Go(func() error {
			log := t.Log.With().Int("match", id).Logger()
			m, err := Play(ctx, t.Match, newEngine(board.White), newEngine(board.Black), log)
			if err != nil {
				return fmt.Errorf("match %d: %w", id, err)
			}
			m.ID = id
			matches[id-1] = m

			if t.Recorder != nil {
				if err := t.Recorder.RecordMatch(m.Record()); err != nil {
					return fmt.Errorf("match %d: record: %w", id, err)
				}
			}
			log.Info().Str("result", m.Result.String()).Int("plies", m.Plies()).Msg("match done")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{Matches: matches}
	for _, m := range matches {
		switch m.Result {
		case game.WhiteWins:
			s.WhiteWins++
		case game.BlackWins:
			s.BlackWins++
		case game.Drawn:
			s.Draws++
		default:
			s.Capped++
		}
	}
	return s, nil
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
