// Package uci speaks the Universal Chess Interface protocol over any reader
// and writer pair.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// Engine identification sent in reply to "uci".
const (
	EngineName   = "chesscore"
	EngineAuthor = "chesscore authors"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	log    zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	// Current game; tracks history for the moves sent with "position".
	// Nil after a rejected "position" command until the next valid one.
	game *game.Game

	// Defaults for "go" without explicit limits, changed by setoption.
	limits engine.Limits

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a new UCI protocol handler writing to out. opts are passed to
// the engine; the handler adds its own info callback and logger.
func New(out io.Writer, log zerolog.Logger, opts ...engine.Option) *UCI {
	u := &UCI{
		log:    log,
		out:    out,
		game:   game.New(),
		limits: engine.DefaultLimits,
	}
	opts = append(opts, engine.WithLogger(log), engine.WithInfo(u.sendInfo))
	u.engine = engine.New(opts...)
	return u
}

// Run reads commands from in until "quit" or end of input. At end of input a
// running search is allowed to finish; "quit" cancels it.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]
		u.log.Debug().Str("cmd", line).Msg("received")

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "eval":
			u.handleEval()
		default:
			u.println("info string unknown command: " + cmd)
		}
	}

	u.wait()
	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name " + EngineName)
	u.println("id author " + EngineAuthor)
	u.println("")
	u.println(fmt.Sprintf("option name Depth type spin default %d min %d max %d",
		engine.DefaultLimits.Depth, engine.MinDepth, engine.MaxDepth))
	u.println(fmt.Sprintf("option name MoveTime type spin default %d min 1 max %d",
		engine.DefaultLimits.TimeBudget.Milliseconds(), engine.MaxTimeBudget.Milliseconds()))
	u.println("option name Difficulty type combo default medium var easy var medium var hard var expert")
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.wait()
	u.game = game.New()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// Rule draws do not stop the move list; the GUI decides whether one was
// claimed. On any error the position is cleared, so a following "go"
// answers "bestmove 0000" instead of searching a board the GUI is not on.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.wait()

	setupEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			setupEnd, moveStart = i, i+1
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.New()
	case "fen":
		var err error
		g, err = game.NewFromFEN(strings.Join(args[1:setupEnd], " "))
		if err != nil {
			u.rejectPosition("invalid position: " + err.Error())
			return
		}
	default:
		u.rejectPosition("invalid position: expected startpos or fen")
		return
	}

	for _, moveStr := range args[moveStart:] {
		if _, _, err := g.Replay(moveStr); err != nil {
			u.rejectPosition("invalid move: " + err.Error())
			return
		}
	}
	u.game = g
}

func (u *UCI) rejectPosition(reason string) {
	u.log.Warn().Str("reason", reason).Msg("position rejected")
	u.println("info string " + reason)
	u.game = nil
}

// noPosition reports, and tells the GUI, that there is no valid position.
func (u *UCI) noPosition() bool {
	if u.game != nil {
		return false
	}
	u.println("info string no valid position")
	return true
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters. The search runs in its
// own goroutine so "stop" can be handled while it thinks.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	u.handleStop()
	if u.noPosition() {
		u.println("bestmove 0000")
		return
	}

	limits := u.calculateLimits(u.parseGoOptions(args))
	b := u.game.Board()
	side := b.SideToMove()

	searchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	u.cancel = cancel
	u.searchDone = done

	go func() {
		defer close(done)
		defer cancel()

		move, err := u.engine.ChooseMove(searchCtx, b, side, limits)
		if err != nil {
			// Mated or stalemated.
			u.log.Debug().Err(err).Msg("no move to search")
			u.println("bestmove 0000")
			return
		}
		u.println("bestmove " + move.String())
	}()
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	ms := func(i int) time.Duration {
		n, _ := strconv.Atoi(args[i])
		return time.Duration(n) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		hasValue := i+1 < len(args)
		switch args[i] {
		case "depth":
			if hasValue {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if hasValue {
				opts.MoveTime = ms(i + 1)
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if hasValue {
				opts.WTime = ms(i + 1)
				i++
			}
		case "btime":
			if hasValue {
				opts.BTime = ms(i + 1)
				i++
			}
		case "winc":
			if hasValue {
				opts.WInc = ms(i + 1)
				i++
			}
		case "binc":
			if hasValue {
				opts.BInc = ms(i + 1)
				i++
			}
		case "movestogo":
			if hasValue {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// calculateLimits converts GoOptions to engine limits, clamped to the range
// the engine accepts.
func (u *UCI) calculateLimits(opts GoOptions) engine.Limits {
	limits := u.limits

	if opts.Infinite {
		return engine.Limits{Depth: engine.MaxDepth, TimeBudget: engine.MaxTimeBudget}
	}

	if opts.Depth > 0 {
		limits.Depth = min(max(opts.Depth, engine.MinDepth), engine.MaxDepth)
	}

	if opts.MoveTime > 0 {
		limits.TimeBudget = opts.MoveTime
	} else if opts.WTime > 0 || opts.BTime > 0 {
		limits.TimeBudget = u.calculateTimeForMove(opts)
	}
	limits.TimeBudget = min(max(limits.TimeBudget, time.Millisecond), engine.MaxTimeBudget)

	return limits
}

// calculateTimeForMove determines how much time to spend on this move.
func (u *UCI) calculateTimeForMove(opts GoOptions) time.Duration {
	ourTime, ourInc := opts.WTime, opts.WInc
	if u.game.SideToMove() == board.Black {
		ourTime, ourInc = opts.BTime, opts.BInc
	}

	movesRemaining := opts.MovesToGo
	if movesRemaining <= 0 {
		movesRemaining = u.estimateMovesRemaining()
	}

	moveTime := ourTime/time.Duration(movesRemaining) + ourInc*90/100

	// Never use more than 90% of remaining time
	if maxTime := ourTime * 90 / 100; moveTime > maxTime {
		moveTime = maxTime
	}
	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}

	u.log.Debug().
		Dur("allocated", moveTime).
		Int("moves_remaining", movesRemaining).
		Dur("our_time", ourTime).
		Dur("our_inc", ourInc).
		Msg("time allocated")
	return moveTime
}

// estimateMovesRemaining estimates remaining moves based on piece count.
func (u *UCI) estimateMovesRemaining() int {
	snap := u.game.Board().Snapshot()
	pieces := 0
	for _, row := range snap.Rows() {
		for _, p := range row {
			if p != board.NoPiece {
				pieces++
			}
		}
	}

	switch {
	case pieces > 24:
		return 40
	case pieces > 12:
		return 30
	}
	return 20
}

// sendInfo outputs search info in UCI format. Called from the search
// goroutine after every completed depth.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	if engine.IsMateScore(info.Score) {
		parts = append(parts, fmt.Sprintf("score mate %d", engine.MateIn(info.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.println("info " + strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until the running search, if any, has printed its bestmove.
func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
		u.cancel = nil
	}
}

// handleSetOption processes "setoption" commands.
// Format: setoption name <name> value <value>
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		d, err := strconv.Atoi(val)
		if err != nil || d < engine.MinDepth || d > engine.MaxDepth {
			u.println("info string invalid Depth: " + val)
			return
		}
		u.limits.Depth = d
	case "movetime":
		ms, err := strconv.Atoi(val)
		budget := time.Duration(ms) * time.Millisecond
		if err != nil || ms <= 0 || budget > engine.MaxTimeBudget {
			u.println("info string invalid MoveTime: " + val)
			return
		}
		u.limits.TimeBudget = budget
	case "difficulty":
		d, err := engine.ParseDifficulty(val)
		if err != nil {
			u.println("info string " + err.Error())
			return
		}
		u.limits, _ = d.Limits()
	default:
		u.println("info string unknown option: " + strings.Join(name, " "))
	}
}

// SetLimits replaces the limits "go" uses when given none.
func (u *UCI) SetLimits(l engine.Limits) error {
	if err := l.Validate(); err != nil {
		return err
	}
	u.limits = l
	return nil
}

// Limits returns the limits "go" uses when given none.
func (u *UCI) Limits() engine.Limits {
	return u.limits
}

// handleDisplay prints the board, its FEN and the game status.
func (u *UCI) handleDisplay() {
	if u.noPosition() {
		return
	}
	u.println(u.game.Board().String())
	u.println("Fen: " + u.game.FEN())
	u.println("Status: " + u.game.Status().String())
}

// handleEval prints the static evaluation from White's point of view.
func (u *UCI) handleEval() {
	if u.noPosition() {
		return
	}
	score := u.engine.Evaluate(u.game.Board())
	u.println(fmt.Sprintf("Evaluation: %s (white side)", engine.ScoreToString(score)))
}

// handlePerft runs a perft test, printing the count below each root move
// followed by the total.
func (u *UCI) handlePerft(args []string) {
	if u.noPosition() {
		return
	}
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.println("info string invalid perft depth: " + args[0])
			return
		}
		depth = d
	}

	b := u.game.Board()
	start := time.Now()
	var total int64
	for _, m := range b.LegalMoves(b.SideToMove()) {
		undo := b.Apply(m)
		n := u.engine.Perft(b, depth-1)
		b.Undo(undo)
		total += n
		u.println(fmt.Sprintf("%s: %d", m, n))
	}
	elapsed := time.Since(start)

	u.println("")
	u.println(fmt.Sprintf("Nodes: %d", total))
	u.println(fmt.Sprintf("Time: %v", elapsed))
	if elapsed > 0 {
		u.println(fmt.Sprintf("NPS: %.0f", float64(total)/elapsed.Seconds()))
	}
}
