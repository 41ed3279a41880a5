package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores the self-play defaults. Flags given on the command line
// override them; they are saved back after a run.
type Preferences struct {
	WhiteDepth int           `json:"white_depth"`
	BlackDepth int           `json:"black_depth"`
	MoveTime   time.Duration `json:"move_time"`
	MaxPlies   int           `json:"max_plies"`
	Parallel   int           `json:"parallel"`
	LastRun    time.Time     `json:"last_run"`
}

// DefaultPreferences returns the defaults used before anything was saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		WhiteDepth: 3,
		BlackDepth: 3,
		MoveTime:   2 * time.Second,
		MaxPlies:   200,
		Parallel:   2,
	}
}

// MatchStats aggregates every recorded self-play match.
type MatchStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	Unfinished    int            `json:"unfinished"`
	DrawsByReason map[string]int `json:"draws_by_reason"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewMatchStats returns empty statistics.
func NewMatchStats() *MatchStats {
	return &MatchStats{
		DrawsByReason: make(map[string]int),
	}
}

// MatchRecord is the outcome of one finished match.
type MatchRecord struct {
	Result     string // "1-0", "0-1", "1/2-1/2" or "*"
	DrawReason string
	Plies      int
	Duration   time.Duration
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
	mu sync.Mutex // serializes read-modify-write of the stats record
}

// Open opens (or creates) the database in dir. Badger's own log output goes
// to log at debug level.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{log.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the per-user data directory.
func OpenDefault(log zerolog.Logger) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir, log)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the self-play defaults.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastRun = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the saved preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyPreferences, prefs)
	})
	return prefs, err
}

// LoadStats loads match statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*MatchStats, error) {
	stats := NewMatchStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats, stats)
	})
	return stats, err
}

// RecordMatch adds one match to the statistics. Safe for concurrent use.
func (s *Storage) RecordMatch(rec MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewMatchStats()
		if err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		if stats.DrawsByReason == nil {
			stats.DrawsByReason = make(map[string]int)
		}

		stats.GamesPlayed++
		stats.TotalPlies += rec.Plies
		stats.TotalPlayTime += rec.Duration
		if rec.Plies > stats.LongestGame {
			stats.LongestGame = rec.Plies
		}

		switch rec.Result {
		case "1-0":
			stats.WhiteWins++
		case "0-1":
			stats.BlackWins++
		case "1/2-1/2":
			stats.Draws++
			if rec.DrawReason != "" {
				stats.DrawsByReason[rec.DrawReason]++
			}
		default:
			stats.Unfinished++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// ResetStats discards all recorded matches.
func (s *Storage) ResetStats() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// getJSON decodes the value at key into v and leaves v untouched when the
// key does not exist.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// WhiteScore returns White's score as a percentage (0-100), counting a draw
// as half a point. Unfinished games are ignored.
func (s *MatchStats) WhiteScore() float64 {
	decided := s.WhiteWins + s.BlackWins + s.Draws
	if decided == 0 {
		return 0
	}
	return (float64(s.WhiteWins) + float64(s.Draws)/2) / float64(decided) * 100
}

// AveragePlies returns the mean game length.
func (s *MatchStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// badgerLogger adapts zerolog to badger.Logger. Badger is chatty at info
// level, so everything below warnings is demoted to debug.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(trimLine(format, args))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msg(trimLine(format, args))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msg(trimLine(format, args))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msg(trimLine(format, args))
}

func trimLine(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
