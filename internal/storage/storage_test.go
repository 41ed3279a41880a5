package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		s := openTemp(t)
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if diff := cmp.Diff(DefaultPreferences(), prefs); diff != "" {
			t.Errorf("fresh database preferences (-want +got):\n%s", diff)
		}
	})

	t.Run("PreferencesRoundTrip", func(t *testing.T) {
		s := openTemp(t)
		want := &Preferences{WhiteDepth: 5, BlackDepth: 2, MoveTime: 750 * time.Millisecond, MaxPlies: 120, Parallel: 4}
		if err := s.SavePreferences(want); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}
		if want.LastRun.IsZero() {
			t.Error("SavePreferences did not stamp LastRun")
		}
		got, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("loaded preferences (-want +got):\n%s", diff)
		}
	})

	t.Run("NewMatchStats", func(t *testing.T) {
		stats := NewMatchStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.WhiteScore() != 0 || stats.AveragePlies() != 0 {
			t.Errorf("Expected zero rates on empty stats")
		}
	})

	t.Run("WhiteScore", func(t *testing.T) {
		stats := &MatchStats{
			GamesPlayed: 11,
			WhiteWins:   5,
			BlackWins:   3,
			Draws:       2,
			Unfinished:  1,
		}
		if got := stats.WhiteScore(); got != 60 {
			t.Errorf("Expected 60%% white score, got %.2f%%", got)
		}
	})
}

func TestRecordMatch(t *testing.T) {
	s := openTemp(t)
	records := []MatchRecord{
		{Result: "1-0", Plies: 41, Duration: time.Second},
		{Result: "0-1", Plies: 60, Duration: 2 * time.Second},
		{Result: "1/2-1/2", DrawReason: "threefold repetition", Plies: 30, Duration: time.Second},
		{Result: "1/2-1/2", DrawReason: "stalemate", Plies: 90, Duration: time.Second},
		{Result: "*", Plies: 200, Duration: 5 * time.Second},
	}
	for _, rec := range records {
		if err := s.RecordMatch(rec); err != nil {
			t.Fatalf("RecordMatch(%+v): %v", rec, err)
		}
	}

	got, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	want := &MatchStats{
		GamesPlayed:   5,
		WhiteWins:     1,
		BlackWins:     1,
		Draws:         2,
		Unfinished:    1,
		DrawsByReason: map[string]int{"threefold repetition": 1, "stalemate": 1},
		TotalPlies:    421,
		LongestGame:   200,
		TotalPlayTime: 10 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}

	if err := s.ResetStats(); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	got, err = s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if got.GamesPlayed != 0 {
		t.Errorf("GamesPlayed after reset = %d", got.GamesPlayed)
	}
}

func TestRecordMatchConcurrent(t *testing.T) {
	s := openTemp(t)
	const n = 16

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.RecordMatch(MatchRecord{Result: "1-0", Plies: 10})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordMatch: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != n || stats.WhiteWins != n {
		t.Errorf("got %d games / %d white wins, want %d", stats.GamesPlayed, stats.WhiteWins, n)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordMatch(MatchRecord{Result: "0-1", Plies: 12}); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	stats, err := reopened.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.BlackWins != 1 {
		t.Errorf("BlackWins = %d after reopen, want 1", stats.BlackWins)
	}
}

func TestDataPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("data dir %s does not end in %s", dataDir, appName)
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir {
		t.Errorf("database dir %s not under %s", dbDir, dataDir)
	}
}
