package engine

import (
	"testing"
	"time"
)

func TestTimeManager(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(time.Hour)

	if tm.Budget() != time.Hour {
		t.Errorf("Budget = %v, want 1h", tm.Budget())
	}
	if got := tm.Deadline().Sub(time.Now()); got < 59*time.Minute || got > time.Hour {
		t.Errorf("deadline %v away, want about an hour", got)
	}
	if tm.ShouldStop() {
		t.Error("ShouldStop right after Init")
	}
	if !tm.CanStartIteration() {
		t.Error("CanStartIteration false right after Init")
	}

	tm.Init(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if !tm.ShouldStop() {
		t.Error("ShouldStop false after the deadline")
	}
	if tm.CanStartIteration() {
		t.Error("CanStartIteration true after the budget is spent")
	}
	if tm.Elapsed() < 5*time.Millisecond {
		t.Errorf("Elapsed = %v", tm.Elapsed())
	}
}
