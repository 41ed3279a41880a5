package engine

import (
	"time"
)

// TimeManager tracks the wall-clock budget of one search.
type TimeManager struct {
	budget    time.Duration
	startTime time.Time
	deadline  time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search with the given budget.
func (tm *TimeManager) Init(budget time.Duration) {
	tm.budget = budget
	tm.startTime = time.Now()
	tm.deadline = tm.startTime.Add(budget)
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Budget returns the total time allowed.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}

// Deadline returns the instant the search must stop.
func (tm *TimeManager) Deadline() time.Time {
	return tm.deadline
}

// ShouldStop returns true once the deadline has passed.
func (tm *TimeManager) ShouldStop() bool {
	return !time.Now().Before(tm.deadline)
}

// CanStartIteration reports whether less than half the budget is spent.
// Past that point the next depth would not finish.
func (tm *TimeManager) CanStartIteration() bool {
	elapsed := tm.Elapsed()
	return tm.budget-elapsed > elapsed
}
