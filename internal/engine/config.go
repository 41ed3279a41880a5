package engine

import (
	"fmt"
	"strings"
	"time"
)

// Search limit bounds
const (
	MinDepth      = 1
	MaxDepth      = 7
	MaxTimeBudget = time.Hour
)

// Limits bounds a single ChooseMove call.
type Limits struct {
	Depth      int           // maximum search depth in plies
	TimeBudget time.Duration // wall-clock ceiling for the whole call
}

// DefaultLimits is the Medium preset.
var DefaultLimits = DifficultySettings[Medium]

// Validate rejects limits the engine cannot honour.
func (l Limits) Validate() error {
	if l.Depth < MinDepth || l.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d outside [%d, %d]", ErrInvalidConfig, l.Depth, MinDepth, MaxDepth)
	}
	if l.TimeBudget <= 0 || l.TimeBudget > MaxTimeBudget {
		return fmt.Errorf("%w: time budget %v outside (0, %v]", ErrInvalidConfig, l.TimeBudget, MaxTimeBudget)
	}
	return nil
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 3 ply
	Medium                   // 5 ply
	Hard                     // 6 ply
	Expert                   // 7 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]Limits{
	Easy:   {Depth: 3, TimeBudget: 2 * time.Second},
	Medium: {Depth: 5, TimeBudget: 5 * time.Second},
	Hard:   {Depth: 6, TimeBudget: 10 * time.Second},
	Expert: {Depth: 7, TimeBudget: 15 * time.Second},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Limits returns the preset limits for d.
func (d Difficulty) Limits() (Limits, error) {
	l, ok := DifficultySettings[d]
	if !ok {
		return Limits{}, fmt.Errorf("%w: unknown difficulty %d", ErrInvalidConfig, int(d))
	}
	return l, nil
}

// ParseDifficulty accepts the lowercase preset names.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Expert; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
}
