// Package timeline tracks the running duration of an assembled clip sequence
// against a maximum-duration budget.
package timeline

import "time"

// Decision tells the caller what to do with the next clip.
type Decision struct {
	// Keep is how much of the clip fits.
	Keep time.Duration
	// Truncated is set when Keep is shorter than the clip.
	Truncated bool
	// Skip is set when nothing of the clip fits.
	Skip bool
}

// Accumulator grows monotonically as clips are added. A zero or negative max
// means no budget.
type Accumulator struct {
	max   time.Duration
	total time.Duration
}

func NewAccumulator(max time.Duration) *Accumulator {
	return &Accumulator{max: max}
}

func (a *Accumulator) Total() time.Duration { return a.total }

// Exhausted reports whether the budget is already spent.
func (a *Accumulator) Exhausted() bool {
	return a.max > 0 && a.total >= a.max
}

// Fit decides how much of a clip of duration d still fits. It does not
// record the clip; call Add with the kept duration once the clip is real.
func (a *Accumulator) Fit(d time.Duration) Decision {
	if d <= 0 {
		return Decision{Skip: true}
	}
	if a.max <= 0 {
		return Decision{Keep: d}
	}
	remaining := a.max - a.total
	if remaining <= 0 {
		return Decision{Skip: true}
	}
	if d > remaining {
		return Decision{Keep: remaining, Truncated: true}
	}
	return Decision{Keep: d}
}

// Add records a clip that was actually kept.
func (a *Accumulator) Add(d time.Duration) { a.total += d }
