package timeline

import (
	"testing"
	"time"
)

func sec(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

func TestAccumulator_FillsBudgetExactly(t *testing.T) {
	acc := NewAccumulator(sec(25))

	d := acc.Fit(sec(15))
	if d.Skip || d.Truncated || d.Keep != sec(15) {
		t.Fatalf("first clip should fit whole, got %+v", d)
	}
	acc.Add(d.Keep)

	d = acc.Fit(sec(15))
	if d.Skip || !d.Truncated || d.Keep != sec(10) {
		t.Fatalf("second clip should truncate to 10s, got %+v", d)
	}
	acc.Add(d.Keep)

	if acc.Total() != sec(25) {
		t.Fatalf("total = %v, want exactly 25s", acc.Total())
	}
	if !acc.Exhausted() {
		t.Fatalf("budget should be exhausted")
	}
	if d = acc.Fit(sec(5)); !d.Skip {
		t.Fatalf("no further clip should fit, got %+v", d)
	}
}

func TestAccumulator_NoBudget(t *testing.T) {
	acc := NewAccumulator(0)
	for _, d := range []time.Duration{sec(10), sec(90), sec(3600)} {
		got := acc.Fit(d)
		if got.Skip || got.Truncated || got.Keep != d {
			t.Fatalf("Fit(%v) with no budget = %+v", d, got)
		}
		acc.Add(got.Keep)
	}
	if acc.Exhausted() {
		t.Fatalf("zero max never exhausts")
	}
}

func TestAccumulator_SkipsEmptyClips(t *testing.T) {
	acc := NewAccumulator(sec(10))
	if d := acc.Fit(0); !d.Skip {
		t.Fatalf("zero-length clip should be skipped, got %+v", d)
	}
	if d := acc.Fit(-sec(1)); !d.Skip {
		t.Fatalf("negative clip should be skipped, got %+v", d)
	}
	if acc.Total() != 0 {
		t.Fatalf("skips must not consume budget, total %v", acc.Total())
	}
}

func TestAccumulator_TotalNeverExceedsMax(t *testing.T) {
	max := sec(59)
	acc := NewAccumulator(max)
	clips := []time.Duration{sec(20), sec(20), sec(20), sec(20)}
	for _, c := range clips {
		d := acc.Fit(c)
		if d.Skip {
			continue
		}
		acc.Add(d.Keep)
	}
	if acc.Total() != max {
		t.Fatalf("total = %v, want %v", acc.Total(), max)
	}
}
