package progress

import "time"

// TotalMode selects how the second bracketed number is interpreted.
// Producers disagree: ninja's "[%f/%t]" prints the total unit count,
// other build wrappers print the units still remaining. The mode is
// fixed per estimator and never inferred from the input.
type TotalMode string

const (
	// TotalField treats the second number as the total unit count.
	TotalField TotalMode = "total"
	// RemainingField treats the second number as the units remaining.
	RemainingField TotalMode = "remaining"
)

// Trend qualifies the per-unit compile rate against the previous sample.
type Trend string

const (
	TrendInitial    Trend = "initial"
	TrendSpedUp     Trend = "sped-up"
	TrendSlowedDown Trend = "slowed-down"
	TrendSteady     Trend = "steady"
)

// Arrow returns a one-rune indicator for the trend.
func (t Trend) Arrow() string {
	switch t {
	case TrendSpedUp:
		return "↑"
	case TrendSlowedDown:
		return "↓"
	case TrendSteady:
		return "→"
	default:
		return "·"
	}
}

// trendThreshold is the relative seconds-per-unit change below which
// (inclusive) two samples count as the same rate.
const trendThreshold = 0.10

// Derived is a Sample plus the metrics computed from it.
// SecondsPerUnit and the projections are 0 when UnitsDone is 0 or no
// time has elapsed; Percent is -1 when the total is unknown.
type Derived struct {
	Sample

	Remaining  int
	UnitsTotal int

	Percent        float64 // 0..100, or -1 if UnitsTotal is 0
	SecondsPerUnit float64 // 0 if undefined

	EstRemaining time.Duration // 0 if undefined
	EstTotal     time.Duration // 0 if undefined

	Trend Trend
}

// Estimator derives progress metrics from successive samples and
// classifies the rate trend against the one previous record it retains.
// Not goroutine-safe: one estimator per monitoring session, fed from a
// single producer.
type Estimator struct {
	mode TotalMode
	prev *Derived
}

// NewEstimator returns an estimator using the given interpretation of
// the second bracketed number. An empty mode defaults to TotalField.
func NewEstimator(mode TotalMode) *Estimator {
	if mode != RemainingField {
		mode = TotalField
	}
	return &Estimator{mode: mode}
}

// Submit derives metrics for s and records it as the new previous
// sample. It never fails; malformed lines are rejected by ParseLine
// before they get here.
func (e *Estimator) Submit(s Sample) Derived {
	d := Derived{Sample: s}

	if e.mode == RemainingField {
		d.Remaining = s.TotalField
		d.UnitsTotal = s.UnitsDone + s.TotalField
	} else {
		d.UnitsTotal = s.TotalField
		d.Remaining = s.TotalField - s.UnitsDone
		if d.Remaining < 0 {
			// A done count past the printed total: clamp so that
			// UnitsTotal >= UnitsDone always holds.
			d.Remaining = 0
			d.UnitsTotal = s.UnitsDone
		}
	}

	if d.UnitsTotal > 0 {
		d.Percent = float64(s.UnitsDone) / float64(d.UnitsTotal) * 100
	} else {
		d.Percent = -1
	}

	if s.UnitsDone > 0 && s.Elapsed > 0 {
		d.SecondsPerUnit = s.Elapsed.Seconds() / float64(s.UnitsDone)
		d.EstRemaining = seconds(d.SecondsPerUnit * float64(d.Remaining))
		d.EstTotal = seconds(d.SecondsPerUnit * float64(d.UnitsTotal))
	}

	d.Trend = e.classify(d.SecondsPerUnit)
	e.prev = &d
	return d
}

// Reset clears the retained previous record for a new session.
func (e *Estimator) Reset() {
	e.prev = nil
}

// classify compares the current seconds-per-unit rate to the previous
// record. Both rates must be defined; the first classifiable change at
// or below the threshold is Steady (an exact 10.0% move is Steady,
// 10.01% is directional).
func (e *Estimator) classify(spu float64) Trend {
	if e.prev == nil || e.prev.SecondsPerUnit <= 0 || spu <= 0 {
		return TrendInitial
	}
	prev := e.prev.SecondsPerUnit
	delta := (spu - prev) / prev
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta <= trendThreshold:
		return TrendSteady
	case spu < prev:
		return TrendSpedUp
	default:
		return TrendSlowedDown
	}
}
