// Package scoring turns rollup totals into percentages, week-over-week
// trend deltas, and blended overall scores.
//
// Every function here is total over its domain: a zero denominator yields
// zero percentages, never NaN. Percentages are always derived from raw
// rollup totals, not from already-rounded values, so rounding error never
// compounds.
package scoring

import (
	"math"

	"github.com/coder-alair/shoorah-insights/internal/rollup"
)

// DefaultPrecision is the decimal precision used when a caller does not
// state one. Individual call sites may require 1 instead.
const DefaultPrecision = 2

// Percentages is a positive/negative percentage pair, each in [0,100].
// When the underlying totals were both zero, both sides are zero.
type Percentages struct {
	Positive  float64 `json:"positive_pct"`
	Negative  float64 `json:"negative_pct"`
	Precision int     `json:"-"`
}

// FromRollup derives percentages from the rollup's raw totals, rounded to
// the given number of decimal places.
func FromRollup(r rollup.Result, precision int) Percentages {
	return FromTotals(r.PositiveTotal, r.NegativeTotal, precision)
}

// FromTotals derives percentages from raw positive/negative totals.
func FromTotals(positive, negative float64, precision int) Percentages {
	p := Percentages{Precision: precision}
	den := positive + negative
	if den == 0 {
		return p
	}
	p.Positive = roundTo(100*positive/den, precision)
	p.Negative = roundTo(100*negative/den, precision)
	return p
}

// Delta is a signed trend movement for one channel. Rising is true exactly
// when the current value exceeds the baseline.
type Delta struct {
	Magnitude float64 `json:"magnitude"`
	Rising    bool    `json:"rising"`
}

// Trend compares current percentages against their baseline, channel by
// channel. A zero-record baseline has 0/0 percentages by the rollup
// contract, so the magnitude degenerates to the current percentage itself;
// that is accepted behavior, not an error.
type Trend struct {
	Positive Delta `json:"positive"`
	Negative Delta `json:"negative"`
}

// TrendBetween computes per-channel deltas between current and baseline.
func TrendBetween(current, baseline Percentages) Trend {
	return Trend{
		Positive: deltaBetween(current.Positive, baseline.Positive),
		Negative: deltaBetween(current.Negative, baseline.Negative),
	}
}

func deltaBetween(current, baseline float64) Delta {
	return Delta{
		Magnitude: math.Abs(current - baseline),
		Rising:    current > baseline,
	}
}

// Blend averages two percentages with the zero-aware rule used across the
// combined endpoints: when both sides are non-zero the result is their mean,
// but a zero side contributes nothing rather than halving the other.
func Blend(a, b float64) float64 {
	if a != 0 && b != 0 {
		return (a + b) / 2
	}
	return a + b
}

// BlendAll folds Blend over the given values in order. Used when an
// optional third channel (therapy sentiment) joins the personal and
// professional pair.
func BlendAll(values ...float64) float64 {
	var acc float64
	for _, v := range values {
		acc = Blend(acc, v)
	}
	return acc
}

// Overall is a blended cross-taxonomy score. Score is signed: blended
// positive minus blended negative, so a wholly negative cohort reads below
// zero.
type Overall struct {
	Positive float64 `json:"positive_pct"`
	Negative float64 `json:"negative_pct"`
	Score    float64 `json:"score"`
}

// CombineOverall blends the positive channels and the negative channels of
// the given percentage sets, then subtracts to produce the signed score.
// All three outputs are rounded to precision.
func CombineOverall(precision int, sets ...Percentages) Overall {
	pos := make([]float64, len(sets))
	neg := make([]float64, len(sets))
	for i, s := range sets {
		pos[i] = s.Positive
		neg[i] = s.Negative
	}

	o := Overall{
		Positive: roundTo(BlendAll(pos...), precision),
		Negative: roundTo(BlendAll(neg...), precision),
	}
	o.Score = roundTo(o.Positive-o.Negative, precision)
	return o
}

func roundTo(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
