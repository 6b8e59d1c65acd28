// Package rollup aggregates mood records over a time window into
// per-dimension averages and positive/negative totals.
//
// Two modes exist because downstream reports need both behaviors:
//
//   - Averaging excludes records whose every dimension score is zero; a
//     record with no signal must not drag averages down.
//   - Presence counts every record in the window regardless of score and
//     classifies each subject by net sign, for reports that count subjects
//     rather than average magnitudes.
//
// Both modes return a well-formed zero-valued result when the window has no
// matching records; they never fail on empty data.
package rollup

import (
	"context"
	"fmt"
	"time"

	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

// Record is one subject's submission for one taxonomy. Scores holds only
// dimensions belonging to the record's taxonomy; absent dimensions read as 0.
type Record struct {
	ID         string         `json:"id"`
	SubjectID  string         `json:"subject_id"`
	TaxonomyID taxonomy.ID    `json:"taxonomy_id"`
	RecordedAt time.Time      `json:"recorded_at"`
	Scores     map[string]int `json:"scores"`
	Deleted    bool           `json:"deleted,omitempty"`
}

// Score returns the record's score for dimension, 0 when absent.
func (r Record) Score(dimension string) int {
	return r.Scores[dimension]
}

// allZero reports whether no dimension carries a non-zero score.
func (r Record) allZero() bool {
	for _, v := range r.Scores {
		if v != 0 {
			return false
		}
	}
	return true
}

// RecordStore is the read-only mood record source. Implementations must
// exclude logically deleted records and apply the window bounds inclusively.
type RecordStore interface {
	FindRecords(ctx context.Context, id taxonomy.ID, subjects []string, w Window) ([]Record, error)
}

// Result is the outcome of an averaging rollup. DimensionAverages always
// carries an entry for every taxonomy dimension, zero when no record
// contributed, so downstream arithmetic never sees a missing key.
type Result struct {
	TaxonomyID        taxonomy.ID        `json:"taxonomy_id"`
	Window            Window             `json:"window"`
	PositiveTotal     float64            `json:"positive_total"`
	NegativeTotal     float64            `json:"negative_total"`
	DimensionAverages map[string]float64 `json:"dimension_averages"`
	RecordCount       int                `json:"record_count"`
	DistinctSubjects  int                `json:"distinct_subject_count"`
}

// Averaging fetches the cohort's records for tax inside w and computes
// per-dimension means and partition totals. Records whose scores are all
// zero are excluded before averaging.
func Averaging(ctx context.Context, store RecordStore, tax taxonomy.Taxonomy, subjects []string, w Window) (Result, error) {
	records, err := store.FindRecords(ctx, tax.ID, subjects, w)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s records: %w", tax.ID, err)
	}

	included := records[:0:0]
	for _, r := range records {
		if r.Deleted || r.allZero() {
			continue
		}
		included = append(included, r)
	}

	return Summarize(tax, w, included), nil
}

// Summarize computes an averaging Result from already-filtered records.
// It is the shared aggregation core for record and tally rollups.
func Summarize(tax taxonomy.Taxonomy, w Window, records []Record) Result {
	res := Result{
		TaxonomyID:        tax.ID,
		Window:            w,
		DimensionAverages: make(map[string]float64, len(tax.Dimensions)),
		RecordCount:       len(records),
	}
	for _, d := range tax.Dimensions {
		res.DimensionAverages[d] = 0
	}

	if len(records) == 0 {
		return res
	}

	sums := make(map[string]int, len(tax.Dimensions))
	subjects := make(map[string]bool)
	for _, r := range records {
		subjects[r.SubjectID] = true
		for _, d := range tax.Dimensions {
			sums[d] += r.Score(d)
		}
	}
	res.DistinctSubjects = len(subjects)

	n := float64(len(records))
	for _, d := range tax.Dimensions {
		res.DimensionAverages[d] = float64(sums[d]) / n
	}
	for _, d := range tax.Positive {
		res.PositiveTotal += res.DimensionAverages[d]
	}
	for _, d := range tax.Negative {
		res.NegativeTotal += res.DimensionAverages[d]
	}

	return res
}

// NetSign classifies a subject by the balance of their non-zero dimension
// scores inside a window.
type NetSign int

const (
	NetNeutral NetSign = iota
	NetPositive
	NetNegative
)

func (s NetSign) String() string {
	switch s {
	case NetPositive:
		return "positive"
	case NetNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// PresenceResult is the outcome of a presence rollup: how many subjects
// submitted anything at all, and how each leans.
type PresenceResult struct {
	TaxonomyID       taxonomy.ID `json:"taxonomy_id"`
	Window           Window      `json:"window"`
	RecordCount      int         `json:"record_count"`
	DistinctSubjects int         `json:"distinct_subject_count"`

	// SubjectSigns maps each submitting subject to their net sign.
	SubjectSigns map[string]NetSign `json:"subject_signs"`

	NetPositiveSubjects int `json:"net_positive_subjects"`
	NetNegativeSubjects int `json:"net_negative_subjects"`
	NetNeutralSubjects  int `json:"net_neutral_subjects"`
}

// Presence fetches the cohort's records for tax inside w and classifies each
// submitting subject as net-positive, net-negative, or net-neutral by
// comparing how many positive vs negative dimensions they scored above zero.
// Unlike Averaging, all-zero records still count toward presence.
func Presence(ctx context.Context, store RecordStore, tax taxonomy.Taxonomy, subjects []string, w Window) (PresenceResult, error) {
	records, err := store.FindRecords(ctx, tax.ID, subjects, w)
	if err != nil {
		return PresenceResult{}, fmt.Errorf("fetching %s records: %w", tax.ID, err)
	}

	res := PresenceResult{
		TaxonomyID:   tax.ID,
		Window:       w,
		SubjectSigns: make(map[string]NetSign),
	}

	type balance struct{ pos, neg int }
	balances := make(map[string]*balance)

	for _, r := range records {
		if r.Deleted {
			continue
		}
		res.RecordCount++

		b, ok := balances[r.SubjectID]
		if !ok {
			b = &balance{}
			balances[r.SubjectID] = b
		}
		for _, d := range tax.Positive {
			if r.Score(d) > 0 {
				b.pos++
			}
		}
		for _, d := range tax.Negative {
			if r.Score(d) > 0 {
				b.neg++
			}
		}
	}

	res.DistinctSubjects = len(balances)
	for id, b := range balances {
		var sign NetSign
		switch {
		case b.pos > b.neg:
			sign = NetPositive
			res.NetPositiveSubjects++
		case b.pos < b.neg:
			sign = NetNegative
			res.NetNegativeSubjects++
		default:
			sign = NetNeutral
			res.NetNeutralSubjects++
		}
		res.SubjectSigns[id] = sign
	}

	return res, nil
}
