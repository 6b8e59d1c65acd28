package rollup

import (
	"context"
	"fmt"
	"time"

	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

// Tally is one subject's free-text-derived sentiment counts. The key sets
// are dynamic: dimension names exist only as whatever words the upstream
// text analysis produced.
type Tally struct {
	ID         string         `json:"id"`
	SubjectID  string         `json:"subject_id"`
	Source     string         `json:"source"`
	RecordedAt time.Time      `json:"recorded_at"`
	Positive   map[string]int `json:"positive"`
	Negative   map[string]int `json:"negative"`
}

// Tally sources. Chat covers free-text conversation sentiment; Therapy
// covers therapy session feedback. Both flow through the same rollup.
const (
	SourceChat    = "chat"
	SourceTherapy = "therapy"
)

// TallyStore is the read-only sentiment tally source.
type TallyStore interface {
	FindTallies(ctx context.Context, source string, subjects []string, w Window) ([]Tally, error)
}

// Sentiment rolls up free-text tallies for the cohort inside w. The
// taxonomy is discovered from the observed keys, then the tallies are
// aggregated with the same averaging rules as static-taxonomy records:
// all-zero tallies are excluded, and every discovered dimension gets an
// average even when only some tallies mention it. A key claimed by both
// sides counts on the positive side only, matching the discovered
// partition.
func Sentiment(ctx context.Context, store TallyStore, source string, subjects []string, w Window) (Result, error) {
	tallies, err := store.FindTallies(ctx, source, subjects, w)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s tallies: %w", source, err)
	}

	var posKeys, negKeys []string
	for _, t := range tallies {
		for k := range t.Positive {
			posKeys = append(posKeys, k)
		}
		for k := range t.Negative {
			negKeys = append(negKeys, k)
		}
	}
	tax := taxonomy.ForSentiment(posKeys, negKeys)

	var records []Record
	for _, t := range tallies {
		scores := make(map[string]int, len(t.Positive)+len(t.Negative))
		for _, k := range tax.Positive {
			scores[k] = t.Positive[k]
		}
		for _, k := range tax.Negative {
			scores[k] = t.Negative[k]
		}
		r := Record{
			ID:         t.ID,
			SubjectID:  t.SubjectID,
			TaxonomyID: taxonomy.Sentiment,
			RecordedAt: t.RecordedAt,
			Scores:     scores,
		}
		if r.allZero() {
			continue
		}
		records = append(records, r)
	}

	return Summarize(tax, w, records), nil
}
