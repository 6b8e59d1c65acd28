// Package report assembles cohort mood reports: it resolves the cohort,
// rolls up the current and baseline windows, derives percentages and trend
// deltas, and attaches the narrative classification. The output structs are
// plain data; callers serialize them or hand them to their own renderers.
package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
	"github.com/coder-alair/shoorah-insights/internal/narrative"
	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/scoring"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

// Assembler wires the engine's collaborators together. Precision is the
// decimal precision applied to every percentage it emits.
type Assembler struct {
	Cohorts    *cohort.Resolver
	Records    rollup.RecordStore
	Tallies    rollup.TallyStore
	Classifier *narrative.Classifier
	Precision  int
}

// NewAssembler builds an assembler with the default precision.
func NewAssembler(cohorts *cohort.Resolver, records rollup.RecordStore, tallies rollup.TallyStore, classifier *narrative.Classifier) *Assembler {
	return &Assembler{
		Cohorts:    cohorts,
		Records:    records,
		Tallies:    tallies,
		Classifier: classifier,
		Precision:  scoring.DefaultPrecision,
	}
}

// MoodReport is a single-taxonomy cohort report. Baseline and Trend are nil
// when the current window had no records: the source system computes the
// comparison only over a non-empty current window, and that behavior is
// kept as-is.
type MoodReport struct {
	TaxonomyID  taxonomy.ID              `json:"taxonomy_id"`
	Window      rollup.Window            `json:"window"`
	CohortSize  int                      `json:"cohort_size"`
	Rollup      rollup.Result            `json:"rollup"`
	Percentages scoring.Percentages      `json:"percentages"`
	Baseline    *scoring.Percentages     `json:"baseline,omitempty"`
	Trend       *scoring.Trend           `json:"trend,omitempty"`
	Narrative   narrative.Classification `json:"narrative"`
}

// Mood builds a report for one static taxonomy over the filter's cohort.
// The current and baseline rollups are independent reads and run
// concurrently; any read failure fails the whole report.
func (a *Assembler) Mood(ctx context.Context, id taxonomy.ID, f cohort.Filter, w rollup.Window) (*MoodReport, error) {
	tax, err := taxonomy.Get(id)
	if err != nil {
		return nil, err
	}
	subjects, err := a.Cohorts.Resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	var current, baseline rollup.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = rollup.Averaging(gctx, a.Records, tax, subjects, w)
		return err
	})
	g.Go(func() error {
		var err error
		baseline, err = rollup.Averaging(gctx, a.Records, tax, subjects, w.Baseline())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return a.moodReport(id, w, len(subjects), current, baseline), nil
}

func (a *Assembler) moodReport(id taxonomy.ID, w rollup.Window, cohortSize int, current, baseline rollup.Result) *MoodReport {
	rep := &MoodReport{
		TaxonomyID:  id,
		Window:      w,
		CohortSize:  cohortSize,
		Rollup:      current,
		Percentages: scoring.FromRollup(current, a.Precision),
	}
	if current.RecordCount > 0 {
		base := scoring.FromRollup(baseline, a.Precision)
		trend := scoring.TrendBetween(rep.Percentages, base)
		rep.Baseline = &base
		rep.Trend = &trend
	}
	rep.Narrative = a.Classifier.Classify(rep.Percentages.Positive, rep.Percentages.Negative)
	return rep
}

// OverallReport blends personal and professional mood, with therapy
// sentiment as an optional third channel, into one signed score.
type OverallReport struct {
	Window       rollup.Window            `json:"window"`
	CohortSize   int                      `json:"cohort_size"`
	Personal     scoring.Percentages      `json:"personal"`
	Professional scoring.Percentages      `json:"professional"`
	Therapy      *scoring.Percentages     `json:"therapy,omitempty"`
	Overall      scoring.Overall          `json:"overall"`
	Narrative    narrative.Classification `json:"narrative"`
}

// Overall builds the combined personal+professional report. When
// includeTherapy is set, therapy-session sentiment joins the blend with the
// same zero-aware rule. All rollups run concurrently.
func (a *Assembler) Overall(ctx context.Context, f cohort.Filter, w rollup.Window, includeTherapy bool) (*OverallReport, error) {
	subjects, err := a.Cohorts.Resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	personalTax, err := taxonomy.Get(taxonomy.Mood)
	if err != nil {
		return nil, err
	}
	professionalTax, err := taxonomy.Get(taxonomy.ProfessionalMood)
	if err != nil {
		return nil, err
	}

	var personal, professional, therapy rollup.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		personal, err = rollup.Averaging(gctx, a.Records, personalTax, subjects, w)
		return err
	})
	g.Go(func() error {
		var err error
		professional, err = rollup.Averaging(gctx, a.Records, professionalTax, subjects, w)
		return err
	})
	if includeTherapy {
		g.Go(func() error {
			var err error
			therapy, err = rollup.Sentiment(gctx, a.Tallies, rollup.SourceTherapy, subjects, w)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &OverallReport{
		Window:       w,
		CohortSize:   len(subjects),
		Personal:     scoring.FromRollup(personal, a.Precision),
		Professional: scoring.FromRollup(professional, a.Precision),
	}

	sets := []scoring.Percentages{rep.Personal, rep.Professional}
	if includeTherapy {
		t := scoring.FromRollup(therapy, a.Precision)
		rep.Therapy = &t
		sets = append(sets, t)
	}
	rep.Overall = scoring.CombineOverall(a.Precision, sets...)
	rep.Narrative = a.Classifier.Classify(rep.Overall.Positive, rep.Overall.Negative)

	return rep, nil
}

// SentimentReport covers the dynamic free-text taxonomy for one tally
// source. Its baseline handling mirrors MoodReport.
type SentimentReport struct {
	Source      string                   `json:"source"`
	Window      rollup.Window            `json:"window"`
	CohortSize  int                      `json:"cohort_size"`
	Rollup      rollup.Result            `json:"rollup"`
	Percentages scoring.Percentages      `json:"percentages"`
	Baseline    *scoring.Percentages     `json:"baseline,omitempty"`
	Trend       *scoring.Trend           `json:"trend,omitempty"`
	Narrative   narrative.Classification `json:"narrative"`
}

// Sentiment builds a free-text sentiment report for the given tally source.
func (a *Assembler) Sentiment(ctx context.Context, source string, f cohort.Filter, w rollup.Window) (*SentimentReport, error) {
	subjects, err := a.Cohorts.Resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	var current, baseline rollup.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = rollup.Sentiment(gctx, a.Tallies, source, subjects, w)
		return err
	})
	g.Go(func() error {
		var err error
		baseline, err = rollup.Sentiment(gctx, a.Tallies, source, subjects, w.Baseline())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &SentimentReport{
		Source:      source,
		Window:      w,
		CohortSize:  len(subjects),
		Rollup:      current,
		Percentages: scoring.FromRollup(current, a.Precision),
	}
	if current.RecordCount > 0 {
		base := scoring.FromRollup(baseline, a.Precision)
		trend := scoring.TrendBetween(rep.Percentages, base)
		rep.Baseline = &base
		rep.Trend = &trend
	}
	rep.Narrative = a.Classifier.Classify(rep.Percentages.Positive, rep.Percentages.Negative)

	return rep, nil
}

// CountsReport reports how many cohort subjects lean each way inside the
// window, for endpoints that count heads instead of averaging magnitudes.
type CountsReport struct {
	TaxonomyID taxonomy.ID           `json:"taxonomy_id"`
	Window     rollup.Window         `json:"window"`
	CohortSize int                   `json:"cohort_size"`
	Presence   rollup.PresenceResult `json:"presence"`
}

// Counts builds a presence-mode subject-count report for one taxonomy.
func (a *Assembler) Counts(ctx context.Context, id taxonomy.ID, f cohort.Filter, w rollup.Window) (*CountsReport, error) {
	tax, err := taxonomy.Get(id)
	if err != nil {
		return nil, err
	}
	subjects, err := a.Cohorts.Resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	presence, err := rollup.Presence(ctx, a.Records, tax, subjects, w)
	if err != nil {
		return nil, err
	}

	return &CountsReport{
		TaxonomyID: id,
		Window:     w,
		CohortSize: len(subjects),
		Presence:   presence,
	}, nil
}
