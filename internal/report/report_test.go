package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
	"github.com/coder-alair/shoorah-insights/internal/narrative"
	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

type fakeSubjects struct{ subjects []cohort.Subject }

func (f *fakeSubjects) FindSubjects(context.Context, cohort.Query) ([]cohort.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjects) FindMembers(context.Context, cohort.Query) ([]cohort.Subject, error) {
	return nil, nil
}

type fakeRecords struct{ records []rollup.Record }

func (f *fakeRecords) FindRecords(_ context.Context, id taxonomy.ID, subjects []string, w rollup.Window) ([]rollup.Record, error) {
	allowed := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		allowed[s] = true
	}
	var out []rollup.Record
	for _, r := range f.records {
		if r.TaxonomyID == id && allowed[r.SubjectID] && w.Contains(r.RecordedAt) && !r.Deleted {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTallies struct{ tallies []rollup.Tally }

func (f *fakeTallies) FindTallies(_ context.Context, source string, subjects []string, w rollup.Window) ([]rollup.Tally, error) {
	allowed := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		allowed[s] = true
	}
	var out []rollup.Tally
	for _, t := range f.tallies {
		if t.Source == source && allowed[t.SubjectID] && w.Contains(t.RecordedAt) {
			out = append(out, t)
		}
	}
	return out, nil
}

func testClassifier() *narrative.Classifier {
	return narrative.NewClassifier(narrative.Assets{
		HappyIcon:   "happy",
		SadIcon:     "sad",
		NeutralIcon: "neutral",
		Positive: narrative.PositiveBands{
			LessThan30:    []string{"low"},
			ThirtyToSixty: []string{"mid"},
			SixtyTo100:    []string{"high"},
		},
		Negative: narrative.NegativeBands{
			LessThan30:      []string{"nlow"},
			ThirtyToSeventy: []string{"nmid"},
			SeventyTo90:     []string{"nhigh"},
			MoreThan90:      []string{"ncrit"},
		},
		Neutral: []string{"flat"},
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeSubjects(ids ...string) []cohort.Subject {
	out := make([]cohort.Subject, len(ids))
	for i, id := range ids {
		out[i] = cohort.Subject{ID: id, CompanyID: "acme", AccountStatus: cohort.StatusActive}
	}
	return out
}

func newTestAssembler(records *fakeRecords, tallies *fakeTallies, ids ...string) *Assembler {
	if records == nil {
		records = &fakeRecords{}
	}
	if tallies == nil {
		tallies = &fakeTallies{}
	}
	return NewAssembler(
		cohort.NewResolver(&fakeSubjects{subjects: activeSubjects(ids...)}),
		records, tallies, testClassifier(),
	)
}

func TestMood_CurrentAndBaseline(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))

	records := &fakeRecords{records: []rollup.Record{
		// Current window: 3x calm+content, 1x anxious.
		{ID: "r1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 9), Scores: map[string]int{"calm": 5, "content": 5}},
		{ID: "r2", SubjectID: "u2", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 10), Scores: map[string]int{"calm": 5, "content": 5}},
		{ID: "r3", SubjectID: "u3", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 11), Scores: map[string]int{"calm": 5, "content": 5}},
		{ID: "r4", SubjectID: "u4", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 12), Scores: map[string]int{"anxious": 5}},
		// Baseline window: an even split.
		{ID: "b1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 2), Scores: map[string]int{"happy": 4}},
		{ID: "b2", SubjectID: "u2", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 3), Scores: map[string]int{"sad": 4}},
	}}

	a := newTestAssembler(records, nil, "u1", "u2", "u3", "u4")

	rep, err := a.Mood(context.Background(), taxonomy.Mood, cohort.Filter{CompanyID: "acme"}, w)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.CohortSize)
	assert.Equal(t, 85.71, rep.Percentages.Positive)
	assert.Equal(t, 14.29, rep.Percentages.Negative)

	require.NotNil(t, rep.Baseline)
	assert.Equal(t, 50.0, rep.Baseline.Positive)

	require.NotNil(t, rep.Trend)
	assert.InDelta(t, 35.71, rep.Trend.Positive.Magnitude, 1e-9)
	assert.True(t, rep.Trend.Positive.Rising)
	assert.False(t, rep.Trend.Negative.Rising)

	assert.Equal(t, narrative.LabelPositive, rep.Narrative.Label)
	assert.Equal(t, "happy", rep.Narrative.Icon)
	assert.Equal(t, "high", rep.Narrative.Message)
}

func TestMood_EmptyCurrentSkipsBaseline(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))

	// Baseline window has data, current has none; the report must still be
	// the all-zero form with no trend section.
	records := &fakeRecords{records: []rollup.Record{
		{ID: "b1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 2), Scores: map[string]int{"happy": 4}},
	}}

	a := newTestAssembler(records, nil, "u1")

	rep, err := a.Mood(context.Background(), taxonomy.Mood, cohort.Filter{CompanyID: "acme"}, w)
	require.NoError(t, err)

	assert.Zero(t, rep.Percentages.Positive)
	assert.Zero(t, rep.Percentages.Negative)
	assert.Nil(t, rep.Baseline)
	assert.Nil(t, rep.Trend)
	assert.Equal(t, narrative.LabelNeutral, rep.Narrative.Label)
}

func TestMood_UnknownTaxonomy(t *testing.T) {
	a := newTestAssembler(nil, nil, "u1")

	_, err := a.Mood(context.Background(), "quarterly", cohort.Filter{CompanyID: "acme"},
		rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14)))
	require.ErrorIs(t, err, taxonomy.ErrUnknownTaxonomy)
}

func TestMood_MissingScope(t *testing.T) {
	a := newTestAssembler(nil, nil, "u1")

	_, err := a.Mood(context.Background(), taxonomy.Mood, cohort.Filter{},
		rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14)))
	require.ErrorIs(t, err, cohort.ErrMissingCohortScope)
}

func TestOverall_BlendsTaxonomies(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))
	at := day(2026, 4, 10)

	records := &fakeRecords{records: []rollup.Record{
		// Personal: 40/60 split.
		{ID: "p1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: at, Scores: map[string]int{"happy": 2, "sad": 3}},
		// Professional: 60/40 split.
		{ID: "w1", SubjectID: "u1", TaxonomyID: taxonomy.ProfessionalMood, RecordedAt: at, Scores: map[string]int{"productive": 3, "drained": 2}},
	}}

	a := newTestAssembler(records, nil, "u1")

	rep, err := a.Overall(context.Background(), cohort.Filter{CompanyID: "acme"}, w, false)
	require.NoError(t, err)

	assert.Equal(t, 40.0, rep.Personal.Positive)
	assert.Equal(t, 60.0, rep.Professional.Positive)
	assert.Equal(t, 50.0, rep.Overall.Positive)
	assert.Equal(t, 50.0, rep.Overall.Negative)
	assert.Zero(t, rep.Overall.Score)
	assert.Nil(t, rep.Therapy)
	assert.Equal(t, narrative.LabelNeutral, rep.Narrative.Label)
}

func TestOverall_ZeroSideContributesNothing(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))

	// Only personal records exist; professional must not halve the blend.
	records := &fakeRecords{records: []rollup.Record{
		{ID: "p1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: day(2026, 4, 10), Scores: map[string]int{"happy": 2, "sad": 3}},
	}}

	a := newTestAssembler(records, nil, "u1")

	rep, err := a.Overall(context.Background(), cohort.Filter{CompanyID: "acme"}, w, false)
	require.NoError(t, err)

	assert.Equal(t, 40.0, rep.Overall.Positive)
	assert.Equal(t, 60.0, rep.Overall.Negative)
	assert.Equal(t, -20.0, rep.Overall.Score)
}

func TestOverall_WithTherapy(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))
	at := day(2026, 4, 10)

	records := &fakeRecords{records: []rollup.Record{
		{ID: "p1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: at, Scores: map[string]int{"happy": 2, "sad": 3}},
		{ID: "w1", SubjectID: "u1", TaxonomyID: taxonomy.ProfessionalMood, RecordedAt: at, Scores: map[string]int{"productive": 3, "drained": 2}},
	}}
	tallies := &fakeTallies{tallies: []rollup.Tally{
		{ID: "t1", SubjectID: "u1", Source: rollup.SourceTherapy, RecordedAt: at,
			Positive: map[string]int{"understood": 1},
			Negative: map[string]int{"dismissed": 1}},
	}}

	a := newTestAssembler(records, tallies, "u1")

	rep, err := a.Overall(context.Background(), cohort.Filter{CompanyID: "acme"}, w, true)
	require.NoError(t, err)

	require.NotNil(t, rep.Therapy)
	assert.Equal(t, 50.0, rep.Therapy.Positive)
	// blend(blend(40,60)=50, 50) = 50 on both channels.
	assert.Equal(t, 50.0, rep.Overall.Positive)
	assert.Equal(t, 50.0, rep.Overall.Negative)
}

func TestSentiment_Report(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))

	tallies := &fakeTallies{tallies: []rollup.Tally{
		{ID: "t1", SubjectID: "u1", Source: rollup.SourceChat, RecordedAt: day(2026, 4, 9),
			Positive: map[string]int{"grateful": 3},
			Negative: map[string]int{"lonely": 1}},
	}}

	a := newTestAssembler(nil, tallies, "u1")

	rep, err := a.Sentiment(context.Background(), rollup.SourceChat, cohort.Filter{CompanyID: "acme"}, w)
	require.NoError(t, err)

	assert.Equal(t, 75.0, rep.Percentages.Positive)
	assert.Equal(t, 25.0, rep.Percentages.Negative)
	require.NotNil(t, rep.Trend)
	assert.Equal(t, 75.0, rep.Trend.Positive.Magnitude)
	assert.Equal(t, narrative.LabelPositive, rep.Narrative.Label)
}

func TestCounts_Report(t *testing.T) {
	w := rollup.NewWindow(day(2026, 4, 8), day(2026, 4, 14))
	at := day(2026, 4, 10)

	records := &fakeRecords{records: []rollup.Record{
		{ID: "r1", SubjectID: "u1", TaxonomyID: taxonomy.Mood, RecordedAt: at, Scores: map[string]int{"happy": 1}},
		{ID: "r2", SubjectID: "u2", TaxonomyID: taxonomy.Mood, RecordedAt: at, Scores: map[string]int{"sad": 1}},
		{ID: "r3", SubjectID: "u3", TaxonomyID: taxonomy.Mood, RecordedAt: at, Scores: map[string]int{}},
	}}

	a := newTestAssembler(records, nil, "u1", "u2", "u3")

	rep, err := a.Counts(context.Background(), taxonomy.Mood, cohort.Filter{CompanyID: "acme"}, w)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.CohortSize)
	assert.Equal(t, 3, rep.Presence.RecordCount)
	assert.Equal(t, 1, rep.Presence.NetPositiveSubjects)
	assert.Equal(t, 1, rep.Presence.NetNegativeSubjects)
	assert.Equal(t, 1, rep.Presence.NetNeutralSubjects)
}
