package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
	"github.com/coder-alair/shoorah-insights/internal/narrative"
	"github.com/coder-alair/shoorah-insights/internal/output"
	"github.com/coder-alair/shoorah-insights/internal/report"
	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/scoring"
	"github.com/coder-alair/shoorah-insights/internal/store"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

var (
	reportCohort    cohortFlags
	reportWindow    windowFlags
	reportPrecision int

	reportTaxonomy string
	reportSource   string
	reportTherapy  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build cohort wellbeing reports",
}

var reportMoodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Score one taxonomy for a cohort, with baseline trend",
	Long: `Roll up a cohort's mood records for one taxonomy over the reporting
window, compare against the immediately preceding window of the same length,
and classify the result.

Examples:
  shoorah-insights report mood --company acme --days 7
  shoorah-insights report mood --taxonomy before_sleep --company acme --from 2026-04-01 --to 2026-04-07
  shoorah-insights report mood --company acme --department sales --min-age 30 --max-age 40`,
	RunE: runReportMood,
}

var reportOverallCmd = &cobra.Command{
	Use:   "overall",
	Short: "Blend personal and professional mood into one signed score",
	RunE:  runReportOverall,
}

var reportSentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Score free-text sentiment tallies for a cohort",
	RunE:  runReportSentiment,
}

var reportCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Count net-positive, net-negative, and net-neutral subjects",
	RunE:  runReportCounts,
}

func init() {
	for _, cmd := range []*cobra.Command{reportMoodCmd, reportOverallCmd, reportSentimentCmd, reportCountsCmd} {
		reportCohort.register(cmd)
		reportWindow.register(cmd)
		cmd.Flags().IntVar(&reportPrecision, "precision", scoring.DefaultPrecision, "Decimal places for percentages (1 or 2)")
	}
	reportMoodCmd.Flags().StringVar(&reportTaxonomy, "taxonomy", string(taxonomy.Mood), "Taxonomy to score")
	reportCountsCmd.Flags().StringVar(&reportTaxonomy, "taxonomy", string(taxonomy.Mood), "Taxonomy to count")
	reportSentimentCmd.Flags().StringVar(&reportSource, "source", rollup.SourceChat, "Tally source (chat or therapy)")
	reportOverallCmd.Flags().BoolVar(&reportTherapy, "therapy", false, "Blend therapy sentiment into the overall score")

	reportCmd.AddCommand(reportMoodCmd, reportOverallCmd, reportSentimentCmd, reportCountsCmd)
	rootCmd.AddCommand(reportCmd)
}

// newAssembler builds the report assembler over an open store.
func newAssembler(db *store.DB, assets narrative.Assets, precision int) *report.Assembler {
	a := report.NewAssembler(cohort.NewResolver(db), db, db, narrative.NewClassifier(assets))
	a.Precision = precision
	return a
}

func runReportMood(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	w, err := reportWindow.window()
	if err != nil {
		return err
	}

	a := newAssembler(db, cfg.Narrative, reportPrecision)
	rep, err := a.Mood(context.Background(), taxonomy.ID(reportTaxonomy), reportCohort.filter(), w)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rep)
	}
	renderMoodReport(rep)
	return nil
}

func renderMoodReport(rep *report.MoodReport) {
	fmt.Println(output.StyleHeader.Render(fmt.Sprintf("Mood report — %s", rep.TaxonomyID)))
	fmt.Printf("%s %s → %s (%d days, %d subjects, %d records)\n\n",
		output.StyleLabel.Render("Window"),
		rep.Window.Start.Format(dateLayout), rep.Window.End.Format(dateLayout),
		rep.Window.Days(), rep.CohortSize, rep.Rollup.RecordCount)

	fmt.Printf("%s %s\n", output.StyleLabel.Render("Positive"), output.StylePositive.Render(output.Pct(rep.Percentages.Positive)))
	fmt.Printf("%s %s\n", output.StyleLabel.Render("Negative"), output.StyleNegative.Render(output.Pct(rep.Percentages.Negative)))
	if rep.Trend != nil {
		fmt.Printf("%s %s positive, %s negative (vs previous %d days)\n",
			output.StyleLabel.Render("Trend"),
			output.TrendArrow(rep.Trend.Positive.Magnitude, rep.Trend.Positive.Rising),
			output.TrendArrow(rep.Trend.Negative.Magnitude, rep.Trend.Negative.Rising),
			rep.Window.Days())
	}
	fmt.Printf("%s %s — %s\n\n", output.StyleLabel.Render("Classification"),
		string(rep.Narrative.Label), rep.Narrative.Message)

	tbl := output.NewTable("Dimension", "Average")
	for _, d := range sortedDimensions(rep.Rollup) {
		tbl.AddRow(d, fmt.Sprintf("%.2f", rep.Rollup.DimensionAverages[d]))
	}
	tbl.Print()
}

func runReportOverall(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	w, err := reportWindow.window()
	if err != nil {
		return err
	}

	a := newAssembler(db, cfg.Narrative, reportPrecision)
	rep, err := a.Overall(context.Background(), reportCohort.filter(), w, reportTherapy)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rep)
	}

	fmt.Println(output.StyleHeader.Render("Overall wellbeing"))
	fmt.Printf("%s %s → %s (%d subjects)\n\n", output.StyleLabel.Render("Window"),
		rep.Window.Start.Format(dateLayout), rep.Window.End.Format(dateLayout), rep.CohortSize)

	tbl := output.NewTable("Channel", "Positive", "Negative")
	tbl.AddRow("personal", output.Pct(rep.Personal.Positive), output.Pct(rep.Personal.Negative))
	tbl.AddRow("professional", output.Pct(rep.Professional.Positive), output.Pct(rep.Professional.Negative))
	if rep.Therapy != nil {
		tbl.AddRow("therapy", output.Pct(rep.Therapy.Positive), output.Pct(rep.Therapy.Negative))
	}
	tbl.AddRow("overall", output.Pct(rep.Overall.Positive), output.Pct(rep.Overall.Negative))
	tbl.Print()

	fmt.Printf("\n%s %+.2f\n", output.StyleLabel.Render("Signed score"), rep.Overall.Score)
	fmt.Printf("%s %s — %s\n", output.StyleLabel.Render("Classification"),
		string(rep.Narrative.Label), rep.Narrative.Message)
	return nil
}

func runReportSentiment(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	w, err := reportWindow.window()
	if err != nil {
		return err
	}

	a := newAssembler(db, cfg.Narrative, reportPrecision)
	rep, err := a.Sentiment(context.Background(), reportSource, reportCohort.filter(), w)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rep)
	}

	fmt.Println(output.StyleHeader.Render(fmt.Sprintf("Sentiment report — %s", rep.Source)))
	fmt.Printf("%s %s → %s (%d subjects, %d tallies)\n\n", output.StyleLabel.Render("Window"),
		rep.Window.Start.Format(dateLayout), rep.Window.End.Format(dateLayout),
		rep.CohortSize, rep.Rollup.RecordCount)
	fmt.Printf("%s %s\n", output.StyleLabel.Render("Positive"), output.StylePositive.Render(output.Pct(rep.Percentages.Positive)))
	fmt.Printf("%s %s\n", output.StyleLabel.Render("Negative"), output.StyleNegative.Render(output.Pct(rep.Percentages.Negative)))
	if rep.Trend != nil {
		fmt.Printf("%s %s positive, %s negative\n", output.StyleLabel.Render("Trend"),
			output.TrendArrow(rep.Trend.Positive.Magnitude, rep.Trend.Positive.Rising),
			output.TrendArrow(rep.Trend.Negative.Magnitude, rep.Trend.Negative.Rising))
	}
	fmt.Printf("%s %s — %s\n\n", output.StyleLabel.Render("Classification"),
		string(rep.Narrative.Label), rep.Narrative.Message)

	tbl := output.NewTable("Word", "Average")
	for _, d := range sortedDimensions(rep.Rollup) {
		tbl.AddRow(d, fmt.Sprintf("%.2f", rep.Rollup.DimensionAverages[d]))
	}
	tbl.Print()
	return nil
}

func runReportCounts(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	w, err := reportWindow.window()
	if err != nil {
		return err
	}

	a := newAssembler(db, narrative.Assets{}, reportPrecision)
	rep, err := a.Counts(context.Background(), taxonomy.ID(reportTaxonomy), reportCohort.filter(), w)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rep)
	}

	fmt.Println(output.StyleHeader.Render(fmt.Sprintf("Mood head count — %s", rep.TaxonomyID)))
	fmt.Printf("%s %s → %s (%d subjects, %d submitted)\n\n", output.StyleLabel.Render("Window"),
		rep.Window.Start.Format(dateLayout), rep.Window.End.Format(dateLayout),
		rep.CohortSize, rep.Presence.DistinctSubjects)

	tbl := output.NewTable("Leaning", "Subjects")
	tbl.AddRow("positive", fmt.Sprintf("%d", rep.Presence.NetPositiveSubjects))
	tbl.AddRow("negative", fmt.Sprintf("%d", rep.Presence.NetNegativeSubjects))
	tbl.AddRow("neutral", fmt.Sprintf("%d", rep.Presence.NetNeutralSubjects))
	tbl.Print()
	return nil
}

// sortedDimensions returns the rollup's dimension names in display order:
// the taxonomy's own ordering for static taxonomies, sorted for dynamic ones.
func sortedDimensions(r rollup.Result) []string {
	if tax, err := taxonomy.Get(r.TaxonomyID); err == nil {
		return tax.Dimensions
	}
	dims := make([]string, 0, len(r.DimensionAverages))
	for d := range r.DimensionAverages {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}
