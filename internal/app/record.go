package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

var (
	recordSubject  string
	recordTaxonomy string
	recordAt       string
	recordScores   []string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Ingest mood records",
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store one mood record",
	Long: `Store a mood record for a subject. Scores are given as
dimension=value pairs with values from 0 to 5; dimensions not listed
default to 0.

Examples:
  shoorah-insights record add --subject u1 --taxonomy mood --score calm=5 --score content=5
  shoorah-insights record add --subject u1 --taxonomy before_sleep --score anxious=3 --at 2026-04-03`,
	RunE: runRecordAdd,
}

func init() {
	recordAddCmd.Flags().StringVar(&recordSubject, "subject", "", "Subject id (required)")
	recordAddCmd.Flags().StringVar(&recordTaxonomy, "taxonomy", string(taxonomy.Mood), "Taxonomy the record belongs to")
	recordAddCmd.Flags().StringVar(&recordAt, "at", "", "Submission date (YYYY-MM-DD, defaults to now)")
	recordAddCmd.Flags().StringSliceVar(&recordScores, "score", nil, "dimension=value score (repeatable)")
	_ = recordAddCmd.MarkFlagRequired("subject")

	recordCmd.AddCommand(recordAddCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordAdd(cmd *cobra.Command, args []string) error {
	tax, err := taxonomy.Get(taxonomy.ID(recordTaxonomy))
	if err != nil {
		return err
	}

	scores, err := parseScores(tax, recordScores)
	if err != nil {
		return err
	}

	at := time.Now().UTC()
	if recordAt != "" {
		at, err = time.Parse(dateLayout, recordAt)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
	}

	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	r := rollup.Record{
		ID:         uuid.NewString(),
		SubjectID:  recordSubject,
		TaxonomyID: tax.ID,
		RecordedAt: at,
		Scores:     scores,
	}
	if err := db.InsertRecord(r); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	fmt.Printf("Stored %s record %s for subject %s\n", tax.ID, r.ID, r.SubjectID)
	return nil
}

// parseScores converts dimension=value pairs into a score map, rejecting
// unknown dimensions and out-of-range values.
func parseScores(tax taxonomy.Taxonomy, pairs []string) (map[string]int, error) {
	scores := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("score %q is not in dimension=value form", pair)
		}
		if !tax.HasDimension(name) {
			return nil, fmt.Errorf("taxonomy %s has no dimension %q", tax.ID, name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("score for %s: %w", name, err)
		}
		if v < 0 || v > taxonomy.MaxScore {
			return nil, fmt.Errorf("score for %s must be between 0 and %d, got %d", name, taxonomy.MaxScore, v)
		}
		scores[name] = v
	}
	return scores, nil
}
