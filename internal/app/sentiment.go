package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/rollup"
)

var (
	tallySubject  string
	tallySource   string
	tallyAt       string
	tallyPositive []string
	tallyNegative []string
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Ingest free-text sentiment tallies",
}

var sentimentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store one sentiment tally",
	Long: `Store a free-text sentiment tally for a subject. Tallies are
word=count pairs; the words become the dynamic sentiment dimensions at
report time.

Example:
  shoorah-insights sentiment add --subject u1 --positive grateful=3 --negative lonely=1`,
	RunE: runSentimentAdd,
}

func init() {
	sentimentAddCmd.Flags().StringVar(&tallySubject, "subject", "", "Subject id (required)")
	sentimentAddCmd.Flags().StringVar(&tallySource, "source", rollup.SourceChat, "Tally source (chat or therapy)")
	sentimentAddCmd.Flags().StringVar(&tallyAt, "at", "", "Tally date (YYYY-MM-DD, defaults to now)")
	sentimentAddCmd.Flags().StringSliceVar(&tallyPositive, "positive", nil, "word=count positive tally (repeatable)")
	sentimentAddCmd.Flags().StringSliceVar(&tallyNegative, "negative", nil, "word=count negative tally (repeatable)")
	_ = sentimentAddCmd.MarkFlagRequired("subject")

	sentimentCmd.AddCommand(sentimentAddCmd)
	rootCmd.AddCommand(sentimentCmd)
}

func runSentimentAdd(cmd *cobra.Command, args []string) error {
	pos, err := parseTally(tallyPositive)
	if err != nil {
		return fmt.Errorf("--positive: %w", err)
	}
	neg, err := parseTally(tallyNegative)
	if err != nil {
		return fmt.Errorf("--negative: %w", err)
	}

	at := time.Now().UTC()
	if tallyAt != "" {
		at, err = time.Parse(dateLayout, tallyAt)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
	}

	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	t := rollup.Tally{
		ID:         uuid.NewString(),
		SubjectID:  tallySubject,
		Source:     tallySource,
		RecordedAt: at,
		Positive:   pos,
		Negative:   neg,
	}
	if err := db.InsertTally(t); err != nil {
		return fmt.Errorf("inserting tally: %w", err)
	}

	fmt.Printf("Stored %s tally %s for subject %s\n", t.Source, t.ID, t.SubjectID)
	return nil
}

// parseTally converts word=count pairs into a tally map.
func parseTally(pairs []string) (map[string]int, error) {
	tally := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		word, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("tally %q is not in word=count form", pair)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("count for %s: %w", word, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("count for %s must not be negative", word)
		}
		tally[word] += n
	}
	return tally, nil
}
