package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
	"github.com/coder-alair/shoorah-insights/internal/config"
	"github.com/coder-alair/shoorah-insights/internal/output"
	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/store"
)

// dateLayout is the CLI input format for dates.
const dateLayout = "2006-01-02"

// setup loads config, applies color preferences, and opens the store.
// The caller owns closing the returned DB.
func setup() (*config.Config, *store.DB, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	} else {
		output.AutoColor()
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return cfg, db, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cohortFlags holds the shared cohort filter flags.
type cohortFlags struct {
	company    string
	department string
	ethnicity  string
	country    string
	gender     string
	minAge     int
	maxAge     int
	subjects   []string
}

func (f *cohortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.company, "company", "", "Company id scoping the cohort")
	cmd.Flags().StringVar(&f.department, "department", "", "Filter by department")
	cmd.Flags().StringVar(&f.ethnicity, "ethnicity", "", "Filter by ethnicity")
	cmd.Flags().StringVar(&f.country, "country", "", "Filter by country")
	cmd.Flags().StringVar(&f.gender, "gender", "", "Filter by gender")
	cmd.Flags().IntVar(&f.minAge, "min-age", 0, "Minimum age (requires --max-age)")
	cmd.Flags().IntVar(&f.maxAge, "max-age", 0, "Maximum age (requires --min-age)")
	cmd.Flags().StringSliceVar(&f.subjects, "subject", nil, "Explicit subject id (repeatable; intersects with other filters)")
}

func (f *cohortFlags) filter() cohort.Filter {
	return cohort.Filter{
		CompanyID:  f.company,
		Department: f.department,
		Ethnicity:  f.ethnicity,
		Country:    f.country,
		Gender:     f.gender,
		MinAge:     f.minAge,
		MaxAge:     f.maxAge,
		SubjectIDs: f.subjects,
	}
}

// windowFlags holds the shared reporting window flags.
type windowFlags struct {
	from string
	to   string
	days int
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Window end date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&f.days, "days", 7, "Window length in days when --from is not given")
}

// window resolves the flags into a reporting window. --from wins over
// --days; --to defaults to today.
func (f *windowFlags) window() (rollup.Window, error) {
	now := time.Now().UTC()

	if f.from == "" {
		return rollup.LastNDays(now, f.days), nil
	}

	start, err := time.Parse(dateLayout, f.from)
	if err != nil {
		return rollup.Window{}, fmt.Errorf("parsing --from: %w", err)
	}
	end := now
	if f.to != "" {
		end, err = time.Parse(dateLayout, f.to)
		if err != nil {
			return rollup.Window{}, fmt.Errorf("parsing --to: %w", err)
		}
	}
	if end.Before(start) {
		return rollup.Window{}, fmt.Errorf("--to %s precedes --from %s", f.to, f.from)
	}
	return rollup.NewWindow(start, end), nil
}
