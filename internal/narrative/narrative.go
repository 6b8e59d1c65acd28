// Package narrative maps a positive/negative percentage pair onto a mood
// label, an icon, and a banded message.
//
// The label follows whichever side dominates; an exact tie (including the
// zero/zero case of an empty window) is Neutral. Message text comes from
// per-band pools; any member of the matched pool is a correct answer, and
// selection within a pool is uniform random.
package narrative

import "math/rand"

// Label is the cohort-level mood classification.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// PositiveBands holds the message pools for a positive-leaning cohort,
// keyed on the positive percentage.
type PositiveBands struct {
	LessThan30    []string `mapstructure:"less_than_30"`
	ThirtyToSixty []string `mapstructure:"thirty_to_sixty"`
	SixtyTo100    []string `mapstructure:"sixty_to_100"`
}

// NegativeBands holds the message pools for a negative-leaning cohort,
// keyed on the negative percentage.
type NegativeBands struct {
	LessThan30      []string `mapstructure:"less_than_30"`
	ThirtyToSeventy []string `mapstructure:"thirty_to_seventy"`
	SeventyTo90     []string `mapstructure:"seventy_to_90"`
	MoreThan90      []string `mapstructure:"more_than_90"`
}

// Assets is the injected classifier configuration: icon selectors and the
// message corpora. Callers load it from config rather than reading ambient
// globals.
type Assets struct {
	HappyIcon   string `mapstructure:"happy_icon"`
	SadIcon     string `mapstructure:"sad_icon"`
	NeutralIcon string `mapstructure:"neutral_icon"`

	Positive PositiveBands `mapstructure:"positive"`
	Negative NegativeBands `mapstructure:"negative"`
	Neutral  []string      `mapstructure:"neutral"`
}

// Classification is the narrative output for one percentage pair.
type Classification struct {
	Label   Label  `json:"label"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

// Classifier selects labels, icons, and messages from its assets.
type Classifier struct {
	assets Assets
	pick   func(n int) int
}

// NewClassifier builds a classifier around the given assets.
func NewClassifier(assets Assets) *Classifier {
	return &Classifier{assets: assets, pick: rand.Intn}
}

// Classify maps a percentage pair to a classification.
func (c *Classifier) Classify(positivePct, negativePct float64) Classification {
	switch {
	case positivePct > negativePct:
		return Classification{
			Label:   LabelPositive,
			Icon:    c.assets.HappyIcon,
			Message: c.pickFrom(c.positivePool(positivePct)),
		}
	case positivePct < negativePct:
		return Classification{
			Label:   LabelNegative,
			Icon:    c.assets.SadIcon,
			Message: c.pickFrom(c.negativePool(negativePct)),
		}
	default:
		return Classification{
			Label:   LabelNeutral,
			Icon:    c.assets.NeutralIcon,
			Message: c.pickFrom(c.assets.Neutral),
		}
	}
}

func (c *Classifier) positivePool(pct float64) []string {
	switch {
	case pct < 30:
		return c.assets.Positive.LessThan30
	case pct < 60:
		return c.assets.Positive.ThirtyToSixty
	default:
		return c.assets.Positive.SixtyTo100
	}
}

func (c *Classifier) negativePool(pct float64) []string {
	switch {
	case pct < 30:
		return c.assets.Negative.LessThan30
	case pct < 70:
		return c.assets.Negative.ThirtyToSeventy
	case pct < 90:
		return c.assets.Negative.SeventyTo90
	default:
		return c.assets.Negative.MoreThan90
	}
}

func (c *Classifier) pickFrom(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[c.pick(len(pool))]
}
