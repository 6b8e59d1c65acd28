// Package config provides configuration loading and defaults for
// shoorah-insights.
package config

import "github.com/coder-alair/shoorah-insights/internal/narrative"

// DefaultConfigDir is the default location for shoorah-insights configuration.
const DefaultConfigDir = "~/.config/shoorah-insights"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "insights.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultPrecision is the decimal precision for report percentages.
const DefaultPrecision = 2

// DefaultNarrative holds the shipped icons and message corpora. Any member
// of a band's pool is an equally valid message; selection is random.
var DefaultNarrative = narrative.Assets{
	HappyIcon:   "assets/icons/mood-happy.png",
	SadIcon:     "assets/icons/mood-sad.png",
	NeutralIcon: "assets/icons/mood-neutral.png",

	Positive: narrative.PositiveBands{
		LessThan30: []string{
			"Spirits are leaning positive, though only just. Keep an eye on the quieter voices.",
			"A slim positive lead this period. Small wellbeing nudges could widen it.",
		},
		ThirtyToSixty: []string{
			"A solidly positive period. Most of the team are reporting good days.",
			"Mood is tracking positive across the group. Keep the current rhythm going.",
			"More good days than hard ones this period. A steady, encouraging picture.",
		},
		SixtyTo100: []string{
			"An outstanding stretch. Positivity is running high right across the group.",
			"The group is thriving. Celebrate it, and note what made this period work.",
			"Overwhelmingly positive scores this period. Whatever you are doing, it is working.",
		},
	},

	Negative: narrative.NegativeBands{
		LessThan30: []string{
			"A mild negative lean this period. Worth a light-touch check-in.",
			"Slightly more hard days than good ones. Nothing alarming yet, but watch the trend.",
		},
		ThirtyToSeventy: []string{
			"Mood is tilting noticeably negative. Consider opening up space to talk.",
			"A difficult period for a fair share of the group. Support resources may help.",
			"Negative scores are outweighing positive ones. Time to look for pressure points.",
		},
		SeventyTo90: []string{
			"Most of the group reported a hard period. Proactive support is advisable.",
			"A heavy stretch. Reach out directly rather than waiting for people to come to you.",
		},
		MoreThan90: []string{
			"Scores are almost uniformly negative. Treat this as an urgent wellbeing signal.",
			"A critical period. Immediate, visible support will matter more than any report.",
		},
	},

	Neutral: []string{
		"An evenly balanced period, with positive and negative days in equal measure.",
	},
}
