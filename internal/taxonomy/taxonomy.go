// Package taxonomy defines the mood record taxonomies and their
// positive/negative dimension partitions.
//
// Four static taxonomies ship built in (personal mood, professional mood,
// before-sleep, after-sleep). A fifth, Sentiment, has no fixed dimension
// set: its dimensions are whatever keys appear in the free-text tally maps
// being aggregated, and a Taxonomy for it is materialized per query with
// ForSentiment.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
)

// ID identifies a taxonomy.
type ID string

// Built-in taxonomy ids.
const (
	Mood             ID = "mood"
	ProfessionalMood ID = "professional_mood"
	BeforeSleep      ID = "before_sleep"
	AfterSleep       ID = "after_sleep"

	// Sentiment is the dynamic free-text taxonomy. It is not served by Get;
	// use ForSentiment with the observed tally keys instead.
	Sentiment ID = "sentiment"
)

// MaxScore is the highest valid dimension score on a mood record.
const MaxScore = 5

// ErrUnknownTaxonomy is returned when an id does not name a static taxonomy.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy")

// Taxonomy is an immutable dimension definition. Positive and Negative are
// disjoint subsets of Dimensions; together they need not cover every
// dimension (some dimensions carry no scoring weight).
type Taxonomy struct {
	ID         ID
	Dimensions []string
	Positive   []string
	Negative   []string
}

// HasDimension reports whether name is one of the taxonomy's dimensions.
func (t Taxonomy) HasDimension(name string) bool {
	for _, d := range t.Dimensions {
		if d == name {
			return true
		}
	}
	return false
}

var registry = map[ID]Taxonomy{
	Mood: {
		ID: Mood,
		Dimensions: []string{
			"happy", "motivated", "content", "calm", "energised", "relaxed",
			"sad", "demotivated", "anxious", "angry", "stressed", "tired",
			"reflective",
		},
		Positive: []string{"happy", "motivated", "content", "calm", "energised", "relaxed"},
		Negative: []string{"sad", "demotivated", "anxious", "angry", "stressed", "tired"},
	},
	ProfessionalMood: {
		ID: ProfessionalMood,
		Dimensions: []string{
			"productive", "focused", "valued", "supported", "inspired",
			"overwhelmed", "distracted", "undervalued", "isolated", "drained",
		},
		Positive: []string{"productive", "focused", "valued", "supported", "inspired"},
		Negative: []string{"overwhelmed", "distracted", "undervalued", "isolated", "drained"},
	},
	BeforeSleep: {
		ID: BeforeSleep,
		Dimensions: []string{
			"calm", "settled", "sleepy",
			"anxious", "restless", "wide_awake",
			"dreamy",
		},
		Positive: []string{"calm", "settled", "sleepy"},
		Negative: []string{"anxious", "restless", "wide_awake"},
	},
	AfterSleep: {
		ID: AfterSleep,
		Dimensions: []string{
			"rested", "refreshed", "energised",
			"groggy", "tired", "irritable",
		},
		Positive: []string{"rested", "refreshed", "energised"},
		Negative: []string{"groggy", "tired", "irritable"},
	},
}

// Get returns the static taxonomy for id.
func Get(id ID) (Taxonomy, error) {
	t, ok := registry[id]
	if !ok {
		return Taxonomy{}, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, id)
	}
	return t, nil
}

// PositiveDimensions returns the positive partition of the static taxonomy id.
func PositiveDimensions(id ID) ([]string, error) {
	t, err := Get(id)
	if err != nil {
		return nil, err
	}
	return t.Positive, nil
}

// NegativeDimensions returns the negative partition of the static taxonomy id.
func NegativeDimensions(id ID) ([]string, error) {
	t, err := Get(id)
	if err != nil {
		return nil, err
	}
	return t.Negative, nil
}

// StaticIDs returns the built-in taxonomy ids in a stable order.
func StaticIDs() []ID {
	ids := make([]ID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ForSentiment materializes the dynamic sentiment taxonomy from the keys
// observed in positive and negative tally maps. Keys are deduplicated and
// sorted so repeated queries over the same data produce identical taxonomies.
// A key appearing on both sides is kept in the positive partition only.
func ForSentiment(positiveKeys, negativeKeys []string) Taxonomy {
	pos := dedupeSorted(positiveKeys)
	seen := make(map[string]bool, len(pos))
	for _, k := range pos {
		seen[k] = true
	}

	var neg []string
	for _, k := range dedupeSorted(negativeKeys) {
		if !seen[k] {
			neg = append(neg, k)
		}
	}

	dims := make([]string, 0, len(pos)+len(neg))
	dims = append(dims, pos...)
	dims = append(dims, neg...)

	return Taxonomy{
		ID:         Sentiment,
		Dimensions: dims,
		Positive:   pos,
		Negative:   neg,
	}
}

func dedupeSorted(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
