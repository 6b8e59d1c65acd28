package taxonomy

import (
	"errors"
	"testing"
)

func TestGet_KnownIDs(t *testing.T) {
	for _, id := range StaticIDs() {
		tax, err := Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if tax.ID != id {
			t.Errorf("Get(%s) returned taxonomy with id %s", id, tax.ID)
		}
		if len(tax.Positive) == 0 || len(tax.Negative) == 0 {
			t.Errorf("taxonomy %s has an empty partition", id)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("weekly_mood")
	if !errors.Is(err, ErrUnknownTaxonomy) {
		t.Fatalf("expected ErrUnknownTaxonomy, got %v", err)
	}
}

func TestGet_SentimentIsNotStatic(t *testing.T) {
	_, err := Get(Sentiment)
	if !errors.Is(err, ErrUnknownTaxonomy) {
		t.Fatalf("expected ErrUnknownTaxonomy for sentiment, got %v", err)
	}
}

func TestPartitionsAreDisjointSubsets(t *testing.T) {
	for _, id := range StaticIDs() {
		tax, _ := Get(id)

		inPositive := make(map[string]bool)
		for _, d := range tax.Positive {
			if !tax.HasDimension(d) {
				t.Errorf("%s: positive dimension %q not in dimension list", id, d)
			}
			inPositive[d] = true
		}
		for _, d := range tax.Negative {
			if !tax.HasDimension(d) {
				t.Errorf("%s: negative dimension %q not in dimension list", id, d)
			}
			if inPositive[d] {
				t.Errorf("%s: dimension %q appears in both partitions", id, d)
			}
		}
	}
}

func TestPartitionAccessors(t *testing.T) {
	pos, err := PositiveDimensions(Mood)
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 6 {
		t.Errorf("expected 6 positive mood dimensions, got %d", len(pos))
	}

	neg, err := NegativeDimensions(AfterSleep)
	if err != nil {
		t.Fatal(err)
	}
	if len(neg) != 3 {
		t.Errorf("expected 3 negative after_sleep dimensions, got %d", len(neg))
	}

	if _, err := PositiveDimensions("nope"); !errors.Is(err, ErrUnknownTaxonomy) {
		t.Errorf("expected ErrUnknownTaxonomy, got %v", err)
	}
}

func TestForSentiment(t *testing.T) {
	tax := ForSentiment(
		[]string{"grateful", "hopeful", "grateful", ""},
		[]string{"lonely", "hopeful", "afraid"},
	)

	if tax.ID != Sentiment {
		t.Errorf("expected sentiment id, got %s", tax.ID)
	}

	wantPos := []string{"grateful", "hopeful"}
	if len(tax.Positive) != len(wantPos) {
		t.Fatalf("positive = %v, want %v", tax.Positive, wantPos)
	}
	for i, d := range wantPos {
		if tax.Positive[i] != d {
			t.Errorf("positive[%d] = %q, want %q", i, tax.Positive[i], d)
		}
	}

	// "hopeful" was claimed by the positive side; only the rest remain negative.
	wantNeg := []string{"afraid", "lonely"}
	if len(tax.Negative) != len(wantNeg) {
		t.Fatalf("negative = %v, want %v", tax.Negative, wantNeg)
	}
	for i, d := range wantNeg {
		if tax.Negative[i] != d {
			t.Errorf("negative[%d] = %q, want %q", i, tax.Negative[i], d)
		}
	}

	if len(tax.Dimensions) != 4 {
		t.Errorf("expected 4 dimensions, got %d", len(tax.Dimensions))
	}
}

func TestForSentiment_Empty(t *testing.T) {
	tax := ForSentiment(nil, nil)
	if len(tax.Dimensions) != 0 {
		t.Errorf("expected no dimensions, got %v", tax.Dimensions)
	}
}
