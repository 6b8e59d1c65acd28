// Package cohort resolves demographic filters into concrete subject-id sets.
package cohort

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMissingCohortScope is returned when a filter names neither a company
// nor an explicit subject list; an unscoped cohort would span every subject
// in the store.
var ErrMissingCohortScope = errors.New("cohort filter needs a company id or an explicit subject list")

// StatusActive is the account status a subject must hold to join a cohort.
const StatusActive = "active"

// Subject is a read-only view of a user's demographic attributes.
type Subject struct {
	ID            string
	CompanyID     string
	Department    string
	Country       string
	Ethnicity     string
	Gender        string
	DateOfBirth   time.Time
	AccountStatus string
}

// Filter describes the cohort to resolve. Equality fields match exactly as
// supplied; case folding is an ingestion concern, not a resolver one.
// MinAge/MaxAge are inclusive and only apply when both are positive.
// SubjectIDs, when present, intersects with (never replaces) the
// demographic result.
type Filter struct {
	CompanyID  string
	Department string
	Ethnicity  string
	Country    string
	Gender     string
	MinAge     int
	MaxAge     int
	SubjectIDs []string
}

// hasAgeRange reports whether both age bounds are supplied. One bound alone
// disables age filtering entirely.
func (f Filter) hasAgeRange() bool {
	return f.MinAge > 0 && f.MaxAge > 0
}

// Query is the store-level subject query derived from a Filter. Zero time
// bounds mean unbounded.
type Query struct {
	CompanyID  string
	Department string
	Ethnicity  string
	Country    string
	Gender     string
	BornAfter  time.Time
	BornBefore time.Time
}

// SubjectStore serves subjects from the two indexes the resolver unions:
// the direct user index and the org-membership index. The two can return
// the same logical subject through different record shapes, so callers must
// deduplicate by id.
type SubjectStore interface {
	FindSubjects(ctx context.Context, q Query) ([]Subject, error)
	FindMembers(ctx context.Context, q Query) ([]Subject, error)
}

// Resolver turns filters into subject-id sets.
type Resolver struct {
	store SubjectStore
	now   func() time.Time
}

// NewResolver builds a resolver over the given store.
func NewResolver(store SubjectStore) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve applies the filter and returns the deduplicated, sorted subject-id
// set. Only active subjects qualify.
func (r *Resolver) Resolve(ctx context.Context, f Filter) ([]string, error) {
	if f.CompanyID == "" && len(f.SubjectIDs) == 0 {
		return nil, ErrMissingCohortScope
	}

	q := Query{
		CompanyID:  f.CompanyID,
		Department: f.Department,
		Ethnicity:  f.Ethnicity,
		Country:    f.Country,
		Gender:     f.Gender,
	}
	if f.hasAgeRange() {
		q.BornAfter, q.BornBefore = birthRange(r.now(), f.MinAge, f.MaxAge)
	}

	direct, err := r.store.FindSubjects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying user index: %w", err)
	}
	members, err := r.store.FindMembers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying membership index: %w", err)
	}

	set := make(map[string]bool)
	for _, s := range append(direct, members...) {
		if s.ID == "" || s.AccountStatus != StatusActive {
			continue
		}
		set[s.ID] = true
	}

	if len(f.SubjectIDs) > 0 {
		set = intersect(set, f.SubjectIDs)
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// birthRange converts an inclusive age range into a date-of-birth interval.
// A subject aged exactly maxAge today was born no earlier than
// today-(maxAge+1) years (exclusive of that birthday, hence start of day),
// and one aged exactly minAge was born no later than today-minAge years
// (end of day).
func birthRange(today time.Time, minAge, maxAge int) (after, before time.Time) {
	y, m, d := today.AddDate(-(maxAge + 1), 0, 0).Date()
	after = time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	y, m, d = today.AddDate(-minAge, 0, 0).Date()
	before = time.Date(y, m, d, 23, 59, 59, 999_000_000, today.Location())
	return after, before
}

func intersect(set map[string]bool, allow []string) map[string]bool {
	out := make(map[string]bool, len(allow))
	for _, id := range allow {
		if set[id] {
			out[id] = true
		}
	}
	return out
}
