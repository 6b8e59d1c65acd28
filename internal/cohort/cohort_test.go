package cohort

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSubjectStore struct {
	direct  []Subject
	members []Subject

	lastQuery Query
	err       error
}

func (s *fakeSubjectStore) FindSubjects(_ context.Context, q Query) ([]Subject, error) {
	s.lastQuery = q
	return s.direct, s.err
}

func (s *fakeSubjectStore) FindMembers(_ context.Context, q Query) ([]Subject, error) {
	return s.members, s.err
}

func active(id string) Subject {
	return Subject{ID: id, CompanyID: "acme", AccountStatus: StatusActive}
}

func newTestResolver(store SubjectStore, today time.Time) *Resolver {
	r := NewResolver(store)
	r.now = func() time.Time { return today }
	return r
}

func TestResolve_MissingScope(t *testing.T) {
	r := NewResolver(&fakeSubjectStore{})

	_, err := r.Resolve(context.Background(), Filter{Department: "engineering"})
	if !errors.Is(err, ErrMissingCohortScope) {
		t.Fatalf("expected ErrMissingCohortScope, got %v", err)
	}
}

func TestResolve_DedupAcrossSources(t *testing.T) {
	store := &fakeSubjectStore{
		direct:  []Subject{active("u1"), active("u2")},
		members: []Subject{active("u2"), active("u3")},
	}
	r := NewResolver(store)

	ids, err := r.Resolve(context.Background(), Filter{CompanyID: "acme"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"u1", "u2", "u3"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], id)
		}
	}
}

func TestResolve_SkipsInactiveSubjects(t *testing.T) {
	store := &fakeSubjectStore{
		direct: []Subject{
			active("u1"),
			{ID: "u2", CompanyID: "acme", AccountStatus: "suspended"},
		},
	}
	r := NewResolver(store)

	ids, err := r.Resolve(context.Background(), Filter{CompanyID: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "u1" {
		t.Errorf("ids = %v, want [u1]", ids)
	}
}

func TestResolve_AllowListIntersects(t *testing.T) {
	store := &fakeSubjectStore{
		direct:  []Subject{active("u1"), active("u2")},
		members: []Subject{active("u3")},
	}
	r := NewResolver(store)

	ids, err := r.Resolve(context.Background(), Filter{
		CompanyID:  "acme",
		SubjectIDs: []string{"u2", "u3", "u9"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// u9 is outside the demographic result, so the allow-list cannot add it.
	want := []string{"u2", "u3"}
	if len(ids) != len(want) || ids[0] != "u2" || ids[1] != "u3" {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestResolve_AgeRangeBothBoundsRequired(t *testing.T) {
	store := &fakeSubjectStore{}
	r := newTestResolver(store, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	if _, err := r.Resolve(context.Background(), Filter{CompanyID: "acme", MinAge: 30}); err != nil {
		t.Fatal(err)
	}
	if !store.lastQuery.BornAfter.IsZero() || !store.lastQuery.BornBefore.IsZero() {
		t.Error("a single age bound must not enable age filtering")
	}
}

func TestResolve_AgeRangeBirthWindow(t *testing.T) {
	store := &fakeSubjectStore{}
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	r := newTestResolver(store, today)

	if _, err := r.Resolve(context.Background(), Filter{CompanyID: "acme", MinAge: 30, MaxAge: 40}); err != nil {
		t.Fatal(err)
	}

	wantAfter := time.Date(1985, 8, 29, 0, 0, 0, 0, time.UTC)
	if !store.lastQuery.BornAfter.Equal(wantAfter) {
		t.Errorf("born after = %v, want %v", store.lastQuery.BornAfter, wantAfter)
	}
	wantBefore := time.Date(1996, 8, 29, 23, 59, 59, 999_000_000, time.UTC)
	if !store.lastQuery.BornBefore.Equal(wantBefore) {
		t.Errorf("born before = %v, want %v", store.lastQuery.BornBefore, wantBefore)
	}
}

func TestResolve_EqualityFiltersPassedThrough(t *testing.T) {
	store := &fakeSubjectStore{}
	r := NewResolver(store)

	f := Filter{
		CompanyID:  "acme",
		Department: "engineering",
		Ethnicity:  "hispanic",
		Country:    "GB",
		Gender:     "female",
	}
	if _, err := r.Resolve(context.Background(), f); err != nil {
		t.Fatal(err)
	}

	q := store.lastQuery
	if q.CompanyID != "acme" || q.Department != "engineering" || q.Ethnicity != "hispanic" ||
		q.Country != "GB" || q.Gender != "female" {
		t.Errorf("query = %+v, filters not passed through verbatim", q)
	}
}

func TestResolve_StoreError(t *testing.T) {
	storeErr := errors.New("subjects unavailable")
	r := NewResolver(&fakeSubjectStore{err: storeErr})

	_, err := r.Resolve(context.Background(), Filter{CompanyID: "acme"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
