package filter

import (
	"testing"
	"time"
)

func TestNew_RejectsNegativeMinScore(t *testing.T) {
	if _, err := New(nil, nil, nil, -0.1); err == nil {
		t.Error("negative min_score must be rejected")
	}
}

func TestNew_RejectsInvertedDateRange(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := New(nil, &from, &to, 0); err == nil {
		t.Error("date_from after date_to must be rejected")
	}
}

func TestNew_DropsEmptyEntityTypes(t *testing.T) {
	f, err := New([]string{"employee", "", "department"}, nil, nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(f.EntityTypes()) != 2 {
		t.Errorf("entity types = %v, want 2 entries", f.EntityTypes())
	}
}

func TestZeroFilterPassesEverything(t *testing.T) {
	var f Filter
	if !f.IsEmpty() {
		t.Error("zero filter must be empty")
	}
	if !f.AllowsEntity("anything") {
		t.Error("zero filter must allow all entities")
	}
	if !f.AllowsDate(time.Now()) {
		t.Error("zero filter must allow all dates")
	}
}

func TestAllowsEntity(t *testing.T) {
	f, err := New([]string{"employee", "department"}, nil, nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.AllowsEntity("employee") {
		t.Error("listed type must pass")
	}
	if f.AllowsEntity("policy_document") {
		t.Error("unlisted type must not pass")
	}
}

func TestAllowsDate(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	f, err := New(nil, &from, &to, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"inside range", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"before range", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"after range", time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"on lower bound", from, true},
		{"on upper bound", to, true},
		{"zero time passes", time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.AllowsDate(tc.ts); got != tc.want {
				t.Errorf("AllowsDate(%v) = %v, want %v", tc.ts, got, tc.want)
			}
		})
	}
}

func TestCanonical_OrderIndependent(t *testing.T) {
	a, err := New([]string{"employee", "department"}, nil, nil, 0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New([]string{"department", "employee"}, nil, nil, 0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Canonical() != b.Canonical() {
		t.Errorf("canonical forms differ: %q vs %q", a.Canonical(), b.Canonical())
	}
}

func TestCanonical_DistinguishesFilters(t *testing.T) {
	a, _ := New([]string{"employee"}, nil, nil, 0)
	b, _ := New([]string{"employee"}, nil, nil, 0.3)
	if a.Canonical() == b.Canonical() {
		t.Error("different min_score must produce different canonical forms")
	}
}
