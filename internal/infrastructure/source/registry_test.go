package source

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/precivox/backend/internal/domain"
)

func validSource(id, marketID string, priority int) domain.Source {
	return domain.Source{
		ID:       id,
		Name:     id,
		MarketID: marketID,
		Kind:     domain.SourceKindJSON,
		Endpoint: "http://example.test/" + id,
		Enabled:  true,
		Priority: priority,
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
	}
}

func TestRegistryLoad(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	err := r.Load([]domain.Source{
		validSource("s1", "m1", 2),
		validSource("s2", "m1", 1),
		validSource("s3", "m2", 1),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := r.SourceCount(); got != 3 {
		t.Errorf("SourceCount() = %d, want 3", got)
	}
	if got := r.MarketCount(); got != 2 {
		t.Errorf("MarketCount() = %d, want 2", got)
	}
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	testCases := []struct {
		name   string
		mutate func(*domain.Source)
	}{
		{"missing id", func(s *domain.Source) { s.ID = "" }},
		{"missing market", func(s *domain.Source) { s.MarketID = "" }},
		{"missing endpoint", func(s *domain.Source) { s.Endpoint = "" }},
		{"zero timeout", func(s *domain.Source) { s.Timeout = 0 }},
		{"unknown kind", func(s *domain.Source) { s.Kind = "xml" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := validSource("s1", "m1", 1)
			tc.mutate(&src)
			err := r.UpsertSource(src)
			if !errors.Is(err, domain.ErrInvalidSource) {
				t.Errorf("UpsertSource() error = %v, want ErrInvalidSource", err)
			}
		})
	}
}

func TestRegistryDefaultsCacheTTL(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	src := validSource("s1", "m1", 1)
	src.CacheTTL = 0
	if err := r.UpsertSource(src); err != nil {
		t.Fatalf("UpsertSource() error = %v", err)
	}

	listed := r.ListSources("m1")
	if len(listed) != 1 {
		t.Fatalf("got %d sources, want 1", len(listed))
	}
	if listed[0].CacheTTL != defaultCacheTTL {
		t.Errorf("CacheTTL = %v, want default %v", listed[0].CacheTTL, defaultCacheTTL)
	}
}

func TestRegistryListSources(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	disabled := validSource("off", "m1", 0)
	disabled.Enabled = false

	if err := r.Load([]domain.Source{
		validSource("low", "m1", 5),
		validSource("high", "m1", 1),
		validSource("mid", "m1", 3),
		disabled,
	}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := r.ListSources("m1")
	if len(got) != 3 {
		t.Fatalf("got %d sources, want 3 enabled", len(got))
	}
	wantOrder := []string{"high", "mid", "low"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}

	if got := r.ListSources("unknown"); len(got) != 0 {
		t.Errorf("unknown market returned %d sources, want 0", len(got))
	}
}

func TestRegistryUpsertReplaces(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	if err := r.UpsertSource(validSource("s1", "m1", 1)); err != nil {
		t.Fatalf("UpsertSource() error = %v", err)
	}

	updated := validSource("s1", "m1", 9)
	if err := r.UpsertSource(updated); err != nil {
		t.Fatalf("UpsertSource() update error = %v", err)
	}

	got := r.ListSources("m1")
	if len(got) != 1 {
		t.Fatalf("got %d sources, want 1 after replace", len(got))
	}
	if got[0].Priority != 9 {
		t.Errorf("Priority = %d, want 9", got[0].Priority)
	}
}

func TestRegistryLastEnabledSourceGuard(t *testing.T) {
	t.Run("refuses disabling the only enabled source", func(t *testing.T) {
		r := NewRegistry(zerolog.Nop())
		if err := r.UpsertSource(validSource("s1", "m1", 1)); err != nil {
			t.Fatalf("UpsertSource() error = %v", err)
		}

		off := validSource("s1", "m1", 1)
		off.Enabled = false
		err := r.UpsertSource(off)
		if !errors.Is(err, domain.ErrLastEnabledSource) {
			t.Errorf("UpsertSource() error = %v, want ErrLastEnabledSource", err)
		}
		if got := r.ListSources("m1"); len(got) != 1 {
			t.Errorf("source disappeared: %d enabled, want 1", len(got))
		}
	})

	t.Run("allows disabling when another enabled source remains", func(t *testing.T) {
		r := NewRegistry(zerolog.Nop())
		if err := r.Load([]domain.Source{
			validSource("s1", "m1", 1),
			validSource("s2", "m1", 2),
		}); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		off := validSource("s1", "m1", 1)
		off.Enabled = false
		if err := r.UpsertSource(off); err != nil {
			t.Errorf("UpsertSource() error = %v, want nil", err)
		}
		if got := r.ListSources("m1"); len(got) != 1 || got[0].ID != "s2" {
			t.Errorf("ListSources = %+v, want only s2", got)
		}
	})

	t.Run("new disabled source is accepted", func(t *testing.T) {
		r := NewRegistry(zerolog.Nop())
		off := validSource("s1", "m1", 1)
		off.Enabled = false
		if err := r.UpsertSource(off); err != nil {
			t.Errorf("UpsertSource() error = %v, want nil for new disabled source", err)
		}
		if got := r.MarketCount(); got != 0 {
			t.Errorf("MarketCount() = %d, want 0 with no enabled sources", got)
		}
	})
}

func TestRegistryMarketsSorted(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	if err := r.Load([]domain.Source{
		validSource("s1", "zeta", 1),
		validSource("s2", "alpha", 1),
		validSource("s3", "medio", 1),
	}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := r.Markets()
	want := []string{"alpha", "medio", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Markets() = %v, want %v", got, want)
		}
	}
}

func TestRegistryListReturnsCopy(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	if err := r.UpsertSource(validSource("s1", "m1", 1)); err != nil {
		t.Fatalf("UpsertSource() error = %v", err)
	}

	got := r.ListSources("m1")
	got[0].Priority = 99

	again := r.ListSources("m1")
	if again[0].Priority == 99 {
		t.Error("mutating the listed slice leaked into registry state")
	}
}
