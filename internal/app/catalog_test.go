package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty/internal/domain"
	"realty/internal/seed"
)

const slotKey = "properties"

func newLoaded(t *testing.T, s *memSlot) *Catalog {
	t.Helper()
	c := NewCatalog(s, slotKey, seed.Properties)
	c.Load(context.Background())
	return c
}

func empty() []domain.Property { return nil }

func TestCatalog_LoadSeedsDefaultsWhenSlotEmpty(t *testing.T) {
	c := newLoaded(t, newMemSlot())
	if c.Len() != 6 {
		t.Fatalf("want 6 defaults, got %d", c.Len())
	}
	p, ok := c.Get(5)
	if !ok || p.Title != "Townhouse" || p.Bathrooms != 2.5 {
		t.Fatalf("unexpected #5: %+v", p)
	}
}

func TestCatalog_AddAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()

	c := NewCatalog(newMemSlot(), slotKey, empty)
	c.Load(ctx)
	got, err := c.Add(ctx, domain.Property{Title: "first"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("empty catalog should assign 1, got %d", got.ID)
	}

	c = NewCatalog(newMemSlot(), slotKey, func() []domain.Property {
		return []domain.Property{{ID: 1}, {ID: 7}, {ID: 3}}
	})
	c.Load(ctx)
	got, _ = c.Add(ctx, domain.Property{Title: "next", ID: 99})
	if got.ID != 8 {
		t.Fatalf("want 8, got %d", got.ID)
	}
}

func TestCatalog_AddStampsCreatedAt(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newLoaded(t, newMemSlot()).WithClock(func() time.Time { return at })
	got, _ := c.Add(context.Background(), domain.Property{Title: "x"})
	if got.CreatedAt == nil || !got.CreatedAt.Equal(at) {
		t.Fatalf("created at: %v", got.CreatedAt)
	}
}

func TestCatalog_LookupNormalizesID(t *testing.T) {
	c := newLoaded(t, newMemSlot())
	a, okA := c.Lookup(5)
	b, okB := c.Lookup("5")
	f, okF := c.Lookup(5.0)
	if !okA || !okB || !okF || a.ID != b.ID || b.ID != f.ID {
		t.Fatalf("lookup mismatch: %v %v %v", a.ID, b.ID, f.ID)
	}
	if _, ok := c.Lookup("five"); ok {
		t.Fatalf("non-numeric id should not resolve")
	}
}

func TestCatalog_DeleteUnknownIsNoop(t *testing.T) {
	s := newMemSlot()
	c := newLoaded(t, s)
	ok, err := c.Delete(context.Background(), 42)
	if err != nil || ok {
		t.Fatalf("delete unknown: ok=%v err=%v", ok, err)
	}
	if c.Len() != 6 || s.putHits != 0 {
		t.Fatalf("nothing should change: len=%d puts=%d", c.Len(), s.putHits)
	}
}

func TestCatalog_UpdateUnmatched(t *testing.T) {
	s := newMemSlot()
	c := newLoaded(t, s)
	_, matched, err := c.Update(context.Background(), domain.Property{ID: 77, Title: "ghost"})
	if err != nil || matched {
		t.Fatalf("matched=%v err=%v", matched, err)
	}
	if s.putHits != 0 {
		t.Fatalf("unmatched update must not write")
	}
}

func TestCatalog_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, newMemSlot())
	added, _ := c.Add(ctx, domain.Property{Title: "a"})

	upd, matched, err := c.Update(ctx, domain.Property{ID: added.ID, Title: "b"})
	if err != nil || !matched {
		t.Fatalf("update: matched=%v err=%v", matched, err)
	}
	if upd.Title != "b" || upd.CreatedAt == nil || !upd.CreatedAt.Equal(*added.CreatedAt) {
		t.Fatalf("updated: %+v", upd)
	}
}

func TestCatalog_RestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newMemSlot()
	c := newLoaded(t, s)
	added, err := c.Add(ctx, domain.Property{
		Title: "Lake House", Price: 710000, Bathrooms: 2.5,
		ListingAgent: &domain.Agent{Name: "Jo"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	restarted := NewCatalog(s, slotKey, empty)
	restarted.Load(ctx)
	got, ok := restarted.Get(added.ID)
	if !ok {
		t.Fatalf("record %d lost on restart", added.ID)
	}
	if got.Title != added.Title || got.Price != added.Price || got.ListingAgent.Name != "Jo" ||
		!got.CreatedAt.Equal(*added.CreatedAt) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, added)
	}
	if restarted.Len() != 7 {
		t.Fatalf("want 7 after restart, got %d", restarted.Len())
	}
}

func TestCatalog_LoadLegacyArray(t *testing.T) {
	s := newMemSlot()
	s.m[slotKey] = []byte(`[{"id":"3","title":"old","status":"For Sale"}]`)
	c := newLoaded(t, s)
	if c.Len() != 1 {
		t.Fatalf("want 1 legacy record, got %d", c.Len())
	}
	if p, ok := c.Get(3); !ok || p.Title != "old" {
		t.Fatalf("legacy id not normalized: %+v", p)
	}
}

func TestCatalog_LoadCollapsesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"legacy":    `[{"id":5,"title":"a"},{"id":"5","title":"b"}]`,
		"versioned": `{"version":1,"properties":[{"id":5,"title":"a"},{"id":"5","title":"b"},{"id":6,"title":"c"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newMemSlot()
			s.m[slotKey] = []byte(raw)
			c := newLoaded(t, s)
			if p, ok := c.Get(5); !ok || p.Title != "a" {
				t.Fatalf("first record should win: %+v", p)
			}
			if n := len(c.Filter(Criteria{Search: "b"})); n != 0 {
				t.Fatalf("duplicate survived load")
			}

			deleted, err := c.Delete(ctx, 5)
			if err != nil || !deleted {
				t.Fatalf("delete: deleted=%v err=%v", deleted, err)
			}
			if p, ok := c.Get(5); ok {
				t.Fatalf("id 5 still resolves after delete: %+v", p)
			}
		})
	}
}

func TestCatalog_LoadFallsBackToDefaults(t *testing.T) {
	cases := map[string]func(*memSlot){
		"unknown version": func(s *memSlot) { s.m[slotKey] = []byte(`{"version":9,"properties":[]}`) },
		"malformed":       func(s *memSlot) { s.m[slotKey] = []byte(`{nope`) },
		"read error":      func(s *memSlot) { s.getErr = errDisk },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			s := newMemSlot()
			setup(s)
			if c := newLoaded(t, s); c.Len() != 6 {
				t.Fatalf("want defaults, got %d records", c.Len())
			}
		})
	}
}

func TestCatalog_EmptySnapshotIsNotDefaults(t *testing.T) {
	s := newMemSlot()
	s.m[slotKey] = []byte(`{"version":1,"properties":[]}`)
	if c := newLoaded(t, s); c.Len() != 0 {
		t.Fatalf("an emptied catalog must stay empty, got %d", c.Len())
	}
}

func TestCatalog_WriteFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newMemSlot()
	c := newLoaded(t, s)
	var notified int
	c.Subscribe(func(domain.CatalogChange) { notified++ })

	s.putErr = errDisk
	if _, err := c.Add(ctx, domain.Property{Title: "x"}); !errors.Is(err, errDisk) {
		t.Fatalf("want disk error, got %v", err)
	}
	if _, err := c.Delete(ctx, 1); !errors.Is(err, errDisk) {
		t.Fatalf("want disk error, got %v", err)
	}
	if c.Len() != 6 || notified != 0 {
		t.Fatalf("len=%d notified=%d", c.Len(), notified)
	}
	if _, ok := c.Get(1); !ok {
		t.Fatalf("failed delete removed the record")
	}
}

func TestCatalog_SubscribersSeeFullSet(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, newMemSlot())

	var got []domain.CatalogChange
	unsubscribe := c.Subscribe(func(ch domain.CatalogChange) { got = append(got, ch) })

	added, _ := c.Add(ctx, domain.Property{Title: "x"})
	_, _ = c.Delete(ctx, 2)
	unsubscribe()
	_, _ = c.Delete(ctx, 3)

	if len(got) != 2 {
		t.Fatalf("want 2 notifications, got %d", len(got))
	}
	if got[0].Op != domain.OpAdd || got[0].ID != added.ID || len(got[0].Properties) != 7 {
		t.Fatalf("add change: %+v", got[0])
	}
	if got[1].Op != domain.OpDelete || len(got[1].Properties) != 6 {
		t.Fatalf("delete change: %+v", got[1])
	}

	// the delivered set is a copy
	got[1].Properties[0].Title = "mutated"
	if p, _ := c.Get(got[1].Properties[0].ID); p.Title == "mutated" {
		t.Fatalf("subscriber mutated catalog state")
	}
}

func TestCatalog_SubscribersRunInRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, newMemSlot())

	var order []int
	unsubscribe := make([]func(), 0, 3)
	for i := 1; i <= 3; i++ {
		i := i
		unsubscribe = append(unsubscribe, c.Subscribe(func(domain.CatalogChange) { order = append(order, i) }))
	}
	for round := 0; round < 5; round++ {
		order = nil
		_, _ = c.Add(ctx, domain.Property{Title: "x"})
		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Fatalf("round %d: want [1 2 3], got %v", round, order)
		}
	}

	unsubscribe[1]()
	order = nil
	_, _ = c.Add(ctx, domain.Property{Title: "y"})
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("after unsubscribe want [1 3], got %v", order)
	}
}

func TestCatalog_PatchSeesCurrentRecord(t *testing.T) {
	ctx := context.Background()
	s := newMemSlot()
	c := newLoaded(t, s)
	added, _ := c.Add(ctx, domain.Property{Title: "a", MLSNumber: "MLS-1", DaysOnMarket: 4})
	hits := s.putHits

	got, matched, err := c.Patch(ctx, added.ID, func(cur domain.Property) domain.Property {
		return domain.Property{ID: 999, Title: "b", MLSNumber: cur.MLSNumber, DaysOnMarket: cur.DaysOnMarket + 1}
	})
	if err != nil || !matched {
		t.Fatalf("patch: matched=%v err=%v", matched, err)
	}
	if got.ID != added.ID || got.Title != "b" || got.MLSNumber != "MLS-1" || got.DaysOnMarket != 5 {
		t.Fatalf("patched: %+v", got)
	}
	if got.CreatedAt == nil || !got.CreatedAt.Equal(*added.CreatedAt) {
		t.Fatalf("created at not kept: %v", got.CreatedAt)
	}
	if s.putHits != hits+1 {
		t.Fatalf("want one write, got %d", s.putHits-hits)
	}

	called := false
	_, matched, err = c.Patch(ctx, 404, func(cur domain.Property) domain.Property {
		called = true
		return cur
	})
	if err != nil || matched || called {
		t.Fatalf("unknown id: matched=%v called=%v err=%v", matched, called, err)
	}
	if s.putHits != hits+1 {
		t.Fatalf("unmatched patch must not write")
	}
}

func TestCatalog_FilterHonorsLimit(t *testing.T) {
	c := newLoaded(t, newMemSlot())
	ids := func(ps []domain.Property) []domain.ID {
		out := make([]domain.ID, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	if got := ids(c.Filter(Criteria{Limit: 2})); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("limit 2: %v", got)
	}
	if got := c.Filter(Criteria{}); len(got) != 6 {
		t.Fatalf("zero limit returns all, got %d", len(got))
	}
	if got := ids(c.Filter(Criteria{FeaturedOnly: true, Limit: 2})); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("featured limit 2: %v", got)
	}
	if got := c.Filter(Criteria{Limit: 50}); len(got) != 6 {
		t.Fatalf("limit above size returns all, got %d", len(got))
	}
}

func TestCatalog_FilterRentWithBedrooms(t *testing.T) {
	c := newLoaded(t, newMemSlot())
	two := 2.0
	got := c.Filter(Criteria{Status: domain.StatusForRent, MinBedrooms: &two})
	if len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("want [5], got %+v", got)
	}

	// Rental displays as For Rent, so it matches too
	_, _ = c.Add(context.Background(), domain.Property{Title: "flat", Status: domain.StatusRental, Bedrooms: 3})
	got = c.Filter(Criteria{Status: domain.StatusForRent, MinBedrooms: &two})
	if len(got) != 2 {
		t.Fatalf("want 2 rentals, got %d", len(got))
	}
}

func TestCriteria_Match(t *testing.T) {
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := domain.Property{
		Title: "Cozy Bungalow", Address: "12 Elm St", Price: 275000,
		Bedrooms: 2, Bathrooms: 1, Area: 1200, PropertyType: "House",
		Status: domain.StatusActive, CreatedAt: &created,
	}
	f := func(v float64) *float64 { return &v }
	before := created.Add(-time.Hour)
	after := created.Add(time.Hour)

	tests := []struct {
		name string
		cr   Criteria
		want bool
	}{
		{"zero criteria", Criteria{}, true},
		{"status display", Criteria{Status: domain.StatusForSale}, true},
		{"status rent", Criteria{Status: domain.StatusForRent}, false},
		{"featured only", Criteria{FeaturedOnly: true}, false},
		{"price range", Criteria{MinPrice: f(200000), MaxPrice: f(300000)}, true},
		{"price too low", Criteria{MinPrice: f(300000)}, false},
		{"bathrooms", Criteria{MinBathrooms: f(1.5)}, false},
		{"area", Criteria{MinArea: f(1000), MaxArea: f(1500)}, true},
		{"price at min", Criteria{MinPrice: f(275000)}, true},
		{"price at max", Criteria{MaxPrice: f(275000)}, true},
		{"price just under max", Criteria{MaxPrice: f(274999.99)}, false},
		{"area at min", Criteria{MinArea: f(1200)}, true},
		{"area at max", Criteria{MaxArea: f(1200)}, true},
		{"area over max", Criteria{MaxArea: f(1199)}, false},
		{"type exact", Criteria{PropertyType: "House"}, true},
		{"type case differs", Criteria{PropertyType: "house"}, false},
		{"search title", Criteria{Search: "bungalow"}, true},
		{"search address", Criteria{Search: "elm"}, true},
		{"search miss", Criteria{Search: "villa"}, false},
		{"listed since before", Criteria{ListedSince: &before}, true},
		{"listed since after", Criteria{ListedSince: &after}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cr.Match(p); got != tc.want {
				t.Fatalf("Match = %v, want %v", got, tc.want)
			}
		})
	}

	noDate := p
	noDate.CreatedAt = nil
	if (Criteria{ListedSince: &before}).Match(noDate) {
		t.Fatalf("records without createdAt never match ListedSince")
	}
}
