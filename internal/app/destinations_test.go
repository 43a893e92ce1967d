package app_test

import (
	"context"
	"testing"
	"time"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func TestGetDestination_CacheMissThenHit(t *testing.T) {
	repo := newFakeDestRepo(domain.Destination{ID: "d1", Name: "Hôtel Test", PricePerNight: 120, Amenities: []string{"WiFi"}})
	cache := newFakeCache()
	s := app.NewDestinationService(repo, cache, 10*time.Minute)

	d, err := s.Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.Name != "Hôtel Test" || d.PricePerNight != 120 {
		t.Fatalf("unexpected destination: %+v", d)
	}
	if _, ok := cache.store["dest:d1"]; !ok {
		t.Fatalf("expected cache to be populated")
	}

	// mutate the returned value; cached copy must not change
	d.Amenities[0] = "changed"

	d2, err := s.Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("expected one repo read, got %d", repo.gets)
	}
	if d2.Amenities[0] != "WiFi" {
		t.Fatalf("cache aliasing: %+v", d2.Amenities)
	}
}

func TestGetDestination_NotFound(t *testing.T) {
	s := app.NewDestinationService(newFakeDestRepo(), newFakeCache(), time.Minute)
	if _, err := s.Get(context.Background(), "nope"); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFeatured_TopRated(t *testing.T) {
	repo := newFakeDestRepo(
		domain.Destination{ID: "a", Rating: 3.2},
		domain.Destination{ID: "b", Rating: 4.8},
		domain.Destination{ID: "c", Rating: 4.1},
	)
	s := app.NewDestinationService(repo, newFakeCache(), time.Minute)

	got, err := s.Featured(context.Background(), 2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("unexpected featured: %+v", got)
	}

	all, _ := s.List(context.Background())
	if len(all) != 3 {
		t.Fatalf("list len = %d", len(all))
	}
}

func TestImport_UpsertsAndEvicts(t *testing.T) {
	repo := newFakeDestRepo()
	cache := newFakeCache()
	s := app.NewDestinationService(repo, cache, time.Minute)
	_ = cache.Set(context.Background(), "dest:h1", domain.Destination{ID: "h1", Name: "old"}, 60)

	err := s.Import(context.Background(), []domain.Destination{{ID: "h1", Name: "new"}, {ID: "", Name: "no id"}})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.upserts != 1 || len(repo.rows) != 1 {
		t.Fatalf("unexpected upserts=%d rows=%d", repo.upserts, len(repo.rows))
	}
	if _, ok := cache.store["dest:h1"]; ok {
		t.Fatalf("stale cache entry survived import")
	}

	if err := s.Import(context.Background(), nil); err != nil || repo.upserts != 1 {
		t.Fatalf("empty import should be a no-op")
	}
}
