package app

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/domain"
)

type DestinationService struct {
	repo     domain.DestinationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDestinationService(r domain.DestinationRepository, c domain.Cache, ttl time.Duration) *DestinationService {
	return &DestinationService{repo: r, cache: c, cacheTTL: ttl}
}

func destinationKey(id string) string { return "dest:" + id }

func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	return s.repo.ListDestinations(ctx, 0)
}

func (s *DestinationService) Featured(ctx context.Context, n int) ([]domain.Destination, error) {
	if n <= 0 {
		n = 6
	}
	return s.repo.ListDestinations(ctx, n)
}

func (s *DestinationService) Get(ctx context.Context, id string) (domain.Destination, error) {
	key := destinationKey(id)
	var d domain.Destination
	if ok, _ := s.cache.Get(ctx, key, &d); ok {
		return d, nil
	}
	d, err := s.repo.GetDestination(ctx, id)
	if err != nil {
		return domain.Destination{}, err
	}
	_ = s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds()))
	return d, nil
}

// Import upserts normalized destinations and drops their cached copies.
func (s *DestinationService) Import(ctx context.Context, ds []domain.Destination) error {
	valid := ds[:0:0]
	for _, d := range ds {
		if d.ID == "" {
			continue
		}
		valid = append(valid, d)
	}
	if len(valid) == 0 {
		return nil
	}
	if err := s.repo.UpsertDestinations(ctx, valid); err != nil {
		return fmt.Errorf("import %d destinations: %w", len(valid), err)
	}
	for _, d := range valid {
		_ = s.cache.Del(ctx, destinationKey(d.ID))
	}
	return nil
}
