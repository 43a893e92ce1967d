package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

// IngestionService prefetches live offers for a city and stores them as
// destinations, so the browse page has content without a live call.
type IngestionService struct {
	api   domain.HotelAPI
	norm  *Normalizer
	dests *DestinationService
	now   func() time.Time
}

func NewIngestionService(api domain.HotelAPI, n *Normalizer, d *DestinationService) *IngestionService {
	return &IngestionService{api: api, norm: n, dests: d, now: time.Now}
}

func (s *IngestionService) SetClock(now func() time.Time) { s.now = now }

// IngestCity stores offers for a stay from tomorrow. A city the API knows
// nothing about is not an error; it returns 0.
func (s *IngestionService) IngestCity(ctx context.Context, code string, nights int) (int, error) {
	in, out := TomorrowStay(s.now(), nights)
	offers, err := s.api.SearchHotels(ctx, domain.SearchParams{
		CityCode: code, CheckInDate: in, CheckOutDate: out, Adults: 1,
	})
	if errors.Is(err, domain.ErrNotFound) {
		log.Info().Str("city", code).Msg("no offers for city")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ingest %s: %w", code, err)
	}

	ds := s.norm.NormalizeAll(offers)
	if err := s.dests.Import(ctx, ds); err != nil {
		return 0, err
	}
	return len(ds), nil
}
