package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app"
	"staybook/internal/domain"
)

func TestIngestCity_StoresNormalizedOffers(t *testing.T) {
	api := &fakeAPI{SearchFn: func(_ context.Context, p domain.SearchParams) ([]domain.HotelOffer, error) {
		return []domain.HotelOffer{
			offerFor("H1", "One", p.CityCode, "99"),
			offerFor("H2", "Two", p.CityCode, "199"),
		}, nil
	}}
	repo := newFakeDestRepo()
	ing := app.NewIngestionService(api, app.NewNormalizer(fixedRand(0)), app.NewDestinationService(repo, newFakeCache(), time.Minute))
	ing.SetClock(fixedNow)

	n, err := ing.IngestCity(context.Background(), "BCN", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 99.0, repo.rows["H1"].PricePerNight)
	assert.Equal(t, domain.SearchParams{CityCode: "BCN", CheckInDate: "2025-06-11", CheckOutDate: "2025-06-13", Adults: 1}, api.searches[0])
}

func TestIngestCity_NotFoundIsSkipped(t *testing.T) {
	api := &fakeAPI{SearchFn: func(context.Context, domain.SearchParams) ([]domain.HotelOffer, error) {
		return nil, fmt.Errorf("provider: %w", domain.ErrNotFound)
	}}
	ing := app.NewIngestionService(api, app.NewNormalizer(nil), app.NewDestinationService(newFakeDestRepo(), newFakeCache(), time.Minute))

	n, err := ing.IngestCity(context.Background(), "SYD", 1)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestCity_OtherErrorsSurface(t *testing.T) {
	boom := errors.New("503")
	api := &fakeAPI{SearchFn: func(context.Context, domain.SearchParams) ([]domain.HotelOffer, error) { return nil, boom }}
	ing := app.NewIngestionService(api, app.NewNormalizer(nil), app.NewDestinationService(newFakeDestRepo(), newFakeCache(), time.Minute))

	_, err := ing.IngestCity(context.Background(), "SYD", 1)
	assert.ErrorIs(t, err, boom)
}
