package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
	"staybook/internal/resolver"
)

const dateLayout = "2006-01-02"

type Resolution struct {
	Query    string             `json:"query"`
	Code     string             `json:"code"`
	City     *domain.CityRecord `json:"city,omitempty"`
	Fallback bool               `json:"fallback"`
}

type SearchRequest struct {
	Query    string `json:"query"`
	CityCode string `json:"city_code"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Adults   int    `json:"adults"`
	Rooms    int    `json:"rooms"`
}

type SearchResult struct {
	Resolution   Resolution           `json:"resolution"`
	CheckIn      string               `json:"check_in"`
	CheckOut     string               `json:"check_out"`
	Destinations []domain.Destination `json:"destinations"`
}

type SearchService struct {
	cities   *resolver.Resolver
	api      domain.HotelAPI
	norm     *Normalizer
	repo     domain.DestinationRepository
	cache    domain.Cache
	cacheTTL time.Duration
	fallback string
	now      func() time.Time
}

func NewSearchService(cities *resolver.Resolver, api domain.HotelAPI, norm *Normalizer,
	repo domain.DestinationRepository, cache domain.Cache, ttl time.Duration, fallback string) *SearchService {
	if fallback == "" {
		fallback = "PAR"
	}
	return &SearchService{
		cities: cities, api: api, norm: norm, repo: repo,
		cache: cache, cacheTTL: ttl, fallback: fallback, now: time.Now,
	}
}

func (s *SearchService) Suggest(query string, limit int) []domain.CityRecord {
	return s.cities.SuggestList(query, limit)
}

// Resolve maps a free-text query to a city code, or to the fallback code when
// nothing in the table matches.
func (s *SearchService) Resolve(query string) Resolution {
	res := Resolution{Query: query, Code: s.fallback, Fallback: true}
	if c, ok := s.cities.FindBestMatch(query); ok {
		res.Code, res.City, res.Fallback = c.Code, &c, false
	}
	return res
}

// SearchHotels resolves the city, asks the hotel API and returns normalized
// destinations. Results are cached per city, dates, adults and rooms.
func (s *SearchService) SearchHotels(ctx context.Context, req SearchRequest) (SearchResult, error) {
	var res Resolution
	if code := strings.ToUpper(strings.TrimSpace(req.CityCode)); code != "" {
		res = Resolution{Query: req.CityCode, Code: code}
		if c, ok := s.cities.FindBestMatch(code); ok && c.Code == code {
			res.City = &c
		}
	} else {
		res = s.Resolve(req.Query)
	}

	in, out, err := s.stayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return SearchResult{}, err
	}
	adults := max(req.Adults, 1)
	rooms := max(req.Rooms, 0)

	key := fmt.Sprintf("search:%s:%s:%s:%d:%d", res.Code, in, out, adults, rooms)
	var cached SearchResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			cached.Resolution = res
			return cached, nil
		}
	}

	offers, err := s.api.SearchHotels(ctx, domain.SearchParams{
		CityCode: res.Code, CheckInDate: in, CheckOutDate: out, Adults: adults, RoomQuantity: rooms,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search hotels in %s: %w", res.Code, err)
	}

	result := SearchResult{Resolution: res, CheckIn: in, CheckOut: out, Destinations: s.norm.NormalizeAll(offers)}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, result, int(s.cacheTTL.Seconds()))
	}
	return result, nil
}

// Offers looks up specific hotels and normalizes what comes back.
func (s *SearchService) Offers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) ([]domain.Destination, error) {
	in, out, err := s.stayDates(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	offers, err := s.api.GetHotelOffers(ctx, hotelIDs, domain.OfferParams{
		CheckInDate: in, CheckOutDate: out, Adults: max(adults, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("hotel offers: %w", err)
	}
	return s.norm.NormalizeAll(offers), nil
}

// QuickSearch is a one-night stay from tomorrow for one adult.
func (s *SearchService) QuickSearch(ctx context.Context, code string) (SearchResult, error) {
	in, out := TomorrowStay(s.now(), 1)
	return s.SearchHotels(ctx, SearchRequest{CityCode: code, CheckIn: in, CheckOut: out, Adults: 1})
}

// Browse lists stored destinations (best rated first), appends live offers for
// q.CityCode when given, then applies the text and price filters.
func (s *SearchService) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.Destination, error) {
	all, err := s.repo.ListDestinations(ctx, 0)
	if err != nil {
		return nil, err
	}
	if q.CityCode != "" {
		live, err := s.SearchHotels(ctx, SearchRequest{
			CityCode: q.CityCode, CheckIn: q.CheckIn, CheckOut: q.CheckOut, Adults: q.Adults,
		})
		if err != nil {
			// stored destinations are still worth showing
			log.Warn().Err(err).Str("city", q.CityCode).Msg("live offers unavailable for browse")
		} else {
			all = append(all, live.Destinations...)
		}
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Destination, 0, len(all))
	for _, d := range all {
		if term != "" && !strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Location), term) {
			continue
		}
		if !q.Price.Contains(d.PricePerNight) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// stayDates fills missing dates with tomorrow → day after and checks ordering.
func (s *SearchService) stayDates(checkIn, checkOut string) (string, string, error) {
	defIn, defOut := TomorrowStay(s.now(), 1)
	if checkIn == "" {
		checkIn = defIn
	}
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return "", "", fmt.Errorf("%w: check_in must be YYYY-MM-DD", domain.ErrValidation)
	}
	if checkOut == "" {
		if checkIn == defIn {
			checkOut = defOut
		} else {
			checkOut = in.AddDate(0, 0, 1).Format(dateLayout)
		}
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return "", "", fmt.Errorf("%w: check_out must be YYYY-MM-DD", domain.ErrValidation)
	}
	if !out.After(in) {
		return "", "", fmt.Errorf("%w: check_out must be after check_in", domain.ErrValidation)
	}
	return checkIn, checkOut, nil
}

// TomorrowStay returns check-in tomorrow and check-out nights later, as dates.
func TomorrowStay(now time.Time, nights int) (string, string) {
	in := now.AddDate(0, 0, 1)
	return in.Format(dateLayout), in.AddDate(0, 0, max(nights, 1)).Format(dateLayout)
}

// SetClock replaces the time source used for default stay dates.
func (s *SearchService) SetClock(now func() time.Time) { s.now = now }
