// Package amadeus is the token-cached proxy in front of the external
// hotel-offer API (OAuth2 client-credentials).
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

const (
	service         = "amadeus"
	tokenPath       = "/v1/security/oauth2/token"
	offersPath      = "/v3/shopping/hotel-offers"
	bookingPath     = "/v1/booking/hotel-bookings"
	DefaultCityCode = "PAR"
	DefaultMargin   = 300 * time.Second
)

var (
	ErrNotFound     = fmt.Errorf("amadeus: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("amadeus: unauthorized: %w", domain.ErrUpstream)
	ErrForbidden    = fmt.Errorf("amadeus: forbidden: %w", domain.ErrUpstream)
)

// StatusError is any other non-2xx answer. Body is truncated.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("amadeus: bad status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstream }

type Config struct {
	BaseURL      string
	APIKey       string
	APISecret    string
	RPS          int
	SafetyMargin time.Duration // subtracted from expires_in; 0 means DefaultMargin
	Timeout      time.Duration
}

type Client struct {
	base   string
	hc     *http.Client
	key    string
	secret string
	rl     *rate.Limiter
	margin time.Duration

	tokens domain.TokenCache
	sf     singleflight.Group
	now    func() time.Time
}

var _ domain.HotelAPI = (*Client)(nil)

func New(cfg Config, tokens domain.TokenCache) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("API key and secret are required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token cache is required")
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = DefaultMargin
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		hc:     &http.Client{Timeout: cfg.Timeout},
		key:    cfg.APIKey,
		secret: cfg.APISecret,
		rl:     rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		margin: cfg.SafetyMargin,
		tokens: tokens,
		now:    time.Now,
	}, nil
}

// SetClock replaces the time source used for token expiry.
func (c *Client) SetClock(now func() time.Time) { c.now = now }

// ---- Public API ----

func (c *Client) SearchHotels(ctx context.Context, p domain.SearchParams) ([]domain.HotelOffer, error) {
	code := strings.ToUpper(strings.TrimSpace(p.CityCode))
	if code == "" {
		code = DefaultCityCode
	}
	q := url.Values{}
	q.Set("cityCode", code)
	setIf(q, "checkInDate", p.CheckInDate)
	setIf(q, "checkOutDate", p.CheckOutDate)
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))
	if p.RoomQuantity > 0 {
		q.Set("roomQuantity", strconv.Itoa(p.RoomQuantity))
	}

	var page domain.OffersPage
	if err := c.do(ctx, http.MethodGet, offersPath+"?"+q.Encode(), "hotel-offers", nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *Client) GetHotelOffers(ctx context.Context, hotelIDs []string, p domain.OfferParams) ([]domain.HotelOffer, error) {
	ids := make([]string, 0, len(hotelIDs))
	for _, id := range hotelIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []domain.HotelOffer{}, nil
	}
	q := url.Values{}
	q.Set("hotelIds", strings.Join(ids, ","))
	setIf(q, "checkInDate", p.CheckInDate)
	setIf(q, "checkOutDate", p.CheckOutDate)
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))

	var page domain.OffersPage
	if err := c.do(ctx, http.MethodGet, offersPath+"?"+q.Encode(), "hotel-offers-by-id", nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

type bookingRequest struct {
	Data struct {
		OfferID string         `json:"offerId"`
		Guests  []bookingGuest `json:"guests"`
	} `json:"data"`
}

type bookingGuest struct {
	Name struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
	Contact struct {
		Phone string `json:"phone,omitempty"`
		Email string `json:"email"`
	} `json:"contact"`
}

type bookingResponse struct {
	Data []struct {
		ID                     string `json:"id"`
		ProviderConfirmationID string `json:"providerConfirmationId"`
	} `json:"data"`
}

// BookHotel never returns an error; failures come back as Success == false.
func (c *Client) BookHotel(ctx context.Context, offerID string, guest domain.GuestInfo, userID string) domain.BookingResult {
	if strings.TrimSpace(offerID) == "" {
		return domain.BookingResult{Message: "Booking failed", Error: "offer id is required"}
	}

	var req bookingRequest
	req.Data.OfferID = offerID
	var g bookingGuest
	g.Name.FirstName, g.Name.LastName = guest.FirstName, guest.LastName
	g.Contact.Email, g.Contact.Phone = guest.Email, guest.Phone
	req.Data.Guests = []bookingGuest{g}

	var resp bookingResponse
	if err := c.do(ctx, http.MethodPost, bookingPath, "hotel-bookings", req, &resp); err != nil {
		log.Warn().Err(err).Str("offer_id", offerID).Str("user_id", userID).Msg("hotel booking failed")
		return domain.BookingResult{Message: "Booking failed", Error: err.Error()}
	}

	res := domain.BookingResult{Success: true, Message: "Booking confirmed"}
	if len(resp.Data) > 0 {
		res.ConfirmationID = resp.Data[0].ProviderConfirmationID
		if res.ConfirmationID == "" {
			res.ConfirmationID = resp.Data[0].ID
		}
	}
	return res
}

// ---- Credential ----

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached credential or fetches one. Callers arriving while
// a fetch is running share its result.
func (c *Client) token(ctx context.Context) (string, error) {
	if t, ok := c.tokens.Get(ctx, c.now()); ok {
		return t, nil
	}
	ch := c.sf.DoChan("token", func() (any, error) {
		// shared by every waiter, so it must outlive this caller's cancellation
		bg := context.WithoutCancel(ctx)
		// another fetch may have landed between our miss and entering here
		if t, ok := c.tokens.Get(bg, c.now()); ok {
			return t, nil
		}
		t, err := c.fetchToken(bg)
		observability.ObserveTokenRefresh(err)
		return t, err
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.key)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tr tokenResponse
	if err := c.send(req, "token", &tr); err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("fetch token: empty access_token: %w", domain.ErrUpstream)
	}
	issued := c.now()
	expiresAt := issued.Add(time.Duration(tr.ExpiresIn)*time.Second - c.margin)
	c.tokens.Set(ctx, tr.AccessToken, expiresAt)
	log.Debug().Time("expires_at", expiresAt).Msg("hotel api token refreshed")
	return tr.AccessToken, nil
}

// ---- Internals ----

// do performs one authenticated, rate-limited call. No retries.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "staybook/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	err = c.send(req, endpoint, out)
	if errors.Is(err, ErrUnauthorized) {
		// the provider dropped our token early; forget it unless someone
		// already stored a newer one
		if cur, ok := c.tokens.Get(ctx, c.now()); !ok || cur == tok {
			c.tokens.Set(ctx, "", time.Time{})
		}
	}
	return err
}

// send executes req and maps the response onto out or an error.
func (c *Client) send(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("amadeus %s: %w: %w", endpoint, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("amadeus: decode %s: %w", endpoint, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
}

func setIf(q url.Values, k, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q.Set(k, v)
	}
}
