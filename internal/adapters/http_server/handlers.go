// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/internal/app"
	"staybook/internal/domain"
)

// Consumer-side views of the app services; tests plug fakes in here.

type Search interface {
	Suggest(query string, limit int) []domain.CityRecord
	Resolve(query string) app.Resolution
	SearchHotels(ctx context.Context, req app.SearchRequest) (app.SearchResult, error)
	Offers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) ([]domain.Destination, error)
	QuickSearch(ctx context.Context, code string) (app.SearchResult, error)
	Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.Destination, error)
}

type Destinations interface {
	Featured(ctx context.Context, n int) ([]domain.Destination, error)
	Get(ctx context.Context, id string) (domain.Destination, error)
}

type Auth interface {
	SessionVerifier
	SignUp(ctx context.Context, email, password string) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
}

type Profiles interface {
	Get(ctx context.Context, sess domain.Session) (domain.Profile, error)
	Upsert(ctx context.Context, sess domain.Session, u app.ProfileUpdate) (domain.Profile, error)
}

type Bookings interface {
	Create(ctx context.Context, userID string, req app.BookingRequest) (domain.Booking, error)
	BookOffer(ctx context.Context, userID, offerID string, guest domain.GuestInfo) domain.BookingResult
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	Grouped(ctx context.Context, userID string) (domain.BookingGroups, error)
	Cancel(ctx context.Context, userID, bookingID string) error
	Stats(ctx context.Context, userID string) (domain.BookingStats, error)
}

type Handlers struct {
	Search       Search
	Destinations Destinations
	Auth         Auth
	Profiles     Profiles
	Bookings     Bookings
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/cities/suggest", h.suggestCities)
		r.Get("/cities/resolve", h.resolveCity)

		r.Post("/hotels/search", h.searchHotels)
		r.Post("/hotels/offers", h.hotelOffers)
		r.Get("/hotels/quick/{code}", h.quickSearch)

		r.Get("/destinations", h.browseDestinations)
		r.Get("/destinations/featured", h.featuredDestinations)
		r.Get("/destinations/{id}", h.getDestination)

		r.Post("/auth/signup", h.signUp)
		r.Post("/auth/signin", h.signIn)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(h.Auth))

			r.Post("/auth/signout", h.signOut)
			r.Get("/auth/session", h.session)

			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.putProfile)

			r.Get("/bookings", h.listBookings)
			r.Post("/bookings", h.createBooking)
			r.Get("/bookings/grouped", h.groupedBookings)
			r.Get("/bookings/stats", h.bookingStats)
			r.Post("/bookings/{id}/cancel", h.cancelBooking)
			r.Post("/bookings/offers/{offerId}", h.bookOffer)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials or session")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUpstream):
		log.Warn().Err(err).Msg("hotel provider error")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "hotel provider unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "request timed out")
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers GETs with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	if fields := validateStruct(dst); fields != nil {
		writeProblemFields(w, http.StatusBadRequest, "Validation Failed", "request body has invalid fields", fields)
		return false
	}
	return true
}

func queryLimit(r *http.Request, def, max int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > max {
		return 0, false
	}
	return l, true
}

// ---- Cities ----

func (h *Handlers) suggestCities(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, 8, 50)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50")
		return
	}
	writeCached(w, r, h.Search.Suggest(r.URL.Query().Get("q"), limit))
}

func (h *Handlers) resolveCity(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Search.Resolve(r.URL.Query().Get("q")))
}

// ---- Hotels ----

type offersRequest struct {
	HotelIDs []string `json:"hotel_ids" validate:"required,min=1,max=50,dive,required"`
	CheckIn  string   `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string   `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults   int      `json:"adults" validate:"omitempty,min=1,max=9"`
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	var req app.SearchRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Search.SearchHotels(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) hotelOffers(w http.ResponseWriter, r *http.Request) {
	var req offersRequest
	if !decode(w, r, &req) {
		return
	}
	ds, err := h.Search.Offers(r.Context(), req.HotelIDs, req.CheckIn, req.CheckOut, req.Adults)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *Handlers) quickSearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.Search.QuickSearch(r.Context(), strings.ToUpper(chi.URLParam(r, "code")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, res)
}

// ---- Destinations ----

func (h *Handlers) browseDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	band := domain.PriceBand(strings.ToLower(q.Get("price")))
	switch band {
	case domain.PriceAny, domain.PriceLow, domain.PriceMedium, domain.PriceHigh:
	case "all":
		band = domain.PriceAny
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid price", "price must be one of low, medium, high")
		return
	}
	adults := 0
	if s := q.Get("adults"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid adults", "adults must be a positive integer")
			return
		}
		adults = n
	}
	ds, err := h.Search.Browse(r.Context(), domain.BrowseQuery{
		Search:   q.Get("search"),
		Price:    band,
		CityCode: strings.ToUpper(q.Get("city")),
		CheckIn:  q.Get("check_in"),
		CheckOut: q.Get("check_out"),
		Adults:   adults,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, ds)
}

func (h *Handlers) featuredDestinations(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, 6, 50)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50")
		return
	}
	ds, err := h.Destinations.Featured(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, ds)
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.Destinations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, d)
}
