package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staybook/internal/app"
	"staybook/internal/domain"
)

// ---- function-field fakes ----

type fakeSearch struct {
	SuggestFn func(string, int) []domain.CityRecord
	SearchFn  func(context.Context, app.SearchRequest) (app.SearchResult, error)
	OffersFn  func(context.Context, []string, string, string, int) ([]domain.Destination, error)
	BrowseFn  func(context.Context, domain.BrowseQuery) ([]domain.Destination, error)
}

func (f *fakeSearch) Suggest(q string, n int) []domain.CityRecord {
	if f.SuggestFn == nil {
		return []domain.CityRecord{}
	}
	return f.SuggestFn(q, n)
}
func (f *fakeSearch) Resolve(q string) app.Resolution {
	return app.Resolution{Query: q, Code: "PAR", Fallback: true}
}
func (f *fakeSearch) SearchHotels(ctx context.Context, r app.SearchRequest) (app.SearchResult, error) {
	return f.SearchFn(ctx, r)
}
func (f *fakeSearch) Offers(ctx context.Context, ids []string, in, out string, a int) ([]domain.Destination, error) {
	return f.OffersFn(ctx, ids, in, out, a)
}
func (f *fakeSearch) QuickSearch(ctx context.Context, code string) (app.SearchResult, error) {
	return f.SearchFn(ctx, app.SearchRequest{CityCode: code})
}
func (f *fakeSearch) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.Destination, error) {
	return f.BrowseFn(ctx, q)
}

type fakeDestinations struct {
	GetFn func(context.Context, string) (domain.Destination, error)
}

func (f *fakeDestinations) Featured(_ context.Context, n int) ([]domain.Destination, error) {
	out := make([]domain.Destination, n)
	for i := range out {
		out[i] = domain.Destination{ID: fmt.Sprintf("d%d", i)}
	}
	return out, nil
}
func (f *fakeDestinations) Get(ctx context.Context, id string) (domain.Destination, error) {
	return f.GetFn(ctx, id)
}

type fakeAuth struct {
	signedOut string
}

func (f *fakeAuth) Session(_ context.Context, tok string) (domain.Session, error) {
	if tok != "good" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return domain.Session{UserID: "u1", Email: "a@b.co", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}
func (f *fakeAuth) SignUp(_ context.Context, email, _ string) (domain.Session, error) {
	if email == "taken@b.co" {
		return domain.Session{}, fmt.Errorf("email %w", domain.ErrConflict)
	}
	return domain.Session{UserID: "u2", Email: email, Token: "tok"}, nil
}
func (f *fakeAuth) SignIn(_ context.Context, email, pw string) (domain.Session, error) {
	if pw != "secret1" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return domain.Session{UserID: "u1", Email: email, Token: "tok"}, nil
}
func (f *fakeAuth) SignOut(_ context.Context, tok string) error { f.signedOut = tok; return nil }

type fakeProfiles struct{}

func (fakeProfiles) Get(_ context.Context, s domain.Session) (domain.Profile, error) {
	return domain.Profile{ID: s.UserID, Email: s.Email}, nil
}
func (fakeProfiles) Upsert(_ context.Context, s domain.Session, u app.ProfileUpdate) (domain.Profile, error) {
	return domain.Profile{ID: s.UserID, FirstName: &u.FirstName}, nil
}

type fakeBookings struct {
	CreateFn func(context.Context, string, app.BookingRequest) (domain.Booking, error)
	CancelFn func(context.Context, string, string) error
	offerID  string
}

func (f *fakeBookings) Create(ctx context.Context, uid string, r app.BookingRequest) (domain.Booking, error) {
	return f.CreateFn(ctx, uid, r)
}
func (f *fakeBookings) BookOffer(_ context.Context, _, offerID string, _ domain.GuestInfo) domain.BookingResult {
	f.offerID = offerID
	return domain.BookingResult{Success: true, Message: "ok", ConfirmationID: "C1"}
}
func (f *fakeBookings) List(context.Context, string) ([]domain.Booking, error) { return nil, nil }
func (f *fakeBookings) Grouped(context.Context, string) (domain.BookingGroups, error) {
	return domain.BookingGroups{Upcoming: []domain.Booking{}, Current: []domain.Booking{}, Past: []domain.Booking{}}, nil
}
func (f *fakeBookings) Cancel(ctx context.Context, uid, id string) error {
	return f.CancelFn(ctx, uid, id)
}
func (f *fakeBookings) Stats(context.Context, string) (domain.BookingStats, error) {
	return domain.BookingStats{Total: 3}, nil
}

type fixture struct {
	h  *Handlers
	ts *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := &Handlers{
		Search:       &fakeSearch{},
		Destinations: &fakeDestinations{},
		Auth:         &fakeAuth{},
		Profiles:     fakeProfiles{},
		Bookings:     &fakeBookings{},
	}
	s := New(Options{})
	s.MountHandlers(h)
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return &fixture{h: h, ts: ts}
}

func (f *fixture) do(t *testing.T, method, path, token, body string, hdr ...string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(method, f.ts.URL+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeProblem(t *testing.T, resp *http.Response) problem {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type = %q", ct)
	}
	var p problem
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return p
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, "GET", "/healthz", "", ""); resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSuggest_PassesQueryAndLimit(t *testing.T) {
	f := newFixture(t)
	var gotQ string
	var gotN int
	f.h.Search.(*fakeSearch).SuggestFn = func(q string, n int) []domain.CityRecord {
		gotQ, gotN = q, n
		return []domain.CityRecord{{Code: "ROM", Name: "Rome"}}
	}
	resp := f.do(t, "GET", "/v1/cities/suggest?q=ro&limit=3", "", "")
	if resp.StatusCode != 200 || gotQ != "ro" || gotN != 3 {
		t.Fatalf("status=%d q=%q n=%d", resp.StatusCode, gotQ, gotN)
	}
	if resp.Header.Get("ETag") == "" {
		t.Fatal("missing ETag")
	}
}

func TestSuggest_BadLimit(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "GET", "/v1/cities/suggest?q=ro&limit=0", "", "")
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	_ = decodeProblem(t, resp)
}

func TestGetDestination_ETag304(t *testing.T) {
	f := newFixture(t)
	f.h.Destinations.(*fakeDestinations).GetFn = func(_ context.Context, id string) (domain.Destination, error) {
		return domain.Destination{ID: id, Name: "Bali"}, nil
	}
	first := f.do(t, "GET", "/v1/destinations/bali", "", "")
	etag := first.Header.Get("ETag")
	if first.StatusCode != 200 || !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("status=%d etag=%q", first.StatusCode, etag)
	}
	second := f.do(t, "GET", "/v1/destinations/bali", "", "", "If-None-Match", etag)
	if second.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", second.StatusCode)
	}
}

func TestGetDestination_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, 404},
		{fmt.Errorf("bad: %w", domain.ErrValidation), 400},
		{fmt.Errorf("provider: %w", domain.ErrUpstream), 502},
		{context.DeadlineExceeded, 504},
		{errors.New("boom"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			f := newFixture(t)
			f.h.Destinations.(*fakeDestinations).GetFn = func(context.Context, string) (domain.Destination, error) {
				return domain.Destination{}, tc.err
			}
			resp := f.do(t, "GET", "/v1/destinations/x", "", "")
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			if p := decodeProblem(t, resp); p.Status != tc.want {
				t.Fatalf("problem.status = %d", p.Status)
			}
		})
	}
}

func TestFeatured_DefaultLimit(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "GET", "/v1/destinations/featured", "", "")
	var ds []domain.Destination
	_ = json.NewDecoder(resp.Body).Decode(&ds)
	if resp.StatusCode != 200 || len(ds) != 6 {
		t.Fatalf("status=%d len=%d", resp.StatusCode, len(ds))
	}
}

func TestBrowse_ParsesQuery(t *testing.T) {
	f := newFixture(t)
	var got domain.BrowseQuery
	f.h.Search.(*fakeSearch).BrowseFn = func(_ context.Context, q domain.BrowseQuery) ([]domain.Destination, error) {
		got = q
		return []domain.Destination{}, nil
	}
	resp := f.do(t, "GET", "/v1/destinations?search=bea&price=LOW&city=mad&adults=2", "", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := domain.BrowseQuery{Search: "bea", Price: domain.PriceLow, CityCode: "MAD", Adults: 2}
	if got != want {
		t.Fatalf("query = %+v, want %+v", got, want)
	}
}

func TestBrowse_BadPrice(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, "GET", "/v1/destinations?price=cheap", "", ""); resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSearchHotels_DecodesBody(t *testing.T) {
	f := newFixture(t)
	var got app.SearchRequest
	f.h.Search.(*fakeSearch).SearchFn = func(_ context.Context, r app.SearchRequest) (app.SearchResult, error) {
		got = r
		return app.SearchResult{Destinations: []domain.Destination{}}, nil
	}
	resp := f.do(t, "POST", "/v1/hotels/search", "", `{"query":"rome","adults":2}`)
	if resp.StatusCode != 200 || got.Query != "rome" || got.Adults != 2 {
		t.Fatalf("status=%d req=%+v", resp.StatusCode, got)
	}
}

func TestSearchHotels_BadJSON(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "POST", "/v1/hotels/search", "", `{"query":`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestQuickSearch_UppercasesCode(t *testing.T) {
	f := newFixture(t)
	var code string
	f.h.Search.(*fakeSearch).SearchFn = func(_ context.Context, r app.SearchRequest) (app.SearchResult, error) {
		code = r.CityCode
		return app.SearchResult{}, nil
	}
	if resp := f.do(t, "GET", "/v1/hotels/quick/nyc", "", ""); resp.StatusCode != 200 || code != "NYC" {
		t.Fatalf("status=%d code=%q", resp.StatusCode, code)
	}
}

func TestOffers_ValidationFields(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "POST", "/v1/hotels/offers", "", `{"hotel_ids":[],"check_in":"06/10/2025"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	p := decodeProblem(t, resp)
	for _, k := range []string{"hotel_ids", "check_in", "check_out"} {
		if _, ok := p.Fields[k]; !ok {
			t.Errorf("missing field error for %q: %+v", k, p.Fields)
		}
	}
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/v1/auth/session", "/v1/profile", "/v1/bookings", "/v1/bookings/stats"} {
		if resp := f.do(t, "GET", path, "", ""); resp.StatusCode != 401 {
			t.Errorf("%s without token: status = %d", path, resp.StatusCode)
		}
		if resp := f.do(t, "GET", path, "bad", ""); resp.StatusCode != 401 {
			t.Errorf("%s with bad token: status = %d", path, resp.StatusCode)
		}
	}
}

func TestSession_HidesToken(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "GET", "/v1/auth/session", "good", "")
	var s domain.Session
	_ = json.NewDecoder(resp.Body).Decode(&s)
	if resp.StatusCode != 200 || s.UserID != "u1" || s.Token != "" {
		t.Fatalf("status=%d session=%+v", resp.StatusCode, s)
	}
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, "POST", "/v1/auth/signup", "", `{"email":"new@b.co","password":"secret1"}`); resp.StatusCode != 201 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp := f.do(t, "POST", "/v1/auth/signup", "", `{"email":"taken@b.co","password":"secret1"}`); resp.StatusCode != 409 {
		t.Fatalf("duplicate: status = %d", resp.StatusCode)
	}
	resp := f.do(t, "POST", "/v1/auth/signup", "", `{"email":"nope","password":"123"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("invalid: status = %d", resp.StatusCode)
	}
	p := decodeProblem(t, resp)
	if p.Fields["email"] == "" || p.Fields["password"] != "must be at least 6" {
		t.Fatalf("fields = %+v", p.Fields)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, "POST", "/v1/auth/signin", "", `{"email":"a@b.co","password":"wrong00"}`); resp.StatusCode != 401 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSignOut_PassesToken(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, "POST", "/v1/auth/signout", "good", ""); resp.StatusCode != 204 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := f.h.Auth.(*fakeAuth).signedOut; got != "good" {
		t.Fatalf("signed out %q", got)
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	var uid string
	f.h.Bookings.(*fakeBookings).CreateFn = func(_ context.Context, u string, r app.BookingRequest) (domain.Booking, error) {
		uid = u
		return domain.Booking{ID: "b1", UserID: u, DestinationID: r.DestinationID, Guests: r.Guests}, nil
	}
	body := `{"destination_id":"bali","check_in_date":"2025-07-01","check_out_date":"2025-07-04","guests":2}`
	resp := f.do(t, "POST", "/v1/bookings", "good", body)
	if resp.StatusCode != 201 || uid != "u1" {
		t.Fatalf("status=%d uid=%q", resp.StatusCode, uid)
	}
}

func TestCreateBooking_MissingGuests(t *testing.T) {
	f := newFixture(t)
	body := `{"destination_id":"bali","check_in_date":"2025-07-01","check_out_date":"2025-07-04"}`
	resp := f.do(t, "POST", "/v1/bookings", "good", body)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if p := decodeProblem(t, resp); p.Fields["guests"] != "is required" {
		t.Fatalf("fields = %+v", p.Fields)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture(t)
	f.h.Bookings.(*fakeBookings).CancelFn = func(context.Context, string, string) error { return domain.ErrNotFound }
	if resp := f.do(t, "POST", "/v1/bookings/zzz/cancel", "good", ""); resp.StatusCode != 404 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestListBookings_EmptyArray(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "GET", "/v1/bookings", "good", "")
	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	if string(raw) != "[]" {
		t.Fatalf("body = %s", raw)
	}
}

func TestBookOffer(t *testing.T) {
	f := newFixture(t)
	body := `{"first_name":"Ada","last_name":"L","email":"ada@b.co"}`
	resp := f.do(t, "POST", "/v1/bookings/offers/OFF123", "good", body)
	var res domain.BookingResult
	_ = json.NewDecoder(resp.Body).Decode(&res)
	if resp.StatusCode != 200 || !res.Success || f.h.Bookings.(*fakeBookings).offerID != "OFF123" {
		t.Fatalf("status=%d res=%+v", resp.StatusCode, res)
	}
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "OPTIONS", "/v1/bookings", "", "",
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", "POST",
		"Access-Control-Request-Headers", "authorization")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.EqualFold(got, "authorization") {
		t.Fatalf("allow-headers = %q", got)
	}
}
