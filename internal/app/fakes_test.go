package app_test

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"staybook/internal/domain"
)

// ---- cache: JSON round-trip like the redis adapter ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	gets  int
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	c.mu.Unlock()
	return nil
}

// ---- hotel API: function fields ----

type fakeAPI struct {
	SearchFn func(ctx context.Context, p domain.SearchParams) ([]domain.HotelOffer, error)
	OffersFn func(ctx context.Context, ids []string, p domain.OfferParams) ([]domain.HotelOffer, error)
	BookFn   func(ctx context.Context, offerID string, g domain.GuestInfo, userID string) domain.BookingResult

	searches []domain.SearchParams
}

func (f *fakeAPI) SearchHotels(ctx context.Context, p domain.SearchParams) ([]domain.HotelOffer, error) {
	f.searches = append(f.searches, p)
	if f.SearchFn == nil {
		return nil, nil
	}
	return f.SearchFn(ctx, p)
}

func (f *fakeAPI) GetHotelOffers(ctx context.Context, ids []string, p domain.OfferParams) ([]domain.HotelOffer, error) {
	if f.OffersFn == nil {
		return nil, nil
	}
	return f.OffersFn(ctx, ids, p)
}

func (f *fakeAPI) BookHotel(ctx context.Context, offerID string, g domain.GuestInfo, userID string) domain.BookingResult {
	if f.BookFn == nil {
		return domain.BookingResult{Success: true, Message: "ok"}
	}
	return f.BookFn(ctx, offerID, g, userID)
}

func offerFor(id, name, city, base string) domain.HotelOffer {
	return domain.HotelOffer{
		Hotel:  &domain.OfferHotel{HotelID: id, Name: name, CityCode: city},
		Offers: []domain.RateOffer{{ID: "R-" + id, Price: &domain.Price{Base: base}}},
	}
}

// ---- repositories ----

type fakeDestRepo struct {
	rows    map[string]domain.Destination
	gets    int
	upserts int
	listErr error
}

func newFakeDestRepo(ds ...domain.Destination) *fakeDestRepo {
	r := &fakeDestRepo{rows: map[string]domain.Destination{}}
	for _, d := range ds {
		r.rows[d.ID] = d
	}
	return r
}

func (r *fakeDestRepo) UpsertDestinations(_ context.Context, ds []domain.Destination) error {
	r.upserts++
	for _, d := range ds {
		r.rows[d.ID] = d
	}
	return nil
}

func (r *fakeDestRepo) GetDestination(_ context.Context, id string) (domain.Destination, error) {
	r.gets++
	d, ok := r.rows[id]
	if !ok {
		return domain.Destination{}, domain.ErrNotFound
	}
	return d, nil
}

func (r *fakeDestRepo) ListDestinations(_ context.Context, limit int) ([]domain.Destination, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Destination, 0, len(r.rows))
	for _, d := range r.rows {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeBookingRepo struct {
	rows []domain.Booking
}

func (r *fakeBookingRepo) CreateBooking(_ context.Context, b domain.Booking) error {
	r.rows = append(r.rows, b)
	return nil
}

func (r *fakeBookingRepo) ListBookings(_ context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Booking) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *fakeBookingRepo) UpdateBookingStatus(_ context.Context, userID, id string, st domain.BookingStatus) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].Status = st
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeProfileRepo struct {
	rows map[string]domain.Profile
	err  error
}

func (r *fakeProfileRepo) GetProfile(_ context.Context, id string) (domain.Profile, error) {
	p, ok := r.rows[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) UpsertProfile(_ context.Context, p domain.Profile) error {
	if r.err != nil {
		return r.err
	}
	if r.rows == nil {
		r.rows = map[string]domain.Profile{}
	}
	r.rows[p.ID] = p
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]domain.User
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u domain.User) error {
	if r.byEmail == nil {
		r.byEmail = map[string]domain.User{}
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrConflict
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeRevoker struct {
	ttl map[string]time.Duration
}

func (r *fakeRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if r.ttl == nil {
		r.ttl = map[string]time.Duration{}
	}
	r.ttl[id] = ttl
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.ttl[id]
	return ok, nil
}

func fixedNow() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
