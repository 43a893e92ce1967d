package domain

import (
	"context"
	"time"
)

type DestinationRepository interface {
	UpsertDestinations(ctx context.Context, ds []Destination) error
	GetDestination(ctx context.Context, id string) (Destination, error)
	// ListDestinations returns rows by rating, best first. limit <= 0 means all.
	ListDestinations(ctx context.Context, limit int) ([]Destination, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) error
	// ListBookings returns the user's bookings, newest first.
	ListBookings(ctx context.Context, userID string) ([]Booking, error)
	// UpdateBookingStatus returns ErrNotFound when the booking does not belong to userID.
	UpdateBookingStatus(ctx context.Context, userID, id string, st BookingStatus) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
}

type UserRepository interface {
	// CreateUser returns ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// HotelAPI is the token-cached proxy in front of the external hotel-offer API.
type HotelAPI interface {
	SearchHotels(ctx context.Context, p SearchParams) ([]HotelOffer, error)
	GetHotelOffers(ctx context.Context, hotelIDs []string, p OfferParams) ([]HotelOffer, error)
	BookHotel(ctx context.Context, offerID string, guest GuestInfo, userID string) BookingResult
}

type SearchParams struct {
	CityCode     string `json:"city_code"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Adults       int    `json:"adults"`
	RoomQuantity int    `json:"room_quantity,omitempty"` // 0 = not sent
}

type OfferParams struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Adults       int    `json:"adults"`
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionRevoker remembers signed-out session ids until they would expire anyway.
type SessionRevoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// TokenCache holds the hotel API access token. Get reports false once now has
// reached the stored expiry. Implementations must be safe for concurrent use.
type TokenCache interface {
	Get(ctx context.Context, now time.Time) (string, bool)
	Set(ctx context.Context, token string, expiresAt time.Time)
}
