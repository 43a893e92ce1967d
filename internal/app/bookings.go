package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

type BookingRequest struct {
	DestinationID string `json:"destination_id" validate:"required"`
	CheckIn       string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOut      string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	Guests        int    `json:"guests" validate:"required,min=1"`
}

type BookingService struct {
	bookings domain.BookingRepository
	dests    *DestinationService
	api      domain.HotelAPI
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, d *DestinationService, api domain.HotelAPI) *BookingService {
	return &BookingService{bookings: b, dests: d, api: api, now: time.Now}
}

func (s *BookingService) SetClock(now func() time.Time) { s.now = now }

// Create stores a pending booking priced at nights × the destination's nightly rate.
func (s *BookingService) Create(ctx context.Context, userID string, req BookingRequest) (domain.Booking, error) {
	in, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: check_in_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	out, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: check_out_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if !out.After(in) {
		return domain.Booking{}, fmt.Errorf("%w: check_out_date must be after check_in_date", domain.ErrValidation)
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Before(today) {
		return domain.Booking{}, fmt.Errorf("%w: check_in_date is in the past", domain.ErrValidation)
	}
	if req.Guests < 1 {
		return domain.Booking{}, fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}

	d, err := s.dests.Get(ctx, req.DestinationID)
	if err != nil {
		return domain.Booking{}, err
	}
	if d.MaxGuests > 0 && req.Guests > d.MaxGuests {
		return domain.Booking{}, fmt.Errorf("%w: %s takes at most %d guests", domain.ErrValidation, d.Name, d.MaxGuests)
	}

	b := domain.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		DestinationID: d.ID,
		CheckIn:       in,
		CheckOut:      out,
		Guests:        req.Guests,
		TotalPrice:    float64(domain.Nights(in, out)) * d.PricePerNight,
		Status:        domain.StatusPending,
		CreatedAt:     now,
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	log.Info().Str("booking_id", b.ID).Str("user_id", userID).Str("destination_id", d.ID).
		Float64("total", b.TotalPrice).Msg("booking created")
	return b, nil
}

// BookOffer forwards a live offer to the hotel API's booking simulation.
func (s *BookingService) BookOffer(ctx context.Context, userID, offerID string, guest domain.GuestInfo) domain.BookingResult {
	if strings.TrimSpace(guest.Email) == "" {
		return domain.BookingResult{Message: "Booking failed", Error: "guest email is required"}
	}
	return s.api.BookHotel(ctx, offerID, guest, userID)
}

func (s *BookingService) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, userID)
}

func (s *BookingService) Grouped(ctx context.Context, userID string) (domain.BookingGroups, error) {
	bs, err := s.bookings.ListBookings(ctx, userID)
	if err != nil {
		return domain.BookingGroups{}, err
	}
	return GroupBookings(bs, s.now()), nil
}

// GroupBookings sorts confirmed stays into upcoming and current; everything
// else, cancelled or finished, is past. Input order is kept within a group.
func GroupBookings(bs []domain.Booking, now time.Time) domain.BookingGroups {
	g := domain.BookingGroups{
		Upcoming: []domain.Booking{},
		Current:  []domain.Booking{},
		Past:     []domain.Booking{},
	}
	for _, b := range bs {
		switch {
		case b.Status == domain.StatusConfirmed && b.CheckIn.After(now):
			g.Upcoming = append(g.Upcoming, b)
		case b.Status == domain.StatusConfirmed && !b.CheckOut.Before(now):
			g.Current = append(g.Current, b)
		default:
			g.Past = append(g.Past, b)
		}
	}
	return g
}

func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) error {
	if err := s.bookings.UpdateBookingStatus(ctx, userID, bookingID, domain.StatusCancelled); err != nil {
		return err
	}
	log.Info().Str("booking_id", bookingID).Str("user_id", userID).Msg("booking cancelled")
	return nil
}

func (s *BookingService) Stats(ctx context.Context, userID string) (domain.BookingStats, error) {
	bs, err := s.bookings.ListBookings(ctx, userID)
	if err != nil {
		return domain.BookingStats{}, err
	}
	st := domain.BookingStats{Total: len(bs)}
	now := s.now()
	for _, b := range bs {
		if b.Status == domain.StatusConfirmed && b.CheckIn.After(now) {
			st.Upcoming++
		}
		if b.Status == domain.StatusCompleted {
			st.Completed++
		}
	}
	return st, nil
}
