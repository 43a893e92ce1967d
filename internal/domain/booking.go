package domain

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	DestinationID string        `json:"destination_id"`
	CheckIn       time.Time     `json:"check_in_date"`
	CheckOut      time.Time     `json:"check_out_date"`
	Guests        int           `json:"guests"`
	TotalPrice    float64       `json:"total_price"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Nights is the number of started days between check-in and check-out.
func Nights(in, out time.Time) int {
	d := out.Sub(in)
	if d <= 0 {
		return 0
	}
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}

// BookingGroups splits a user's bookings the way the bookings page shows them.
type BookingGroups struct {
	Upcoming []Booking `json:"upcoming"`
	Current  []Booking `json:"current"`
	Past     []Booking `json:"past"`
}

type BookingStats struct {
	Total     int `json:"total_bookings"`
	Upcoming  int `json:"upcoming_bookings"`
	Completed int `json:"completed_bookings"`
}

// GuestInfo is forwarded to the hotel API when booking a live offer.
type GuestInfo struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
}

// BookingResult reports a booking simulation outcome. Failures are reported
// here instead of as an error so callers can show a soft message.
type BookingResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Error          string `json:"error,omitempty"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
}
