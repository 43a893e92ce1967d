package domain

import "time"

// Destination is the display-ready shape shared by persisted destinations and
// destinations derived from live hotel offers.
type Destination struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Location      string      `json:"location"`
	Description   string      `json:"description"`
	PricePerNight float64     `json:"price_per_night"`
	Rating        float64     `json:"rating"`
	ImageURL      string      `json:"image_url"`
	Amenities     []string    `json:"amenities"`
	MaxGuests     int         `json:"max_guests"`
	SourceData    *HotelOffer `json:"source_data,omitempty"` // kept only to book the offer later
	CreatedAt     time.Time   `json:"created_at,omitzero"`
}

// PriceBand buckets nightly prices for the browse filter.
type PriceBand string

const (
	PriceAny    PriceBand = ""
	PriceLow    PriceBand = "low"    // < 150
	PriceMedium PriceBand = "medium" // 150..249.99
	PriceHigh   PriceBand = "high"   // >= 250
)

// Contains reports whether price falls into the band.
func (b PriceBand) Contains(price float64) bool {
	switch b {
	case PriceLow:
		return price < 150
	case PriceMedium:
		return price >= 150 && price < 250
	case PriceHigh:
		return price >= 250
	default:
		return true
	}
}

// BrowseQuery filters the merged destination list.
type BrowseQuery struct {
	Search   string
	Price    PriceBand
	CityCode string // when set, live offers for the city are merged in
	CheckIn  string
	CheckOut string
	Adults   int
}
