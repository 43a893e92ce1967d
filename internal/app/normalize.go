package app

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"staybook/internal/domain"
)

const (
	PlaceholderDescription = "Beautiful accommodation with excellent amenities."
	PlaceholderImageURL    = "https://images.unsplash.com/photo-1566073771259-6a8506099945?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
	defaultMaxGuests       = 2
)

// DefaultAmenities is used when the offer lists none.
var DefaultAmenities = []string{"WiFi", "Air Conditioning", "Room Service"}

// Normalizer turns external hotel offers into destinations.
type Normalizer struct {
	rnd func() float64
}

// NewNormalizer uses rnd (values in [0,1)) for the synthetic rating; nil means math/rand.
func NewNormalizer(rnd func() float64) *Normalizer {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Normalizer{rnd: rnd}
}

// Normalize never fails; missing data falls back to fixed defaults.
func (n *Normalizer) Normalize(o domain.HotelOffer) domain.Destination {
	h := o.Hotel
	if h == nil {
		h = &domain.OfferHotel{}
	}

	d := domain.Destination{
		ID:            h.HotelID,
		Name:          h.Name,
		Location:      h.CityCode,
		Description:   PlaceholderDescription,
		PricePerNight: 0,
		Rating:        3 + 2*n.rnd(),
		ImageURL:      PlaceholderImageURL,
		Amenities:     append([]string(nil), DefaultAmenities...),
		MaxGuests:     defaultMaxGuests,
		SourceData:    cloneOffer(o),
	}
	if d.Rating >= 5 {
		d.Rating = 5 - 1e-9
	}

	if a := h.Address; a != nil && (a.CityName != "" || a.CountryCode != "") {
		d.Location = location(a, h.CityCode)
	}
	if h.Description != nil && strings.TrimSpace(h.Description.Text) != "" {
		d.Description = h.Description.Text
	}
	if len(h.Amenities) > 0 {
		d.Amenities = append([]string(nil), h.Amenities...)
	}

	if len(o.Offers) > 0 {
		first := o.Offers[0]
		if first.Price != nil {
			d.PricePerNight = parsePrice(first.Price.Base)
		}
		if first.Guests != nil && first.Guests.Adults != nil && *first.Guests.Adults >= 1 {
			d.MaxGuests = *first.Guests.Adults
		}
	}
	return d
}

// location joins city and country, using the city code when the address has
// no city name. Empty parts are skipped.
func location(a *domain.HotelAddress, cityCode string) string {
	city := a.CityName
	if city == "" {
		city = cityCode
	}
	switch {
	case city == "":
		return a.CountryCode
	case a.CountryCode == "":
		return city
	default:
		return city + ", " + a.CountryCode
	}
}

// NormalizeAll keeps input order.
func (n *Normalizer) NormalizeAll(offers []domain.HotelOffer) []domain.Destination {
	out := make([]domain.Destination, 0, len(offers))
	for _, o := range offers {
		out = append(out, n.Normalize(o))
	}
	return out
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || f != f {
		return 0
	}
	return f
}

// cloneOffer copies the slices and pointers the destination keeps, so later
// edits on either side don't leak through.
func cloneOffer(o domain.HotelOffer) *domain.HotelOffer {
	c := o
	if o.Hotel != nil {
		h := *o.Hotel
		if h.Address != nil {
			a := *h.Address
			a.Lines = append([]string(nil), a.Lines...)
			h.Address = &a
		}
		if h.Contact != nil {
			ct := *h.Contact
			h.Contact = &ct
		}
		if h.Description != nil {
			tb := *h.Description
			h.Description = &tb
		}
		h.Amenities = append([]string(nil), h.Amenities...)
		c.Hotel = &h
	}
	if o.Offers != nil {
		c.Offers = make([]domain.RateOffer, len(o.Offers))
		for i, r := range o.Offers {
			if r.Price != nil {
				p := *r.Price
				p.Taxes = append([]domain.Tax(nil), p.Taxes...)
				r.Price = &p
			}
			if r.Guests != nil && r.Guests.Adults != nil {
				a := *r.Guests.Adults
				r.Guests = &domain.Guests{Adults: &a}
			}
			c.Offers[i] = r
		}
	}
	return &c
}
