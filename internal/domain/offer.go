package domain

// HotelOffer mirrors one entry of the hotel API's offer search response.
// Optional sub-records are pointers; the normalizer is the only place that
// decides what a missing field means.
type HotelOffer struct {
	ID        string      `json:"id,omitempty"`
	Type      string      `json:"type,omitempty"`
	Available bool        `json:"available"`
	Hotel     *OfferHotel `json:"hotel"`
	Offers    []RateOffer `json:"offers,omitempty"`
	Self      string      `json:"self,omitempty"`
}

type OfferHotel struct {
	HotelID     string        `json:"hotelId"`
	Name        string        `json:"name"`
	CityCode    string        `json:"cityCode"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	Address     *HotelAddress `json:"address,omitempty"`
	Contact     *HotelContact `json:"contact,omitempty"`
	Description *TextBlock    `json:"description,omitempty"`
	Amenities   []string      `json:"amenities,omitempty"`
}

type HotelAddress struct {
	Lines       []string `json:"lines,omitempty"`
	CityName    string   `json:"cityName"`
	CountryCode string   `json:"countryCode"`
}

type HotelContact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type TextBlock struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// RateOffer is a single priced stay proposal for a hotel.
type RateOffer struct {
	ID           string        `json:"id"`
	CheckInDate  string        `json:"checkInDate,omitempty"`
	CheckOutDate string        `json:"checkOutDate,omitempty"`
	RateCode     string        `json:"rateCode,omitempty"`
	Room         *Room         `json:"room,omitempty"`
	Guests       *Guests       `json:"guests,omitempty"`
	Price        *Price        `json:"price,omitempty"`
	Policies     *RatePolicies `json:"policies,omitempty"`
}

type Room struct {
	Type          string        `json:"type,omitempty"`
	TypeEstimated *RoomEstimate `json:"typeEstimated,omitempty"`
	Description   *TextBlock    `json:"description,omitempty"`
}

type RoomEstimate struct {
	Category string `json:"category,omitempty"`
	Beds     int    `json:"beds,omitempty"`
	BedType  string `json:"bedType,omitempty"`
}

type Guests struct {
	Adults *int `json:"adults,omitempty"`
}

type Price struct {
	Currency string `json:"currency,omitempty"`
	Base     string `json:"base,omitempty"`
	Total    string `json:"total,omitempty"`
	Taxes    []Tax  `json:"taxes,omitempty"`
}

type Tax struct {
	Code     string `json:"code,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	Included bool   `json:"included"`
}

type RatePolicies struct {
	Cancellations []Cancellation `json:"cancellations,omitempty"`
	PaymentType   string         `json:"paymentType,omitempty"`
	Guarantee     *Guarantee     `json:"guarantee,omitempty"`
}

type Cancellation struct {
	Type     string `json:"type,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

type Guarantee struct {
	AcceptedPayments struct {
		CreditCards []string `json:"creditCards,omitempty"`
		Methods     []string `json:"methods,omitempty"`
	} `json:"acceptedPayments"`
}

// OffersPage is the envelope the hotel API wraps offers in.
type OffersPage struct {
	Data []HotelOffer `json:"data"`
}
