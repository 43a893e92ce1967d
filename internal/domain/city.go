package domain

// CityRecord is one entry of the static city table used to turn free text
// into a location code for the hotel API.
type CityRecord struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	Code        string       `json:"code"`    // 3-letter location code
	Aliases     []string     `json:"aliases"` // lowercase
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates are informational only; matching never looks at them.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
