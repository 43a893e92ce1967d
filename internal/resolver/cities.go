package resolver

import "staybook/internal/domain"

// Cities is the built-in table. Order matters: within a matching tier the
// first entry wins.
var Cities = []domain.CityRecord{
	{Name: "Paris", Country: "France", Code: "PAR",
		Aliases:     []string{"paris", "city of lights", "ville lumière"},
		Coordinates: &domain.Coordinates{Lat: 48.8566, Lng: 2.3522}},
	{Name: "London", Country: "United Kingdom", Code: "LON",
		Aliases:     []string{"london", "big ben", "uk", "england"},
		Coordinates: &domain.Coordinates{Lat: 51.5074, Lng: -0.1278}},
	{Name: "New York", Country: "United States", Code: "NYC",
		Aliases:     []string{"new york", "nyc", "big apple", "manhattan", "brooklyn"},
		Coordinates: &domain.Coordinates{Lat: 40.7128, Lng: -74.0060}},
	{Name: "Tokyo", Country: "Japan", Code: "TYO",
		Aliases:     []string{"tokyo", "japan", "shibuya", "harajuku"},
		Coordinates: &domain.Coordinates{Lat: 35.6762, Lng: 139.6503}},
	{Name: "Madrid", Country: "Spain", Code: "MAD",
		Aliases:     []string{"madrid", "spain", "españa"},
		Coordinates: &domain.Coordinates{Lat: 40.4168, Lng: -3.7038}},
	{Name: "Rome", Country: "Italy", Code: "ROM",
		Aliases:     []string{"rome", "roma", "italy", "eternal city"},
		Coordinates: &domain.Coordinates{Lat: 41.9028, Lng: 12.4964}},
	{Name: "Berlin", Country: "Germany", Code: "BER",
		Aliases:     []string{"berlin", "germany", "deutschland"},
		Coordinates: &domain.Coordinates{Lat: 52.5200, Lng: 13.4050}},
	{Name: "Amsterdam", Country: "Netherlands", Code: "AMS",
		Aliases:     []string{"amsterdam", "netherlands", "holland"},
		Coordinates: &domain.Coordinates{Lat: 52.3676, Lng: 4.9041}},
	{Name: "Barcelona", Country: "Spain", Code: "BCN",
		Aliases:     []string{"barcelona", "spain", "catalonia"},
		Coordinates: &domain.Coordinates{Lat: 41.3851, Lng: 2.1734}},
	{Name: "Dubai", Country: "United Arab Emirates", Code: "DXB",
		Aliases:     []string{"dubai", "uae", "emirates"},
		Coordinates: &domain.Coordinates{Lat: 25.2048, Lng: 55.2708}},
	{Name: "Singapore", Country: "Singapore", Code: "SIN",
		Aliases:     []string{"singapore", "sg"},
		Coordinates: &domain.Coordinates{Lat: 1.3521, Lng: 103.8198}},
	{Name: "Sydney", Country: "Australia", Code: "SYD",
		Aliases:     []string{"sydney", "australia", "aussie"},
		Coordinates: &domain.Coordinates{Lat: -33.8688, Lng: 151.2093}},
}
