package models

import "time"

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type FlightStop struct {
	Airport  string    `json:"airport"`
	City     string    `json:"city"`
	Terminal *string   `json:"terminal,omitempty"`
	Time     time.Time `json:"time"`
}

type Duration struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"total_minutes"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type Baggage struct {
	CabinKg   float64 `json:"cabin_kg"`
	CheckedKg float64 `json:"checked_kg"`
}

type Flight struct {
	ID           string     `json:"id"`
	Provider     string     `json:"provider"`
	Airline      Airline    `json:"airline"`
	FlightNumber string     `json:"flight_number"`
	Departure    FlightStop `json:"departure"`
	Arrival      FlightStop `json:"arrival"`
	Duration     Duration   `json:"duration"`
	Stops        int        `json:"stops"`
	Price        Price      `json:"price"`
	CabinClass   string     `json:"cabin_class"`
	Aircraft     *string    `json:"aircraft,omitempty"`
	Amenities    []string   `json:"amenities,omitempty"`
	Baggage      Baggage    `json:"baggage"`
}

// FloatRange is a min/max facet accumulated during normalization.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FlightRecommendations are the named picks computed from one search's
// normalized result set. Any pick may be nil when the result set is empty.
type FlightRecommendations struct {
	Cheapest       *Flight `json:"cheapest,omitempty"`
	Fastest        *Flight `json:"fastest,omitempty"`
	BestValue      *Flight `json:"best_value,omitempty"`
	MostConvenient *Flight `json:"most_convenient,omitempty"`
}

type FlightFacets struct {
	PriceRange       FloatRange `json:"price_range"`
	Airlines         []Airline  `json:"airlines,omitempty"`
	StopCounts       []int      `json:"stop_counts,omitempty"`
	DepartureWindows []string   `json:"departure_windows,omitempty"`
}

type FlightSearchResult struct {
	Flights         []Flight              `json:"flights"`
	Facets          FlightFacets          `json:"facets"`
	Recommendations FlightRecommendations `json:"recommendations"`
}

type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}
