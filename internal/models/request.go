package models

import "time"

type FlightPreferences struct {
	CabinClass string   `json:"cabin_class,omitempty"`
	DirectOnly bool     `json:"direct_only,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
}

type AccommodationPreferences struct {
	PropertyTypes []string `json:"property_types,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	MaxNightly    *float64 `json:"max_nightly_price,omitempty"`
}

type ActivityPreferences struct {
	Difficulty        string   `json:"difficulty,omitempty"`
	MinPhysicalRating *int     `json:"min_physical_rating,omitempty"`
	AdventureTypes    []string `json:"adventure_types,omitempty"`
}

type ComprehensiveSearchRequest struct {
	Destination          string                    `json:"destination" validate:"required"`
	StartDate            string                    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string                    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Travelers            int                       `json:"travelers" validate:"required,gt=0"`
	Budget               *float64                  `json:"budget,omitempty" validate:"omitempty,gt=0"`
	AdventurePreferences []string                  `json:"adventure_preferences,omitempty"`
	IncludeFlights       bool                      `json:"include_flights"`
	IncludeAccommodation bool                      `json:"include_accommodation"`
	IncludeActivities    bool                      `json:"include_activities"`
	Origin               string                    `json:"origin,omitempty"`
	Flights              *FlightPreferences        `json:"flight_preferences,omitempty"`
	Accommodation        *AccommodationPreferences `json:"accommodation_preferences,omitempty"`
	Activities           *ActivityPreferences      `json:"activity_preferences,omitempty"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingDestination ValidationError = "destination is required"
	ErrMissingDates       ValidationError = "start_date and end_date are required"
	ErrInvalidDateRange   ValidationError = "end_date must be after start_date"
)

// Validate fills defaults and checks the fields the validator tags cannot
// express (date ordering, cross-field defaults).
func (r *ComprehensiveSearchRequest) Validate() error {
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.StartDate == "" || r.EndDate == "" {
		return ErrMissingDates
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return ErrMissingDates
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return ErrMissingDates
	}
	if !end.After(start) {
		return ErrInvalidDateRange
	}
	if r.Travelers <= 0 {
		r.Travelers = 1
	}
	if r.Flights != nil && r.Flights.CabinClass == "" {
		r.Flights.CabinClass = "economy"
	}
	return nil
}

// Nights returns the number of nights the stay spans. Validate must have
// succeeded first.
func (r ComprehensiveSearchRequest) Nights() int {
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	return int(end.Sub(start).Hours() / 24)
}
