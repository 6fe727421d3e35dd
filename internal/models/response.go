package models

import "time"

// Response is the uniform envelope every adapter and aggregator method
// returns. Success is true iff normalization completed without error.
type Response[T any] struct {
	Data               T      `json:"data"`
	Success            bool   `json:"success"`
	Message            string `json:"message,omitempty"`
	Cached             bool   `json:"cached,omitempty"`
	RateLimitRemaining *int   `json:"rate_limit_remaining,omitempty"`
}

func OK[T any](data T) *Response[T] {
	return &Response[T]{Data: data, Success: true}
}

type Destination struct {
	Name    string          `json:"name"`
	Weather DestinationData `json:"weather"`
}

type BestValuePackage struct {
	Flight        *Flight        `json:"flight,omitempty"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	TotalCost     float64        `json:"total_cost"`
	Currency      string         `json:"currency"`
	SavingsPct    float64        `json:"savings_pct"`
}

type AdventurePackage struct {
	Tour           *Tour   `json:"tour,omitempty"`
	AdventureScore float64 `json:"adventure_score"`
}

type BudgetPackage struct {
	Flight        *Flight        `json:"flight,omitempty"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	TotalCost     float64        `json:"total_cost"`
	Currency      string         `json:"currency"`
	UnderBudget   bool           `json:"under_budget"`
}

type RecommendationPackages struct {
	BestValue      *BestValuePackage `json:"best_value,omitempty"`
	Adventure      *AdventurePackage `json:"adventure,omitempty"`
	BudgetFriendly *BudgetPackage    `json:"budget_friendly,omitempty"`
}

// CostEstimate is an intentionally wide band: Min is the sum of the
// per-domain representative costs plus a flat buffer, Max widens it for
// quote uncertainty.
type CostEstimate struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Currency  string  `json:"currency"`
	Breakdown struct {
		Flights       float64 `json:"flights"`
		Accommodation float64 `json:"accommodation"`
		Activities    float64 `json:"activities"`
		Other         float64 `json:"other"`
	} `json:"breakdown"`
}

type SearchMetadata struct {
	SearchID  string    `json:"search_id"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMs int64     `json:"elapsed_ms"`
	CacheHits []string  `json:"cache_hits,omitempty"`
	APIErrors []string  `json:"api_errors,omitempty"`
}

type ComprehensiveSearchResponse struct {
	Destination     Destination                `json:"destination"`
	Flights         *FlightSearchResult        `json:"flights,omitempty"`
	Accommodations  *AccommodationSearchResult `json:"accommodations,omitempty"`
	Activities      *TourSearchResult          `json:"activities,omitempty"`
	Recommendations RecommendationPackages     `json:"recommendations"`
	CostEstimate    CostEstimate               `json:"total_cost_estimate"`
	SearchMetadata  SearchMetadata             `json:"search_metadata"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
