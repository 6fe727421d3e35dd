package models

// Difficulty is the normalized tour difficulty grade.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

type Operator struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	Certifications []string `json:"certifications,omitempty"`
}

type TourDuration struct {
	Days   int `json:"days"`
	Nights int `json:"nights"`
}

type ItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Activities  []string `json:"activities,omitempty"`
	Meals       []string `json:"meals,omitempty"`
}

type TourPrice struct {
	Price    Price    `json:"price"`
	Includes []string `json:"includes,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
}

type Departure struct {
	Date          string `json:"date"`
	SpotsLeft     int    `json:"spots_left"`
	GuaranteedRun bool   `json:"guaranteed_run"`
}

type Tour struct {
	ID             string         `json:"id"`
	Provider       string         `json:"provider"`
	Name           string         `json:"name"`
	Operator       Operator       `json:"operator"`
	Category       string         `json:"category"`
	Difficulty     Difficulty     `json:"difficulty"`
	PhysicalRating int            `json:"physical_rating"`
	Duration       TourDuration   `json:"duration"`
	Itinerary      []ItineraryDay `json:"itinerary,omitempty"`
	Pricing        TourPrice      `json:"pricing"`
	Departures     []Departure    `json:"departures,omitempty"`
	AdventureTypes []string       `json:"adventure_types,omitempty"`
	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"review_count"`
}

type TourRecommendations struct {
	BestRated       *Tour `json:"best_rated,omitempty"`
	BestValue       *Tour `json:"best_value,omitempty"`
	MostPopular     *Tour `json:"most_popular,omitempty"`
	MostAdventurous *Tour `json:"most_adventurous,omitempty"`
}

type TourFacets struct {
	PriceRange   FloatRange   `json:"price_range"`
	Difficulties []Difficulty `json:"difficulties,omitempty"`
	Durations    []int        `json:"durations_days,omitempty"`
	Categories   []string     `json:"categories,omitempty"`
}

type TourSearchResult struct {
	Tours           []Tour              `json:"tours"`
	Facets          TourFacets          `json:"facets"`
	Recommendations TourRecommendations `json:"recommendations"`
}
