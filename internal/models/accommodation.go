package models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AccommodationLocation struct {
	Address      string      `json:"address"`
	City         string      `json:"city"`
	Neighborhood string      `json:"neighborhood,omitempty"`
	Coordinates  Coordinates `json:"coordinates"`
}

// Ratings carries the overall score plus the seven sub-scores reported
// by the accommodation provider. Sub-scores are independent inputs, the
// overall is not recomputed from them.
type Ratings struct {
	Overall     float64 `json:"overall"`
	Safety      float64 `json:"safety"`
	Location    float64 `json:"location"`
	Staff       float64 `json:"staff"`
	Atmosphere  float64 `json:"atmosphere"`
	Cleanliness float64 `json:"cleanliness"`
	Value       float64 `json:"value"`
	Facilities  float64 `json:"facilities"`
}

type Room struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	PricePerNight      Price  `json:"price_per_night"`
	MaxOccupancy       int    `json:"max_occupancy"`
	CancellationPolicy string `json:"cancellation_policy"`
	Available          bool   `json:"available"`
}

type AccommodationPolicies struct {
	CheckInFrom string `json:"check_in_from"`
	CheckOutTo  string `json:"check_out_to"`
	MinAge      int    `json:"min_age,omitempty"`
	CurfewHour  string `json:"curfew_hour,omitempty"`
	PetsAllowed bool   `json:"pets_allowed"`
}

type ReviewsSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Accommodation struct {
	ID           string                `json:"id"`
	Provider     string                `json:"provider"`
	Name         string                `json:"name"`
	PropertyType string                `json:"property_type"`
	Rating       Ratings               `json:"rating"`
	Location     AccommodationLocation `json:"location"`
	Rooms        []Room                `json:"rooms"`
	Policies     AccommodationPolicies `json:"policies"`
	Reviews      ReviewsSummary        `json:"reviews"`
	Images       []string              `json:"images,omitempty"`
	Amenities    []string              `json:"amenities,omitempty"`
}

// CheapestNightly returns the lowest available room price per night.
// A priced accommodation always has at least one room.
func (a Accommodation) CheapestNightly() Price {
	if len(a.Rooms) == 0 {
		return Price{}
	}
	best := a.Rooms[0].PricePerNight
	for _, r := range a.Rooms[1:] {
		if r.PricePerNight.Amount < best.Amount {
			best = r.PricePerNight
		}
	}
	return best
}

type AccommodationRecommendations struct {
	BestRated    *Accommodation `json:"best_rated,omitempty"`
	BestValue    *Accommodation `json:"best_value,omitempty"`
	MostPopular  *Accommodation `json:"most_popular,omitempty"`
	BestLocation *Accommodation `json:"best_location,omitempty"`
}

type AccommodationFacets struct {
	PriceRange    FloatRange `json:"price_range"`
	RatingRange   FloatRange `json:"rating_range"`
	PropertyTypes []string   `json:"property_types,omitempty"`
	Neighborhoods []string   `json:"neighborhoods,omitempty"`
	Amenities     []string   `json:"amenities,omitempty"`
}

type AccommodationSearchResult struct {
	Accommodations  []Accommodation              `json:"accommodations"`
	Facets          AccommodationFacets          `json:"facets"`
	Recommendations AccommodationRecommendations `json:"recommendations"`
}

type Review struct {
	ID       string  `json:"id"`
	Author   string  `json:"author"`
	Country  string  `json:"country,omitempty"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
	StayedAt string  `json:"stayed_at,omitempty"`
}

type RoomAvailability struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Price     Price  `json:"price"`
}
