package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"

	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/filter"
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/ranking"
	"github.com/asutoshsabat91/adventureos/pkg/currency"
)

type hwCity struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type hwCitiesResponse struct {
	Cities []hwCity `json:"cities"`
}

type hwRatings struct {
	Overall     float64 `json:"overall"`
	Safety      float64 `json:"safety"`
	Location    float64 `json:"location"`
	Staff       float64 `json:"staff"`
	Atmosphere  float64 `json:"atmosphere"`
	Cleanliness float64 `json:"cleanliness"`
	Value       float64 `json:"valueForMoney"`
	Facilities  float64 `json:"facilities"`
}

type hwRoom struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"pricePerNight"`
	Currency     string  `json:"currency"`
	MaxOccupancy int     `json:"maxOccupancy"`
	Cancellation string  `json:"cancellationPolicy"`
	Available    bool    `json:"available"`
}

type hwProperty struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Ratings     hwRatings `json:"ratings"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Rooms       []hwRoom  `json:"rooms"`
	CheckInFrom string    `json:"checkInFrom"`
	CheckOutTo  string    `json:"checkOutTo"`
	MinAge      int       `json:"minAge"`
	Curfew      string    `json:"curfew"`
	PetsAllowed bool      `json:"petsAllowed"`
	ReviewCount int       `json:"reviewCount"`
	Images      []string  `json:"images"`
	Facilities  []string  `json:"facilities"`
}

type hwSearchResponse struct {
	Properties []hwProperty `json:"properties"`
}

type hwReview struct {
	ID       string  `json:"id"`
	Author   string  `json:"author"`
	Country  string  `json:"country"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
	StayedAt string  `json:"stayedAt"`
}

type hwReviewsResponse struct {
	Reviews []hwReview `json:"reviews"`
}

type hwAvailabilityDay struct {
	RoomID    string  `json:"roomId"`
	Date      string  `json:"date"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
}

type hwAvailabilityResponse struct {
	Days []hwAvailabilityDay `json:"availability"`
}

// AccommodationProvider adapts the accommodation API into the shared
// domain schema.
type AccommodationProvider struct {
	client *client.Client
	logger *slog.Logger
}

func NewAccommodationProvider(c *client.Client, logger *slog.Logger) *AccommodationProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccommodationProvider{client: c, logger: logger}
}

func (p *AccommodationProvider) Name() string {
	return p.client.Name()
}

func (p *AccommodationProvider) resolveCity(ctx context.Context, query string) (hwCity, error) {
	var resp hwCitiesResponse
	q := url.Values{"q": {query}}
	if _, err := p.client.Get(ctx, "/cities", q, &resp); err != nil {
		return hwCity{}, err
	}
	if len(resp.Cities) == 0 {
		return hwCity{}, &client.APIError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("no city matches %q", query),
			Code:     client.CodeLocationNotFound,
		}
	}
	return resp.Cities[0], nil
}

// SearchAccommodations resolves the destination and returns normalized
// properties with facets and recommendation picks.
func (p *AccommodationProvider) SearchAccommodations(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.AccommodationSearchResult], error) {
	city, err := p.resolveCity(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"city":     {strconv.Itoa(city.ID)},
		"checkin":  {req.StartDate},
		"checkout": {req.EndDate},
		"guests":   {strconv.Itoa(req.Travelers)},
	}
	var raw hwSearchResponse
	cached, err := p.client.Get(ctx, "/properties", q, &raw)
	if err != nil {
		return nil, err
	}

	result := p.normalizeAll(raw.Properties, req.Accommodation)
	resp := models.OK(result)
	resp.Cached = cached
	remaining := p.client.Remaining()
	resp.RateLimitRemaining = &remaining
	return resp, nil
}

func (p *AccommodationProvider) AccommodationDetails(ctx context.Context, id string) (*models.Response[models.Accommodation], error) {
	var raw hwProperty
	cached, err := p.client.Get(ctx, "/properties/"+id, nil, &raw)
	if err != nil {
		return nil, err
	}
	acc, err := rawToAccommodation(raw, p.Name())
	if err != nil {
		return nil, &client.APIError{Provider: p.Name(), Message: err.Error(), Code: client.CodeBadResponse}
	}
	resp := models.OK(acc)
	resp.Cached = cached
	return resp, nil
}

func (p *AccommodationProvider) Reviews(ctx context.Context, id string) (*models.Response[[]models.Review], error) {
	var raw hwReviewsResponse
	cached, err := p.client.Get(ctx, "/properties/"+id+"/reviews", nil, &raw)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(raw.Reviews))
	for _, r := range raw.Reviews {
		reviews = append(reviews, models.Review{
			ID:       r.ID,
			Author:   r.Author,
			Country:  r.Country,
			Score:    r.Score,
			Text:     r.Text,
			StayedAt: r.StayedAt,
		})
	}
	resp := models.OK(reviews)
	resp.Cached = cached
	return resp, nil
}

func (p *AccommodationProvider) Availability(ctx context.Context, id, checkin, checkout string) (*models.Response[[]models.RoomAvailability], error) {
	q := url.Values{"checkin": {checkin}, "checkout": {checkout}}
	var raw hwAvailabilityResponse
	cached, err := p.client.Get(ctx, "/properties/"+id+"/availability", q, &raw)
	if err != nil {
		return nil, err
	}

	days := make([]models.RoomAvailability, 0, len(raw.Days))
	for _, d := range raw.Days {
		curr := d.Currency
		if curr == "" {
			curr = "USD"
		}
		days = append(days, models.RoomAvailability{
			RoomID:    d.RoomID,
			Date:      d.Date,
			Available: d.Available,
			Price: models.Price{
				Amount:    d.Price,
				Currency:  curr,
				Formatted: currency.Format(curr, d.Price),
			},
		})
	}
	resp := models.OK(days)
	resp.Cached = cached
	return resp, nil
}

// SuggestLocations returns city name completions for a free-text query.
func (p *AccommodationProvider) SuggestLocations(ctx context.Context, query string) (*models.Response[[]string], error) {
	var raw hwCitiesResponse
	q := url.Values{"q": {query}}
	cached, err := p.client.Get(ctx, "/cities", q, &raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw.Cities))
	for _, c := range raw.Cities {
		names = append(names, c.Name+", "+c.Country)
	}
	resp := models.OK(names)
	resp.Cached = cached
	return resp, nil
}

func (p *AccommodationProvider) normalizeAll(raw []hwProperty, prefs *models.AccommodationPreferences) models.AccommodationSearchResult {
	accommodations := make([]models.Accommodation, 0, len(raw))
	for _, prop := range raw {
		acc, err := rawToAccommodation(prop, p.Name())
		if err != nil {
			p.logger.Warn("skipping malformed property", "provider", p.Name(), "id", prop.ID, "error", err)
			continue
		}
		if !filter.MatchAccommodation(acc, prefs) {
			continue
		}
		accommodations = append(accommodations, acc)
	}

	return models.AccommodationSearchResult{
		Accommodations:  accommodations,
		Facets:          accommodationFacets(accommodations),
		Recommendations: recommendAccommodations(accommodations),
	}
}

// rawToAccommodation maps one raw property into the shared schema. A
// property without rooms cannot be priced and is rejected.
func rawToAccommodation(raw hwProperty, provider string) (models.Accommodation, error) {
	if raw.ID == "" {
		return models.Accommodation{}, fmt.Errorf("property without id")
	}
	if len(raw.Rooms) == 0 {
		return models.Accommodation{}, fmt.Errorf("property %s has no rooms", raw.ID)
	}

	rooms := make([]models.Room, 0, len(raw.Rooms))
	for _, r := range raw.Rooms {
		if r.Price < 0 {
			continue
		}
		curr := r.Currency
		if curr == "" {
			curr = "USD"
		}
		occupancy := r.MaxOccupancy
		if occupancy <= 0 {
			occupancy = 1
		}
		cancellation := r.Cancellation
		if cancellation == "" {
			cancellation = "non-refundable"
		}
		rooms = append(rooms, models.Room{
			ID:   r.ID,
			Name: r.Name,
			PricePerNight: models.Price{
				Amount:    r.Price,
				Currency:  curr,
				Formatted: currency.Format(curr, r.Price),
			},
			MaxOccupancy:       occupancy,
			CancellationPolicy: cancellation,
			Available:          r.Available,
		})
	}
	if len(rooms) == 0 {
		return models.Accommodation{}, fmt.Errorf("property %s has no priceable rooms", raw.ID)
	}

	propertyType := raw.Type
	if propertyType == "" {
		propertyType = "hostel"
	}

	return models.Accommodation{
		ID:           raw.ID,
		Provider:     provider,
		Name:         raw.Name,
		PropertyType: propertyType,
		Rating: models.Ratings{
			Overall:     raw.Ratings.Overall,
			Safety:      raw.Ratings.Safety,
			Location:    raw.Ratings.Location,
			Staff:       raw.Ratings.Staff,
			Atmosphere:  raw.Ratings.Atmosphere,
			Cleanliness: raw.Ratings.Cleanliness,
			Value:       raw.Ratings.Value,
			Facilities:  raw.Ratings.Facilities,
		},
		Location: models.AccommodationLocation{
			Address:      raw.Address,
			City:         raw.City,
			Neighborhood: raw.District,
			Coordinates: models.Coordinates{
				Latitude:  raw.Latitude,
				Longitude: raw.Longitude,
			},
		},
		Rooms: rooms,
		Policies: models.AccommodationPolicies{
			CheckInFrom: raw.CheckInFrom,
			CheckOutTo:  raw.CheckOutTo,
			MinAge:      raw.MinAge,
			CurfewHour:  raw.Curfew,
			PetsAllowed: raw.PetsAllowed,
		},
		Reviews: models.ReviewsSummary{
			Count:   raw.ReviewCount,
			Average: raw.Ratings.Overall,
		},
		Images:    raw.Images,
		Amenities: raw.Facilities,
	}, nil
}

func recommendAccommodations(accommodations []models.Accommodation) models.AccommodationRecommendations {
	return models.AccommodationRecommendations{
		BestRated: ranking.MaxBy(accommodations, func(a models.Accommodation) float64 {
			return a.Rating.Overall
		}),
		BestValue: ranking.MaxBy(accommodations, func(a models.Accommodation) float64 {
			nightly := a.CheapestNightly().Amount
			if nightly <= 0 {
				return 0
			}
			return a.Rating.Overall / nightly
		}),
		MostPopular: ranking.MaxBy(accommodations, func(a models.Accommodation) float64 {
			return float64(a.Reviews.Count)
		}),
		BestLocation: ranking.MaxBy(accommodations, func(a models.Accommodation) float64 {
			return a.Rating.Location
		}),
	}
}

func accommodationFacets(accommodations []models.Accommodation) models.AccommodationFacets {
	var facets models.AccommodationFacets
	if len(accommodations) == 0 {
		return facets
	}

	first := accommodations[0]
	facets.PriceRange = models.FloatRange{Min: first.CheapestNightly().Amount, Max: first.CheapestNightly().Amount}
	facets.RatingRange = models.FloatRange{Min: first.Rating.Overall, Max: first.Rating.Overall}

	types := make(map[string]bool)
	neighborhoods := make(map[string]bool)
	amenities := make(map[string]bool)

	for _, a := range accommodations {
		nightly := a.CheapestNightly().Amount
		if nightly < facets.PriceRange.Min {
			facets.PriceRange.Min = nightly
		}
		if nightly > facets.PriceRange.Max {
			facets.PriceRange.Max = nightly
		}
		if a.Rating.Overall < facets.RatingRange.Min {
			facets.RatingRange.Min = a.Rating.Overall
		}
		if a.Rating.Overall > facets.RatingRange.Max {
			facets.RatingRange.Max = a.Rating.Overall
		}
		types[a.PropertyType] = true
		if a.Location.Neighborhood != "" {
			neighborhoods[a.Location.Neighborhood] = true
		}
		for _, am := range a.Amenities {
			amenities[am] = true
		}
	}

	facets.PropertyTypes = sortedKeys(types)
	facets.Neighborhoods = sortedKeys(neighborhoods)
	facets.Amenities = sortedKeys(amenities)

	return facets
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
