package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/filter"
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/ranking"
	"github.com/asutoshsabat91/adventureos/pkg/currency"
)

type trDestination struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type trDestinationsResponse struct {
	Destinations []trDestination `json:"destinations"`
}

type trOperator struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	Certifications []string `json:"certifications"`
}

type trItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
	Meals       []string `json:"meals"`
}

type trDeparture struct {
	Date          string `json:"date"`
	SpotsLeft     int    `json:"spotsLeft"`
	GuaranteedRun bool   `json:"guaranteed"`
}

type trTour struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Operator       trOperator       `json:"operator"`
	Category       string           `json:"category"`
	Difficulty     string           `json:"difficulty"`
	PhysicalGrade  int              `json:"physicalGrade"`
	LengthDays     int              `json:"lengthDays"`
	Itinerary      []trItineraryDay `json:"itinerary"`
	Price          float64          `json:"price"`
	Currency       string           `json:"currency"`
	Includes       []string         `json:"includes"`
	Excludes       []string         `json:"excludes"`
	Departures     []trDeparture    `json:"departures"`
	AdventureTypes []string         `json:"adventureTypes"`
	Rating         float64          `json:"rating"`
	ReviewCount    int              `json:"reviewCount"`
}

type trSearchResponse struct {
	Tours []trTour `json:"tours"`
}

type trDeparturesResponse struct {
	Departures []trDeparture `json:"departures"`
}

// ActivityProvider adapts the multi-day tour API into the shared domain
// schema.
type ActivityProvider struct {
	client *client.Client
	logger *slog.Logger
}

func NewActivityProvider(c *client.Client, logger *slog.Logger) *ActivityProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityProvider{client: c, logger: logger}
}

func (p *ActivityProvider) Name() string {
	return p.client.Name()
}

func (p *ActivityProvider) resolveDestination(ctx context.Context, query string) (trDestination, error) {
	var resp trDestinationsResponse
	q := url.Values{"query": {query}}
	if _, err := p.client.Get(ctx, "/destinations", q, &resp); err != nil {
		return trDestination{}, err
	}
	if len(resp.Destinations) == 0 {
		return trDestination{}, &client.APIError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("no destination matches %q", query),
			Code:     client.CodeLocationNotFound,
		}
	}
	return resp.Destinations[0], nil
}

// SearchTours resolves the destination and returns normalized tours with
// facets and recommendation picks.
func (p *ActivityProvider) SearchTours(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.TourSearchResult], error) {
	dest, err := p.resolveDestination(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"destination_id": {strconv.Itoa(dest.ID)},
		"start_date":     {req.StartDate},
		"end_date":       {req.EndDate},
		"travelers":      {strconv.Itoa(req.Travelers)},
	}
	var raw trSearchResponse
	cached, err := p.client.Get(ctx, "/tours", q, &raw)
	if err != nil {
		return nil, err
	}

	result := p.normalizeAll(raw.Tours, req.Activities)
	resp := models.OK(result)
	resp.Cached = cached
	remaining := p.client.Remaining()
	resp.RateLimitRemaining = &remaining
	return resp, nil
}

func (p *ActivityProvider) TourDetails(ctx context.Context, id string) (*models.Response[models.Tour], error) {
	var raw trTour
	cached, err := p.client.Get(ctx, "/tours/"+id, nil, &raw)
	if err != nil {
		return nil, err
	}
	tour, err := rawToTour(raw, p.Name())
	if err != nil {
		return nil, &client.APIError{Provider: p.Name(), Message: err.Error(), Code: client.CodeBadResponse}
	}
	resp := models.OK(tour)
	resp.Cached = cached
	return resp, nil
}

func (p *ActivityProvider) TourAvailability(ctx context.Context, id string) (*models.Response[[]models.Departure], error) {
	var raw trDeparturesResponse
	cached, err := p.client.Get(ctx, "/tours/"+id+"/departures", nil, &raw)
	if err != nil {
		return nil, err
	}

	departures := make([]models.Departure, 0, len(raw.Departures))
	for _, d := range raw.Departures {
		departures = append(departures, models.Departure{
			Date:          d.Date,
			SpotsLeft:     d.SpotsLeft,
			GuaranteedRun: d.GuaranteedRun,
		})
	}
	resp := models.OK(departures)
	resp.Cached = cached
	return resp, nil
}

// SuggestDestinations returns destination completions for a free-text query.
func (p *ActivityProvider) SuggestDestinations(ctx context.Context, query string) (*models.Response[[]string], error) {
	var raw trDestinationsResponse
	q := url.Values{"query": {query}}
	cached, err := p.client.Get(ctx, "/destinations", q, &raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw.Destinations))
	for _, d := range raw.Destinations {
		names = append(names, d.Name+", "+d.Country)
	}
	resp := models.OK(names)
	resp.Cached = cached
	return resp, nil
}

func (p *ActivityProvider) OperatorDetails(ctx context.Context, id string) (*models.Response[models.Operator], error) {
	var raw trOperator
	cached, err := p.client.Get(ctx, "/operators/"+id, nil, &raw)
	if err != nil {
		return nil, err
	}
	resp := models.OK(models.Operator{
		ID:             raw.ID,
		Name:           raw.Name,
		Rating:         raw.Rating,
		ReviewCount:    raw.ReviewCount,
		Certifications: raw.Certifications,
	})
	resp.Cached = cached
	return resp, nil
}

func (p *ActivityProvider) normalizeAll(raw []trTour, prefs *models.ActivityPreferences) models.TourSearchResult {
	tours := make([]models.Tour, 0, len(raw))
	for _, t := range raw {
		tour, err := rawToTour(t, p.Name())
		if err != nil {
			p.logger.Warn("skipping malformed tour", "provider", p.Name(), "id", t.ID, "error", err)
			continue
		}
		if !filter.MatchTour(tour, prefs) {
			continue
		}
		tours = append(tours, tour)
	}

	return models.TourSearchResult{
		Tours:           tours,
		Facets:          tourFacets(tours),
		Recommendations: recommendTours(tours),
	}
}

// rawToTour maps one raw tour into the shared schema. Duration keeps the
// nights == days-1 invariant; the difficulty string collapses to the enum.
func rawToTour(raw trTour, provider string) (models.Tour, error) {
	if raw.ID == "" {
		return models.Tour{}, fmt.Errorf("tour without id")
	}
	if raw.LengthDays <= 0 {
		return models.Tour{}, fmt.Errorf("tour %s has non-positive length", raw.ID)
	}
	if raw.Price < 0 {
		return models.Tour{}, fmt.Errorf("tour %s has negative price", raw.ID)
	}

	curr := raw.Currency
	if curr == "" {
		curr = "USD"
	}

	physical := raw.PhysicalGrade
	if physical < 1 {
		physical = 1
	}
	if physical > 5 {
		physical = 5
	}

	itinerary := make([]models.ItineraryDay, 0, len(raw.Itinerary))
	for _, d := range raw.Itinerary {
		itinerary = append(itinerary, models.ItineraryDay{
			Day:         d.Day,
			Title:       d.Title,
			Description: d.Description,
			Activities:  d.Activities,
			Meals:       d.Meals,
		})
	}

	departures := make([]models.Departure, 0, len(raw.Departures))
	for _, d := range raw.Departures {
		departures = append(departures, models.Departure{
			Date:          d.Date,
			SpotsLeft:     d.SpotsLeft,
			GuaranteedRun: d.GuaranteedRun,
		})
	}

	category := raw.Category
	if category == "" {
		category = "adventure"
	}

	return models.Tour{
		ID:       raw.ID,
		Provider: provider,
		Name:     raw.Name,
		Operator: models.Operator{
			ID:             raw.Operator.ID,
			Name:           raw.Operator.Name,
			Rating:         raw.Operator.Rating,
			ReviewCount:    raw.Operator.ReviewCount,
			Certifications: raw.Operator.Certifications,
		},
		Category:       category,
		Difficulty:     normalizeDifficulty(raw.Difficulty),
		PhysicalRating: physical,
		Duration: models.TourDuration{
			Days:   raw.LengthDays,
			Nights: raw.LengthDays - 1,
		},
		Itinerary: itinerary,
		Pricing: models.TourPrice{
			Price: models.Price{
				Amount:    raw.Price,
				Currency:  curr,
				Formatted: currency.Format(curr, raw.Price),
			},
			Includes: raw.Includes,
			Excludes: raw.Excludes,
		},
		Departures:     departures,
		AdventureTypes: raw.AdventureTypes,
		Rating:         raw.Rating,
		ReviewCount:    raw.ReviewCount,
	}, nil
}

func normalizeDifficulty(s string) models.Difficulty {
	switch strings.ToLower(s) {
	case "easy", "leisurely", "relaxed":
		return models.DifficultyEasy
	case "challenging", "demanding", "tough", "strenuous":
		return models.DifficultyChallenging
	default:
		return models.DifficultyModerate
	}
}

// AdventureScore is the adventure-focus heuristic: physical rating plus
// the count of distinct adventure types.
func AdventureScore(t models.Tour) float64 {
	distinct := make(map[string]bool)
	for _, at := range t.AdventureTypes {
		distinct[strings.ToLower(at)] = true
	}
	return float64(t.PhysicalRating) + float64(len(distinct))
}

func recommendTours(tours []models.Tour) models.TourRecommendations {
	return models.TourRecommendations{
		BestRated: ranking.MaxBy(tours, func(t models.Tour) float64 { return t.Rating }),
		BestValue: ranking.MaxBy(tours, func(t models.Tour) float64 {
			if t.Pricing.Price.Amount <= 0 {
				return 0
			}
			return t.Rating / t.Pricing.Price.Amount
		}),
		MostPopular:     ranking.MaxBy(tours, func(t models.Tour) float64 { return float64(t.ReviewCount) }),
		MostAdventurous: ranking.MaxBy(tours, AdventureScore),
	}
}

func tourFacets(tours []models.Tour) models.TourFacets {
	var facets models.TourFacets
	if len(tours) == 0 {
		return facets
	}

	facets.PriceRange = models.FloatRange{Min: tours[0].Pricing.Price.Amount, Max: tours[0].Pricing.Price.Amount}
	difficulties := make(map[models.Difficulty]bool)
	durations := make(map[int]bool)
	categories := make(map[string]bool)

	for _, t := range tours {
		amount := t.Pricing.Price.Amount
		if amount < facets.PriceRange.Min {
			facets.PriceRange.Min = amount
		}
		if amount > facets.PriceRange.Max {
			facets.PriceRange.Max = amount
		}
		difficulties[t.Difficulty] = true
		durations[t.Duration.Days] = true
		categories[t.Category] = true
	}

	for d := range difficulties {
		facets.Difficulties = append(facets.Difficulties, d)
	}
	sort.Slice(facets.Difficulties, func(i, j int) bool {
		return facets.Difficulties[i] < facets.Difficulties[j]
	})
	for d := range durations {
		facets.Durations = append(facets.Durations, d)
	}
	sort.Ints(facets.Durations)
	facets.Categories = sortedKeys(categories)

	return facets
}
