package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/filter"
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/ranking"
	"github.com/asutoshsabat91/adventureos/internal/timeutil"
	"github.com/asutoshsabat91/adventureos/pkg/currency"
)

const (
	flightPollInterval    = 2 * time.Second
	flightPollMaxAttempts = 10
)

type skyPlace struct {
	EntityID string `json:"entityId"`
	IATA     string `json:"iataCode"`
	Name     string `json:"name"`
	CityName string `json:"cityName"`
	Country  string `json:"countryName"`
}

type skyPlacesResponse struct {
	Places []skyPlace `json:"places"`
}

type skySessionResponse struct {
	SessionToken string `json:"sessionToken"`
	Status       string `json:"status"`
}

type skyCarrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type skyLeg struct {
	OriginIATA      string     `json:"origin"`
	DestinationIATA string     `json:"destination"`
	Departure       string     `json:"departure"`
	Arrival         string     `json:"arrival"`
	DepartTerminal  string     `json:"departureTerminal"`
	ArriveTerminal  string     `json:"arrivalTerminal"`
	DurationMinutes int        `json:"durationInMinutes"`
	StopCount       int        `json:"stopCount"`
	Carrier         skyCarrier `json:"marketingCarrier"`
	FlightNumber    string     `json:"flightNumber"`
	Aircraft        string     `json:"aircraft"`
}

type skyPricingOption struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type skyBaggage struct {
	CabinKg   float64 `json:"cabinKg"`
	CheckedKg float64 `json:"checkedKg"`
}

type skyItinerary struct {
	ID         string           `json:"id"`
	Legs       []skyLeg         `json:"legs"`
	Pricing    skyPricingOption `json:"pricing"`
	CabinClass string           `json:"cabinClass"`
	Amenities  []string         `json:"amenities"`
	Baggage    *skyBaggage      `json:"baggage"`
	OriginCity string           `json:"originCity"`
	DestCity   string           `json:"destinationCity"`
}

type skyPollResponse struct {
	Status      string         `json:"status"`
	Itineraries []skyItinerary `json:"itineraries"`
}

// FlightProvider adapts the flight search API into the shared domain
// schema. Searches use a session protocol: create a session, then poll it
// until the provider reports completion.
type FlightProvider struct {
	client *client.Client
	logger *slog.Logger
}

func NewFlightProvider(c *client.Client, logger *slog.Logger) *FlightProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlightProvider{client: c, logger: logger}
}

func (p *FlightProvider) Name() string {
	return p.client.Name()
}

func (p *FlightProvider) resolvePlace(ctx context.Context, query string) (skyPlace, error) {
	var resp skyPlacesResponse
	q := url.Values{"query": {query}}
	if _, err := p.client.Get(ctx, "/places", q, &resp); err != nil {
		return skyPlace{}, err
	}
	if len(resp.Places) == 0 {
		return skyPlace{}, &client.APIError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("no airport matches %q", query),
			Code:     client.CodeLocationNotFound,
		}
	}
	return resp.Places[0], nil
}

// SearchFlights resolves both endpoints, runs the session protocol and
// returns normalized flights with facets and recommendation picks.
func (p *FlightProvider) SearchFlights(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.FlightSearchResult], error) {
	origin, err := p.resolvePlace(ctx, req.Origin)
	if err != nil {
		return nil, err
	}
	dest, err := p.resolvePlace(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	cabinClass := "economy"
	if req.Flights != nil && req.Flights.CabinClass != "" {
		cabinClass = req.Flights.CabinClass
	}

	var session skySessionResponse
	err = p.client.Post(ctx, "/search/create", map[string]any{
		"originEntityId":      origin.EntityID,
		"destinationEntityId": dest.EntityID,
		"departureDate":       req.StartDate,
		"adults":              req.Travelers,
		"cabinClass":          cabinClass,
	}, &session)
	if err != nil {
		return nil, err
	}

	var poll skyPollResponse
	err = p.client.Poll(ctx, flightPollInterval, flightPollMaxAttempts, func(ctx context.Context) (bool, error) {
		if err := p.client.GetUncached(ctx, "/search/poll/"+session.SessionToken, nil, &poll); err != nil {
			return false, err
		}
		return poll.Status == "RESULT_STATUS_COMPLETE", nil
	})
	if err != nil {
		return nil, err
	}

	result := p.normalizeAll(poll.Itineraries, req.Flights)
	return p.envelope(result), nil
}

// FlightDetails fetches a single itinerary by id.
func (p *FlightProvider) FlightDetails(ctx context.Context, id string) (*models.Response[models.Flight], error) {
	var raw skyItinerary
	cached, err := p.client.Get(ctx, "/itineraries/"+id, nil, &raw)
	if err != nil {
		return nil, err
	}
	flight, err := rawToFlight(raw, p.Name())
	if err != nil {
		return nil, &client.APIError{Provider: p.Name(), Message: err.Error(), Code: client.CodeBadResponse}
	}
	resp := models.OK(flight)
	resp.Cached = cached
	return resp, nil
}

// SuggestAirports returns airport completions for a free-text query.
func (p *FlightProvider) SuggestAirports(ctx context.Context, query string) (*models.Response[[]models.Airport], error) {
	var raw skyPlacesResponse
	q := url.Values{"query": {query}}
	cached, err := p.client.Get(ctx, "/places", q, &raw)
	if err != nil {
		return nil, err
	}

	airports := make([]models.Airport, 0, len(raw.Places))
	for _, pl := range raw.Places {
		airports = append(airports, models.Airport{
			Code:    pl.IATA,
			Name:    pl.Name,
			City:    pl.CityName,
			Country: pl.Country,
		})
	}
	resp := models.OK(airports)
	resp.Cached = cached
	return resp, nil
}

func (p *FlightProvider) envelope(result models.FlightSearchResult) *models.Response[models.FlightSearchResult] {
	resp := models.OK(result)
	remaining := p.client.Remaining()
	resp.RateLimitRemaining = &remaining
	return resp
}

func (p *FlightProvider) normalizeAll(raw []skyItinerary, prefs *models.FlightPreferences) models.FlightSearchResult {
	flights := make([]models.Flight, 0, len(raw))
	for _, it := range raw {
		flight, err := rawToFlight(it, p.Name())
		if err != nil {
			// One malformed record never fails the batch.
			p.logger.Warn("skipping malformed itinerary", "provider", p.Name(), "id", it.ID, "error", err)
			continue
		}
		if !filter.MatchFlight(flight, prefs) {
			continue
		}
		flights = append(flights, flight)
	}

	return models.FlightSearchResult{
		Flights:         flights,
		Facets:          flightFacets(flights),
		Recommendations: recommendFlights(flights),
	}
}

// rawToFlight maps one provider itinerary into the shared schema,
// defaulting missing optional fields instead of failing.
func rawToFlight(raw skyItinerary, provider string) (models.Flight, error) {
	if len(raw.Legs) == 0 {
		return models.Flight{}, fmt.Errorf("itinerary %s has no legs", raw.ID)
	}
	leg := raw.Legs[0]

	depTime, err := timeutil.ParseTimestamp(leg.Departure)
	if err != nil {
		return models.Flight{}, err
	}
	arrTime, err := timeutil.ParseTimestamp(leg.Arrival)
	if err != nil {
		return models.Flight{}, err
	}

	duration := leg.DurationMinutes
	if duration <= 0 {
		duration = int(arrTime.Sub(depTime).Minutes())
	}
	if duration <= 0 {
		return models.Flight{}, fmt.Errorf("itinerary %s has non-positive duration", raw.ID)
	}
	if raw.Pricing.Amount < 0 {
		return models.Flight{}, fmt.Errorf("itinerary %s has negative price", raw.ID)
	}

	curr := raw.Pricing.Currency
	if curr == "" {
		curr = "USD"
	}

	var depTerminal, arrTerminal *string
	if leg.DepartTerminal != "" {
		t := leg.DepartTerminal
		depTerminal = &t
	}
	if leg.ArriveTerminal != "" {
		t := leg.ArriveTerminal
		arrTerminal = &t
	}

	var aircraft *string
	if leg.Aircraft != "" {
		a := leg.Aircraft
		aircraft = &a
	}

	cabin := raw.CabinClass
	if cabin == "" {
		cabin = "economy"
	}

	var baggage models.Baggage
	if raw.Baggage != nil {
		baggage = models.Baggage{CabinKg: raw.Baggage.CabinKg, CheckedKg: raw.Baggage.CheckedKg}
	}

	return models.Flight{
		ID:       raw.ID,
		Provider: provider,
		Airline: models.Airline{
			Code: leg.Carrier.Code,
			Name: leg.Carrier.Name,
		},
		FlightNumber: leg.FlightNumber,
		Departure: models.FlightStop{
			Airport:  leg.OriginIATA,
			City:     raw.OriginCity,
			Terminal: depTerminal,
			Time:     depTime,
		},
		Arrival: models.FlightStop{
			Airport:  leg.DestinationIATA,
			City:     raw.DestCity,
			Terminal: arrTerminal,
			Time:     arrTime,
		},
		Duration: models.Duration{
			Hours:        duration / 60,
			Minutes:      duration % 60,
			TotalMinutes: duration,
		},
		Stops: leg.StopCount,
		Price: models.Price{
			Amount:    raw.Pricing.Amount,
			Currency:  curr,
			Formatted: currency.Format(curr, raw.Pricing.Amount),
		},
		CabinClass: cabin,
		Aircraft:   aircraft,
		Amenities:  raw.Amenities,
		Baggage:    baggage,
	}, nil
}

func recommendFlights(flights []models.Flight) models.FlightRecommendations {
	recs := models.FlightRecommendations{
		Cheapest: ranking.MinBy(flights, func(f models.Flight) float64 { return f.Price.Amount }),
		Fastest:  ranking.MinBy(flights, func(f models.Flight) float64 { return float64(f.Duration.TotalMinutes) }),
		BestValue: ranking.MinBy(flights, func(f models.Flight) float64 {
			return f.Price.Amount / float64(f.Duration.TotalMinutes)
		}),
	}

	// Most convenient: non-stop with a daytime departure, else fall back
	// to the cheapest pick.
	recs.MostConvenient = ranking.FirstWhere(flights, func(f models.Flight) bool {
		return f.Stops == 0 && timeutil.IsDaytime(f.Departure.Time)
	})
	if recs.MostConvenient == nil {
		recs.MostConvenient = recs.Cheapest
	}

	return recs
}

func flightFacets(flights []models.Flight) models.FlightFacets {
	var facets models.FlightFacets
	if len(flights) == 0 {
		return facets
	}

	facets.PriceRange = models.FloatRange{Min: flights[0].Price.Amount, Max: flights[0].Price.Amount}
	airlines := make(map[string]models.Airline)
	stops := make(map[int]bool)
	windows := make(map[string]bool)

	for _, f := range flights {
		if f.Price.Amount < facets.PriceRange.Min {
			facets.PriceRange.Min = f.Price.Amount
		}
		if f.Price.Amount > facets.PriceRange.Max {
			facets.PriceRange.Max = f.Price.Amount
		}
		airlines[f.Airline.Code] = f.Airline
		stops[f.Stops] = true
		windows[timeutil.DepartureWindow(f.Departure.Time)] = true
	}

	for _, a := range airlines {
		facets.Airlines = append(facets.Airlines, a)
	}
	sort.Slice(facets.Airlines, func(i, j int) bool {
		return facets.Airlines[i].Code < facets.Airlines[j].Code
	})
	for s := range stops {
		facets.StopCounts = append(facets.StopCounts, s)
	}
	sort.Ints(facets.StopCounts)
	for w := range windows {
		facets.DepartureWindows = append(facets.DepartureWindows, w)
	}
	sort.Strings(facets.DepartureWindows)

	return facets
}
