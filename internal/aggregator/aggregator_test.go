package aggregator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/asutoshsabat91/adventureos/internal/cache"
	"github.com/asutoshsabat91/adventureos/internal/models"
)

type fakeWeather struct {
	err error
}

func (f *fakeWeather) DestinationData(ctx context.Context, location string) (*models.Response[models.DestinationData], error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.OK(models.DestinationData{
		Weather: models.WeatherData{
			Location: location,
			Current:  models.CurrentWeather{Temperature: 12, Condition: "Clear"},
			Forecast: []models.ForecastDay{{Date: "2026-06-01", TempMax: 18}},
		},
	}), nil
}

type fakeFlights struct {
	result models.FlightSearchResult
	err    error
}

func (f *fakeFlights) SearchFlights(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.FlightSearchResult], error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.OK(f.result), nil
}

type fakeStays struct {
	result models.AccommodationSearchResult
	err    error
}

func (f *fakeStays) SearchAccommodations(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.AccommodationSearchResult], error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.OK(f.result), nil
}

type fakeTours struct {
	result models.TourSearchResult
	err    error
}

func (f *fakeTours) SearchTours(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.TourSearchResult], error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.OK(f.result), nil
}

func flight(id string, price float64, minutes int) models.Flight {
	return models.Flight{
		ID:       id,
		Price:    models.Price{Amount: price, Currency: "USD"},
		Duration: models.Duration{TotalMinutes: minutes},
	}
}

func stay(id string, nightly float64, rating float64) models.Accommodation {
	return models.Accommodation{
		ID:     id,
		Rating: models.Ratings{Overall: rating},
		Rooms: []models.Room{
			{ID: id + "-r1", PricePerNight: models.Price{Amount: nightly, Currency: "USD"}},
		},
	}
}

func fixtureFlights() models.FlightSearchResult {
	flights := []models.Flight{
		flight("F1", 300, 240),
		flight("F2", 150, 420),
		flight("F3", 520, 180),
	}
	return models.FlightSearchResult{
		Flights: flights,
		Recommendations: models.FlightRecommendations{
			Cheapest:  &flights[1],
			Fastest:   &flights[2],
			BestValue: &flights[0],
		},
	}
}

func fixtureStays() models.AccommodationSearchResult {
	stays := []models.Accommodation{
		stay("H1", 40, 8.4),
		stay("H2", 90, 9.1),
	}
	return models.AccommodationSearchResult{
		Accommodations: stays,
		Recommendations: models.AccommodationRecommendations{
			BestRated: &stays[1],
			BestValue: &stays[0],
		},
	}
}

func fixtureTours() models.TourSearchResult {
	tours := []models.Tour{
		{
			ID:             "T1",
			PhysicalRating: 4,
			AdventureTypes: []string{"trekking", "rafting"},
			Pricing:        models.TourPrice{Price: models.Price{Amount: 600, Currency: "USD"}},
			Rating:         4.7,
		},
	}
	return models.TourSearchResult{
		Tours: tours,
		Recommendations: models.TourRecommendations{
			BestRated:       &tours[0],
			MostAdventurous: &tours[0],
		},
	}
}

func manaliRequest() models.ComprehensiveSearchRequest {
	return models.ComprehensiveSearchRequest{
		Destination:          "Manali",
		Origin:               "Delhi",
		StartDate:            "2026-06-01",
		EndDate:              "2026-06-07",
		Travelers:            2,
		IncludeFlights:       true,
		IncludeAccommodation: true,
		IncludeActivities:    true,
	}
}

func newTestAggregator(weather WeatherSource, flights FlightSearcher, stays AccommodationSearcher, tours ActivitySearcher, store cache.Store) *Aggregator {
	return New(Config{
		Weather:        weather,
		Flights:        flights,
		Accommodations: stays,
		Activities:     tours,
		Cache:          store,
		Timeout:        5 * time.Second,
	})
}

func TestComprehensiveSearchAllDomains(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewNoOp(),
	)

	resp, err := agg.ComprehensiveSearch(context.Background(), manaliRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}

	data := resp.Data
	if data.Destination.Weather.Weather.Current.Condition == "" {
		t.Fatal("destination weather must be populated")
	}
	if data.Flights == nil || data.Accommodations == nil || data.Activities == nil {
		t.Fatal("all three sub-domains must be populated")
	}
	if data.Recommendations.BestValue == nil || data.Recommendations.Adventure == nil || data.Recommendations.BudgetFriendly == nil {
		t.Fatalf("all three packages must be built, got %+v", data.Recommendations)
	}
	if len(data.SearchMetadata.APIErrors) != 0 {
		t.Fatalf("no provider failed, api_errors should be empty: %v", data.SearchMetadata.APIErrors)
	}
	if data.SearchMetadata.SearchID == "" {
		t.Fatal("search id must be assigned")
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{err: errors.New("upstream 503")},
		&fakeTours{result: fixtureTours()},
		cache.NewNoOp(),
	)

	resp, err := agg.ComprehensiveSearch(context.Background(), manaliRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatal("a single dead provider never aborts the whole search")
	}

	data := resp.Data
	if data.Accommodations != nil {
		t.Fatal("failed sub-domain must be nil in the composite")
	}
	if data.Flights == nil || data.Activities == nil {
		t.Fatal("other sub-domains must still complete")
	}
	if len(data.SearchMetadata.APIErrors) != 1 {
		t.Fatalf("want exactly one recorded error, got %v", data.SearchMetadata.APIErrors)
	}
	if !strings.HasPrefix(data.SearchMetadata.APIErrors[0], "Accommodations:") {
		t.Fatalf("error must be prefixed with its domain, got %q", data.SearchMetadata.APIErrors[0])
	}
}

func TestWeatherFailureFailsWholeCall(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{err: errors.New("geocoding down")},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewNoOp(),
	)

	if _, err := agg.ComprehensiveSearch(context.Background(), manaliRequest()); err == nil {
		t.Fatal("destination resolution is required; its failure fails the call")
	}
}

func TestCostEstimateBounds(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewNoOp(),
	)

	resp, err := agg.ComprehensiveSearch(context.Background(), manaliRequest())
	if err != nil {
		t.Fatal(err)
	}

	est := resp.Data.CostEstimate
	if est.Max < est.Min {
		t.Fatalf("max must not undercut min: %+v", est)
	}

	// 6 nights: mean flight 323.33.., mean nightly 65*6=390, tour 600.
	subtotal := est.Breakdown.Flights + est.Breakdown.Accommodation + est.Breakdown.Activities
	wantMin := subtotal * 1.20
	if diff := est.Min - wantMin; diff > 0.01 || diff < -0.01 {
		t.Fatalf("min must be the domain sum plus the 20%% buffer: got %f want %f", est.Min, wantMin)
	}
	if est.Breakdown.Activities != 600 {
		t.Fatalf("activity average wrong: %f", est.Breakdown.Activities)
	}
}

func TestBudgetPackageUnderBudget(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewNoOp(),
	)

	req := manaliRequest()
	budget := 200.0
	req.Budget = &budget

	resp, err := agg.ComprehensiveSearch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	pkg := resp.Data.Recommendations.BudgetFriendly
	if pkg == nil {
		t.Fatal("budget package must exist")
	}
	// Cheapest flight 150 + first stay 40*6 nights = 390 > 200.
	if pkg.UnderBudget {
		t.Fatalf("total %f exceeds the ceiling, under_budget must be false", pkg.TotalCost)
	}

	req.Budget = nil
	resp, err = agg.ComprehensiveSearch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Data.Recommendations.BudgetFriendly.UnderBudget {
		t.Fatal("without a ceiling under_budget defaults to true")
	}
}

func TestCompositeCacheHit(t *testing.T) {
	flights := &fakeFlights{result: fixtureFlights()}
	agg := newTestAggregator(
		&fakeWeather{},
		flights,
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewMemory(5*time.Minute),
	)

	req := manaliRequest()
	first, err := agg.ComprehensiveSearch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first search cannot be cache-served")
	}

	// A later provider failure must not surface: the composite is read
	// back verbatim.
	flights.err = errors.New("provider now down")

	second, err := agg.ComprehensiveSearch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("identical request within TTL must be cache-served")
	}
	if second.Data.Flights == nil {
		t.Fatal("cached composite must be returned verbatim")
	}

	// A relevant parameter change misses the cache.
	req.Travelers = 4
	third, err := agg.ComprehensiveSearch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatal("different travelers count must not collide")
	}
	if third.Data.Flights != nil {
		t.Fatal("fresh search should reflect the now-failing provider")
	}
}

func TestClearCacheAndStats(t *testing.T) {
	agg := newTestAggregator(
		&fakeWeather{},
		&fakeFlights{result: fixtureFlights()},
		&fakeStays{result: fixtureStays()},
		&fakeTours{result: fixtureTours()},
		cache.NewMemory(5*time.Minute),
	)

	ctx := context.Background()
	if _, err := agg.ComprehensiveSearch(ctx, manaliRequest()); err != nil {
		t.Fatal(err)
	}

	if stats := agg.CacheStats(ctx); stats.Size != 1 {
		t.Fatalf("want one composite entry, got %+v", stats)
	}
	if removed := agg.ClearCache(ctx); removed != 1 {
		t.Fatalf("want one entry removed, got %d", removed)
	}
	if stats := agg.CacheStats(ctx); stats.Size != 0 {
		t.Fatalf("cache should be empty, got %+v", stats)
	}
}

func TestValidationRejectsBadRequests(t *testing.T) {
	agg := newTestAggregator(&fakeWeather{}, nil, nil, nil, cache.NewNoOp())

	cases := []models.ComprehensiveSearchRequest{
		{},
		{Destination: "Manali"},
		{Destination: "Manali", StartDate: "2026-06-07", EndDate: "2026-06-01"},
	}
	for _, req := range cases {
		if _, err := agg.ComprehensiveSearch(context.Background(), req); err == nil {
			t.Fatalf("request %+v should be rejected", req)
		}
	}
}
