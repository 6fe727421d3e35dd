package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/models"
)

func newFlightTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/places", func(w http.ResponseWriter, r *http.Request) {
		var places []skyPlace
		switch r.URL.Query().Get("query") {
		case "Delhi":
			places = []skyPlace{{EntityID: "ent-del", IATA: "DEL", Name: "Indira Gandhi Intl", CityName: "Delhi", Country: "India"}}
		case "Manali":
			places = []skyPlace{{EntityID: "ent-kuu", IATA: "KUU", Name: "Kullu-Manali", CityName: "Kullu", Country: "India"}}
		}
		json.NewEncoder(w).Encode(skyPlacesResponse{Places: places})
	})

	mux.HandleFunc("/search/create", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["originEntityId"] != "ent-del" || payload["destinationEntityId"] != "ent-kuu" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(skySessionResponse{SessionToken: "tok-1", Status: "RESULT_STATUS_PENDING"})
	})

	mux.HandleFunc("/search/poll/tok-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(skyPollResponse{
			Status: "RESULT_STATUS_COMPLETE",
			Itineraries: []skyItinerary{
				{
					ID: "IT1",
					Legs: []skyLeg{{
						OriginIATA: "DEL", DestinationIATA: "KUU",
						Departure: "2026-06-01T10:00:00", Arrival: "2026-06-01T13:00:00",
						DurationMinutes: 180, StopCount: 1,
						Carrier: skyCarrier{Code: "AI", Name: "Air India"},
					}},
					Pricing: skyPricingOption{Amount: 320, Currency: "USD"},
				},
				{
					ID: "IT2",
					Legs: []skyLeg{{
						OriginIATA: "DEL", DestinationIATA: "KUU",
						Departure: "2026-06-01T23:30:00", Arrival: "2026-06-02T06:30:00",
						DurationMinutes: 420, StopCount: 0,
						Carrier: skyCarrier{Code: "6E", Name: "IndiGo"},
					}},
					Pricing: skyPricingOption{Amount: 150, Currency: "USD"},
				},
				{
					ID: "IT3",
					Legs: []skyLeg{{
						OriginIATA: "DEL", DestinationIATA: "KUU",
						Departure: "2026-06-01T09:00:00", Arrival: "2026-06-01T11:30:00",
						DurationMinutes: 150, StopCount: 0,
						Carrier: skyCarrier{Code: "UK", Name: "Vistara"},
					}},
					Pricing: skyPricingOption{Amount: 520},
				},
				// No legs: must be skipped, never fail the batch.
				{ID: "BAD", Pricing: skyPricingOption{Amount: 99}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFlightProvider(t *testing.T, baseURL string) *FlightProvider {
	t.Helper()
	c := client.New(client.Config{
		Name:        "skyscanner",
		BaseURL:     baseURL,
		APIKey:      "test-key",
		MaxRequests: 100,
		Window:      time.Minute,
		BaseDelay:   time.Millisecond,
	})
	t.Cleanup(c.Close)
	return NewFlightProvider(c, nil)
}

func flightRequest() models.ComprehensiveSearchRequest {
	return models.ComprehensiveSearchRequest{
		Destination:    "Manali",
		Origin:         "Delhi",
		StartDate:      "2026-06-01",
		EndDate:        "2026-06-07",
		Travelers:      2,
		IncludeFlights: true,
	}
}

func TestSearchFlightsSessionProtocol(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	resp, err := p.SearchFlights(context.Background(), flightRequest())
	if err != nil {
		t.Fatal(err)
	}

	result := resp.Data
	if len(result.Flights) != 3 {
		t.Fatalf("want 3 normalized flights (malformed one dropped), got %d", len(result.Flights))
	}

	recs := result.Recommendations
	if recs.Cheapest == nil || recs.Cheapest.ID != "IT2" {
		t.Fatalf("cheapest should be IT2, got %+v", recs.Cheapest)
	}
	if recs.Fastest == nil || recs.Fastest.ID != "IT3" {
		t.Fatalf("fastest should be IT3, got %+v", recs.Fastest)
	}
	if recs.BestValue == nil || recs.BestValue.ID != "IT2" {
		t.Fatalf("best value should be IT2 (lowest price per minute), got %+v", recs.BestValue)
	}
	// IT2 is non-stop but departs at night; IT3 is the first non-stop
	// daytime departure.
	if recs.MostConvenient == nil || recs.MostConvenient.ID != "IT3" {
		t.Fatalf("most convenient should be IT3, got %+v", recs.MostConvenient)
	}

	if resp.RateLimitRemaining == nil {
		t.Fatal("rate limit remaining must be reported")
	}
}

func TestSearchFlightsNormalization(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	resp, err := p.SearchFlights(context.Background(), flightRequest())
	if err != nil {
		t.Fatal(err)
	}

	var it1 *models.Flight
	for i := range resp.Data.Flights {
		if resp.Data.Flights[i].ID == "IT1" {
			it1 = &resp.Data.Flights[i]
		}
	}
	if it1 == nil {
		t.Fatal("IT1 missing from results")
	}

	if it1.Duration.Hours != 3 || it1.Duration.Minutes != 0 || it1.Duration.TotalMinutes != 180 {
		t.Fatalf("duration breakdown wrong: %+v", it1.Duration)
	}
	if it1.Price.Formatted != "$320" {
		t.Fatalf("price formatting wrong: %q", it1.Price.Formatted)
	}
	if it1.CabinClass != "economy" {
		t.Fatalf("missing cabin class must default to economy, got %q", it1.CabinClass)
	}
	if it1.Airline.Code != "AI" {
		t.Fatalf("airline not mapped: %+v", it1.Airline)
	}

	// IT3 omits its currency: defaults to USD.
	for _, f := range resp.Data.Flights {
		if f.ID == "IT3" && f.Price.Currency != "USD" {
			t.Fatalf("missing currency must default to USD, got %q", f.Price.Currency)
		}
	}
}

func TestSearchFlightsFacets(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	resp, err := p.SearchFlights(context.Background(), flightRequest())
	if err != nil {
		t.Fatal(err)
	}

	facets := resp.Data.Facets
	if facets.PriceRange.Min != 150 || facets.PriceRange.Max != 520 {
		t.Fatalf("price range wrong: %+v", facets.PriceRange)
	}
	if len(facets.Airlines) != 3 {
		t.Fatalf("want 3 distinct airlines, got %v", facets.Airlines)
	}
	if len(facets.StopCounts) != 2 || facets.StopCounts[0] != 0 || facets.StopCounts[1] != 1 {
		t.Fatalf("stop counts wrong: %v", facets.StopCounts)
	}
}

func TestSearchFlightsPreferenceFilter(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	req := flightRequest()
	maxPrice := 400.0
	req.Flights = &models.FlightPreferences{DirectOnly: true, MaxPrice: &maxPrice}

	resp, err := p.SearchFlights(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	// IT1 has a stop, IT3 exceeds the price cap; only IT2 survives.
	if len(resp.Data.Flights) != 1 || resp.Data.Flights[0].ID != "IT2" {
		t.Fatalf("preference filter wrong, got %+v", resp.Data.Flights)
	}
}

func TestSearchFlightsUnknownOrigin(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	req := flightRequest()
	req.Origin = "Nowhere"

	_, err := p.SearchFlights(context.Background(), req)
	if !client.IsNotFound(err) {
		t.Fatalf("unresolvable origin must map to a not-found error, got %v", err)
	}
}

func TestSuggestAirports(t *testing.T) {
	srv := newFlightTestServer(t)
	p := newFlightProvider(t, srv.URL)

	resp, err := p.SuggestAirports(context.Background(), "Delhi")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Code != "DEL" {
		t.Fatalf("suggestion mapping wrong: %+v", resp.Data)
	}
}

func TestRecommendFlightsTiesFirstWins(t *testing.T) {
	flights := []models.Flight{
		{ID: "A", Price: models.Price{Amount: 100}, Duration: models.Duration{TotalMinutes: 200}},
		{ID: "B", Price: models.Price{Amount: 100}, Duration: models.Duration{TotalMinutes: 200}},
	}
	recs := recommendFlights(flights)
	if recs.Cheapest.ID != "A" || recs.Fastest.ID != "A" || recs.BestValue.ID != "A" {
		t.Fatalf("ties must resolve to the earlier entry: %+v", recs)
	}
}

func TestRecommendFlightsEmpty(t *testing.T) {
	recs := recommendFlights(nil)
	if recs.Cheapest != nil || recs.Fastest != nil || recs.BestValue != nil || recs.MostConvenient != nil {
		t.Fatalf("empty input yields no picks: %+v", recs)
	}
}
