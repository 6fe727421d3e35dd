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

func newStayTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/cities", func(w http.ResponseWriter, r *http.Request) {
		var cities []hwCity
		if r.URL.Query().Get("q") == "Manali" {
			cities = []hwCity{{ID: 421, Name: "Manali", Country: "India"}}
		}
		json.NewEncoder(w).Encode(hwCitiesResponse{Cities: cities})
	})

	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("city") != "421" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(hwSearchResponse{Properties: []hwProperty{
			{
				ID:   "H1",
				Name: "Zostel Old Manali",
				Type: "hostel",
				Ratings: hwRatings{
					Overall: 8.4, Safety: 9.0, Location: 8.0,
					Staff: 8.8, Cleanliness: 8.1, Value: 9.2,
				},
				District:    "Old Manali",
				Rooms:       []hwRoom{{ID: "H1-d6", Name: "6-bed dorm", Price: 12, Currency: "USD", MaxOccupancy: 1, Available: true}},
				ReviewCount: 1250,
				Facilities:  []string{"wifi", "lockers"},
			},
			{
				ID:   "H2",
				Name: "Riverside Lodge",
				Ratings: hwRatings{
					Overall: 9.1, Safety: 9.3, Location: 9.5,
				},
				District: "Vashisht",
				Rooms: []hwRoom{
					// Negative price: dropped, but the room below keeps
					// the property priceable.
					{ID: "H2-bad", Price: -10},
					{ID: "H2-priv", Name: "Private double", Price: 45},
				},
				ReviewCount: 300,
			},
			// No rooms at all: rejected, never fails the batch.
			{ID: "H3", Name: "Ghost House", Ratings: hwRatings{Overall: 9.9}},
		}})
	})

	mux.HandleFunc("/properties/H1/reviews", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(hwReviewsResponse{Reviews: []hwReview{
			{ID: "rv1", Author: "Priya", Country: "India", Score: 9.0, Text: "Great vibe"},
		}})
	})

	mux.HandleFunc("/properties/H1/availability", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(hwAvailabilityResponse{Days: []hwAvailabilityDay{
			{RoomID: "H1-d6", Date: "2026-06-01", Available: true, Price: 12},
			{RoomID: "H1-d6", Date: "2026-06-02", Available: false, Price: 12},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStayProvider(t *testing.T, baseURL string) *AccommodationProvider {
	t.Helper()
	c := client.New(client.Config{
		Name:        "hostelworld",
		BaseURL:     baseURL,
		APIKey:      "test-key",
		MaxRequests: 100,
		Window:      time.Minute,
		BaseDelay:   time.Millisecond,
	})
	t.Cleanup(c.Close)
	return NewAccommodationProvider(c, nil)
}

func stayRequest() models.ComprehensiveSearchRequest {
	return models.ComprehensiveSearchRequest{
		Destination:          "Manali",
		StartDate:            "2026-06-01",
		EndDate:              "2026-06-07",
		Travelers:            2,
		IncludeAccommodation: true,
	}
}

func TestSearchAccommodationsNormalization(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	resp, err := p.SearchAccommodations(context.Background(), stayRequest())
	if err != nil {
		t.Fatal(err)
	}

	result := resp.Data
	if len(result.Accommodations) != 2 {
		t.Fatalf("roomless property must be dropped, got %d results", len(result.Accommodations))
	}

	h1 := result.Accommodations[0]
	if h1.ID != "H1" {
		t.Fatalf("unexpected ordering: %+v", h1)
	}
	if h1.Reviews.Count != 1250 || h1.Reviews.Average != 8.4 {
		t.Fatalf("review summary wrong: %+v", h1.Reviews)
	}

	h2 := result.Accommodations[1]
	if len(h2.Rooms) != 1 || h2.Rooms[0].ID != "H2-priv" {
		t.Fatalf("negative-price room must be dropped: %+v", h2.Rooms)
	}
	room := h2.Rooms[0]
	if room.PricePerNight.Currency != "USD" {
		t.Fatalf("missing currency must default to USD: %+v", room.PricePerNight)
	}
	if room.MaxOccupancy != 1 {
		t.Fatalf("missing occupancy must default to 1, got %d", room.MaxOccupancy)
	}
	if room.CancellationPolicy != "non-refundable" {
		t.Fatalf("missing cancellation policy must default, got %q", room.CancellationPolicy)
	}
	if h2.PropertyType != "hostel" {
		t.Fatalf("missing property type must default to hostel, got %q", h2.PropertyType)
	}
}

func TestSearchAccommodationsRecommendations(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	resp, err := p.SearchAccommodations(context.Background(), stayRequest())
	if err != nil {
		t.Fatal(err)
	}

	recs := resp.Data.Recommendations
	if recs.BestRated == nil || recs.BestRated.ID != "H2" {
		t.Fatalf("best rated should be H2 (9.1), got %+v", recs.BestRated)
	}
	// H1: 8.4/12 = 0.70 per dollar; H2: 9.1/45 = 0.20.
	if recs.BestValue == nil || recs.BestValue.ID != "H1" {
		t.Fatalf("best value should be H1, got %+v", recs.BestValue)
	}
	if recs.MostPopular == nil || recs.MostPopular.ID != "H1" {
		t.Fatalf("most popular should be H1 (1250 reviews), got %+v", recs.MostPopular)
	}
	if recs.BestLocation == nil || recs.BestLocation.ID != "H2" {
		t.Fatalf("best location should be H2 (9.5), got %+v", recs.BestLocation)
	}
}

func TestSearchAccommodationsFacets(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	resp, err := p.SearchAccommodations(context.Background(), stayRequest())
	if err != nil {
		t.Fatal(err)
	}

	facets := resp.Data.Facets
	if facets.PriceRange.Min != 12 || facets.PriceRange.Max != 45 {
		t.Fatalf("nightly price range wrong: %+v", facets.PriceRange)
	}
	if facets.RatingRange.Min != 8.4 || facets.RatingRange.Max != 9.1 {
		t.Fatalf("rating range wrong: %+v", facets.RatingRange)
	}
	if len(facets.Neighborhoods) != 2 || facets.Neighborhoods[0] != "Old Manali" {
		t.Fatalf("neighborhoods must be sorted: %v", facets.Neighborhoods)
	}
}

func TestSearchAccommodationsPreferenceFilter(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	req := stayRequest()
	minRating := 9.0
	req.Accommodation = &models.AccommodationPreferences{MinRating: &minRating}

	resp, err := p.SearchAccommodations(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.Accommodations) != 1 || resp.Data.Accommodations[0].ID != "H2" {
		t.Fatalf("rating floor should leave only H2: %+v", resp.Data.Accommodations)
	}
}

func TestSearchAccommodationsUnknownCity(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	req := stayRequest()
	req.Destination = "Atlantis"

	_, err := p.SearchAccommodations(context.Background(), req)
	if !client.IsNotFound(err) {
		t.Fatalf("unresolvable destination must map to a not-found error, got %v", err)
	}
}

func TestAccommodationReviews(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	resp, err := p.Reviews(context.Background(), "H1")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Author != "Priya" {
		t.Fatalf("review mapping wrong: %+v", resp.Data)
	}
}

func TestAccommodationAvailability(t *testing.T) {
	srv := newStayTestServer(t)
	p := newStayProvider(t, srv.URL)

	resp, err := p.Availability(context.Background(), "H1", "2026-06-01", "2026-06-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("want 2 availability days, got %d", len(resp.Data))
	}
	if resp.Data[0].Price.Currency != "USD" {
		t.Fatalf("missing currency must default to USD: %+v", resp.Data[0].Price)
	}
	if resp.Data[1].Available {
		t.Fatal("second day should be unavailable")
	}
}
