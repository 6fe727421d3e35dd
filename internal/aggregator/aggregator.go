package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asutoshsabat91/adventureos/internal/cache"
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/obs"
)

// The three domain searchers the aggregator fans out to. Each wraps its
// own cache, rate limit and retry behind the shared client.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.FlightSearchResult], error)
}

type AccommodationSearcher interface {
	SearchAccommodations(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.AccommodationSearchResult], error)
}

type ActivitySearcher interface {
	SearchTours(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.TourSearchResult], error)
}

type WeatherSource interface {
	DestinationData(ctx context.Context, location string) (*models.Response[models.DestinationData], error)
}

type Config struct {
	Weather        WeatherSource
	Flights        FlightSearcher
	Accommodations AccommodationSearcher
	Activities     ActivitySearcher
	Cache          cache.Store
	Metrics        *obs.Metrics
	Logger         *slog.Logger
	Timeout        time.Duration
}

// Aggregator orchestrates one logical comprehensive search: destination
// weather first, then the booking domains in parallel with isolated
// failure handling, then recommendation and cost synthesis. Stateless per
// invocation; the composite cache is the only persistent state.
type Aggregator struct {
	weather        WeatherSource
	flights        FlightSearcher
	accommodations AccommodationSearcher
	activities     ActivitySearcher
	cache          cache.Store
	metrics        *obs.Metrics
	logger         *slog.Logger
	timeout        time.Duration
	now            func() time.Time
	newSearchID    func() string
}

func New(cfg Config) *Aggregator {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoOp()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Aggregator{
		weather:        cfg.Weather,
		flights:        cfg.Flights,
		accommodations: cfg.Accommodations,
		activities:     cfg.Activities,
		cache:          cfg.Cache,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		timeout:        cfg.Timeout,
		now:            time.Now,
		newSearchID:    func() string { return uuid.NewString() },
	}
}

func (a *Aggregator) cacheKey(req models.ComprehensiveSearchRequest) string {
	return cache.Key("comprehensive", struct {
		Destination    string                           `json:"destination"`
		StartDate      string                           `json:"start_date"`
		EndDate        string                           `json:"end_date"`
		Travelers      int                              `json:"travelers"`
		Budget         *float64                         `json:"budget"`
		Preferences    []string                         `json:"preferences"`
		IncludeFlights bool                             `json:"include_flights"`
		IncludeStays   bool                             `json:"include_stays"`
		IncludeTours   bool                             `json:"include_tours"`
		Origin         string                           `json:"origin"`
		FlightPrefs    *models.FlightPreferences        `json:"flight_prefs"`
		StayPrefs      *models.AccommodationPreferences `json:"stay_prefs"`
		TourPrefs      *models.ActivityPreferences      `json:"tour_prefs"`
	}{
		Destination:    req.Destination,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Travelers:      req.Travelers,
		Budget:         req.Budget,
		Preferences:    req.AdventurePreferences,
		IncludeFlights: req.IncludeFlights,
		IncludeStays:   req.IncludeAccommodation,
		IncludeTours:   req.IncludeActivities,
		Origin:         req.Origin,
		FlightPrefs:    req.Flights,
		StayPrefs:      req.Accommodation,
		TourPrefs:      req.Activities,
	})
}

// ComprehensiveSearch runs the full fan-out. A single dead provider never
// aborts the whole search: failed sub-domains become nil sections with
// their messages collected in search_metadata.api_errors. Only the
// destination weather step is required.
func (a *Aggregator) ComprehensiveSearch(ctx context.Context, req models.ComprehensiveSearchRequest) (*models.Response[models.ComprehensiveSearchResponse], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.IncSearches()
	}

	started := a.now()
	key := a.cacheKey(req)

	if body, ok := a.cache.Get(ctx, key); ok {
		var data models.ComprehensiveSearchResponse
		if err := json.Unmarshal(body, &data); err == nil {
			if a.metrics != nil {
				a.metrics.IncCacheHits()
			}
			resp := models.OK(data)
			resp.Cached = true
			return resp, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The destination lookup is the one required step; its failure fails
	// the whole call.
	weatherResp, err := a.weather.DestinationData(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	data := models.ComprehensiveSearchResponse{
		Destination: models.Destination{
			Name:    req.Destination,
			Weather: weatherResp.Data,
		},
	}

	meta := models.SearchMetadata{
		SearchID:  a.newSearchID(),
		Timestamp: started.UTC(),
	}
	if weatherResp.Cached {
		meta.CacheHits = append(meta.CacheHits, "weather")
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	record := func(domain string, cached bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			a.logger.Warn("sub-domain search failed", "domain", domain, "error", err)
			if a.metrics != nil {
				a.metrics.IncProviderFailure(domain)
			}
			meta.APIErrors = append(meta.APIErrors, domain+": "+err.Error())
			return
		}
		if cached {
			meta.CacheHits = append(meta.CacheHits, domain)
		}
	}

	if req.IncludeFlights && a.flights != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.flights.SearchFlights(ctx, req)
			if err == nil {
				mu.Lock()
				data.Flights = &resp.Data
				mu.Unlock()
				record("Flights", resp.Cached, nil)
				return
			}
			record("Flights", false, err)
		}()
	}

	if req.IncludeAccommodation && a.accommodations != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.accommodations.SearchAccommodations(ctx, req)
			if err == nil {
				mu.Lock()
				data.Accommodations = &resp.Data
				mu.Unlock()
				record("Accommodations", resp.Cached, nil)
				return
			}
			record("Accommodations", false, err)
		}()
	}

	if req.IncludeActivities && a.activities != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.activities.SearchTours(ctx, req)
			if err == nil {
				mu.Lock()
				data.Activities = &resp.Data
				mu.Unlock()
				record("Activities", resp.Cached, nil)
				return
			}
			record("Activities", false, err)
		}()
	}

	wg.Wait()

	data.Recommendations = a.buildPackages(data, req)
	data.CostEstimate = a.estimateCost(data, req)

	meta.ElapsedMs = a.now().Sub(started).Milliseconds()
	data.SearchMetadata = meta

	if body, err := json.Marshal(data); err == nil {
		if cacheErr := a.cache.Set(ctx, key, body); cacheErr != nil {
			a.logger.Warn("composite cache write failed", "error", cacheErr)
		}
	}

	if a.metrics != nil {
		a.metrics.ObserveSearchDuration(a.now().Sub(started).Seconds())
	}

	return models.OK(data), nil
}

// ClearCache drops every composite entry and returns how many were removed.
func (a *Aggregator) ClearCache(ctx context.Context) int {
	return a.cache.Clear(ctx, "comprehensive")
}

// CacheStats reports the composite cache contents.
func (a *Aggregator) CacheStats(ctx context.Context) cache.Stats {
	return a.cache.Stats(ctx)
}
