package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/models"
)

type owmGeoEntry struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type owmGeoResponse struct {
	Results []owmGeoEntry `json:"results"`
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmCurrentResponse struct {
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"`
	Clouds     struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Dt int64 `json:"dt"`
}

type owmForecastDay struct {
	Date string `json:"date"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Rain    float64        `json:"rain"`
	Snow    float64        `json:"snow"`
	Speed   float64        `json:"speed"`
	Pop     float64        `json:"pop"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastResponse struct {
	List []owmForecastDay `json:"list"`
}

// Placeholder inputs standing in for feeds this service does not yet
// consume. Swappable so real sources can be substituted without touching
// call sites.
var (
	// EstimateAvalancheRisk grades backcountry risk from recent snowfall.
	EstimateAvalancheRisk = func(forecast []models.ForecastDay) string {
		var snow float64
		for _, d := range forecast {
			snow += d.SnowMm
		}
		switch {
		case snow > 300:
			return "considerable"
		case snow > 100:
			return "moderate"
		default:
			return "low"
		}
	}

	// EstimateWaveHeight derives swell from surface wind until a marine
	// feed is wired in.
	EstimateWaveHeight = func(current models.CurrentWeather) float64 {
		return 0.3 + current.WindSpeed*0.15
	}
)

// WeatherProvider adapts the weather API into current conditions, a
// 5-day forecast, and activity-specific adventure metrics.
type WeatherProvider struct {
	client *client.Client
	logger *slog.Logger
}

func NewWeatherProvider(c *client.Client, logger *slog.Logger) *WeatherProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherProvider{client: c, logger: logger}
}

func (p *WeatherProvider) Name() string {
	return p.client.Name()
}

func (p *WeatherProvider) resolveCoordinates(ctx context.Context, location string) (owmGeoEntry, error) {
	var resp owmGeoResponse
	q := url.Values{"q": {location}, "limit": {"1"}}
	if _, err := p.client.Get(ctx, "/geo/1.0/direct", q, &resp); err != nil {
		return owmGeoEntry{}, err
	}
	if len(resp.Results) == 0 {
		return owmGeoEntry{}, &client.APIError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("no coordinates for %q", location),
			Code:     client.CodeLocationNotFound,
		}
	}
	return resp.Results[0], nil
}

// CurrentWeather returns normalized current conditions for a free-text
// location.
func (p *WeatherProvider) CurrentWeather(ctx context.Context, location string) (*models.Response[models.WeatherData], error) {
	data, cached, err := p.fetch(ctx, location, false)
	if err != nil {
		return nil, err
	}
	resp := models.OK(*data)
	resp.Cached = cached
	return resp, nil
}

// AdventureMetrics returns the derived activity scores for a location.
func (p *WeatherProvider) AdventureMetrics(ctx context.Context, location string) (*models.Response[models.AdventureWeatherMetrics], error) {
	data, cached, err := p.fetch(ctx, location, true)
	if err != nil {
		return nil, err
	}
	resp := models.OK(deriveAdventureMetrics(*data))
	resp.Cached = cached
	return resp, nil
}

// DestinationData bundles current conditions, forecast and adventure
// metrics. The aggregator calls this as its required first step.
func (p *WeatherProvider) DestinationData(ctx context.Context, location string) (*models.Response[models.DestinationData], error) {
	data, cached, err := p.fetch(ctx, location, true)
	if err != nil {
		return nil, err
	}
	resp := models.OK(models.DestinationData{
		Weather: *data,
		Metrics: deriveAdventureMetrics(*data),
	})
	resp.Cached = cached
	return resp, nil
}

func (p *WeatherProvider) fetch(ctx context.Context, location string, withForecast bool) (*models.WeatherData, bool, error) {
	geo, err := p.resolveCoordinates(ctx, location)
	if err != nil {
		return nil, false, err
	}

	coords := url.Values{
		"lat":   {fmt.Sprintf("%.4f", geo.Lat)},
		"lon":   {fmt.Sprintf("%.4f", geo.Lon)},
		"units": {"metric"},
	}

	var current owmCurrentResponse
	cached, err := p.client.Get(ctx, "/data/2.5/weather", coords, &current)
	if err != nil {
		return nil, false, err
	}

	data := models.WeatherData{
		Location:    geo.Name,
		Coordinates: models.Coordinates{Latitude: geo.Lat, Longitude: geo.Lon},
		Current:     normalizeCurrent(current),
	}

	if withForecast {
		fq := url.Values{
			"lat":   {coords.Get("lat")},
			"lon":   {coords.Get("lon")},
			"units": {"metric"},
			"cnt":   {"5"},
		}
		var forecast owmForecastResponse
		forecastCached, err := p.client.Get(ctx, "/data/2.5/forecast/daily", fq, &forecast)
		if err != nil {
			return nil, false, err
		}
		cached = cached && forecastCached
		data.Forecast = normalizeForecast(forecast.List)
	}

	return &data, cached, nil
}

func normalizeCurrent(raw owmCurrentResponse) models.CurrentWeather {
	condition := "unknown"
	description := ""
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0].Main
		description = raw.Weather[0].Description
	}

	observed := time.Now().UTC()
	if raw.Dt > 0 {
		observed = time.Unix(raw.Dt, 0).UTC()
	}

	return models.CurrentWeather{
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		WindGust:    raw.Wind.Gust,
		Visibility:  raw.Visibility / 1000,
		CloudCover:  raw.Clouds.All,
		Condition:   condition,
		Description: description,
		ObservedAt:  observed,
	}
}

func normalizeForecast(raw []owmForecastDay) []models.ForecastDay {
	days := make([]models.ForecastDay, 0, len(raw))
	for _, d := range raw {
		condition := "unknown"
		if len(d.Weather) > 0 {
			condition = d.Weather[0].Main
		}
		days = append(days, models.ForecastDay{
			Date:         d.Date,
			TempMin:      d.Temp.Min,
			TempMax:      d.Temp.Max,
			PrecipMm:     d.Rain,
			SnowMm:       d.Snow,
			WindSpeed:    d.Speed,
			Condition:    condition,
			PrecipChance: d.Pop * 100,
		})
	}
	return days
}

// deriveAdventureMetrics computes every activity score from the same
// current-plus-forecast reading.
func deriveAdventureMetrics(data models.WeatherData) models.AdventureWeatherMetrics {
	current := data.Current
	forecast := data.Forecast

	var snowTotal, precipTotal float64
	for _, d := range forecast {
		snowTotal += d.SnowMm
		precipTotal += d.PrecipMm
	}

	freshSnow := snowTotal > 20
	ski := models.SkiMetrics{
		SnowDepthCm:   snowTotal / 10,
		AvalancheRisk: EstimateAvalancheRisk(forecast),
		FreshSnowfall: freshSnow,
	}
	ski.Score = clampScore(snowTotal/40 + boolScore(current.Temperature < 5, 3))

	wave := EstimateWaveHeight(current)
	surf := models.SurfMetrics{
		WaveHeightM:  wave,
		WindOffshore: current.WindSpeed >= 3 && current.WindSpeed <= 10,
	}
	surf.Score = clampScore(wave*3 + boolScore(surf.WindOffshore, 2))

	rockDry := precipTotal < 10 && current.Humidity < 80
	climbing := models.ClimbingMetrics{
		RockDry:    rockDry,
		FrictionOK: current.Temperature >= 5 && current.Temperature <= 25,
	}
	climbing.Score = clampScore(boolScore(rockDry, 6) + boolScore(climbing.FrictionOK, 4))

	windSafe := current.WindSpeed < 8 && current.WindGust < 12
	aerial := models.AerialMetrics{
		WindSafe:     windSafe,
		VisibilityOK: current.Visibility >= 5,
	}
	aerial.Score = clampScore(boolScore(windSafe, 6) + boolScore(aerial.VisibilityOK, 4))

	trailDry := precipTotal < 25
	hiking := models.HikingMetrics{
		TrailDry:   trailDry,
		HeatStress: current.FeelsLike > 32,
	}
	hiking.Score = clampScore(boolScore(trailDry, 5) + boolScore(!hiking.HeatStress, 3) + boolScore(current.WindSpeed < 12, 2))

	return models.AdventureWeatherMetrics{
		Ski:      ski,
		Surf:     surf,
		Climbing: climbing,
		Aerial:   aerial,
		Hiking:   hiking,
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

func boolScore(b bool, weight float64) float64 {
	if b {
		return weight
	}
	return 0
}
