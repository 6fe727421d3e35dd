package models

import "time"

type CurrentWeather struct {
	Temperature float64   `json:"temperature_c"`
	FeelsLike   float64   `json:"feels_like_c"`
	Humidity    float64   `json:"humidity_pct"`
	WindSpeed   float64   `json:"wind_speed_ms"`
	WindGust    float64   `json:"wind_gust_ms"`
	Visibility  float64   `json:"visibility_km"`
	CloudCover  float64   `json:"cloud_cover_pct"`
	Condition   string    `json:"condition"`
	Description string    `json:"description,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

type ForecastDay struct {
	Date         string  `json:"date"`
	TempMin      float64 `json:"temp_min_c"`
	TempMax      float64 `json:"temp_max_c"`
	PrecipMm     float64 `json:"precip_mm"`
	SnowMm       float64 `json:"snow_mm"`
	WindSpeed    float64 `json:"wind_speed_ms"`
	Condition    string  `json:"condition"`
	PrecipChance float64 `json:"precip_chance_pct"`
}

type WeatherData struct {
	Location    string         `json:"location"`
	Coordinates Coordinates    `json:"coordinates"`
	Current     CurrentWeather `json:"current"`
	Forecast    []ForecastDay  `json:"forecast"`
}

// AdventureWeatherMetrics are activity-specific scores derived from one
// current-plus-forecast reading. Scores are 0-10.
type AdventureWeatherMetrics struct {
	Ski      SkiMetrics      `json:"ski"`
	Surf     SurfMetrics     `json:"surf"`
	Climbing ClimbingMetrics `json:"climbing"`
	Aerial   AerialMetrics   `json:"aerial"`
	Hiking   HikingMetrics   `json:"hiking"`
}

type SkiMetrics struct {
	Score         float64 `json:"score"`
	SnowDepthCm   float64 `json:"snow_depth_cm"`
	AvalancheRisk string  `json:"avalanche_risk"`
	FreshSnowfall bool    `json:"fresh_snowfall"`
}

type SurfMetrics struct {
	Score        float64 `json:"score"`
	WaveHeightM  float64 `json:"wave_height_m"`
	WindOffshore bool    `json:"wind_offshore"`
}

type ClimbingMetrics struct {
	Score      float64 `json:"score"`
	RockDry    bool    `json:"rock_dry"`
	FrictionOK bool    `json:"friction_ok"`
}

type AerialMetrics struct {
	Score        float64 `json:"score"`
	WindSafe     bool    `json:"wind_safe"`
	VisibilityOK bool    `json:"visibility_ok"`
}

type HikingMetrics struct {
	Score      float64 `json:"score"`
	TrailDry   bool    `json:"trail_dry"`
	HeatStress bool    `json:"heat_stress"`
}

type DestinationData struct {
	Weather WeatherData             `json:"weather"`
	Metrics AdventureWeatherMetrics `json:"adventure_metrics"`
}
