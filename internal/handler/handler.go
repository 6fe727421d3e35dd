package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/asutoshsabat91/adventureos/internal/aggregator"
	"github.com/asutoshsabat91/adventureos/internal/cache"
	"github.com/asutoshsabat91/adventureos/internal/client"
	"github.com/asutoshsabat91/adventureos/internal/models"
	"github.com/asutoshsabat91/adventureos/internal/obs"
	"github.com/asutoshsabat91/adventureos/internal/providers"
	"github.com/asutoshsabat91/adventureos/internal/ratelimit"
)

type Handler struct {
	aggregator *aggregator.Aggregator
	flights    *providers.FlightProvider
	stays      *providers.AccommodationProvider
	tours      *providers.ActivityProvider
	weather    *providers.WeatherProvider
	caches     *cache.Group
	metrics    *obs.Metrics
	validate   *validator.Validate
}

func New(agg *aggregator.Aggregator, flights *providers.FlightProvider, stays *providers.AccommodationProvider, tours *providers.ActivityProvider, weather *providers.WeatherProvider, caches *cache.Group, metrics *obs.Metrics) *Handler {
	if caches == nil {
		caches = cache.NewGroup()
	}
	return &Handler{
		aggregator: agg,
		flights:    flights,
		stays:      stays,
		tours:      tours,
		weather:    weather,
		caches:     caches,
		metrics:    metrics,
		validate:   validator.New(),
	}
}

// Register wires every route onto the echo group.
func (h *Handler) Register(api *echo.Group) {
	api.POST("/search/comprehensive", h.ComprehensiveSearch)

	api.GET("/flights/airports", h.SuggestAirports)
	api.GET("/flights/:id", h.FlightDetails)

	api.GET("/stays", h.SearchAccommodations)
	api.GET("/stays/locations", h.SuggestLocations)
	api.GET("/stays/:id", h.AccommodationDetails)
	api.GET("/stays/:id/reviews", h.Reviews)
	api.GET("/stays/:id/availability", h.Availability)

	api.GET("/tours", h.SearchTours)
	api.GET("/tours/destinations", h.SuggestDestinations)
	api.GET("/tours/operators/:id", h.OperatorDetails)
	api.GET("/tours/:id", h.TourDetails)
	api.GET("/tours/:id/availability", h.TourAvailability)

	api.GET("/weather/current", h.CurrentWeather)
	api.GET("/weather/adventure", h.AdventureMetrics)

	api.DELETE("/cache", h.ClearCache)
	api.GET("/cache/stats", h.CacheStats)
}

// RateLimitMiddleware rejects callers that exceed the per-IP budget.
func RateLimitMiddleware(limiter *ratelimit.IPLimiter, metrics *obs.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				if metrics != nil {
					metrics.IncRateLimitDrops()
				}
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:   "rate_limited",
					Message: "too many requests",
					Code:    http.StatusTooManyRequests,
				})
			}
			return next(c)
		}
	}
}

func (h *Handler) ComprehensiveSearch(c echo.Context) error {
	var req models.ComprehensiveSearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "failed to parse request body: "+err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	resp, err := h.aggregator.ComprehensiveSearch(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) FlightDetails(c echo.Context) error {
	resp, err := h.flights.FlightDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SuggestAirports(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "validation_error", "query parameter q is required")
	}
	resp, err := h.flights.SuggestAirports(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// searchQueryRequest builds a single-domain search request from query
// parameters, sharing the comprehensive request's validation.
func searchQueryRequest(c echo.Context) (models.ComprehensiveSearchRequest, error) {
	travelers, _ := strconv.Atoi(c.QueryParam("travelers"))
	req := models.ComprehensiveSearchRequest{
		Destination: c.QueryParam("destination"),
		StartDate:   c.QueryParam("start_date"),
		EndDate:     c.QueryParam("end_date"),
		Travelers:   travelers,
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) SearchAccommodations(c echo.Context) error {
	req, err := searchQueryRequest(c)
	if err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	resp, err := h.stays.SearchAccommodations(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SearchTours(c echo.Context) error {
	req, err := searchQueryRequest(c)
	if err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	resp, err := h.tours.SearchTours(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) AccommodationDetails(c echo.Context) error {
	resp, err := h.stays.AccommodationDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Reviews(c echo.Context) error {
	resp, err := h.stays.Reviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Availability(c echo.Context) error {
	checkin := c.QueryParam("checkin")
	checkout := c.QueryParam("checkout")
	if checkin == "" || checkout == "" {
		return badRequest(c, "validation_error", "checkin and checkout are required")
	}
	resp, err := h.stays.Availability(c.Request().Context(), c.Param("id"), checkin, checkout)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SuggestLocations(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "validation_error", "query parameter q is required")
	}
	resp, err := h.stays.SuggestLocations(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) TourDetails(c echo.Context) error {
	resp, err := h.tours.TourDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) TourAvailability(c echo.Context) error {
	resp, err := h.tours.TourAvailability(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SuggestDestinations(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "validation_error", "query parameter q is required")
	}
	resp, err := h.tours.SuggestDestinations(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) OperatorDetails(c echo.Context) error {
	resp, err := h.tours.OperatorDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CurrentWeather(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return badRequest(c, "validation_error", "query parameter location is required")
	}
	resp, err := h.weather.CurrentWeather(c.Request().Context(), location)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) AdventureMetrics(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return badRequest(c, "validation_error", "query parameter location is required")
	}
	resp, err := h.weather.AdventureMetrics(c.Request().Context(), location)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ClearCache empties every registered store, or just one when a scope
// query parameter names it.
func (h *Handler) ClearCache(c echo.Context) error {
	scope := c.QueryParam("scope")
	if scope != "" && !h.caches.Has(scope) {
		return badRequest(c, "validation_error", "unknown cache scope "+scope)
	}
	removed := h.caches.Clear(c.Request().Context(), scope)
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

// CacheStats reports per-store contents, optionally restricted by scope.
func (h *Handler) CacheStats(c echo.Context) error {
	scope := c.QueryParam("scope")
	if scope != "" && !h.caches.Has(scope) {
		return badRequest(c, "validation_error", "unknown cache scope "+scope)
	}
	return c.JSON(http.StatusOK, h.caches.Stats(c.Request().Context(), scope))
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func badRequest(c echo.Context, kind, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// writeError maps the uniform error type onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	var validationErr models.ValidationError
	if errors.As(err, &validationErr) {
		return badRequest(c, "validation_error", validationErr.Error())
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case client.CodeRateLimited:
			return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: apiErr.Message,
				Code:    http.StatusTooManyRequests,
			})
		case client.CodeLocationNotFound:
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "location_not_found",
				Message: apiErr.Message,
				Code:    http.StatusNotFound,
			})
		default:
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "provider_error",
				Message: apiErr.Error(),
				Code:    http.StatusBadGateway,
			})
		}
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	})
}
