package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/raincheck/internal/activity"
	"github.com/i474232898/raincheck/internal/logger"
	"github.com/i474232898/raincheck/internal/place"
	"github.com/i474232898/raincheck/internal/weather"
)

var validate = validator.New()

// Handler serves the weather and activity endpoints.
type Handler struct {
	service *weather.Service
	places  weather.PlaceResolver
	timeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. places may be nil.
func RegisterRoutes(app *fiber.App, service *weather.Service, places weather.PlaceResolver) {
	h := &Handler{service: service, places: places, timeout: 20 * time.Second}

	v1 := app.Group("/api/v1")
	v1.Get("/weather", h.current)
	v1.Get("/weather/condition", h.condition)
	v1.Get("/forecast/weekly", h.weekly)
	v1.Get("/activities", h.catalog)
	v1.Post("/activities/evaluate", h.evaluate)
	v1.Get("/activities/:id", h.activity)
	v1.Get("/place", h.place)
}

func (h *Handler) current(c *fiber.Ctx) error {
	q, err := parseCoordinatesQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	snapshot, err := h.service.Current(ctx, q.coordinates(), q.lastKnown())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(snapshot)
}

func (h *Handler) weekly(c *fiber.Ctx) error {
	q, err := parseCoordinatesQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	seq, err := h.service.Weekly(ctx, q.coordinates(), q.lastKnown())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(seq)
}

// conditionQuery holds query parameters for the condition endpoint.
type conditionQuery struct {
	Probability *float64 `validate:"required,gte=0,lte=1"`
	Coverage    *float64 `validate:"required,gte=0,lte=100"`
	TimeOfDay   weather.TimeOfDay
}

func (h *Handler) condition(c *fiber.Ctx) error {
	var q conditionQuery
	var err error
	if q.Probability, err = queryFloat(c, "probability"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if q.Coverage, err = queryFloat(c, "coverage"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	q.TimeOfDay = weather.Day
	if v := c.Query("time_of_day"); v != "" {
		tod, ok := weather.ParseTimeOfDay(v)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "time_of_day must be day or night")
		}
		q.TimeOfDay = tod
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(weather.Classify(*q.Probability, *q.Coverage, q.TimeOfDay))
}

func (h *Handler) catalog(c *fiber.Ctx) error {
	return c.JSON(activity.Catalog())
}

func (h *Handler) activity(c *fiber.Ctx) error {
	id := c.Params("id")
	q, err := parseCoordinatesQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	var snapshot weather.Snapshot
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		seq, err := h.service.Weekly(ctx, q.coordinates(), q.lastKnown())
		if err != nil {
			return upstreamError(err)
		}
		day, ok := seq.ByDate(date)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("no forecast for %s", date))
		}
		snapshot = day
	} else {
		snapshot, err = h.service.Current(ctx, q.coordinates(), q.lastKnown())
		if err != nil {
			return upstreamError(err)
		}
	}

	return c.JSON(activity.Evaluate(snapshot, id))
}

// evaluateRequest carries a client supplied snapshot.
type evaluateRequest struct {
	Snapshot   json.RawMessage `json:"snapshot" validate:"required"`
	Activities []string        `json:"activities" validate:"required,min=1,dive,required"`
}

func (h *Handler) evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshot, err := decodeReportedSnapshot(req.Snapshot)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(activity.EvaluateAll(snapshot, req.Activities))
}

// reportedSnapshot lists the client snapshot fields the activity rules read.
// Probability may be a fraction or a percentage; DecodeSnapshot rescales it.
type reportedSnapshot struct {
	Conditions *struct {
		Precipitation *struct {
			Probability *float64 `json:"probability" validate:"required,gte=0,lte=100"`
		} `json:"precipitation" validate:"required"`
		Temperature *struct {
			SurfaceCelsius *float64 `json:"surface_celsius" validate:"required,gte=-90,lte=60"`
		} `json:"temperature" validate:"required"`
		Humidity *struct {
			RelativePercent *float64 `json:"relative_percent" validate:"required,gte=0,lte=100"`
		} `json:"humidity" validate:"required"`
		Wind *struct {
			SpeedMS *float64 `json:"speed_m_s" validate:"required,gte=0,lte=150"`
		} `json:"wind" validate:"required"`
		Clouds *struct {
			CoveragePercent *float64 `json:"coverage_percent" validate:"required,gte=0,lte=100"`
		} `json:"clouds" validate:"required"`
	} `json:"atmospheric_conditions" validate:"required"`
}

// decodeReportedSnapshot rejects snapshots with missing or out of range
// evaluation inputs before decoding them.
func decodeReportedSnapshot(raw json.RawMessage) (weather.Snapshot, error) {
	var r reportedSnapshot
	if err := json.Unmarshal(raw, &r); err != nil {
		return weather.Snapshot{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	if err := validate.Struct(r); err != nil {
		return weather.Snapshot{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	return weather.DecodeSnapshot(raw)
}

func (h *Handler) place(c *fiber.Ctx) error {
	q, err := parseCoordinatesQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	name := place.FormatCoordinates(*q.Latitude, *q.Longitude)
	if h.places != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
		defer cancel()
		name = h.places.Resolve(ctx, *q.Latitude, *q.Longitude, q.lastKnown())
	}
	return c.JSON(fiber.Map{"place_name": name})
}

// coordinatesQuery holds query parameters for identifying a location.
type coordinatesQuery struct {
	Latitude  *float64 `validate:"required,gte=-90,lte=90"`
	Longitude *float64 `validate:"required,gte=-180,lte=180"`
	PlaceName string
}

func (q coordinatesQuery) coordinates() weather.Coordinates {
	return weather.Coordinates{Latitude: *q.Latitude, Longitude: *q.Longitude}
}

// lastKnown turns the optional place_name hint into a resolver fallback.
func (q coordinatesQuery) lastKnown() *place.LastKnown {
	if q.PlaceName == "" {
		return nil
	}
	return &place.LastKnown{Latitude: *q.Latitude, Longitude: *q.Longitude, PlaceName: q.PlaceName}
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	var q coordinatesQuery
	var err error

	if q.Latitude, err = queryFloat(c, "latitude"); err != nil {
		return q, err
	}
	if q.Longitude, err = queryFloat(c, "longitude"); err != nil {
		return q, err
	}
	q.PlaceName = c.Query("place_name")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// queryFloat returns nil when the parameter is absent.
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

// upstreamError maps service errors onto HTTP status codes.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, weather.ErrIncompleteUpstreamData):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, weather.ErrTransportFailure):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather provider unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "weather provider timed out")
	}
	logger.Errorf("unexpected service error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
}
