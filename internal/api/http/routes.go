package httpapi

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/marine-forecast/internal/weather"
	"github.com/i474232898/marine-forecast/internal/weather/providers"
)

var validate = validator.New()

// ForecastService is the subset of weather.Service used by the handlers.
type ForecastService interface {
	Forecast(ctx context.Context) ([]weather.TimeForecast, error)
	FetchPoints(ctx context.Context, lat, lng float64) ([]weather.ForecastPoint, error)
	Beaches() []weather.Beach
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service ForecastService) {
	v1 := app.Group("/api/v1")

	v1.Get("/beaches", func(c *fiber.Ctx) error {
		beaches := service.Beaches()
		if beaches == nil {
			beaches = []weather.Beach{}
		}
		return c.JSON(beaches)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		forecast, err := service.Forecast(c.UserContext())
		if err != nil {
			return providerError(err)
		}
		return c.JSON(forecast)
	})

	v1.Get("/forecast/point", func(c *fiber.Ctx) error {
		q, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		points, err := service.FetchPoints(c.UserContext(), *q.Lat, *q.Lng)
		if err != nil {
			return providerError(err)
		}

		return c.JSON(fiber.Map{
			"lat":    *q.Lat,
			"lng":    *q.Lng,
			"points": points,
		})
	})
}

// providerError maps provider failures onto HTTP errors. Rate limiting by the
// provider is passed through, other provider failures are a bad gateway.
func providerError(err error) error {
	log.Printf("ERROR: forecast request failed: %v", err)

	var svcErr *providers.ServiceResponseError
	switch {
	case errors.As(err, &svcErr) && svcErr.Status == fiber.StatusTooManyRequests:
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, providers.ErrProvider):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// pointQuery holds query parameters for the point forecast endpoint.
type pointQuery struct {
	Lat *float64 `validate:"required,gte=-90,lte=90"`
	Lng *float64 `validate:"required,gte=-180,lte=180"`
}

func parsePointQuery(c *fiber.Ctx) (pointQuery, error) {
	var q pointQuery

	var err error
	if q.Lat, err = parseCoord(c.Query("lat")); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Lng, err = parseCoord(c.Query("lng")); err != nil {
		return q, errors.New("lng must be a number")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// parseCoord returns nil for an empty value so that validation reports it as missing.
func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
