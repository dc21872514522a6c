package weather

import (
	"fmt"

	"github.com/google/uuid"
)

// Quantity names one of the physical quantities tracked per forecast hour.
type Quantity string

const (
	SwellDirection Quantity = "swellDirection"
	SwellHeight    Quantity = "swellHeight"
	SwellPeriod    Quantity = "swellPeriod"
	WaveDirection  Quantity = "waveDirection"
	WaveHeight     Quantity = "waveHeight"
	WindDirection  Quantity = "windDirection"
	WindSpeed      Quantity = "windSpeed"
)

// Quantities is the fixed set of quantities requested from providers, in
// request order.
var Quantities = []Quantity{
	SwellDirection,
	SwellHeight,
	SwellPeriod,
	WaveDirection,
	WaveHeight,
	WindDirection,
	WindSpeed,
}

// ForecastPoint is a validated single-source forecast for one hour.
type ForecastPoint struct {
	Time           string  `json:"time"`
	WaveHeight     float64 `json:"waveHeight"`
	WaveDirection  float64 `json:"waveDirection"`
	SwellDirection float64 `json:"swellDirection"`
	SwellHeight    float64 `json:"swellHeight"`
	SwellPeriod    float64 `json:"swellPeriod"`
	WindDirection  float64 `json:"windDirection"`
	WindSpeed      float64 `json:"windSpeed"`
}

// Position is the compass direction a beach faces.
type Position string

const (
	PositionNorth Position = "N"
	PositionEast  Position = "E"
	PositionSouth Position = "S"
	PositionWest  Position = "W"
)

// Beach is a configured surf spot.
type Beach struct {
	ID       string   `json:"id"`
	Name     string   `json:"name" validate:"required"`
	Lat      float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64  `json:"lng" validate:"gte=-180,lte=180"`
	Position Position `json:"position" validate:"oneof=N E S W"`
}

// NewBeach returns a Beach whose ID is derived from its name and coordinates,
// so the same configuration always yields the same ID.
func NewBeach(name string, lat, lng float64, position Position) Beach {
	seed := fmt.Sprintf("%s:%f:%f", name, lat, lng)
	return Beach{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String(),
		Name:     name,
		Lat:      lat,
		Lng:      lng,
		Position: position,
	}
}

// Key returns a canonical string key for indexing this beach in stores.
func (b Beach) Key() string {
	return b.ID
}

// BeachForecast is a forecast point enriched with the beach it belongs to
// and its surf rating.
type BeachForecast struct {
	ForecastPoint
	BeachID  string   `json:"beachId"`
	Name     string   `json:"name"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Position Position `json:"position"`
	Rating   int      `json:"rating"`
}

// TimeForecast groups the forecasts of every beach for one hour.
type TimeForecast struct {
	Time     string          `json:"time"`
	Forecast []BeachForecast `json:"forecast"`
}
