package providers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/marine-forecast/internal/request"
	"github.com/i474232898/marine-forecast/internal/weather"
)

const (
	DefaultStormGlassURL    = "https://api.stormglass.io/v2/weather/point"
	DefaultStormGlassSource = "noaa"

	stormGlassName = "StormGlass"
)

// Requester performs the outbound GET for a provider.
type Requester interface {
	Get(ctx context.Context, url string, opts request.Options) (*request.Response, error)
}

// stormGlassSources maps a data source (e.g. "noaa", "sg", "icon") to its raw
// value. Values are decoded on lookup so a malformed value from another source
// does not fail the whole payload.
type stormGlassSources map[string]json.RawMessage

// value reports the numeric value for source. Zero, null and non-numeric
// values count as missing.
func (s stormGlassSources) value(source string) (float64, bool) {
	raw, ok := s[source]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, v != 0
}

func (s stormGlassSources) number(source string) float64 {
	v, _ := s.value(source)
	return v
}

type stormGlassPoint struct {
	Time           string            `json:"time"`
	SwellDirection stormGlassSources `json:"swellDirection"`
	SwellHeight    stormGlassSources `json:"swellHeight"`
	SwellPeriod    stormGlassSources `json:"swellPeriod"`
	WaveDirection  stormGlassSources `json:"waveDirection"`
	WaveHeight     stormGlassSources `json:"waveHeight"`
	WindDirection  stormGlassSources `json:"windDirection"`
	WindSpeed      stormGlassSources `json:"windSpeed"`
}

func (p stormGlassPoint) sources(q weather.Quantity) stormGlassSources {
	switch q {
	case weather.SwellDirection:
		return p.SwellDirection
	case weather.SwellHeight:
		return p.SwellHeight
	case weather.SwellPeriod:
		return p.SwellPeriod
	case weather.WaveDirection:
		return p.WaveDirection
	case weather.WaveHeight:
		return p.WaveHeight
	case weather.WindDirection:
		return p.WindDirection
	case weather.WindSpeed:
		return p.WindSpeed
	default:
		return nil
	}
}

type stormGlassForecastResponse struct {
	Hours []stormGlassPoint `json:"hours"`
}

// StormGlassConfig configures a StormGlassProvider.
type StormGlassConfig struct {
	BaseURL string
	Token   string
	Source  string
	Now     func() time.Time
}

// StormGlassProvider implements weather.Provider for the StormGlass point API.
// It keeps only hours where every quantity is present for its source.
type StormGlassProvider struct {
	name    string
	baseURL string
	token   string
	source  string
	request Requester
	now     func() time.Time
}

func NewStormGlassProvider(req Requester, cfg StormGlassConfig) *StormGlassProvider {
	p := &StormGlassProvider{
		name:    stormGlassName,
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		source:  cfg.Source,
		request: req,
		now:     cfg.Now,
	}
	if p.baseURL == "" {
		p.baseURL = DefaultStormGlassURL
	}
	if p.source == "" {
		p.source = DefaultStormGlassSource
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

func (p *StormGlassProvider) Name() string {
	return p.name
}

// Source returns the data source whose values are extracted.
func (p *StormGlassProvider) Source() string {
	return p.source
}

func (p *StormGlassProvider) FetchPoints(ctx context.Context, lat, lng float64) ([]weather.ForecastPoint, error) {
	resp, err := p.request.Get(ctx, p.baseURL, request.Options{
		Headers: map[string]string{
			"Authorization": p.token,
		},
		Params: map[string]string{
			"params": joinQuantities(weather.Quantities),
			"source": p.source,
			"end":    strconv.FormatInt(p.now().Unix(), 10),
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lng":    strconv.FormatFloat(lng, 'f', -1, 64),
		},
	})
	if err != nil {
		var respErr *request.ResponseError
		if request.IsRequestError(err) && errors.As(err, &respErr) {
			return nil, &ServiceResponseError{
				Provider: p.name,
				Status:   respErr.Status,
				Body:     respErr.Body,
				Err:      err,
			}
		}
		return nil, &ClientRequestError{Provider: p.name, Err: err}
	}

	var payload stormGlassForecastResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, &ClientRequestError{Provider: p.name, Err: err}
	}

	return p.normalize(payload), nil
}

func (p *StormGlassProvider) normalize(payload stormGlassForecastResponse) []weather.ForecastPoint {
	points := make([]weather.ForecastPoint, 0, len(payload.Hours))
	for _, h := range payload.Hours {
		if !p.isValid(h) {
			continue
		}
		points = append(points, weather.ForecastPoint{
			Time:           h.Time,
			WaveHeight:     h.WaveHeight.number(p.source),
			WaveDirection:  h.WaveDirection.number(p.source),
			SwellDirection: h.SwellDirection.number(p.source),
			SwellHeight:    h.SwellHeight.number(p.source),
			SwellPeriod:    h.SwellPeriod.number(p.source),
			WindDirection:  h.WindDirection.number(p.source),
			WindSpeed:      h.WindSpeed.number(p.source),
		})
	}
	return points
}

func (p *StormGlassProvider) isValid(h stormGlassPoint) bool {
	if h.Time == "" {
		return false
	}
	for _, q := range weather.Quantities {
		if _, ok := h.sources(q).value(p.source); !ok {
			return false
		}
	}
	return true
}

func joinQuantities(qs []weather.Quantity) string {
	names := make([]string, len(qs))
	for i, q := range qs {
		names[i] = string(q)
	}
	return strings.Join(names, ",")
}
