package config

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/i474232898/marine-forecast/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	Port string `env:"PORT,default=8080"`

	StormGlassURL    string `env:"STORMGLASS_API_URL,default=https://api.stormglass.io/v2/weather/point"`
	StormGlassToken  string `env:"STORMGLASS_API_TOKEN,required"`
	StormGlassSource string `env:"STORMGLASS_SOURCE,default=noaa"`

	// Outbound HTTP behaviour.
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	HTTPRetryCount int           `env:"HTTP_RETRY_COUNT,default=0"`
	HTTPRetryWait  time.Duration `env:"HTTP_RETRY_WAIT,default=500ms"`

	// FetchInterval controls how often forecasts are refreshed for every beach.
	FetchInterval time.Duration `env:"FETCH_INTERVAL,default=1h"`

	// StoreMaxAge is how long a stored forecast is served before refetching.
	StoreMaxAge time.Duration `env:"STORE_MAX_AGE,default=3h"`

	// Beaches to track, as "name,lat,lng,position" entries separated by ";".
	Beaches Beaches `env:"BEACHES"`
}

// Beaches decodes the BEACHES environment variable.
type Beaches []weather.Beach

// EnvDecode implements envconfig.Decoder.
func (b *Beaches) EnvDecode(val string) error {
	beaches, err := ParseBeaches(val)
	if err != nil {
		return err
	}
	*b = beaches
	return nil
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load(ctx context.Context) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// ParseBeaches parses "name,lat,lng,position" entries separated by ";".
// Empty entries are skipped.
func ParseBeaches(val string) ([]weather.Beach, error) {
	var beaches []weather.Beach
	for _, entry := range strings.Split(val, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fields := strings.Split(entry, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid beach %q: expected name,lat,lng,position", entry)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude for beach %q: %w", fields[0], err)
		}
		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude for beach %q: %w", fields[0], err)
		}

		beach := weather.NewBeach(fields[0], lat, lng, weather.Position(strings.ToUpper(fields[3])))
		if err := validate.Struct(beach); err != nil {
			return nil, fmt.Errorf("invalid beach %q: %w", fields[0], err)
		}
		beaches = append(beaches, beach)
	}
	return beaches, nil
}
