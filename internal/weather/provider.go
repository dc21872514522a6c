package weather

import (
	"context"
	"time"
)

// Provider abstracts a marine forecast source (e.g. StormGlass).
type Provider interface {
	Name() string
	FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error)
}

// PointsSnapshot is the result of one successful fetch for a beach.
type PointsSnapshot struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Points    []ForecastPoint `json:"points"`
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SavePoints(beach Beach, snapshot PointsSnapshot)
	GetLatest(beach Beach) (PointsSnapshot, error)
}
