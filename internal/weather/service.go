package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service orchestrates fetching forecasts for the configured beaches and
// persisting the latest points per beach.
type Service struct {
	provider Provider
	store    Store
	beaches  []Beach
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider Provider, store Store, beaches []Beach) *Service {
	return &Service{
		provider: provider,
		store:    store,
		beaches:  beaches,
		now:      time.Now,
	}
}

// Beaches returns the configured beaches.
func (s *Service) Beaches() []Beach {
	return s.beaches
}

// FetchPoints returns live normalized points for a coordinate pair.
func (s *Service) FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no forecast provider configured")
	}
	return s.provider.FetchPoints(ctx, lat, lng)
}

// ProcessForecastForBeaches fetches points for every beach concurrently,
// rates them and groups them by time. Any provider failure aborts the whole
// operation with a ForecastProcessingError.
func (s *Service) ProcessForecastForBeaches(ctx context.Context, beaches []Beach) ([]TimeForecast, error) {
	return s.process(ctx, beaches, s.fetchLive)
}

// Forecast returns the grouped forecast for the configured beaches, using
// stored points where they are fresh and fetching the rest live.
func (s *Service) Forecast(ctx context.Context) ([]TimeForecast, error) {
	return s.process(ctx, s.beaches, func(ctx context.Context, beach Beach) ([]ForecastPoint, error) {
		if s.store != nil {
			if snap, err := s.store.GetLatest(beach); err == nil {
				return snap.Points, nil
			}
		}
		log.Printf("DEBUG: no stored forecast for beach %s; fetching live", beach.Name)
		return s.fetchAndStore(ctx, beach)
	})
}

// Refresh fetches and stores points for all configured beaches. Failures for
// individual beaches are logged and do not affect the others; the returned
// error joins them.
func (s *Service) Refresh(ctx context.Context) error {
	if len(s.beaches) == 0 {
		log.Printf("INFO: no beaches configured; nothing to refresh")
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, beach := range s.beaches {
		wg.Add(1)
		go func(beach Beach) {
			defer wg.Done()

			if _, err := s.fetchAndStore(ctx, beach); err != nil {
				log.Printf("ERROR: forecast refresh failed for beach %s: %v", beach.Name, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("beach %s: %w", beach.Name, err))
				mu.Unlock()
			}
		}(beach)
	}

	wg.Wait()
	return errors.Join(errs...)
}

func (s *Service) fetchLive(ctx context.Context, beach Beach) ([]ForecastPoint, error) {
	return s.FetchPoints(ctx, beach.Lat, beach.Lng)
}

func (s *Service) fetchAndStore(ctx context.Context, beach Beach) ([]ForecastPoint, error) {
	points, err := s.fetchLive(ctx, beach)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		s.store.SavePoints(beach, PointsSnapshot{
			FetchedAt: s.now().UTC(),
			Points:    points,
		})
	}
	return points, nil
}

func (s *Service) process(
	ctx context.Context,
	beaches []Beach,
	load func(ctx context.Context, beach Beach) ([]ForecastPoint, error),
) ([]TimeForecast, error) {
	perBeach := make([][]BeachForecast, len(beaches))

	g, gctx := errgroup.WithContext(ctx)
	for i, beach := range beaches {
		g.Go(func() error {
			points, err := load(gctx, beach)
			if err != nil {
				return err
			}
			perBeach[i] = EnrichPoints(beach, points)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &ForecastProcessingError{Err: err}
	}

	var all []BeachForecast
	for _, fc := range perBeach {
		all = append(all, fc...)
	}
	return GroupByTime(all), nil
}
