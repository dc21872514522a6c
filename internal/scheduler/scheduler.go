package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

const jobTimeout = 30 * time.Second

// Refresher refreshes stored forecasts.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Pruner drops expired forecasts from a store.
type Pruner interface {
	Prune() int
}

// Scheduler periodically refreshes the forecasts of configured beaches.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	pruner    Pruner
	interval  time.Duration
}

// New creates a new Scheduler. pruner may be nil.
func New(interval time.Duration, refresher Refresher, pruner Pruner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		pruner:    pruner,
		interval:  interval,
	}
}

// Start schedules the periodic job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		log.Printf("scheduler: refresh finished with errors: %v", err)
	}
	if s.pruner != nil {
		if n := s.pruner.Prune(); n > 0 {
			log.Printf("scheduler: pruned %d expired forecasts", n)
		}
	}

	log.Println("scheduler: completed forecast refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
