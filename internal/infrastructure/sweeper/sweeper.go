// Package sweeper runs the recurring expired-session sweep. It is scheduled
// off the request path; with several instances running, a Redis leader lock
// keeps the sweep to one instance per tick.
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/masjidmap/auth-service/internal/api/metrics"
	"github.com/masjidmap/auth-service/internal/core/ports"
	redislock "github.com/masjidmap/auth-service/internal/infrastructure/db/redis"
)

const (
	runTimeout = 30 * time.Second
	lockTTL    = time.Minute
)

type Sweeper struct {
	sessions ports.SessionService
	lock     *redislock.SweepLock
	log      zerolog.Logger
	cron     *cron.Cron
}

func New(sessions ports.SessionService, lock *redislock.SweepLock, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		lock:     lock,
		log:      log,
		cron:     cron.New(),
	}
}

// Start registers the sweep on the given cron schedule (e.g. "@every 15m")
// and launches the scheduler in its own goroutine.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", schedule).Msg("session sweeper started")
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	acquired, err := s.lock.Acquire(ctx, lockTTL)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep lock acquisition failed")
		return
	}
	if !acquired {
		s.log.Debug().Msg("sweep skipped, another instance holds the lock")
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.log.Warn().Err(err).Msg("sweep lock release failed")
		}
	}()

	n, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	metrics.SessionsSweptTotal.Add(float64(n))
}
