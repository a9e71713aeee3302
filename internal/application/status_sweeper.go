package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"go.uber.org/zap"
)

// SweepResult reports how many bookings each pass changed.
type SweepResult struct {
	Completed int64     `json:"completed"`
	Activated int64     `json:"activated"`
	SweptAt   time.Time `json:"swept_at"`
}

// StatusSweeper advances booking statuses as time passes. It is the only
// component that changes a booking's status.
type StatusSweeper struct {
	repo      bookingDomain.BookingRepository
	clock     Clock
	publisher EventPublisher
	logger    *zap.Logger

	// mu serializes sweeps within this process.
	mu sync.Mutex
}

// NewStatusSweeper creates a StatusSweeper.
func NewStatusSweeper(
	repo bookingDomain.BookingRepository,
	clock Clock,
	publisher EventPublisher,
	logger *zap.Logger,
) *StatusSweeper {
	if clock == nil {
		clock = SystemClock{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &StatusSweeper{
		repo:      repo,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// Sweep runs the completion pass and then the activation pass against a
// single reading of the clock. Completion runs first so a stay that is
// already over goes straight to COMPLETED without passing through CURRENT.
// If the completion pass fails the activation pass is skipped.
func (s *StatusSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	result := SweepResult{SweptAt: now}

	completed, err := s.repo.BulkUpdateStatus(ctx, bookingDomain.CompletionUpdate(now))
	if err != nil {
		return result, fmt.Errorf("completion pass failed: %w", err)
	}
	result.Completed = completed
	if completed > 0 {
		s.logger.Info("bookings updated to COMPLETED", zap.Int64("rows", completed))
	}

	activated, err := s.repo.BulkUpdateStatus(ctx, bookingDomain.ActivationUpdate(now))
	if err != nil {
		return result, fmt.Errorf("activation pass failed: %w", err)
	}
	result.Activated = activated
	if activated > 0 {
		s.logger.Info("bookings updated to CURRENT", zap.Int64("rows", activated))
	}

	if completed > 0 || activated > 0 {
		publishEvent(ctx, s.publisher, s.logger, TopicBookingEvents, EventBookingStatusesSwept, StatusesSweptEvent{
			Completed: completed,
			Activated: activated,
			SweptAt:   now,
		})
	}
	return result, nil
}

// Run sweeps once immediately and then on every tick of interval until ctx
// is cancelled. Failed sweeps are logged; the next tick retries.
func (s *StatusSweeper) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("status sweeper started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweepAndLog(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("status sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *StatusSweeper) sweepAndLog(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("booking status sweep failed", zap.Error(err))
	}
}
