package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/kafka"
	"github.com/airlock-stays/service-booking/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStorageDown = errors.New("connection refused")

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock { return &fixedClock{now: now} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// flakyRepository fails BulkUpdateStatus for the first failures calls.
type flakyRepository struct {
	*repository.MemoryBookingRepository
	failures int32
	calls    atomic.Int32
}

func (r *flakyRepository) BulkUpdateStatus(ctx context.Context, update bookingDomain.StatusUpdate) (int64, error) {
	if r.calls.Add(1) <= r.failures {
		return 0, errStorageDown
	}
	return r.MemoryBookingRepository.BulkUpdateStatus(ctx, update)
}

type testStack struct {
	repo      *repository.MemoryBookingRepository
	service   *BookingService
	sweeper   *StatusSweeper
	clock     *fixedClock
	publisher *recordingPublisher
}

func newTestStack(t *testing.T, policy bookingDomain.OverlapPolicy) *testStack {
	t.Helper()
	repo := repository.NewMemoryBookingRepository()
	clock := newFixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	publisher := &recordingPublisher{}
	logger := zap.NewNop()

	return &testStack{
		repo:      repo,
		service:   NewBookingService(repo, NewAvailabilityChecker(policy), publisher, logger),
		sweeper:   NewStatusSweeper(repo, clock, publisher, logger),
		clock:     clock,
		publisher: publisher,
	}
}

func (s *testStack) book(t *testing.T, listingID, guestID, in, out string) *BookingSummary {
	t.Helper()
	summary, err := s.service.CreateBooking(context.Background(), guestID, CreateBookingRequest{
		ListingID:    listingID,
		CheckInDate:  in,
		CheckOutDate: out,
		TotalCost:    250,
	})
	require.NoError(t, err)
	return summary
}

func at(day string, hour int) time.Time {
	d, err := time.Parse(bookingDomain.DateLayout, day)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}
