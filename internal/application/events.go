package application

import (
	"context"
	"time"

	"github.com/airlock-stays/service-booking/internal/platform/kafka"
)

const eventSource = "service-booking"

// Topics and event types owned by the booking service.
const (
	TopicBookingEvents   = "booking.events"
	TopicBookingCommands = "booking.commands"

	EventBookingCreated       = "booking.created"
	EventBookingStatusesSwept = "booking.statuses.swept"
	CommandSweepRequested     = "booking.sweep.requested"
)

// EventPublisher delivers CloudEvents to the message bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

// PublishEvent discards the event.
func (NopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }

// BookingCreatedEvent is published after a booking is committed.
type BookingCreatedEvent struct {
	BookingID    string    `json:"booking_id"`
	ListingID    string    `json:"listing_id"`
	GuestID      string    `json:"guest_id"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	TotalCost    float64   `json:"total_cost"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StatusesSweptEvent is published when a sweep changed at least one booking.
type StatusesSweptEvent struct {
	Completed int64     `json:"completed"`
	Activated int64     `json:"activated"`
	SweptAt   time.Time `json:"swept_at"`
}

// SweepRequestedCommand asks the service to run one sweep.
type SweepRequestedCommand struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}
