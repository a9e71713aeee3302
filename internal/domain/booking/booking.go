package booking

import (
	"math"
	"strings"
	"time"

	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/google/uuid"
)

// Booking is the aggregate root for the booking domain. Listings and guests
// belong to other services; a booking only keeps their identifiers.
type Booking struct {
	id        uuid.UUID
	listingID string
	guestID   string
	stay      DateRange
	totalCost float64
	status    BookingStatus

	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking with status UPCOMING.
func NewBooking(listingID, guestID string, stay DateRange, totalCost float64) (*Booking, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if strings.TrimSpace(guestID) == "" {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if !stay.CheckIn.Before(stay.CheckOut) {
		return nil, domain.NewValidationError("check-in date must be before check-out date")
	}
	if totalCost < 0 || math.IsNaN(totalCost) || math.IsInf(totalCost, 0) {
		return nil, domain.NewValidationError("total cost must be a non-negative amount")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		listingID: listingID,
		guestID:   guestID,
		stay:      stay,
		totalCost: totalCost,
		status:    StatusUpcoming,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
// Projected reads leave the unselected fields at their zero value.
func ReconstructBooking(
	id uuid.UUID,
	listingID string,
	guestID string,
	stay DateRange,
	totalCost float64,
	status BookingStatus,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		listingID: listingID,
		guestID:   guestID,
		stay:      stay,
		totalCost: totalCost,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ListingID returns the booked listing's identifier.
func (b *Booking) ListingID() string { return b.listingID }

// GuestID returns the booking guest's account identifier.
func (b *Booking) GuestID() string { return b.guestID }

// Stay returns the booked date range.
func (b *Booking) Stay() DateRange { return b.stay }

// CheckInDate returns the first day of the stay.
func (b *Booking) CheckInDate() time.Time { return b.stay.CheckIn }

// CheckOutDate returns the last day of the stay.
func (b *Booking) CheckOutDate() time.Time { return b.stay.CheckOut }

// TotalCost returns the cost computed by the caller at creation time.
func (b *Booking) TotalCost() float64 { return b.totalCost }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AdvanceTo moves the booking forward in its lifecycle.
func (b *Booking) AdvanceTo(target BookingStatus, at time.Time) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = at.UTC()
	return nil
}
