package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Filter selects bookings. Zero-valued fields are absent; every present
// field must match (AND).
type Filter struct {
	ID          uuid.UUID
	ListingID   string
	GuestID     string
	Statuses    []BookingStatus
	Conflicting *ConflictQuery
}

// ConflictQuery matches bookings whose stay conflicts with Range under Policy.
type ConflictQuery struct {
	Range  DateRange
	Policy OverlapPolicy
}

// Matches evaluates the filter against a booking in memory.
func (f Filter) Matches(b *Booking) bool {
	if f.ID != uuid.Nil && b.ID() != f.ID {
		return false
	}
	if f.ListingID != "" && b.ListingID() != f.ListingID {
		return false
	}
	if f.GuestID != "" && b.GuestID() != f.GuestID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status()) {
		return false
	}
	if f.Conflicting != nil && !Conflicts(b.Stay(), f.Conflicting.Range, f.Conflicting.Policy) {
		return false
	}
	return true
}

// Field names a booking attribute for projected reads.
type Field string

const (
	FieldID           Field = "id"
	FieldListingID    Field = "listing_id"
	FieldGuestID      Field = "guest_id"
	FieldCheckInDate  Field = "check_in_date"
	FieldCheckOutDate Field = "check_out_date"
	FieldTotalCost    Field = "total_cost"
	FieldStatus       Field = "status"
)

// StatusUpdate is a bulk status change: every booking matching the
// predicate moves to To. Nil time bounds are absent.
type StatusUpdate struct {
	To             BookingStatus
	From           []BookingStatus
	CheckInBefore  *time.Time
	CheckOutBefore *time.Time
	CheckOutAfter  *time.Time
}

// CompletionUpdate finalizes every active booking whose check-out has passed.
func CompletionUpdate(now time.Time) StatusUpdate {
	return StatusUpdate{
		To:             StatusCompleted,
		From:           ActiveStatuses(),
		CheckOutBefore: &now,
	}
}

// ActivationUpdate marks upcoming bookings whose stay is under way as current.
func ActivationUpdate(now time.Time) StatusUpdate {
	return StatusUpdate{
		To:            StatusCurrent,
		From:          []BookingStatus{StatusUpcoming},
		CheckInBefore: &now,
		CheckOutAfter: &now,
	}
}

// Validate rejects updates that would move a booking backwards or sideways.
func (u StatusUpdate) Validate() error {
	if !u.To.IsValid() {
		return fmt.Errorf("invalid target status: %s", u.To)
	}
	if len(u.From) == 0 {
		return fmt.Errorf("status update to %s has no source statuses", u.To)
	}
	for _, from := range u.From {
		if !from.CanTransitionTo(u.To) {
			return fmt.Errorf("status update from %s to %s is not a forward transition", from, u.To)
		}
	}
	return nil
}

// Matches evaluates the update predicate against a booking in memory.
func (u StatusUpdate) Matches(b *Booking) bool {
	if !containsStatus(u.From, b.Status()) {
		return false
	}
	if u.CheckInBefore != nil && !b.CheckInDate().Before(*u.CheckInBefore) {
		return false
	}
	if u.CheckOutBefore != nil && !b.CheckOutDate().Before(*u.CheckOutBefore) {
		return false
	}
	if u.CheckOutAfter != nil && !b.CheckOutDate().After(*u.CheckOutAfter) {
		return false
	}
	return true
}

func containsStatus(list []BookingStatus, s BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
