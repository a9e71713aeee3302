package application

import (
	"context"
	"fmt"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
)

// AvailabilityChecker decides whether a listing is free for a stay.
type AvailabilityChecker struct {
	policy bookingDomain.OverlapPolicy
}

// NewAvailabilityChecker creates an AvailabilityChecker using policy.
func NewAvailabilityChecker(policy bookingDomain.OverlapPolicy) *AvailabilityChecker {
	if policy == "" {
		policy = bookingDomain.PolicyInclusive
	}
	return &AvailabilityChecker{policy: policy}
}

// Policy returns the overlap policy in use.
func (a *AvailabilityChecker) Policy() bookingDomain.OverlapPolicy { return a.policy }

// IsAvailable reports whether no booking of the listing conflicts with stay.
// Bookings in every status are considered. It only reads from repo.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, repo bookingDomain.BookingRepository, listingID string, stay bookingDomain.DateRange) (bool, error) {
	conflicts, err := repo.FindAll(ctx, bookingDomain.Filter{
		ListingID: listingID,
		Conflicting: &bookingDomain.ConflictQuery{
			Range:  stay,
			Policy: a.policy,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return len(conflicts) == 0, nil
}
