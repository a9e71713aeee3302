package booking

import (
	"fmt"
	"time"

	"github.com/airlock-stays/service-booking/internal/platform/domain"
)

const (
	// DateLayout is the wire format for stay dates.
	DateLayout = "2006-01-02"
	// DisplayLayout renders dates for people, e.g. "Jan 10, 2024".
	DisplayLayout = "Jan 2, 2006"
)

// DateRange is a stay expressed in whole days. CheckIn is always before CheckOut.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange normalizes both dates to midnight UTC and validates their order.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	in, out := TruncateToDay(checkIn), TruncateToDay(checkOut)
	if !in.Before(out) {
		return DateRange{}, domain.NewValidationError("check-in date must be before check-out date")
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}

// ParseDateRange parses two YYYY-MM-DD strings into a DateRange.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid check-in date %q, expected YYYY-MM-DD", checkIn))
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid check-out date %q, expected YYYY-MM-DD", checkOut))
	}
	return NewDateRange(in, out)
}

// TruncateToDay keeps the calendar date of t and drops the time of day.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights in the stay.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Contains reports whether day falls within the range, boundaries included.
func (r DateRange) Contains(day time.Time) bool {
	day = TruncateToDay(day)
	return !day.Before(r.CheckIn) && !day.After(r.CheckOut)
}

func (r DateRange) String() string {
	return r.CheckIn.Format(DateLayout) + ".." + r.CheckOut.Format(DateLayout)
}

// OverlapPolicy selects how two stays are compared for conflicts.
type OverlapPolicy string

const (
	// PolicyInclusive flags a conflict when any boundary of either range lies
	// within the other, boundaries included. No same-day turnover.
	PolicyInclusive OverlapPolicy = "inclusive"
	// PolicyBoundary only checks whether an existing booking's check-in or
	// check-out lies within the requested range. It misses an existing stay
	// that strictly contains the requested one.
	PolicyBoundary OverlapPolicy = "boundary"
)

// ParseOverlapPolicy converts a config value into an OverlapPolicy.
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch p := OverlapPolicy(s); p {
	case PolicyInclusive, PolicyBoundary:
		return p, nil
	case "":
		return PolicyInclusive, nil
	default:
		return "", fmt.Errorf("invalid overlap policy: %s", s)
	}
}

// Conflicts reports whether an existing stay blocks the requested one under policy.
func Conflicts(existing, requested DateRange, policy OverlapPolicy) bool {
	if policy == PolicyBoundary {
		return requested.Contains(existing.CheckIn) || requested.Contains(existing.CheckOut)
	}
	return !existing.CheckIn.After(requested.CheckOut) && !existing.CheckOut.Before(requested.CheckIn)
}

// UnavailableMessage is shown to callers whose dates are already taken.
const UnavailableMessage = "We couldn't complete your request because the listing is unavailable for the given dates."

// NewUnavailableError returns the conflict raised when a stay cannot be booked.
func NewUnavailableError() *domain.ConflictError {
	return domain.NewConflictError(UnavailableMessage)
}
