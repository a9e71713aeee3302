package booking

import "fmt"

// BookingStatus represents the temporal phase of a booking.
type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "UPCOMING"
	StatusCurrent   BookingStatus = "CURRENT"
	StatusCompleted BookingStatus = "COMPLETED"
)

// validTransitions defines the lifecycle. Status only ever moves forward.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusUpcoming:  {StatusCurrent, StatusCompleted},
	StatusCurrent:   {StatusCompleted},
	StatusCompleted: {},
}

// ActiveStatuses are the statuses that still hold a listing's dates.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusUpcoming, StatusCurrent}
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
