package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingWith(t *testing.T, listingID, guestID, in, out string, status BookingStatus) *Booking {
	t.Helper()
	return ReconstructBooking(uuid.New(), listingID, guestID, mustRange(t, in, out), 100, status, time.Time{}, time.Time{})
}

func TestFilter_Matches(t *testing.T) {
	bk := bookingWith(t, "listing-1", "user-1", "2024-01-10", "2024-01-15", StatusCurrent)

	assert.True(t, Filter{}.Matches(bk))
	assert.True(t, Filter{ListingID: "listing-1", GuestID: "user-1"}.Matches(bk))
	assert.False(t, Filter{ListingID: "listing-2"}.Matches(bk))
	assert.False(t, Filter{ID: uuid.New()}.Matches(bk))
	assert.True(t, Filter{Statuses: ActiveStatuses()}.Matches(bk))
	assert.False(t, Filter{Statuses: []BookingStatus{StatusCompleted}}.Matches(bk))
	assert.True(t, Filter{Conflicting: &ConflictQuery{
		Range:  mustRange(t, "2024-01-15", "2024-01-20"),
		Policy: PolicyInclusive,
	}}.Matches(bk))
}

func TestCompletionUpdate(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	u := CompletionUpdate(now)
	require.NoError(t, u.Validate())

	assert.True(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-15", StatusUpcoming)))
	assert.True(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-20", StatusCurrent)))
	assert.False(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-21", StatusCurrent)))
	assert.False(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-15", StatusCompleted)))
}

func TestActivationUpdate(t *testing.T) {
	now := time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC)
	u := ActivationUpdate(now)
	require.NoError(t, u.Validate())

	assert.True(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-15", StatusUpcoming)))
	assert.False(t, u.Matches(bookingWith(t, "l", "g", "2024-01-13", "2024-01-15", StatusUpcoming)))
	assert.False(t, u.Matches(bookingWith(t, "l", "g", "2024-01-05", "2024-01-10", StatusUpcoming)))
	assert.False(t, u.Matches(bookingWith(t, "l", "g", "2024-01-10", "2024-01-15", StatusCurrent)))
}

func TestStatusUpdate_ValidateRejectsBackwardMoves(t *testing.T) {
	u := StatusUpdate{To: StatusUpcoming, From: []BookingStatus{StatusCurrent}}
	assert.Error(t, u.Validate())

	u = StatusUpdate{To: StatusCurrent, From: []BookingStatus{StatusCompleted}}
	assert.Error(t, u.Validate())

	u = StatusUpdate{To: StatusCompleted}
	assert.Error(t, u.Validate())
}
