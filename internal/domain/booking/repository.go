package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for bookings.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindAll retrieves every booking matching the filter, ordered by check-in date.
	FindAll(ctx context.Context, filter Filter) ([]*Booking, error)

	// FindOne retrieves the first booking matching the filter. When fields are
	// given only those attributes are loaded.
	FindOne(ctx context.Context, filter Filter, fields ...Field) (*Booking, error)

	// Create persists a new booking.
	Create(ctx context.Context, booking *Booking) error

	// BulkUpdateStatus applies the update to every matching booking and
	// returns the number of rows changed.
	BulkUpdateStatus(ctx context.Context, update StatusUpdate) (int64, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// WithListingLock runs fn atomically with respect to other calls for the
	// same listing. fn receives a repository bound to that unit of work.
	WithListingLock(ctx context.Context, listingID string, fn func(repo BookingRepository) error) error
}
