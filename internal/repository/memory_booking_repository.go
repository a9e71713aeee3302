package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/google/uuid"
)

// MemoryBookingRepository keeps bookings in process memory. It backs local
// runs with STORE_DRIVER=memory and the unit tests.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]bookingDomain.Booking

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewMemoryBookingRepository creates an empty MemoryBookingRepository.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[uuid.UUID]bookingDomain.Booking),
		locks:    make(map[string]*sync.Mutex),
	}
}

// FindByID retrieves a booking by its unique identifier.
func (r *MemoryBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return &bk, nil
}

// FindAll retrieves every booking matching the filter, ordered by check-in date.
func (r *MemoryBookingRepository) FindAll(ctx context.Context, filter bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.matching(filter), nil
}

// FindOne retrieves the first booking matching the filter.
func (r *MemoryBookingRepository) FindOne(ctx context.Context, filter bookingDomain.Filter, fields ...bookingDomain.Field) (*bookingDomain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.matching(filter)
	if len(found) == 0 {
		return nil, domain.NewNotFoundError("Booking", describeFilter(filter))
	}
	if len(fields) > 0 {
		return project(found[0], fields), nil
	}
	return found[0], nil
}

// Create persists a new booking. Active bookings may not overlap on the
// same listing, mirroring the exclusion constraint of the SQL schema.
func (r *MemoryBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[bk.ID()]; exists {
		return domain.NewConflictError("booking " + bk.ID().String() + " already exists")
	}
	guard := bookingDomain.Filter{
		ListingID: bk.ListingID(),
		Statuses:  bookingDomain.ActiveStatuses(),
		Conflicting: &bookingDomain.ConflictQuery{
			Range:  bk.Stay(),
			Policy: bookingDomain.PolicyInclusive,
		},
	}
	if isActive(bk.Status()) && len(r.matching(guard)) > 0 {
		return bookingDomain.NewUnavailableError()
	}

	r.bookings[bk.ID()] = *bk
	return nil
}

// BulkUpdateStatus advances every booking matching the update predicate.
func (r *MemoryBookingRepository) BulkUpdateStatus(ctx context.Context, update bookingDomain.StatusUpdate) (int64, error) {
	if err := update.Validate(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	var changed int64
	for id, bk := range r.bookings {
		if !update.Matches(&bk) {
			continue
		}
		if err := bk.AdvanceTo(update.To, now); err != nil {
			return changed, err
		}
		r.bookings[id] = bk
		changed++
	}
	return changed, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *MemoryBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

// WithListingLock serializes fn against other callers for the same listing.
// fn must not call WithListingLock for the same listing again.
func (r *MemoryBookingRepository) WithListingLock(ctx context.Context, listingID string, fn func(repo bookingDomain.BookingRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := r.listingLock(listingID)
	lock.Lock()
	defer lock.Unlock()

	return fn(r)
}

func (r *MemoryBookingRepository) listingLock(listingID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.locks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[listingID] = lock
	}
	return lock
}

// matching must be called with r.mu held.
func (r *MemoryBookingRepository) matching(filter bookingDomain.Filter) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if filter.Matches(&bk) {
			out = append(out, &bk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckInDate().Equal(out[j].CheckInDate()) {
			return out[i].CheckInDate().Before(out[j].CheckInDate())
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out
}

func project(bk *bookingDomain.Booking, fields []bookingDomain.Field) *bookingDomain.Booking {
	var (
		id        uuid.UUID
		listingID string
		guestID   string
		stay      bookingDomain.DateRange
		totalCost float64
		status    bookingDomain.BookingStatus
	)
	for _, f := range fields {
		switch f {
		case bookingDomain.FieldID:
			id = bk.ID()
		case bookingDomain.FieldListingID:
			listingID = bk.ListingID()
		case bookingDomain.FieldGuestID:
			guestID = bk.GuestID()
		case bookingDomain.FieldCheckInDate:
			stay.CheckIn = bk.CheckInDate()
		case bookingDomain.FieldCheckOutDate:
			stay.CheckOut = bk.CheckOutDate()
		case bookingDomain.FieldTotalCost:
			totalCost = bk.TotalCost()
		case bookingDomain.FieldStatus:
			status = bk.Status()
		}
	}
	return bookingDomain.ReconstructBooking(id, listingID, guestID, stay, totalCost, status, time.Time{}, time.Time{})
}

func isActive(s bookingDomain.BookingStatus) bool {
	for _, a := range bookingDomain.ActiveStatuses() {
		if a == s {
			return true
		}
	}
	return false
}
