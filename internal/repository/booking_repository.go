package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// exclusionViolation is the SQLSTATE raised by the bookings_no_overlap constraint.
const exclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID    string    `gorm:"not null;size:64;index"`
	GuestID      string    `gorm:"not null;size:64;index"`
	CheckInDate  time.Time `gorm:"type:date;not null"`
	CheckOutDate time.Time `gorm:"type:date;not null"`
	TotalCost    float64   `gorm:"type:numeric(12,2);not null"`
	Status       string    `gorm:"not null;size:20;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindAll retrieves every booking matching the filter, ordered by check-in date.
func (r *GormBookingRepository) FindAll(ctx context.Context, filter bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := applyFilter(r.db.WithContext(ctx), filter).
		Order("check_in_date ASC, created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// FindOne retrieves the first booking matching the filter, loading only the
// requested fields when any are given.
func (r *GormBookingRepository) FindOne(ctx context.Context, filter bookingDomain.Filter, fields ...bookingDomain.Field) (*bookingDomain.Booking, error) {
	q := applyFilter(r.db.WithContext(ctx), filter)
	if len(fields) > 0 {
		columns := make([]string, len(fields))
		for i, f := range fields {
			columns[i] = string(f)
		}
		q = q.Select(columns)
	}

	var model BookingModel
	if err := q.Order("check_in_date ASC").Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", describeFilter(filter))
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	if len(fields) > 0 {
		return toProjectedBooking(&model), nil
	}
	return toDomainBooking(&model)
}

// Create persists a new booking.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return bookingDomain.NewUnavailableError()
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// BulkUpdateStatus sets the target status on every row matching the update
// predicate in a single UPDATE statement.
func (r *GormBookingRepository) BulkUpdateStatus(ctx context.Context, update bookingDomain.StatusUpdate) (int64, error) {
	if err := update.Validate(); err != nil {
		return 0, err
	}

	q := r.db.WithContext(ctx).Model(&BookingModel{}).Where("status IN ?", statusStrings(update.From))
	if update.CheckInBefore != nil {
		q = q.Where("check_in_date < ?", update.CheckInBefore.UTC())
	}
	if update.CheckOutBefore != nil {
		q = q.Where("check_out_date < ?", update.CheckOutBefore.UTC())
	}
	if update.CheckOutAfter != nil {
		q = q.Where("check_out_date > ?", update.CheckOutAfter.UTC())
	}

	result := q.Updates(map[string]interface{}{
		"status":     string(update.To),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update booking status to %s: %w", update.To, result.Error)
	}
	return result.RowsAffected, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// WithListingLock runs fn in a transaction holding a transaction-scoped
// advisory lock on the listing. Concurrent callers for the same listing
// queue on the lock; the lock is released at commit or rollback.
func (r *GormBookingRepository) WithListingLock(ctx context.Context, listingID string, fn func(repo bookingDomain.BookingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", listingID).Error; err != nil {
			return fmt.Errorf("failed to lock listing %s: %w", listingID, err)
		}
		return fn(&GormBookingRepository{db: tx})
	})
}

func applyFilter(q *gorm.DB, f bookingDomain.Filter) *gorm.DB {
	if f.ID != uuid.Nil {
		q = q.Where("id = ?", f.ID)
	}
	if f.ListingID != "" {
		q = q.Where("listing_id = ?", f.ListingID)
	}
	if f.GuestID != "" {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(f.Statuses))
	}
	if c := f.Conflicting; c != nil {
		in := c.Range.CheckIn.Format(bookingDomain.DateLayout)
		out := c.Range.CheckOut.Format(bookingDomain.DateLayout)
		if c.Policy == bookingDomain.PolicyBoundary {
			q = q.Where("((check_in_date BETWEEN ? AND ?) OR (check_out_date BETWEEN ? AND ?))", in, out, in, out)
		} else {
			q = q.Where("check_in_date <= ? AND check_out_date >= ?", out, in)
		}
	}
	return q
}

func statusStrings(statuses []bookingDomain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func describeFilter(f bookingDomain.Filter) string {
	switch {
	case f.ID != uuid.Nil:
		return f.ID.String()
	case f.ListingID != "":
		return "listing " + f.ListingID
	case f.GuestID != "":
		return "guest " + f.GuestID
	default:
		return "filter"
	}
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:           bk.ID(),
		ListingID:    bk.ListingID(),
		GuestID:      bk.GuestID(),
		CheckInDate:  bk.CheckInDate(),
		CheckOutDate: bk.CheckOutDate(),
		TotalCost:    bk.TotalCost(),
		Status:       string(bk.Status()),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ListingID,
		m.GuestID,
		bookingDomain.DateRange{
			CheckIn:  bookingDomain.TruncateToDay(m.CheckInDate),
			CheckOut: bookingDomain.TruncateToDay(m.CheckOutDate),
		},
		m.TotalCost,
		status,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

// toProjectedBooking skips status validation because projections may omit the column.
func toProjectedBooking(m *BookingModel) *bookingDomain.Booking {
	var stay bookingDomain.DateRange
	if !m.CheckInDate.IsZero() {
		stay.CheckIn = bookingDomain.TruncateToDay(m.CheckInDate)
	}
	if !m.CheckOutDate.IsZero() {
		stay.CheckOut = bookingDomain.TruncateToDay(m.CheckOutDate)
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ListingID,
		m.GuestID,
		stay,
		m.TotalCost,
		bookingDomain.BookingStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
