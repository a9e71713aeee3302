package application

import (
	"context"
	"fmt"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/airlock-stays/service-booking/internal/platform/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingRequest holds the data needed to create a new booking.
// Dates use the YYYY-MM-DD format; the total cost is computed by the caller.
type CreateBookingRequest struct {
	ListingID    string  `json:"listing_id" binding:"required"`
	CheckInDate  string  `json:"check_in_date" binding:"required"`
	CheckOutDate string  `json:"check_out_date" binding:"required"`
	TotalCost    float64 `json:"total_cost" binding:"gte=0"`
}

// BookingSummary is returned after a successful booking, with dates formatted for display.
type BookingSummary struct {
	ID           uuid.UUID `json:"id"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID           uuid.UUID `json:"id"`
	ListingID    string    `json:"listing_id"`
	GuestID      string    `json:"guest_id"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	TotalCost    float64   `json:"total_cost"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DateRangeDTO is a booked stay without any other booking detail.
type DateRangeDTO struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo         bookingDomain.BookingRepository
	availability *AvailabilityChecker
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	availability *AvailabilityChecker,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &BookingService{
		repo:         repo,
		availability: availability,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateBooking books the listing for the guest if the dates are free.
// The availability check and the insert run under one listing lock, so two
// concurrent requests for overlapping dates cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, guestID string, req CreateBookingRequest) (*BookingSummary, error) {
	stay, err := bookingDomain.ParseDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(req.ListingID, guestID, stay, req.TotalCost)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithListingLock(ctx, bk.ListingID(), func(repo bookingDomain.BookingRepository) error {
		available, err := s.availability.IsAvailable(ctx, repo, bk.ListingID(), stay)
		if err != nil {
			return err
		}
		if !available {
			return bookingDomain.NewUnavailableError()
		}
		return repo.Create(ctx, bk)
	})
	if err != nil {
		if domain.IsConflict(err) {
			s.logger.Info("booking rejected, listing unavailable",
				zap.String("listing_id", bk.ListingID()),
				zap.String("stay", stay.String()),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("listing_id", bk.ListingID()),
		zap.String("guest_id", bk.GuestID()),
		zap.String("stay", stay.String()),
	)
	s.publishBookingCreated(ctx, bk)

	return &BookingSummary{
		ID:           bk.ID(),
		CheckInDate:  bk.CheckInDate().Format(bookingDomain.DisplayLayout),
		CheckOutDate: bk.CheckOutDate().Format(bookingDomain.DisplayLayout),
	}, nil
}

// IsListingAvailable reports whether the listing can be booked for the given dates.
func (s *BookingService) IsListingAvailable(ctx context.Context, listingID, checkInDate, checkOutDate string) (bool, error) {
	if listingID == "" {
		return false, domain.NewValidationError("listing ID is required")
	}
	stay, err := bookingDomain.ParseDateRange(checkInDate, checkOutDate)
	if err != nil {
		return false, err
	}
	return s.availability.IsAvailable(ctx, s.repo, listingID, stay)
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingsForUser lists a guest's bookings, optionally restricted to one status.
func (s *BookingService) GetBookingsForUser(ctx context.Context, userID string, status *bookingDomain.BookingStatus) ([]BookingDTO, error) {
	filter := bookingDomain.Filter{GuestID: userID}
	if status != nil {
		filter.Statuses = []bookingDomain.BookingStatus{*status}
	}
	return s.findAll(ctx, filter)
}

// GetBookingsForListing lists a listing's bookings, optionally restricted to one status.
func (s *BookingService) GetBookingsForListing(ctx context.Context, listingID string, status *bookingDomain.BookingStatus) ([]BookingDTO, error) {
	filter := bookingDomain.Filter{ListingID: listingID}
	if status != nil {
		filter.Statuses = []bookingDomain.BookingStatus{*status}
	}
	return s.findAll(ctx, filter)
}

// GetGuestIDForBooking returns only the guest identifier of a booking.
func (s *BookingService) GetGuestIDForBooking(ctx context.Context, bookingID uuid.UUID) (string, error) {
	bk, err := s.repo.FindOne(ctx, bookingDomain.Filter{ID: bookingID}, bookingDomain.FieldGuestID)
	if err != nil {
		return "", err
	}
	return bk.GuestID(), nil
}

// GetListingIDForBooking returns only the listing identifier of a booking.
func (s *BookingService) GetListingIDForBooking(ctx context.Context, bookingID uuid.UUID) (string, error) {
	bk, err := s.repo.FindOne(ctx, bookingDomain.Filter{ID: bookingID}, bookingDomain.FieldListingID)
	if err != nil {
		return "", err
	}
	return bk.ListingID(), nil
}

// GetCurrentlyBookedDateRanges returns the stays still holding the listing's
// dates (UPCOMING and CURRENT bookings).
func (s *BookingService) GetCurrentlyBookedDateRanges(ctx context.Context, listingID string) ([]DateRangeDTO, error) {
	bookings, err := s.repo.FindAll(ctx, bookingDomain.Filter{
		ListingID: listingID,
		Statuses:  bookingDomain.ActiveStatuses(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list booked dates: %w", err)
	}

	ranges := make([]DateRangeDTO, len(bookings))
	for i, bk := range bookings {
		ranges[i] = DateRangeDTO{
			CheckInDate:  bk.CheckInDate().Format(bookingDomain.DateLayout),
			CheckOutDate: bk.CheckOutDate().Format(bookingDomain.DateLayout),
		}
	}
	return ranges, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func (s *BookingService) findAll(ctx context.Context, filter bookingDomain.Filter) ([]BookingDTO, error) {
	bookings, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:           bk.ID(),
		ListingID:    bk.ListingID(),
		GuestID:      bk.GuestID(),
		CheckInDate:  bk.CheckInDate().Format(bookingDomain.DateLayout),
		CheckOutDate: bk.CheckOutDate().Format(bookingDomain.DateLayout),
		TotalCost:    bk.TotalCost(),
		Status:       string(bk.Status()),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func (s *BookingService) publishBookingCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := BookingCreatedEvent{
		BookingID:    bk.ID().String(),
		ListingID:    bk.ListingID(),
		GuestID:      bk.GuestID(),
		CheckInDate:  bk.CheckInDate().Format(bookingDomain.DateLayout),
		CheckOutDate: bk.CheckOutDate().Format(bookingDomain.DateLayout),
		TotalCost:    bk.TotalCost(),
		OccurredAt:   time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, TopicBookingEvents, EventBookingCreated, evt)
}

func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
