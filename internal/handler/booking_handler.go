package handler

import (
	"github.com/airlock-stays/service-booking/internal/application"
	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/domain"
	"github.com/airlock-stays/service-booking/internal/platform/middleware"
	"github.com/airlock-stays/service-booking/internal/platform/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api/v1")
	api.Use(middleware.IdentityMiddleware())

	bookings := api.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRole(middleware.RoleGuest), h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/guest", h.GetGuestID)
		bookings.GET("/:id/listing", h.GetListingID)
	}

	api.GET("/users/:userId/bookings", h.ListUserBookings)

	listings := api.Group("/listings/:listingId")
	{
		listings.GET("/bookings", h.ListListingBookings)
		listings.GET("/booked-dates", h.BookedDates)
		listings.GET("/availability", h.Availability)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetGuestID handles GET /api/v1/bookings/:id/guest.
func (h *BookingHandler) GetGuestID(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	guestID, err := h.service.GetGuestIDForBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"guest_id": guestID})
}

// GetListingID handles GET /api/v1/bookings/:id/listing.
func (h *BookingHandler) GetListingID(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	listingID, err := h.service.GetListingIDForBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"listing_id": listingID})
}

// ListUserBookings handles GET /api/v1/users/:userId/bookings.
func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	status, err := parseStatusQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetBookingsForUser(c.Request.Context(), c.Param("userId"), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListListingBookings handles GET /api/v1/listings/:listingId/bookings.
func (h *BookingHandler) ListListingBookings(c *gin.Context) {
	status, err := parseStatusQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetBookingsForListing(c.Request.Context(), c.Param("listingId"), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookedDates handles GET /api/v1/listings/:listingId/booked-dates.
func (h *BookingHandler) BookedDates(c *gin.Context) {
	ranges, err := h.service.GetCurrentlyBookedDateRanges(c.Request.Context(), c.Param("listingId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, ranges)
}

// Availability handles GET /api/v1/listings/:listingId/availability.
func (h *BookingHandler) Availability(c *gin.Context) {
	listingID := c.Param("listingId")
	checkIn, checkOut := c.Query("check_in"), c.Query("check_out")

	available, err := h.service.IsListingAvailable(c.Request.Context(), listingID, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"listing_id": listingID,
		"check_in":   checkIn,
		"check_out":  checkOut,
		"available":  available,
	})
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return uuid.Nil, false
	}
	return bookingID, true
}

// parseStatusQuery reads the optional ?status= filter.
func parseStatusQuery(c *gin.Context) (*bookingDomain.BookingStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := bookingDomain.ParseBookingStatus(raw)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return &status, nil
}
