package handler

import (
	"github.com/airlock-stays/service-booking/internal/application"
	"github.com/airlock-stays/service-booking/internal/platform/middleware"
	"github.com/airlock-stays/service-booking/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// AdminBookingHandler handles operator requests: statistics and on-demand sweeps.
type AdminBookingHandler struct {
	service *application.BookingService
	sweeper *application.StatusSweeper
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService, sweeper *application.StatusSweeper) *AdminBookingHandler {
	return &AdminBookingHandler{service: service, sweeper: sweeper}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.IdentityMiddleware(), middleware.RequireRole(middleware.RoleHost))
	{
		admin.GET("/stats/bookings", h.BookingStats)
	}

	// Reachable only inside the cluster network; the gateway does not route /internal.
	internal := r.Group("/internal/v1")
	{
		internal.POST("/bookings/sweep", h.Sweep)
	}
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// Sweep handles POST /internal/v1/bookings/sweep.
func (h *AdminBookingHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
