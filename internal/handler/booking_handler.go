package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rentacar/service-booking/internal/application"
	"github.com/rentacar/service-booking/pkg/auth"
	"github.com/rentacar/service-booking/pkg/middleware"
	"github.com/rentacar/service-booking/pkg/response"
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
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.Reserve)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/user/:userId", middleware.RequireRole(auth.RoleAdmin), h.ListUserBookings)
		bookings.PUT("/:id/confirm", middleware.RequireRole(auth.RoleAdmin), h.ConfirmBooking)
		bookings.PUT("/:id/cancel", h.CancelBooking)
	}

	cars := r.Group("/api/v1/cars")
	cars.Use(authMW)
	{
		cars.GET("/:id/bookings", h.ListCarBookings)
	}
}

// Reserve handles POST /api/v1/bookings. A customer reserves for
// themselves; only admins may reserve on behalf of another user.
func (h *BookingHandler) Reserve(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := callerID
	if req.UserID != uuid.Nil && req.UserID != callerID {
		role, _ := middleware.GetUserRole(c)
		if role != auth.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot reserve for another user"})
			return
		}
		userID = req.UserID
	}

	result, err := h.service.Reserve(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMyBookings handles GET /api/v1/bookings for the authenticated user.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.listForUser(c, userID)
}

// ListUserBookings handles GET /api/v1/bookings/user/:userId (admin).
func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	h.listForUser(c, userID)
}

func (h *BookingHandler) listForUser(c *gin.Context, userID uuid.UUID) {
	page, limit := parsePagination(c)

	result, err := h.service.GetUserBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result.Items) == 0 {
		response.NoContent(c)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListCarBookings handles GET /api/v1/cars/:id/bookings — the car's
// occupancy calendar (non-canceled bookings only).
func (h *BookingHandler) ListCarBookings(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCarBookings(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result) == 0 {
		response.NoContent(c)
		return
	}

	response.Success(c, result)
}

// ConfirmBooking handles PUT /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, result)
}

// CancelBooking handles PUT /api/v1/bookings/:id/cancel. The booking
// owner or an admin may cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, _ := middleware.GetUserRole(c)
	if role != auth.RoleAdmin {
		existing, err := h.service.GetBooking(c.Request.Context(), bookingID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if existing.UserID != callerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot cancel another user's booking"})
			return
		}
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.Cancel(c.Request.Context(), bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
