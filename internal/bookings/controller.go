package bookings

import (
	"errors"
	"net/http"

	"motoshare/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	v := validator.New()
	v.RegisterStructValidation(validateDateOrder, CreateBookingRequest{})
	return &Controller{service: service, validator: v}
}

// validateDateOrder rejects ranges whose return date is not strictly after
// pickup before the request reaches the reservation path.
func validateDateOrder(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateBookingRequest)
	pickup, returnDate, err := req.ParseDates()
	if err != nil {
		return // format errors are reported by the field-level rules
	}
	if !returnDate.After(pickup) {
		sl.ReportError(req.ReturnDate, "ReturnDate", "returnDate", "gtfield", "PickupDate")
	}
}

// actorFromContext extracts the authenticated user identity set by the JWT
// middleware.
func actorFromContext(ctx *gin.Context) (uuid.UUID, string, bool, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		return uuid.Nil, "", false, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", false, false
	}

	role := ""
	if roleInterface, exists := ctx.Get("user_role"); exists {
		role, _ = roleInterface.(string)
	}
	verified := false
	if verifiedInterface, exists := ctx.Get("is_verified"); exists {
		verified, _ = verifiedInterface.(bool)
	}
	return userID, role, verified, true
}

// respondServiceError maps domain errors to HTTP status codes.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVehicleUnavailable):
		response.Error(ctx, http.StatusConflict, "Vehicle is not available for the requested dates", nil)
	case errors.Is(err, ErrInvalidTransition):
		response.Error(ctx, http.StatusConflict, "Booking is not in a state that allows this operation", nil)
	case errors.Is(err, ErrInvalidDates):
		response.Error(ctx, http.StatusBadRequest, "Return date must be after pickup date", nil)
	case errors.Is(err, ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrNotAuthorized):
		response.Error(ctx, http.StatusForbidden, "You do not have access to this booking", nil)
	case errors.Is(err, ErrRenterNotVerified):
		response.Error(ctx, http.StatusForbidden, "Account verification is required before booking", nil)
	case errors.Is(err, ErrOwnVehicle):
		response.Error(ctx, http.StatusBadRequest, "You cannot book your own vehicle", nil)
	case errors.Is(err, ErrVehicleNotListed):
		response.Error(ctx, http.StatusNotFound, "Vehicle not found or not listed", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process booking", err.Error())
	}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, _, verified, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Return date must be after pickup date", err.Error())
		return
	}

	booking, err := c.service.Create(ctx.Request.Context(), userID, verified, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", ToResponse(booking))
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, role, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID, role == "ADMIN")
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", ToResponse(booking))
}

// GetMyBookings handles GET /api/v1/bookings/mine (bookings made by the caller)
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	userID, _, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, total, err := c.service.GetRenterBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully",
		ToListResponse(bookings, total, query.Page, query.Limit))
}

// GetOwnerBookings handles GET /api/v1/owners/bookings (bookings against the caller's vehicles)
func (c *Controller) GetOwnerBookings(ctx *gin.Context) {
	userID, _, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, total, err := c.service.GetOwnerBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully",
		ToListResponse(bookings, total, query.Page, query.Limit))
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, role, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.Cancel(ctx.Request.Context(), bookingID, userID, role == "ADMIN", req.Reason)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", ToResponse(booking))
}

// BeginRental handles POST /api/v1/bookings/:id/pickup
func (c *Controller) BeginRental(ctx *gin.Context) {
	userID, _, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.BeginRental(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Rental started successfully", ToResponse(booking))
}

// CompleteRental handles POST /api/v1/bookings/:id/return
func (c *Controller) CompleteRental(ctx *gin.Context) {
	userID, _, _, ok := actorFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.CompleteRental(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Rental completed successfully", ToResponse(booking))
}
