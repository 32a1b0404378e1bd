package payments

import (
	"errors"
	"net/http"

	"motoshare/internal/bookings"
	"motoshare/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func respondPaymentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		response.Error(ctx, http.StatusServiceUnavailable, "Online payment is not configured", nil)
	case errors.Is(err, ErrSessionNotFound):
		response.Error(ctx, http.StatusNotFound, "Checkout session not found", nil)
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, bookings.ErrNotAuthorized):
		response.Error(ctx, http.StatusForbidden, "You do not have access to this booking", nil)
	case errors.Is(err, bookings.ErrInvalidTransition):
		response.Error(ctx, http.StatusConflict, "Booking is not awaiting payment", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process payment request", err.Error())
	}
}

// CreateCheckoutSession handles POST /api/v1/payments/create-checkout-session
func (c *Controller) CreateCheckoutSession(ctx *gin.Context) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}
	userIDStr, _ := userIDInterface.(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	session, err := c.service.CreateCheckoutSession(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		respondPaymentError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Checkout session created", session)
}

// VerifySession handles GET /api/v1/payments/verify-session/:sessionId
//
// Poll-based fallback for clients that never receive the webhook.
func (c *Controller) VerifySession(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")
	if sessionID == "" {
		response.Error(ctx, http.StatusBadRequest, "Missing session ID", nil)
		return
	}

	booking, err := c.service.VerifySession(ctx.Request.Context(), sessionID)
	if err != nil {
		respondPaymentError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Session verified", VerifySessionResponse{
		Paid:    booking.PaymentStatus == bookings.PaymentPaid,
		Booking: bookings.ToResponse(booking),
	})
}

// HandleWebhook handles POST /api/v1/payments/webhook
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	var event WebhookEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid webhook payload", err.Error())
		return
	}

	if err := c.service.HandleWebhook(ctx.Request.Context(), event); err != nil {
		respondPaymentError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Webhook processed", nil)
}

// InitiateRefund handles POST /api/v1/admin/payments/:bookingId/refund
func (c *Controller) InitiateRefund(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("bookingId"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := c.service.InitiateRefund(ctx.Request.Context(), bookingID); err != nil {
		respondPaymentError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusAccepted, "Refund initiated", nil)
}
