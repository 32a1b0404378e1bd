package verification

import (
	"errors"
	"net/http"
	"strconv"

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

type submitRequest struct {
	DocumentRef string `json:"documentRef" binding:"required,max=255"`
}

type reviewRequest struct {
	Note string `json:"note" binding:"max=500"`
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// Submit handles POST /api/v1/verifications
func (c *Controller) Submit(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	request, err := c.service.Submit(ctx.Request.Context(), userID, req.DocumentRef)
	if err != nil {
		if errors.Is(err, ErrAlreadyVerified) {
			response.Error(ctx, http.StatusConflict, "Account is already verified", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to submit verification request", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Verification request submitted", request)
}

// GetMyStatus handles GET /api/v1/verifications/me
func (c *Controller) GetMyStatus(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	request, err := c.service.GetMyStatus(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.Error(ctx, http.StatusNotFound, "No verification request on file", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get verification status", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Verification status retrieved", request)
}

// ListPending handles GET /api/v1/admin/verifications?limit=50
func (c *Controller) ListPending(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	requests, err := c.service.ListPending(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list verification requests", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Pending verification requests retrieved", requests)
}

// Approve handles PUT /api/v1/admin/verifications/:id/approve
func (c *Controller) Approve(ctx *gin.Context) {
	c.review(ctx, true)
}

// Reject handles PUT /api/v1/admin/verifications/:id/reject
func (c *Controller) Reject(ctx *gin.Context) {
	c.review(ctx, false)
}

func (c *Controller) review(ctx *gin.Context, approve bool) {
	adminID, ok := userIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "Admin not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	request, err := c.service.Review(ctx.Request.Context(), requestID, adminID, approve, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.Error(ctx, http.StatusNotFound, "Verification request not found", nil)
		case errors.Is(err, ErrAlreadyReviewed):
			response.Error(ctx, http.StatusConflict, "Verification request already reviewed", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to review verification request", err.Error())
		}
		return
	}

	message := "Verification request rejected"
	if approve {
		message = "Verification request approved"
	}
	response.Success(ctx, http.StatusOK, message, request)
}
