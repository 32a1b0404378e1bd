package commissions

import (
	"errors"
	"net/http"

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

// GetSummary handles GET /api/v1/admin/commissions?status=
func (c *Controller) GetSummary(ctx *gin.Context) {
	status := ctx.Query("status")

	summary, err := c.service.GetSummary(ctx.Request.Context(), status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.Error(ctx, http.StatusBadRequest, "Status must be one of: PENDING, CONFIRMED, ACTIVE, COMPLETED, CANCELLED", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get commission summary", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Commission summary retrieved successfully", summary)
}

// GetPeriodStats handles GET /api/v1/admin/commissions/stats?period=7d
func (c *Controller) GetPeriodStats(ctx *gin.Context) {
	period := ctx.DefaultQuery("period", "7d")

	stats, err := c.service.GetPeriodStats(ctx.Request.Context(), period)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			response.Error(ctx, http.StatusBadRequest, "Period must be one of: 24h, 7d, 30d, 1y", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get commission stats", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Commission stats retrieved successfully", stats)
}

// GetMyEarnings handles GET /api/v1/owners/earnings
func (c *Controller) GetMyEarnings(ctx *gin.Context) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}
	userIDStr, _ := userIDInterface.(string)
	ownerID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	earnings, err := c.service.GetOwnerEarnings(ctx.Request.Context(), ownerID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get earnings", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Earnings retrieved successfully", earnings)
}
