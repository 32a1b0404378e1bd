package vehicles

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

func ownerFromContext(ctx *gin.Context) (uuid.UUID, bool) {
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

// Register handles POST /api/v1/vehicles
func (c *Controller) Register(ctx *gin.Context) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req RegisterVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	vehicle, err := c.service.Register(ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to register vehicle", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Vehicle registered successfully", vehicle)
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (c *Controller) GetVehicle(ctx *gin.Context) {
	vehicleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	vehicle, err := c.service.GetVehicle(ctx.Request.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			response.Error(ctx, http.StatusNotFound, "Vehicle not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get vehicle", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// ListVehicles handles GET /api/v1/vehicles?type=CAR&page=1&limit=20
func (c *Controller) ListVehicles(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	vehicleType := ctx.Query("type")

	vehicles, total, err := c.service.ListVehicles(ctx.Request.Context(), vehicleType, page, limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list vehicles", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Vehicles retrieved successfully", gin.H{
		"vehicles": vehicles,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// ListMyVehicles handles GET /api/v1/owners/vehicles
func (c *Controller) ListMyVehicles(ctx *gin.Context) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	vehicles, err := c.service.ListMyVehicles(ctx.Request.Context(), ownerID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list vehicles", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}

// SetListed handles PUT /api/v1/vehicles/:id/listed
func (c *Controller) SetListed(ctx *gin.Context) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	vehicleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid vehicle ID", nil)
		return
	}

	var req SetListedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	vehicle, err := c.service.SetListed(ctx.Request.Context(), vehicleID, ownerID, *req.Listed)
	if err != nil {
		switch {
		case errors.Is(err, ErrVehicleNotFound):
			response.Error(ctx, http.StatusNotFound, "Vehicle not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.Error(ctx, http.StatusForbidden, "Vehicle belongs to another owner", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to update vehicle", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Vehicle updated successfully", vehicle)
}
