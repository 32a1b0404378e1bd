package vehicles

import (
	"motoshare/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVehicleRoutes configures all vehicle listing routes
func SetupVehicleRoutes(rg *gin.RouterGroup, controller *Controller) {
	vehicles := rg.Group("/vehicles")
	{
		// Browsing is public
		vehicles.GET("", controller.ListVehicles)    // GET /api/v1/vehicles
		vehicles.GET("/:id", controller.GetVehicle)  // GET /api/v1/vehicles/:id

		authed := vehicles.Group("")
		authed.Use(middleware.JWTAuth(), middleware.RequireRoles("OWNER", "ADMIN"))
		{
			authed.POST("", controller.Register)              // POST /api/v1/vehicles
			authed.PUT("/:id/listed", controller.SetListed)   // PUT  /api/v1/vehicles/:id/listed
		}
	}

	owners := rg.Group("/owners")
	owners.Use(middleware.JWTAuth(), middleware.RequireRoles("OWNER", "ADMIN"))
	{
		owners.GET("/vehicles", controller.ListMyVehicles) // GET /api/v1/owners/vehicles
	}
}
