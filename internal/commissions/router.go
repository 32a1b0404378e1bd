package commissions

import (
	"motoshare/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCommissionRoutes configures all commission reporting routes
func SetupCommissionRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin/commissions")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetSummary)           // GET /api/v1/admin/commissions?status=
		admin.GET("/stats", controller.GetPeriodStats) // GET /api/v1/admin/commissions/stats?period=7d
	}

	owners := rg.Group("/owners")
	owners.Use(middleware.JWTAuth(), middleware.RequireRoles("OWNER", "ADMIN"))
	{
		owners.GET("/earnings", controller.GetMyEarnings) // GET /api/v1/owners/earnings
	}
}
