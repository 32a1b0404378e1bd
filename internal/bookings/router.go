package bookings

import (
	"motoshare/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("RENTER", "OWNER", "ADMIN"))
	{
		bookings.POST("", controller.CreateBooking)             // POST /api/v1/bookings
		bookings.GET("/mine", controller.GetMyBookings)         // GET  /api/v1/bookings/mine
		bookings.GET("/:id", controller.GetBooking)             // GET  /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking)  // POST /api/v1/bookings/:id/cancel
		bookings.POST("/:id/pickup", controller.BeginRental)    // POST /api/v1/bookings/:id/pickup
		bookings.POST("/:id/return", controller.CompleteRental) // POST /api/v1/bookings/:id/return
	}

	owners := rg.Group("/owners")
	owners.Use(middleware.JWTAuth(), middleware.RequireRoles("OWNER", "ADMIN"))
	{
		owners.GET("/bookings", controller.GetOwnerBookings) // GET /api/v1/owners/bookings
	}
}
