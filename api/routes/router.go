// api/routes/router.go
package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"motoshare/internal/bookings"
	"motoshare/internal/cancellation"
	"motoshare/internal/commissions"
	"motoshare/internal/notifications"
	"motoshare/internal/payments"
	"motoshare/internal/shared/config"
	"motoshare/internal/shared/database"
	"motoshare/internal/vehicles"
	"motoshare/internal/verification"
	"motoshare/pkg/cache"
	"motoshare/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	cacheService   cache.Service
	bookingService bookings.Service
	notifier       *notifications.KafkaBookingNotifier
	jobProcessor   *bookings.JobProcessor
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cache.NewService(db.GetRedisClient()),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupVehicleRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupCommissionRoutes(api)
		r.setupVerificationRoutes(api)
	}
}

// StartJobs launches background processors. Call after SetupRoutes.
func (r *Router) StartJobs(ctx context.Context) {
	if r.jobProcessor != nil {
		r.jobProcessor.Start(ctx)
	}
}

// JobProcessor exposes the booking maintenance processor for lifecycle control.
func (r *Router) JobProcessor() *bookings.JobProcessor {
	return r.jobProcessor
}

// Notifier exposes the Kafka producer for shutdown.
func (r *Router) Notifier() *notifications.KafkaBookingNotifier {
	return r.notifier
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "motoshare-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "motoshare-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupVehicleRoutes configures vehicle listing routes
func (r *Router) setupVehicleRoutes(rg *gin.RouterGroup) {
	vehicleRepo := vehicles.NewRepository(r.db.GetPostgreSQL())
	vehicleService := vehicles.NewService(vehicleRepo, r.cacheService)
	vehicleController := vehicles.NewController(vehicleService)

	vehicles.SetupVehicleRoutes(rg, vehicleController)
}

// setupBookingRoutes configures the reservation and lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	vehicleRepo := vehicles.NewRepository(r.db.GetPostgreSQL())
	policy := cancellation.NewPolicy()

	var notifier bookings.Notifier
	if r.config.Kafka.Enabled {
		producerConfig := notifications.DefaultKafkaProducerConfig()
		producerConfig.Brokers = r.config.Kafka.Brokers
		producerConfig.Topic = r.config.Kafka.BookingEventsTopic

		kafkaNotifier, err := notifications.NewKafkaBookingNotifier(producerConfig)
		if err != nil {
			// Bookings keep working without lifecycle events; the broker
			// being down must not block startup.
			logger.GetDefault().Error("Kafka producer unavailable, lifecycle events disabled",
				slog.Any("error", err))
		} else {
			r.notifier = kafkaNotifier
			notifier = kafkaNotifier
		}
	}

	r.bookingService = bookings.NewService(bookingRepo, vehicleRepo, policy, notifier, bookings.Config{
		CommissionRateBP:  r.config.Booking.CommissionRateBP,
		ServiceFeeRateBP:  r.config.Booking.ServiceFeeRateBP,
		ConfirmWindow:     r.config.Booking.ConfirmWindow,
		PaymentConfigured: r.config.IsCheckoutConfigured(),
	})

	r.jobProcessor = bookings.NewJobProcessor(r.bookingService, &bookings.JobConfig{
		ExpirySweepInterval: r.config.Booking.ExpirySweepInterval,
	})

	bookingController := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupPaymentRoutes configures the checkout and reconciliation routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	provider := payments.NewProvider(r.config.Checkout)
	paymentService := payments.NewService(provider, r.bookingService, r.cacheService,
		r.config.Checkout.SuccessURL, r.config.Checkout.CancelURL)
	paymentController := payments.NewController(paymentService)

	payments.SetupPaymentRoutes(rg, paymentController)
}

// setupCommissionRoutes configures the settlement reporting routes
func (r *Router) setupCommissionRoutes(rg *gin.RouterGroup) {
	commissionRepo := commissions.NewRepository(r.db.GetPostgreSQL())
	commissionService := commissions.NewService(commissionRepo, r.cacheService)
	commissionController := commissions.NewController(commissionService)

	commissions.SetupCommissionRoutes(rg, commissionController)
}

// setupVerificationRoutes configures identity verification routes
func (r *Router) setupVerificationRoutes(rg *gin.RouterGroup) {
	verificationRepo := verification.NewRepository(r.db.GetPostgreSQL())
	verificationService := verification.NewService(verificationRepo)
	verificationController := verification.NewController(verificationService)

	verification.SetupVerificationRoutes(rg, verificationController)
}
