package router

import (
	"time"

	"github.com/NomadCrew/nomad-diary-backend/config"
	_ "github.com/NomadCrew/nomad-diary-backend/docs"
	"github.com/NomadCrew/nomad-diary-backend/handlers"
	"github.com/NomadCrew/nomad-diary-backend/middleware"
	"github.com/NomadCrew/nomad-diary-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// sharedViewsPerMinute caps unauthenticated shared-diary reads per client IP.
const sharedViewsPerMinute = 60

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config             *config.Config
	JWTValidator       middleware.Validator
	RateLimiter        services.RateLimiterInterface
	MetricsGatherer    prometheus.Gatherer
	TripHandler        *handlers.TripHandler
	AIHandler          *handlers.AIHandler
	DestinationHandler *handlers.DestinationHandler
	WizardHandler      *handlers.WizardHandler
	PlannerHandler     *handlers.PlannerHandler
	ContactHandler     *handlers.ContactHandler
	DiaryHandler       *handlers.DiaryHandler
	HealthHandler      *handlers.HealthHandler
	Logger             *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	if len(deps.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil && deps.Logger != nil {
			deps.Logger.Warnw("Ignoring invalid trusted proxies", "error", err)
		}
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes (no auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	if deps.MetricsGatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{})))
	} else {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second

	v1 := r.Group("/v1")
	{
		// Public read-only diary; the token is the credential.
		v1.GET("/shared/:token",
			middleware.RateLimiter(deps.RateLimiter, "shared", sharedViewsPerMinute, time.Minute),
			deps.DiaryHandler.SharedDiaryHandler,
		)

		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(deps.JWTValidator))
		{
			aiRoutes := authRoutes.Group("/ai")
			aiRoutes.Use(middleware.RateLimiter(deps.RateLimiter, "ai", deps.Config.RateLimit.AIRequestsPerWindow, window))
			{
				aiRoutes.POST("/generate-options", deps.AIHandler.GenerateOptionsHandler)
				aiRoutes.POST("/generate-final-itinerary", deps.AIHandler.GenerateFinalItineraryHandler)
			}

			destRoutes := authRoutes.Group("/destinations")
			{
				destRoutes.GET("/search", deps.DestinationHandler.SearchHandler)
				destRoutes.GET("/ws", deps.DestinationHandler.LiveSearchHandler)
			}

			wizardRoutes := authRoutes.Group("/wizard/sessions")
			{
				wizardRoutes.POST("", deps.WizardHandler.StartHandler)
				wizardRoutes.GET("/:sessionId", deps.WizardHandler.GetHandler)
				wizardRoutes.PATCH("/:sessionId/draft", deps.WizardHandler.PatchDraftHandler)
				wizardRoutes.POST("/:sessionId/destinations", deps.WizardHandler.AddDestinationHandler)
				wizardRoutes.DELETE("/:sessionId/destinations/:placeId", deps.WizardHandler.RemoveDestinationHandler)
				wizardRoutes.PUT("/:sessionId/destinations/:placeId/primary", deps.WizardHandler.SetPrimaryDestinationHandler)
				wizardRoutes.POST("/:sessionId/next", deps.WizardHandler.NextHandler)
				wizardRoutes.POST("/:sessionId/back", deps.WizardHandler.BackHandler)
				wizardRoutes.POST("/:sessionId/submit", deps.WizardHandler.SubmitHandler)
			}

			// Trip Routes
			tripRoutes := authRoutes.Group("/trips")
			{
				tripRoutes.POST("", deps.TripHandler.CreateTripHandler)
				tripRoutes.GET("", deps.TripHandler.ListTripsHandler)
				tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
				tripRoutes.POST("/:id/itinerary", deps.TripHandler.SaveItineraryHandler)
				tripRoutes.GET("/:id/itinerary", deps.TripHandler.GetItineraryHandler)
				tripRoutes.POST("/:id/itinerary/email", deps.DiaryHandler.EmailItineraryHandler)
				tripRoutes.POST("/:id/share", deps.DiaryHandler.CreateShareLinkHandler)

				plannerRoutes := tripRoutes.Group("/:id/planner")
				{
					plannerRoutes.GET("", deps.PlannerHandler.GetPlanHandler)
					plannerRoutes.POST("/options",
						middleware.RateLimiter(deps.RateLimiter, "ai", deps.Config.RateLimit.AIRequestsPerWindow, window),
						deps.PlannerHandler.GenerateOptionsHandler,
					)
					plannerRoutes.POST("/select", deps.PlannerHandler.SelectOptionHandler)
					plannerRoutes.POST("/toggle", deps.PlannerHandler.ToggleActivityHandler)
					plannerRoutes.POST("/back", deps.PlannerHandler.BackHandler)
					plannerRoutes.POST("/finalize",
						middleware.RateLimiter(deps.RateLimiter, "ai", deps.Config.RateLimit.AIRequestsPerWindow, window),
						deps.PlannerHandler.FinalizeHandler,
					)
				}

				contactRoutes := tripRoutes.Group("/:id/contacts")
				{
					contactRoutes.GET("", deps.ContactHandler.ListContactsHandler)
					contactRoutes.POST("", deps.ContactHandler.AddContactHandler)
					contactRoutes.PUT("/:contactId", deps.ContactHandler.UpdateContactHandler)
					contactRoutes.DELETE("/:contactId", deps.ContactHandler.DeleteContactHandler)
					contactRoutes.POST("/generate",
						middleware.RateLimiter(deps.RateLimiter, "ai", deps.Config.RateLimit.AIRequestsPerWindow, window),
						deps.ContactHandler.GenerateContactsHandler,
					)
					contactRoutes.POST("/extract",
						middleware.RateLimiter(deps.RateLimiter, "ai", deps.Config.RateLimit.AIRequestsPerWindow, window),
						deps.ContactHandler.ExtractContactsHandler,
					)
				}

				companionRoutes := tripRoutes.Group("/:id/companions")
				{
					companionRoutes.GET("", deps.ContactHandler.ListCompanionsHandler)
					companionRoutes.POST("", deps.ContactHandler.AddCompanionHandler)
					companionRoutes.PUT("/:companionId", deps.ContactHandler.UpdateCompanionHandler)
					companionRoutes.DELETE("/:companionId", deps.ContactHandler.DeleteCompanionHandler)
				}

				diaryRoutes := tripRoutes.Group("/:id/diary")
				{
					diaryRoutes.GET("", deps.DiaryHandler.GetDiaryHandler)
					diaryRoutes.PUT("/days/:day", deps.DiaryHandler.UpsertScheduleHandler)
					diaryRoutes.DELETE("/days/:day", deps.DiaryHandler.DeleteScheduleHandler)
					diaryRoutes.POST("/days/:day/photos", deps.DiaryHandler.UploadPhotoHandler)
					diaryRoutes.GET("/days/:day/photos", deps.DiaryHandler.ListPhotosHandler)
					diaryRoutes.POST("/accommodations", deps.DiaryHandler.UpsertAccommodationHandler)
					diaryRoutes.PUT("/accommodations/:itemId", deps.DiaryHandler.UpsertAccommodationHandler)
					diaryRoutes.DELETE("/accommodations/:itemId", deps.DiaryHandler.DeleteAccommodationHandler)
					diaryRoutes.POST("/legs", deps.DiaryHandler.UpsertTravelLegHandler)
					diaryRoutes.PUT("/legs/:itemId", deps.DiaryHandler.UpsertTravelLegHandler)
					diaryRoutes.DELETE("/legs/:itemId", deps.DiaryHandler.DeleteTravelLegHandler)
				}
			}
		}
	}

	return r
}
