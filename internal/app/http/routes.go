package routes

import (
	"net/http"
	"time"

	"nontonin-api/config"
	adminapi "nontonin-api/internal/api/admin"
	authapi "nontonin-api/internal/api/auth"
	"nontonin-api/internal/api/billing"
	moviesapi "nontonin-api/internal/api/movies"
	paymentsapi "nontonin-api/internal/api/payments"
	stripewebhooks "nontonin-api/internal/api/stripewebhook"
	"nontonin-api/internal/api/users"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/media"
	"nontonin-api/internal/domain/payments"
	domainusers "nontonin-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the optional integrations the handlers need. Redis and Storage
// may be nil; their features degrade instead of failing.
type Deps struct {
	Redis    *redis.Client
	Storage  media.Uploader
	Registry *payments.Registry
	Fulfill  payments.FulfillFunc
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	limited := middleware.RateLimit(deps.Redis, config.RATE_LIMIT_PER_MINUTE, time.Minute)
	sanitize := middleware.SanitizeAndCleanInputMiddleware()

	webhook := stripewebhooks.NewHandler(deps.Fulfill, config.STRIPE_WEBHOOK_SECRET)
	r.POST("/webhook", webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(sanitize)

	public.POST("/register", limited, authapi.Register)
	public.POST("/login", limited, authapi.Login)
	public.POST("/request-password-reset", limited, authapi.RequestPasswordReset)
	public.POST("/reset-password", limited, authapi.ResetPassword)

	public.GET("/plans", billing.ListPlans)
	public.GET("/movies", moviesapi.ListMovies)
	public.GET("/movies/:id", moviesapi.GetMovie)
	public.GET("/movies/:id/reviews", moviesapi.ListReviews)
	public.GET("/categories", moviesapi.GetCategories)
	public.GET("/categories/:key", moviesapi.GetCategory)

	if authapi.GoogleEnabled() {
		public.GET("/auth/google", authapi.GoogleStart)
		public.GET("/auth/google/callback", authapi.GoogleCallback)
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.PUT("/me", sanitize, users.UpdateCurrentUser)
	auth.POST("/me/avatar", users.NewAvatarHandler(deps.Storage).Upload)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/movies/:id/watch", moviesapi.WatchMovie)
	auth.PUT("/movies/:id/progress", moviesapi.SaveProgress)
	auth.POST("/movies/:id/reviews", sanitize, moviesapi.CreateReview)
	auth.GET("/library", moviesapi.GetLibrary)

	auth.GET("/account/transactions", billing.GetTransactions)
	auth.GET("/account/subscription", billing.GetSubscription)

	qris := paymentsapi.NewQRISHandler(deps.Registry)
	auth.POST("/payments/qris", limited, qris.Start)
	auth.GET("/payments/qris/:id", qris.Status)
	auth.DELETE("/payments/qris/:id", qris.Close)
	auth.POST("/payments/checkout", limited, paymentsapi.CreateCheckoutSession)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.POST("/subscription/cancel", billing.CancelSubscription)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(domainusers.RoleAdmin, domainusers.RoleSuperAdmin))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/reports", adminapi.GetReports)
	admin.GET("/activity", adminapi.ListActivity)

	admin.GET("/users", adminapi.ListAllUsers)
	admin.POST("/users", adminapi.CreateUser)
	admin.GET("/users/:id", adminapi.GetUserDetails)
	admin.PATCH("/users/:id/status", adminapi.UpdateUserStatus)
	admin.PATCH("/users/:id/role", adminapi.UpdateUserRole)
	admin.PUT("/users/:id/password", adminapi.UpdateUserPassword)

	movieFiles := adminapi.NewMovieHandler(deps.Storage)
	admin.GET("/movies", adminapi.ListMovies)
	admin.POST("/movies", adminapi.CreateMovie)
	admin.GET("/movies/:id", adminapi.GetMovie)
	admin.PUT("/movies/:id", adminapi.UpdateMovie)
	admin.DELETE("/movies/:id", movieFiles.Delete)
	admin.POST("/movies/:id/poster", movieFiles.UploadPoster)

	admin.GET("/transactions", adminapi.ListAllTransactions)
	admin.GET("/settings", adminapi.GetSettings)
	admin.PUT("/settings", adminapi.UpdateSettings)
}
