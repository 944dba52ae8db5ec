package billing

import (
	"net/http"
	"time"

	"nontonin-api/config"
	"nontonin-api/database"
	"nontonin-api/internal/api/users"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/plans"
	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/infra/logging"

	"github.com/gin-gonic/gin"
)

// ListPlans builds the subscription options from the current price
// settings. A settings read failure falls back to the configured defaults.
func ListPlans(c *gin.Context) {
	fallback := settings.DefaultPricing(config.DEFAULT_MOVIE_PRICE)
	pricing, err := settings.LoadPricing(c.Request.Context(), database.DB, fallback)
	if err != nil {
		logging.LogError(err, "failed to load pricing, using defaults")
	}

	c.JSON(http.StatusOK, gin.H{
		"plans":               plans.All(pricing),
		"default_movie_price": pricing.DefaultMoviePrice,
	})
}

func GetSubscription(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, users.BuildSubscriptionDTO(time.Now(), profile))
}
