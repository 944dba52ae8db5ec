package admin

import (
	"net/http"

	"nontonin-api/config"
	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

func GetSettings(c *gin.Context) {
	p, err := settings.LoadPricing(c.Request.Context(), database.DB, settings.DefaultPricing(config.DEFAULT_MOVIE_PRICE))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateSettings replaces all prices at once; every price must be positive.
func UpdateSettings(c *gin.Context) {
	actor, _ := middleware.CurrentProfile(c)

	var p settings.Pricing
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if p.MonthlyPrice <= 0 || p.AnnualPrice <= 0 || p.DefaultMoviePrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices must be positive"})
		return
	}

	if err := settings.SavePricing(c.Request.Context(), database.DB, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Updated prices")
	c.JSON(http.StatusOK, p)
}
