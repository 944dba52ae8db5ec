package billing

import (
	"net/http"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GetTransactions lists the caller's own payments, newest first.
func GetTransactions(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := billing.TransactionFilter{UserID: profile.ID}
	if s := c.Query("status"); s != "" {
		if !billing.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = billing.Status(s)
	}

	var list []billing.Transaction
	if err := filter.Apply(database.DB.WithContext(c.Request.Context())).
		Preload("Movie").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
