package billing

import (
	"net/http"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/subscription"
	domainusers "nontonin-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// CancelSubscription revokes premium immediately. No refund, no grace
// period: the end date is cleared.
func CancelSubscription(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	st := subscription.Cancel()
	if err := database.DB.WithContext(c.Request.Context()).
		Model(&domainusers.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"subscription_status":   st.Status,
			"subscription_end_date": st.End,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
		return
	}

	activity.Record(c.Request.Context(), profile.ID, activity.TypeSubscriptionCancelled, "Cancelled premium subscription")
	c.JSON(http.StatusOK, gin.H{
		"message":             "Subscription cancelled",
		"subscription_status": st.Status,
	})
}
