package middleware

import (
	"net/http"
	"time"

	"nontonin-api/internal/domain/subscription"

	"github.com/gin-gonic/gin"
)

// RequireActiveSubscription must run after AuthMiddleware.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := CurrentProfile(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if profile.SubscriptionEndDate == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Subscription not found or expired",
			})
			return
		}

		if !subscription.IsActive(profile.SubscriptionEndDate, time.Now()) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Your subscription has expired",
			})
			return
		}

		c.Next()
	}
}
