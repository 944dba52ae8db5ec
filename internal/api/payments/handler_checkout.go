package payments

import (
	"errors"
	"net/http"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/infra/logging"
	stripeinfra "nontonin-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

// CreateCheckoutSession starts a Stripe card payment. Entitlement is granted
// by the webhook once Stripe reports the session completed.
func CreateCheckoutSession(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	if !stripeinfra.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Card payments are not configured"})
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	key := idempotencyKey(c, profile.ID)
	in, title, err := resolveIntent(c.Request.Context(), database.DB, profile, req, billing.MethodStripe, key)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	s, err := stripeinfra.CreateCheckout(in, profile.Email, title)
	if err != nil {
		if errors.Is(err, stripeinfra.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Card payments are not configured"})
			return
		}
		logging.LogErrorWithUser(profile.ID, err, "stripe checkout")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL, "session_id": s.ID})
}
