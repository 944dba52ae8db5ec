package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nontonin-api/config"
	"nontonin-api/internal/domain/access"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/payments"
	"nontonin-api/internal/domain/plans"
	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/domain/subscription"
	"nontonin-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errMovieNotFound = errors.New("movie not found")

// PaymentRequest is the body of both QRIS and card checkout starts.
type PaymentRequest struct {
	Kind    billing.Kind `json:"kind" binding:"required"`
	MovieID string       `json:"movie_id"`
	Period  string       `json:"period"`
}

// idempotencyKey scopes the client nonce to the caller so two viewers can
// never collide on the same key.
func idempotencyKey(c *gin.Context, userID string) string {
	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if key == "" {
		key = uuid.NewString()
	}
	return userID + ":" + key
}

// resolveIntent prices req from the stored settings and checks it is
// something the viewer can actually buy. The returned title names the item
// on payment screens.
func resolveIntent(ctx context.Context, db *gorm.DB, viewer users.Profile, req PaymentRequest, method, key string) (payments.Intent, string, error) {
	pricing, err := settings.LoadPricing(ctx, db, settings.DefaultPricing(config.DEFAULT_MOVIE_PRICE))
	if err != nil {
		return payments.Intent{}, "", fmt.Errorf("load pricing: %w", err)
	}

	in := payments.Intent{
		UserID:         viewer.ID,
		Kind:           req.Kind,
		Method:         method,
		IdempotencyKey: key,
	}

	switch req.Kind {
	case billing.KindSubscription:
		period, err := subscription.ParsePeriod(req.Period)
		if err != nil {
			return payments.Intent{}, "", err
		}
		plan, err := plans.ForPeriod(pricing, period)
		if err != nil {
			return payments.Intent{}, "", err
		}
		in.Period = &period
		in.Amount = plan.Price
		in.Description = "Langganan " + plan.Name
		return in, plan.Name, nil

	case billing.KindPurchase:
		var movie movies.Movie
		err := db.WithContext(ctx).
			Where("id = ? AND status = ?", req.MovieID, movies.StatusActive).
			First(&movie).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payments.Intent{}, "", errMovieNotFound
		}
		if err != nil {
			return payments.Intent{}, "", err
		}
		if !movie.IsPremium() {
			return payments.Intent{}, "", payments.ErrNotPurchasable
		}

		now := time.Now()
		content := access.ContentOf(movie)
		v := access.ViewerOf(viewer)
		owned := false
		if access.NeedsPurchaseLookup(now, content, v) {
			owned, err = billing.HasPurchased(ctx, db, viewer.ID, movie.ID)
			if err != nil {
				return payments.Intent{}, "", err
			}
		}
		if access.CanWatch(now, content, v, owned) {
			return payments.Intent{}, "", payments.ErrAlreadyEntitled
		}

		in.MovieID = &movie.ID
		in.Amount = movie.EffectivePrice(pricing.DefaultMoviePrice)
		in.Description = "Beli film " + movie.Title
		return in, movie.Title, nil
	}

	return payments.Intent{}, "", fmt.Errorf("%w: unknown kind %q", payments.ErrInvalidIntent, req.Kind)
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errMovieNotFound), errors.Is(err, payments.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrAlreadyEntitled):
		c.JSON(http.StatusConflict, gin.H{"error": "You already have access to this movie"})
	case errors.Is(err, payments.ErrSessionForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrNotPurchasable),
		errors.Is(err, payments.ErrInvalidIntent),
		errors.Is(err, subscription.ErrUnknownPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start payment"})
	}
}
