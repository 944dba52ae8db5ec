package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/payments"
	"nontonin-api/internal/domain/subscription"
)

func TestIntentRoundTripsThroughMetadata(t *testing.T) {
	period := subscription.PeriodAnnual
	in := payments.Intent{
		UserID:         "user-1",
		Kind:           billing.KindSubscription,
		Period:         &period,
		Amount:         490000,
		Method:         billing.MethodStripe,
		Description:    "Premium Tahunan",
		IdempotencyKey: "key-1",
	}

	params := CheckoutParams(in, "a@b.c", "Premium Tahunan")
	assert.Equal(t, int64(49000000), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "payment", *params.Mode)

	got, err := IntentFromSession(&stripe.CheckoutSession{ID: "cs_1", Metadata: params.Metadata})
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestIntentFromSession_FallbackKeyAndUser(t *testing.T) {
	got, err := IntentFromSession(&stripe.CheckoutSession{
		ID:                "cs_2",
		ClientReferenceID: "user-2",
		Metadata: map[string]string{
			"kind":     "purchase",
			"movie_id": "movie-9",
			"amount":   "15000",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.UserID)
	assert.Equal(t, "stripe:cs_2", got.IdempotencyKey)
	assert.Equal(t, "movie-9", *got.MovieID)
}

func TestIntentFromSession_Invalid(t *testing.T) {
	_, err := IntentFromSession(&stripe.CheckoutSession{ID: "cs_3"})
	assert.Error(t, err)

	_, err = IntentFromSession(&stripe.CheckoutSession{
		ID:       "cs_4",
		Metadata: map[string]string{"user_id": "u", "kind": "subscription", "amount": "1", "period": "weekly"},
	})
	assert.ErrorIs(t, err, subscription.ErrUnknownPeriod)
}

func TestTransactionStatus(t *testing.T) {
	assert.Equal(t, billing.StatusSuccessful, TransactionStatus(&stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid}))
	assert.Equal(t, billing.StatusPending, TransactionStatus(&stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid}))
	assert.Equal(t, billing.StatusFailed, TransactionStatus(&stripe.CheckoutSession{Status: stripe.CheckoutSessionStatusExpired}))
	assert.Equal(t, billing.StatusPending, TransactionStatus(nil))
}
