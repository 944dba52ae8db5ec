package stripewebhooks

import (
	"context"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/infra/logging"
	stripeinfra "nontonin-api/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutSessionCompleted returns the status reported back to Stripe.
// Sessions that are not paid yet or carry no usable intent are acknowledged
// without fulfilment; only a failing fulfilment is returned as an error.
func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) (string, error) {
	if stripeinfra.TransactionStatus(session) != billing.StatusSuccessful {
		logging.LogInfo("checkout session " + session.ID + " not paid yet")
		return "pending", nil
	}

	in, err := stripeinfra.IntentFromSession(session)
	if err != nil {
		logging.LogError(err, "checkout session "+session.ID+" has no usable intent")
		return "ignored", nil
	}

	tx, err := h.fulfill(ctx, in)
	if err != nil {
		logging.LogErrorWithUser(in.UserID, err, "stripe fulfilment failed")
		return "", err
	}

	logging.LogSuccessWithUser(in.UserID, "stripe payment fulfilled "+tx.ID)
	return "fulfilled", nil
}
