package stripe

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"

	"nontonin-api/config"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/payments"
	"nontonin-api/internal/domain/subscription"
)

var ErrNotConfigured = errors.New("stripe key not configured")

const currency = "idr"

// Enabled sets the package key from config and reports whether card
// payments are available.
func Enabled() bool {
	stripe.Key = config.STRIPE_SECRET_KEY
	return stripe.Key != ""
}

// CheckoutParams builds a one-off payment-mode session for in. The intent
// travels in the session metadata and comes back on the webhook.
func CheckoutParams(in payments.Intent, email, title string) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		SuccessURL:        stripe.String(config.APP_URL + "/account?paid=1"),
		CancelURL:         stripe.String(config.APP_URL + "/account?canceled=1"),
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(email),
		ClientReferenceID: stripe.String(in.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					// IDR is a two-decimal currency on Stripe.
					UnitAmount: stripe.Int64(in.Amount * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: Metadata(in),
	}
}

func CreateCheckout(in payments.Intent, email, title string) (*stripe.CheckoutSession, error) {
	if !Enabled() {
		return nil, ErrNotConfigured
	}
	s, err := checkoutsession.New(CheckoutParams(in, email, title))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s, nil
}

func Metadata(in payments.Intent) map[string]string {
	md := map[string]string{
		"user_id":         in.UserID,
		"kind":            string(in.Kind),
		"amount":          strconv.FormatInt(in.Amount, 10),
		"description":     in.Description,
		"idempotency_key": in.IdempotencyKey,
	}
	if in.MovieID != nil {
		md["movie_id"] = *in.MovieID
	}
	if in.Period != nil {
		md["period"] = string(*in.Period)
	}
	return md
}

// IntentFromSession rebuilds the payment intent stored by CheckoutParams.
// The session id is the fallback idempotency key, so webhook retries for
// the same session never double-grant.
func IntentFromSession(s *stripe.CheckoutSession) (payments.Intent, error) {
	md := s.Metadata
	userID := md["user_id"]
	if userID == "" {
		userID = s.ClientReferenceID
	}
	if userID == "" {
		return payments.Intent{}, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	amount, err := strconv.ParseInt(md["amount"], 10, 64)
	if err != nil {
		return payments.Intent{}, fmt.Errorf("invalid amount %q: %w", md["amount"], err)
	}

	in := payments.Intent{
		UserID:         userID,
		Kind:           billing.Kind(md["kind"]),
		Amount:         amount,
		Method:         billing.MethodStripe,
		Description:    md["description"],
		IdempotencyKey: md["idempotency_key"],
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = "stripe:" + s.ID
	}
	if id := md["movie_id"]; id != "" {
		in.MovieID = &id
	}
	if p := md["period"]; p != "" {
		period, err := subscription.ParsePeriod(p)
		if err != nil {
			return payments.Intent{}, err
		}
		in.Period = &period
	}
	return in, in.Validate()
}
