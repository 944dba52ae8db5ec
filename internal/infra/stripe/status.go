package stripe

import (
	"github.com/stripe/stripe-go/v75"

	"nontonin-api/internal/domain/billing"
)

// TransactionStatus maps a checkout session's payment status onto ours.
// Only "paid" and "no_payment_required" are final successes.
func TransactionStatus(s *stripe.CheckoutSession) billing.Status {
	if s == nil {
		return billing.StatusPending
	}
	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return billing.StatusSuccessful
	}
	if s.Status == stripe.CheckoutSessionStatusExpired {
		return billing.StatusFailed
	}
	return billing.StatusPending
}
