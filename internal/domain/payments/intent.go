package payments

import (
	"fmt"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/subscription"
)

// Intent is everything needed to record a payment and grant what it pays
// for. IdempotencyKey identifies one logical payment attempt.
type Intent struct {
	UserID         string               `json:"user_id"`
	Kind           billing.Kind         `json:"kind"`
	MovieID        *string              `json:"movie_id,omitempty"`
	Period         *subscription.Period `json:"period,omitempty"`
	Amount         int64                `json:"amount"`
	Method         string               `json:"method"`
	Description    string               `json:"description"`
	IdempotencyKey string               `json:"idempotency_key"`
}

func (in Intent) Validate() error {
	if in.UserID == "" || in.IdempotencyKey == "" {
		return fmt.Errorf("%w: user and idempotency key are required", ErrInvalidIntent)
	}
	if in.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidIntent)
	}
	switch in.Kind {
	case billing.KindPurchase:
		if in.MovieID == nil || *in.MovieID == "" {
			return fmt.Errorf("%w: purchase without movie", ErrInvalidIntent)
		}
	case billing.KindSubscription:
		if in.Period == nil {
			return fmt.Errorf("%w: subscription without period", ErrInvalidIntent)
		}
		if _, err := subscription.Duration(*in.Period); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidIntent, in.Kind)
	}
	return nil
}

func (in Intent) transaction() *billing.Transaction {
	return &billing.Transaction{
		UserID:         in.UserID,
		Kind:           in.Kind,
		MovieID:        in.MovieID,
		PlanPeriod:     in.Period,
		Amount:         in.Amount,
		Status:         billing.StatusSuccessful,
		PaymentMethod:  in.Method,
		Description:    in.Description,
		IdempotencyKey: in.IdempotencyKey,
	}
}
