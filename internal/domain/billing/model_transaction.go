package billing

import (
	"time"

	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/subscription"
	"nontonin-api/internal/domain/users"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
)

type Kind string

const (
	KindPurchase     Kind = "purchase"
	KindSubscription Kind = "subscription"
)

const (
	MethodQRIS   = "qris"
	MethodStripe = "stripe"
)

// Transaction is both the one-off purchase record and the subscription
// payment log. Only successful purchases confer per-movie access; a
// subscription row is history, the profile window is what grants access.
type Transaction struct {
	ID     string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID string         `gorm:"type:uuid;not null;index:idx_transactions_user_movie,priority:1" json:"user_id"`
	User   *users.Profile `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`

	Kind    Kind          `gorm:"type:varchar(20);not null" json:"kind"`
	MovieID *string       `gorm:"type:uuid;index:idx_transactions_user_movie,priority:2" json:"movie_id,omitempty"`
	Movie   *movies.Movie `gorm:"constraint:OnDelete:SET NULL" json:"movie,omitempty"`

	PlanPeriod *subscription.Period `gorm:"type:varchar(20)" json:"plan_period,omitempty"`

	Amount         int64  `gorm:"not null" json:"amount"`
	Status         Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod  string `gorm:"type:varchar(20);not null" json:"payment_method"`
	Description    string `json:"description"`
	IdempotencyKey string `gorm:"not null;uniqueIndex:idx_transactions_idempotency_key" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusSuccessful, StatusFailed:
		return true
	}
	return false
}
