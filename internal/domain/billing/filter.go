package billing

import (
	"strings"

	"gorm.io/gorm"
)

// TransactionFilter is the typed form of the transaction list queries used
// by the admin table, the dashboard and the account page.
type TransactionFilter struct {
	UserID string
	Status Status
	Kind   Kind
	// Search matches the payer's email or the transaction id prefix.
	Search string
	Limit  int
}

func (f TransactionFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&Transaction{})
	if f.UserID != "" {
		q = q.Where("transactions.user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("transactions.status = ?", f.Status)
	}
	if f.Kind != "" {
		q = q.Where("transactions.kind = ?", f.Kind)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Joins("JOIN profiles ON profiles.id = transactions.user_id").
			Where("LOWER(profiles.email) LIKE ? OR CAST(transactions.id AS TEXT) LIKE ?",
				"%"+strings.ToLower(s)+"%", s+"%")
	}
	q = q.Order("transactions.created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}
