package payments

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/users"
)

// GormStore persists fulfilled payments. The database must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	DB *gorm.DB
}

func (s GormStore) FindByKey(ctx context.Context, key string) (*billing.Transaction, error) {
	var tx billing.Transaction
	err := s.DB.WithContext(ctx).Where("idempotency_key = ?", key).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s GormStore) Record(ctx context.Context, t *billing.Transaction, grant GrantFunc) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if grant == nil {
			return nil
		}

		var profile users.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", t.UserID).
			First(&profile).Error; err != nil {
			return err
		}
		next, err := grant(profile.SubscriptionState())
		if err != nil {
			return err
		}
		return tx.Model(&users.Profile{}).
			Where("id = ?", t.UserID).
			Updates(map[string]interface{}{
				"subscription_status":   next.Status,
				"subscription_end_date": next.End,
			}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return billing.ErrDuplicate
	}
	return err
}
