package activity

import (
	"time"

	"nontonin-api/internal/domain/users"
)

const (
	TypeLogin                  = "login"
	TypeRegister               = "register"
	TypeWatch                  = "watch"
	TypeReview                 = "review"
	TypePurchaseSuccessful     = "purchase_successful"
	TypeSubscriptionSuccessful = "subscription_successful"
	TypeSubscriptionCancelled  = "subscription_cancelled"
	TypeProfileUpdated         = "profile_updated"
	TypeAdminAction            = "admin_action"
)

type Log struct {
	ID           string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       *string        `gorm:"type:uuid;index" json:"user_id"`
	User         *users.Profile `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	ActivityType string         `gorm:"type:varchar(40);not null;index" json:"activity_type"`
	Description  string         `json:"description"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (Log) TableName() string { return "activity_logs" }

// Event is the message form of a Log, as published on the activity queue.
type Event struct {
	UserID       string    `json:"user_id,omitempty"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e Event) Log() Log {
	l := Log{ActivityType: e.ActivityType, Description: e.Description, CreatedAt: e.OccurredAt}
	if e.UserID != "" {
		uid := e.UserID
		l.UserID = &uid
	}
	return l
}
