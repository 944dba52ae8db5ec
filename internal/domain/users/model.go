package users

import (
	"time"

	"nontonin-api/internal/domain/subscription"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type Profile struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_profiles_email" json:"email"`
	Password     *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_profiles_google_sub" json:"-"`
	FullName     string  `json:"full_name"`
	AvatarURL    *string `json:"avatar_url"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	SubscriptionStatus  subscription.Status `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_status"`
	SubscriptionEndDate *time.Time          `gorm:"column:subscription_end_date" json:"subscription_end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p Profile) SubscriptionState() subscription.State {
	return subscription.State{Status: p.SubscriptionStatus, End: p.SubscriptionEndDate}
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

func (p Profile) IsBlocked() bool {
	return p.Status == StatusBlocked
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusBlocked
}
