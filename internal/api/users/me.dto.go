package users

import "time"

type MeResponse struct {
	User         UserDTO         `json:"user"`
	Subscription SubscriptionDTO `json:"subscription"`
	Access       AccessDTO       `json:"access"`
}

type UserDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	AuthProvider string    `json:"auth_provider"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubscriptionDTO struct {
	Status   string     `json:"status"` // premium|free, derived from end_date
	Active   bool       `json:"active"`
	EndDate  *time.Time `json:"end_date"`
	DaysLeft int        `json:"days_left"`
}

type AccessDTO struct {
	State        string   `json:"state"`
	Capabilities []string `json:"capabilities"`
}
