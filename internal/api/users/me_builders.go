package users

import (
	"time"

	"nontonin-api/internal/domain/access"
	"nontonin-api/internal/domain/subscription"
	"nontonin-api/internal/domain/users"
)

func BuildMeResponse(now time.Time, p users.Profile) MeResponse {
	state := access.ComputeViewerState(now, p)
	return MeResponse{
		User:         BuildUserDTO(p),
		Subscription: BuildSubscriptionDTO(now, p),
		Access: AccessDTO{
			State:        string(state),
			Capabilities: access.CapabilitiesFor(state),
		},
	}
}

func BuildUserDTO(p users.Profile) UserDTO {
	return UserDTO{
		ID:           p.ID,
		Email:        p.Email,
		FullName:     p.FullName,
		AvatarURL:    p.AvatarURL,
		Role:         p.Role,
		Status:       p.Status,
		AuthProvider: p.AuthProvider,
		HasPassword:  p.Password != nil && *p.Password != "",
		CreatedAt:    p.CreatedAt,
	}
}

func BuildSubscriptionDTO(now time.Time, p users.Profile) SubscriptionDTO {
	active := subscription.IsActive(p.SubscriptionEndDate, now)
	status := subscription.StatusFree
	if active {
		status = subscription.StatusPremium
	}
	return SubscriptionDTO{
		Status:   string(status),
		Active:   active,
		EndDate:  p.SubscriptionEndDate,
		DaysLeft: subscription.DaysLeft(p.SubscriptionEndDate, now),
	}
}
