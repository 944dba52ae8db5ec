package access

import (
	"time"

	"nontonin-api/internal/domain/users"
)

func ViewerOf(p users.Profile) Viewer {
	return Viewer{ID: p.ID, SubscriptionEnd: p.SubscriptionEndDate}
}

// ComputeViewerState derives premium/free from the end date only; the stored
// subscription_status column is informational.
func ComputeViewerState(now time.Time, p users.Profile) ViewerState {
	if p.SubscriptionEndDate != nil && now.Before(*p.SubscriptionEndDate) {
		return StatePremium
	}
	return StateFree
}
