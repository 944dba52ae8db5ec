package access

import (
	"time"

	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/subscription"
)

// Evaluate decides whether viewer may play item. It never errors: missing
// subscription or purchase data means no entitlement.
func Evaluate(now time.Time, item Content, viewer Viewer, purchaseExists bool) Decision {
	if item.Access == movies.AccessFree {
		return Decision{Allowed: true, Reason: ReasonFree}
	}
	if subscription.IsActive(viewer.SubscriptionEnd, now) {
		return Decision{Allowed: true, Reason: ReasonSubscription}
	}
	if purchaseExists {
		return Decision{Allowed: true, Reason: ReasonPurchase}
	}
	return Decision{Allowed: false, Reason: ReasonLocked}
}

func CanWatch(now time.Time, item Content, viewer Viewer, purchaseExists bool) bool {
	return Evaluate(now, item, viewer, purchaseExists).Allowed
}

// NeedsPurchaseLookup reports whether the purchase record has to be queried
// at all; free items and active subscribers short-circuit before it.
func NeedsPurchaseLookup(now time.Time, item Content, viewer Viewer) bool {
	return item.Access != movies.AccessFree && !subscription.IsActive(viewer.SubscriptionEnd, now)
}
