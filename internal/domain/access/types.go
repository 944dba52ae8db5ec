package access

import (
	"time"

	"nontonin-api/internal/domain/movies"
)

// Viewer is the identity an entitlement decision is made for. It is built
// from the request's token and profile row and passed in explicitly.
type Viewer struct {
	ID              string
	SubscriptionEnd *time.Time
}

// Content is the part of a movie the evaluator looks at.
type Content struct {
	ID     string
	Access movies.AccessType
}

func ContentOf(m movies.Movie) Content {
	return Content{ID: m.ID, Access: m.AccessType}
}

type Reason string

const (
	ReasonFree         Reason = "free"
	ReasonSubscription Reason = "subscription"
	ReasonPurchase     Reason = "purchase"
	ReasonLocked       Reason = "locked"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

type ViewerState string

const (
	StatePremium ViewerState = "premium"
	StateFree    ViewerState = "free"
)
