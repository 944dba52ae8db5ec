package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/subscription"
	"nontonin-api/internal/infra/logging"
)

// GrantFunc computes the new subscription state from the stored one.
type GrantFunc func(current subscription.State) (subscription.State, error)

type Store interface {
	// FindByKey returns nil, nil when no transaction uses key.
	FindByKey(ctx context.Context, key string) (*billing.Transaction, error)
	// Record inserts tx and, when grant is not nil, applies it to the
	// payer's profile in the same database transaction. A key collision is
	// reported as billing.ErrDuplicate.
	Record(ctx context.Context, tx *billing.Transaction, grant GrantFunc) error
}

// Locker serialises work on one idempotency key across instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

const lockTTL = 30 * time.Second

type Fulfiller struct {
	store    Store
	locker   Locker
	activity activity.Sink
	now      func() time.Time
}

// NewFulfiller wires a fulfiller. locker and sink may be nil.
func NewFulfiller(store Store, locker Locker, sink activity.Sink) *Fulfiller {
	return &Fulfiller{store: store, locker: locker, activity: sink, now: time.Now}
}

// Fulfill records the payment described by in and grants its entitlement.
// Replaying a key that already has a transaction returns that transaction
// without touching the profile again.
func (f *Fulfiller) Fulfill(ctx context.Context, in Intent) (*billing.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if existing, err := f.store.FindByKey(ctx, in.IdempotencyKey); err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	} else if existing != nil {
		return existing, nil
	}

	if f.locker != nil {
		ok, err := f.locker.Acquire(ctx, in.IdempotencyKey, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire idempotency lock: %w", err)
		}
		if !ok {
			return nil, billing.ErrDuplicate
		}
		defer func() {
			if err := f.locker.Release(context.WithoutCancel(ctx), in.IdempotencyKey); err != nil {
				logging.LogError(err, "release idempotency lock")
			}
		}()

		// Another instance may have finished between the lookup and the lock.
		if existing, err := f.store.FindByKey(ctx, in.IdempotencyKey); err != nil {
			return nil, fmt.Errorf("lookup idempotency key: %w", err)
		} else if existing != nil {
			return existing, nil
		}
	}

	tx := in.transaction()
	var grant GrantFunc
	if in.Kind == billing.KindSubscription {
		now := f.now()
		period := *in.Period
		grant = func(current subscription.State) (subscription.State, error) {
			return subscription.Grant(current, period, now)
		}
	}

	if err := f.store.Record(ctx, tx, grant); err != nil {
		if errors.Is(err, billing.ErrDuplicate) {
			existing, lookupErr := f.store.FindByKey(ctx, in.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	f.emit(ctx, in, tx)
	return tx, nil
}

func (f *Fulfiller) emit(ctx context.Context, in Intent, tx *billing.Transaction) {
	event := activity.Event{
		UserID:      in.UserID,
		Description: in.Description,
		OccurredAt:  f.now(),
	}
	switch in.Kind {
	case billing.KindPurchase:
		event.ActivityType = activity.TypePurchaseSuccessful
	case billing.KindSubscription:
		event.ActivityType = activity.TypeSubscriptionSuccessful
	}
	if event.Description == "" {
		event.Description = fmt.Sprintf("transaction %s", tx.ID)
	}
	activity.Emit(ctx, f.activity, event)
}
