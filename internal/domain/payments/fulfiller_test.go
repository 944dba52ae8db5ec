package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/subscription"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindByKey(ctx context.Context, key string) (*billing.Transaction, error) {
	args := m.Called(ctx, key)
	tx, _ := args.Get(0).(*billing.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) Record(ctx context.Context, tx *billing.Transaction, grant GrantFunc) error {
	args := m.Called(ctx, tx, grant)
	return args.Error(0)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type captureSink struct {
	events []activity.Event
}

func (s *captureSink) Publish(_ context.Context, e activity.Event) error {
	s.events = append(s.events, e)
	return nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestFulfiller(store Store, locker Locker, sink activity.Sink) *Fulfiller {
	f := NewFulfiller(store, locker, sink)
	f.now = func() time.Time { return fixedNow }
	return f
}

func subscriptionIntent(key string, p subscription.Period) Intent {
	return Intent{
		UserID:         "user-1",
		Kind:           billing.KindSubscription,
		Period:         &p,
		Amount:         49000,
		Method:         billing.MethodQRIS,
		IdempotencyKey: key,
	}
}

func TestFulfill_Purchase(t *testing.T) {
	store := new(mockStore)
	sink := &captureSink{}
	store.On("FindByKey", mock.Anything, "k1").Return(nil, nil).Once()
	store.On("Record", mock.Anything, mock.AnythingOfType("*billing.Transaction"),
		mock.MatchedBy(func(g GrantFunc) bool { return g == nil })).Return(nil).Once()

	tx, err := newTestFulfiller(store, nil, sink).Fulfill(context.Background(), purchaseIntent("k1"))
	require.NoError(t, err)

	assert.Equal(t, billing.StatusSuccessful, tx.Status)
	assert.Equal(t, billing.KindPurchase, tx.Kind)
	assert.Equal(t, "movie-1", *tx.MovieID)
	assert.Equal(t, "k1", tx.IdempotencyKey)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, activity.TypePurchaseSuccessful, sink.events[0].ActivityType)
	}
	store.AssertExpectations(t)
}

func TestFulfill_SubscriptionGrantsWindow(t *testing.T) {
	store := new(mockStore)
	store.On("FindByKey", mock.Anything, "k2").Return(nil, nil).Once()

	var granted subscription.State
	store.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			grant := args.Get(2).(GrantFunc)
			var err error
			granted, err = grant(subscription.State{Status: subscription.StatusFree})
			require.NoError(t, err)
		}).Return(nil).Once()

	_, err := newTestFulfiller(store, nil, nil).
		Fulfill(context.Background(), subscriptionIntent("k2", subscription.PeriodAnnual))
	require.NoError(t, err)

	assert.Equal(t, subscription.StatusPremium, granted.Status)
	require.NotNil(t, granted.End)
	assert.Equal(t, fixedNow.Add(365*24*time.Hour), *granted.End)
}

func TestFulfill_ReplayedKeyDoesNotMutate(t *testing.T) {
	store := new(mockStore)
	sink := &captureSink{}
	existing := &billing.Transaction{ID: "tx-1", Status: billing.StatusSuccessful, IdempotencyKey: "k3"}
	store.On("FindByKey", mock.Anything, "k3").Return(existing, nil)

	f := newTestFulfiller(store, nil, sink)
	for i := 0; i < 3; i++ {
		tx, err := f.Fulfill(context.Background(), subscriptionIntent("k3", subscription.PeriodMonthly))
		require.NoError(t, err)
		assert.Same(t, existing, tx)
	}

	store.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, sink.events)
}

func TestFulfill_LockHeldElsewhere(t *testing.T) {
	store := new(mockStore)
	locker := new(mockLocker)
	store.On("FindByKey", mock.Anything, "k4").Return(nil, nil).Once()
	locker.On("Acquire", mock.Anything, "k4", lockTTL).Return(false, nil).Once()

	_, err := newTestFulfiller(store, locker, nil).Fulfill(context.Background(), purchaseIntent("k4"))
	assert.ErrorIs(t, err, billing.ErrDuplicate)
	store.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfill_LockedPathReleases(t *testing.T) {
	store := new(mockStore)
	locker := new(mockLocker)
	store.On("FindByKey", mock.Anything, "k5").Return(nil, nil).Twice()
	store.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	locker.On("Acquire", mock.Anything, "k5", lockTTL).Return(true, nil).Once()
	locker.On("Release", mock.Anything, "k5").Return(nil).Once()

	_, err := newTestFulfiller(store, locker, nil).Fulfill(context.Background(), purchaseIntent("k5"))
	require.NoError(t, err)
	store.AssertExpectations(t)
	locker.AssertExpectations(t)
}

func TestFulfill_DuplicateOnInsertReturnsWinner(t *testing.T) {
	store := new(mockStore)
	winner := &billing.Transaction{ID: "tx-w", IdempotencyKey: "k6"}
	store.On("FindByKey", mock.Anything, "k6").Return(nil, nil).Once()
	store.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(billing.ErrDuplicate).Once()
	store.On("FindByKey", mock.Anything, "k6").Return(winner, nil).Once()

	tx, err := newTestFulfiller(store, nil, nil).Fulfill(context.Background(), purchaseIntent("k6"))
	require.NoError(t, err)
	assert.Same(t, winner, tx)
}

func TestFulfill_StoreErrorSurfaces(t *testing.T) {
	store := new(mockStore)
	boom := errors.New("connection reset")
	store.On("FindByKey", mock.Anything, "k7").Return(nil, boom).Once()

	_, err := newTestFulfiller(store, nil, nil).Fulfill(context.Background(), purchaseIntent("k7"))
	assert.ErrorIs(t, err, boom)
}

func TestIntentValidate(t *testing.T) {
	weekly := subscription.Period("weekly")
	bad := subscriptionIntent("k", weekly)
	assert.ErrorIs(t, bad.Validate(), subscription.ErrUnknownPeriod)

	noKey := purchaseIntent("")
	assert.ErrorIs(t, noKey.Validate(), ErrInvalidIntent)

	assert.NoError(t, purchaseIntent("k").Validate())
}
