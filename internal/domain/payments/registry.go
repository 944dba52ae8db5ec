package payments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/infra/logging"
)

// FulfillFunc is what a completed confirmation runs.
type FulfillFunc func(ctx context.Context, in Intent) (*billing.Transaction, error)

// Session is one open QRIS dialog.
type Session struct {
	ID        string
	Intent    Intent
	CreatedAt time.Time

	confirmation *Confirmation

	mu  sync.Mutex
	tx  *billing.Transaction
	err error
}

func (s *Session) Status() Status { return s.confirmation.Status() }
func (s *Session) Remaining() int { return s.confirmation.Remaining() }
func (s *Session) Done() <-chan struct{} { return s.confirmation.Done() }

// Result returns the fulfilled transaction or the error fulfilment ended
// with. Both are nil until the countdown completes.
func (s *Session) Result() (*billing.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx, s.err
}

func (s *Session) setResult(tx *billing.Transaction, err error) {
	s.mu.Lock()
	s.tx, s.err = tx, err
	s.mu.Unlock()
}

// Registry keeps in-flight sessions by id and by idempotency key.
type Registry struct {
	mu    sync.Mutex
	byID  map[string]*Session
	byKey map[string]string

	fulfill   FulfillFunc
	ticks     int
	tick      time.Duration
	retention time.Duration
}

func NewRegistry(fulfill FulfillFunc, ticks int, tick time.Duration) *Registry {
	return &Registry{
		byID:      make(map[string]*Session),
		byKey:     make(map[string]string),
		fulfill:   fulfill,
		ticks:     ticks,
		tick:      tick,
		retention: 10 * time.Minute,
	}
}

// Start opens a session for in. A second call with the same idempotency key
// returns the existing session and re-opens it; created is false then.
func (r *Registry) Start(in Intent) (s *Session, created bool, err error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	if id, ok := r.byKey[in.IdempotencyKey]; ok {
		existing := r.byID[id]
		r.mu.Unlock()
		if existing.Intent.UserID != in.UserID {
			return nil, false, ErrSessionForbidden
		}
		existing.confirmation.Open()
		return existing, false, nil
	}

	s = &Session{
		ID:        uuid.NewString(),
		Intent:    in,
		CreatedAt: time.Now(),
	}
	s.confirmation = NewConfirmation(r.ticks, r.tick, func() { r.complete(s) })
	r.byID[s.ID] = s
	r.byKey[in.IdempotencyKey] = s.ID
	r.mu.Unlock()

	s.confirmation.Open()
	return s, true, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close abandons the session. Nothing is recorded for a session that had
// not completed; it is reset and forgotten.
func (r *Registry) Close(id string) (*Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	s.confirmation.Close()
	r.forget(s)
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Registry) complete(s *Session) {
	tx, err := r.fulfill(context.Background(), s.Intent)
	if err != nil {
		logging.LogErrorWithUser(s.Intent.UserID, err, "QRIS fulfilment failed")
	} else {
		logging.LogSuccessWithUser(s.Intent.UserID, "QRIS payment fulfilled "+tx.ID)
	}
	s.setResult(tx, err)
	if err != nil {
		// Nothing was recorded, so a retry with the same key starts a new
		// session. This one stays readable by id to report the error.
		r.mu.Lock()
		r.releaseKey(s)
		r.mu.Unlock()
	}

	// Completed sessions stay readable for polling clients for a while.
	time.AfterFunc(r.retention, func() { r.forget(s) })
}

func (r *Registry) forget(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byID[s.ID]; ok && cur == s {
		delete(r.byID, s.ID)
	}
	r.releaseKey(s)
}

// releaseKey must be called with r.mu held.
func (r *Registry) releaseKey(s *Session) {
	if id, ok := r.byKey[s.Intent.IdempotencyKey]; ok && id == s.ID {
		delete(r.byKey, s.Intent.IdempotencyKey)
	}
}
