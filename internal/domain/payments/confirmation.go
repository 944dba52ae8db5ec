package payments

import (
	"sync"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	// StatusFailed is part of the state type but nothing drives a
	// session into it yet.
	StatusFailed Status = "failed"
)

const DefaultCountdown = 10

// Confirmation simulates a QRIS confirmation dialog: while open it counts
// down one tick at a time and becomes successful at zero. onSuccess runs at
// most once for the lifetime of the Confirmation no matter how many times it
// is opened.
type Confirmation struct {
	mu        sync.Mutex
	status    Status
	total     int
	remaining int
	tick      time.Duration
	stop      chan struct{}
	done      chan struct{}

	once      sync.Once
	onSuccess func()
}

func NewConfirmation(ticks int, tick time.Duration, onSuccess func()) *Confirmation {
	if ticks <= 0 {
		ticks = DefaultCountdown
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &Confirmation{
		status:    StatusPending,
		total:     ticks,
		remaining: ticks,
		tick:      tick,
		done:      make(chan struct{}),
		onSuccess: onSuccess,
	}
}

// Open starts the countdown. It is a no-op while a countdown is running or
// once the confirmation reached a terminal state.
func (c *Confirmation) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPending || c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	go c.run(c.stop)
}

// Close abandons the dialog. A pending confirmation goes back to a full
// countdown; a terminal one is left as is.
func (c *Confirmation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if c.status == StatusPending {
		c.remaining = c.total
	}
}

func (c *Confirmation) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Confirmation) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Confirmation) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Done is closed after the confirmation became successful and the success
// callback returned.
func (c *Confirmation) Done() <-chan struct{} {
	return c.done
}

func (c *Confirmation) run(stop chan struct{}) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.advance(stop) {
				c.once.Do(func() {
					if c.onSuccess != nil {
						c.onSuccess()
					}
					close(c.done)
				})
				return
			}
		}
	}
}

// advance consumes one tick and reports whether the countdown completed.
func (c *Confirmation) advance(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Close may have won the race against this tick.
	select {
	case <-stop:
		return false
	default:
	}

	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		return false
	}
	c.status = StatusSuccessful
	c.stop = nil
	return true
}
