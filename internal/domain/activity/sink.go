package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nontonin-api/internal/infra/logging"
)

// Sink receives activity events. Implementations decide whether the event
// is written directly or goes through the queue.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// DBSink writes events straight to activity_logs.
type DBSink struct {
	DB *gorm.DB
}

func (s DBSink) Publish(ctx context.Context, e Event) error {
	return Save(ctx, s.DB, e)
}

func Save(ctx context.Context, db *gorm.DB, e Event) error {
	l := e.Log()
	return db.WithContext(ctx).Create(&l).Error
}

// Emit publishes e and only logs failures; activity is never allowed to
// fail the request that produced it.
func Emit(ctx context.Context, sink Sink, e Event) {
	if sink == nil {
		return
	}
	if err := sink.Publish(ctx, e); err != nil {
		logging.LogErrorWithUser(e.UserID, err, "failed to record activity "+e.ActivityType)
	}
}

var defaultSink Sink

// Use installs the sink Record writes to. Until called, Record is a no-op.
func Use(s Sink) {
	defaultSink = s
}

func Default() Sink {
	return defaultSink
}

// Record emits an activity through the installed sink.
func Record(ctx context.Context, userID, activityType, description string) {
	Emit(ctx, defaultSink, Event{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		OccurredAt:   time.Now(),
	})
}
