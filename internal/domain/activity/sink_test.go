package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/testutil"
)

type recordingSink struct {
	events []activity.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e activity.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func TestEventLog(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	l := activity.Event{UserID: "u1", ActivityType: activity.TypeLogin, Description: "Logged in", OccurredAt: at}.Log()
	require.NotNil(t, l.UserID)
	assert.Equal(t, "u1", *l.UserID)
	assert.Equal(t, at, l.CreatedAt)

	anon := activity.Event{ActivityType: activity.TypeAdminAction}.Log()
	assert.Nil(t, anon.UserID)
}

func TestDBSinkInsertsLog(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "activity_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("log-1"))
	mock.ExpectCommit()

	err := activity.DBSink{DB: db}.Publish(context.Background(), activity.Event{
		UserID:       "u1",
		ActivityType: activity.TypeWatch,
		Description:  "Watched Laskar Pelangi",
		OccurredAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmitSwallowsSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}

	assert.NotPanics(t, func() {
		activity.Emit(context.Background(), sink, activity.Event{ActivityType: activity.TypeReview})
		activity.Emit(context.Background(), nil, activity.Event{ActivityType: activity.TypeReview})
	})
	assert.Len(t, sink.events, 1)
}

func TestRecordUsesInstalledSink(t *testing.T) {
	previous := activity.Default()
	t.Cleanup(func() { activity.Use(previous) })

	activity.Use(nil)
	activity.Record(context.Background(), "u1", activity.TypeLogin, "ignored")

	sink := &recordingSink{}
	activity.Use(sink)
	activity.Record(context.Background(), "u1", activity.TypeLogin, "Logged in")

	require.Len(t, sink.events, 1)
	assert.Equal(t, "u1", sink.events[0].UserID)
	assert.Equal(t, activity.TypeLogin, sink.events[0].ActivityType)
	assert.False(t, sink.events[0].OccurredAt.IsZero())
}
