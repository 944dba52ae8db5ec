package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGrant_Monthly(t *testing.T) {
	st, err := Grant(State{Status: StatusFree}, PeriodMonthly, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPremium, st.Status)
	require.NotNil(t, st.End)
	assert.Equal(t, now.Add(30*24*time.Hour), *st.End)
}

func TestGrant_Annual(t *testing.T) {
	st, err := Grant(State{Status: StatusFree}, PeriodAnnual, now)
	require.NoError(t, err)

	require.NotNil(t, st.End)
	assert.Equal(t, now.Add(365*24*time.Hour), *st.End)
}

func TestGrant_RenewalDoesNotStack(t *testing.T) {
	prevEnd := now.Add(20 * 24 * time.Hour)
	current := State{Status: StatusPremium, End: &prevEnd}

	st, err := Grant(current, PeriodMonthly, now)
	require.NoError(t, err)

	require.NotNil(t, st.End)
	assert.Equal(t, now.Add(30*24*time.Hour), *st.End)
	assert.NotEqual(t, prevEnd.Add(30*24*time.Hour), *st.End)
}

func TestGrant_UnknownPeriod(t *testing.T) {
	current := State{Status: StatusFree}
	st, err := Grant(current, Period("weekly"), now)

	assert.ErrorIs(t, err, ErrUnknownPeriod)
	assert.Equal(t, current, st)
}

func TestCancel(t *testing.T) {
	st := Cancel()
	assert.Equal(t, StatusFree, st.Status)
	assert.Nil(t, st.End)
}

func TestIsActive(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, IsActive(nil, now))
	assert.False(t, IsActive(&past, now))
	assert.False(t, IsActive(&now, now))
	assert.True(t, IsActive(&future, now))
}

func TestDaysLeft(t *testing.T) {
	end := now.Add(10*24*time.Hour + 5*time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.Equal(t, 10, DaysLeft(&end, now))
	assert.Equal(t, 0, DaysLeft(&past, now))
	assert.Equal(t, 0, DaysLeft(nil, now))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Annual ")
	require.NoError(t, err)
	assert.Equal(t, PeriodAnnual, p)

	_, err = ParsePeriod("daily")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}
