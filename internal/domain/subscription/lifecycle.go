package subscription

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusFree    Status = "free"
	StatusPremium Status = "premium"
)

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

var ErrUnknownPeriod = errors.New("unknown plan period")

const day = 24 * time.Hour

// State is the subscription part of a viewer profile.
type State struct {
	Status Status
	End    *time.Time
}

func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodAnnual:
		return PeriodAnnual, nil
	}
	return "", ErrUnknownPeriod
}

func Duration(p Period) (time.Duration, error) {
	switch p {
	case PeriodMonthly:
		return 30 * day, nil
	case PeriodAnnual:
		return 365 * day, nil
	}
	return 0, ErrUnknownPeriod
}

// Grant opens a premium window starting at now. The current state is
// ignored: a renewal while active restarts the window from now instead of
// extending the previous end date.
func Grant(current State, p Period, now time.Time) (State, error) {
	d, err := Duration(p)
	if err != nil {
		return current, err
	}
	end := now.Add(d)
	return State{Status: StatusPremium, End: &end}, nil
}

// Cancel revokes premium access immediately.
func Cancel() State {
	return State{Status: StatusFree, End: nil}
}

func IsActive(end *time.Time, now time.Time) bool {
	return end != nil && end.After(now)
}

// DaysLeft rounds down; an inactive window has zero days left.
func DaysLeft(end *time.Time, now time.Time) int {
	if !IsActive(end, now) {
		return 0
	}
	return int(end.Sub(now) / day)
}
