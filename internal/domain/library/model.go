package library

import (
	"time"

	"nontonin-api/internal/domain/movies"
)

// WatchHistory holds the resume point of one viewer on one movie.
type WatchHistory struct {
	ID        string        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string        `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_movie,priority:1" json:"user_id"`
	MovieID   string        `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_movie,priority:2;index" json:"movie_id"`
	Movie     *movies.Movie `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
	Progress  int           `gorm:"not null;default:0" json:"progress"`
	WatchedAt time.Time     `gorm:"not null;index" json:"watched_at"`
}

func (WatchHistory) TableName() string { return "watch_history" }

type Filter string

const (
	FilterAll     Filter = "all"
	FilterFree    Filter = "free"
	FilterPremium Filter = "premium"
)

func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterFree, FilterPremium:
		return Filter(s)
	}
	return FilterAll
}

// Keep returns whether an entry belongs in the library view for f. Entries
// whose movie was removed are dropped.
func (f Filter) Keep(h WatchHistory) bool {
	if h.Movie == nil {
		return false
	}
	switch f {
	case FilterFree:
		return h.Movie.AccessType == movies.AccessFree
	case FilterPremium:
		return h.Movie.AccessType == movies.AccessPremium
	}
	return true
}

func Apply(f Filter, entries []WatchHistory) []WatchHistory {
	out := make([]WatchHistory, 0, len(entries))
	for _, e := range entries {
		if f.Keep(e) {
			out = append(out, e)
		}
	}
	return out
}
