package library

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nontonin-api/internal/domain/movies"
)

func TestApply(t *testing.T) {
	free := &movies.Movie{ID: "a", AccessType: movies.AccessFree}
	premium := &movies.Movie{ID: "b", AccessType: movies.AccessPremium}
	entries := []WatchHistory{
		{MovieID: "a", Movie: free},
		{MovieID: "b", Movie: premium},
		{MovieID: "gone"},
	}

	assert.Len(t, Apply(FilterAll, entries), 2)

	got := Apply(FilterPremium, entries)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "b", got[0].MovieID)
	}

	got = Apply(FilterFree, entries)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "a", got[0].MovieID)
	}
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterPremium, ParseFilter("premium"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}
