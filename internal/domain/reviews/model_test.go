package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New("u", "m", 5, "  mantap  ")
	require.NoError(t, err)
	assert.Equal(t, "mantap", r.Comment)

	_, err = New("u", "m", 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = New("u", "m", 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 4.3, Average([]Review{{Rating: 4}, {Rating: 4}, {Rating: 5}}))
}
