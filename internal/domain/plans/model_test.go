package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/domain/subscription"
)

func TestForPeriod(t *testing.T) {
	pricing := settings.Pricing{MonthlyPrice: 49000, AnnualPrice: 490000}

	plan, err := ForPeriod(pricing, subscription.PeriodAnnual)
	require.NoError(t, err)
	assert.Equal(t, int64(490000), plan.Price)
	assert.Equal(t, 365, plan.DurationDays)

	_, err = ForPeriod(pricing, subscription.Period("weekly"))
	assert.ErrorIs(t, err, subscription.ErrUnknownPeriod)
}
