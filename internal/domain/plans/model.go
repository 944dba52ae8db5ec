package plans

import (
	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/domain/subscription"
)

// Plan is a purchasable subscription option. Plans are not stored; they are
// built from the price settings on every request.
type Plan struct {
	Period       subscription.Period `json:"period"`
	Name         string              `json:"name"`
	Price        int64               `json:"price"`
	DurationDays int                 `json:"duration_days"`
}

func All(p settings.Pricing) []Plan {
	return []Plan{
		{Period: subscription.PeriodMonthly, Name: "Premium Bulanan", Price: p.MonthlyPrice, DurationDays: 30},
		{Period: subscription.PeriodAnnual, Name: "Premium Tahunan", Price: p.AnnualPrice, DurationDays: 365},
	}
}

func ForPeriod(p settings.Pricing, period subscription.Period) (Plan, error) {
	for _, plan := range All(p) {
		if plan.Period == period {
			return plan, nil
		}
	}
	return Plan{}, subscription.ErrUnknownPeriod
}
