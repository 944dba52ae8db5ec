package settings

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	KeyMonthlyPrice      = "monthly_price"
	KeyAnnualPrice       = "annual_price"
	KeyDefaultMoviePrice = "default_movie_price"
)

// AppSetting is a platform-wide key/value pair edited from the admin panel.
type AppSetting struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pricing is the typed view of the price settings, in Rupiah.
type Pricing struct {
	MonthlyPrice      int64 `json:"monthly_price"`
	AnnualPrice       int64 `json:"annual_price"`
	DefaultMoviePrice int64 `json:"default_movie_price"`
}

func DefaultPricing(defaultMoviePrice int64) Pricing {
	return Pricing{
		MonthlyPrice:      49000,
		AnnualPrice:       490000,
		DefaultMoviePrice: defaultMoviePrice,
	}
}

// PricingFrom overlays stored values on top of fallback. Unparseable or
// non-positive values are ignored.
func PricingFrom(values map[string]string, fallback Pricing) Pricing {
	p := fallback
	if v, ok := positive(values[KeyMonthlyPrice]); ok {
		p.MonthlyPrice = v
	}
	if v, ok := positive(values[KeyAnnualPrice]); ok {
		p.AnnualPrice = v
	}
	if v, ok := positive(values[KeyDefaultMoviePrice]); ok {
		p.DefaultMoviePrice = v
	}
	return p
}

func (p Pricing) Values() map[string]string {
	return map[string]string{
		KeyMonthlyPrice:      strconv.FormatInt(p.MonthlyPrice, 10),
		KeyAnnualPrice:       strconv.FormatInt(p.AnnualPrice, 10),
		KeyDefaultMoviePrice: strconv.FormatInt(p.DefaultMoviePrice, 10),
	}
}

func positive(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// LoadPricing reads all settings rows and resolves them against fallback.
func LoadPricing(ctx context.Context, db *gorm.DB, fallback Pricing) (Pricing, error) {
	var rows []AppSetting
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return fallback, err
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	return PricingFrom(values, fallback), nil
}

// SavePricing upserts every price key.
func SavePricing(ctx context.Context, db *gorm.DB, p Pricing) error {
	rows := make([]AppSetting, 0, 3)
	for k, v := range p.Values() {
		rows = append(rows, AppSetting{Key: k, Value: v})
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}
