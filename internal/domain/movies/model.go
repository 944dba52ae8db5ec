package movies

import "time"

type AccessType string

const (
	AccessFree    AccessType = "free"
	AccessPremium AccessType = "premium"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Movie struct {
	ID          string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"not null;index" json:"title"`
	Description string     `json:"description"`
	Genre       string     `gorm:"index" json:"genre"`
	Duration    *int       `json:"duration"`
	ReleaseDate *time.Time `gorm:"type:date" json:"release_date"`
	AccessType  AccessType `gorm:"type:varchar(20);not null;default:'free'" json:"access_type"`

	// Rupiah. Nil means the platform default applies.
	Price *int64 `json:"price"`

	VideoURL   *string `json:"video_url"`
	TrailerURL *string `json:"trailer_url"`
	PosterURL  *string `json:"poster_url"`
	Status     string  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m Movie) IsPremium() bool {
	return m.AccessType == AccessPremium
}

// EffectivePrice returns the one-off purchase price, falling back to the
// platform default when the movie has none.
func (m Movie) EffectivePrice(platformDefault int64) int64 {
	if m.Price != nil && *m.Price > 0 {
		return *m.Price
	}
	return platformDefault
}

func ValidAccessType(s string) bool {
	return AccessType(s) == AccessFree || AccessType(s) == AccessPremium
}
