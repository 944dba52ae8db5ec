package movies

import (
	"context"
	"errors"

	"nontonin-api/config"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/infra/logging"

	"gorm.io/gorm"
)

var errMovieNotFound = errors.New("movie not found")

func activeMovieQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&movies.Movie{}).Where("status = ?", movies.StatusActive)
}

// findActiveMovie hides inactive movies from viewers exactly like missing ones.
func findActiveMovie(ctx context.Context, db *gorm.DB, id string) (movies.Movie, error) {
	var m movies.Movie
	err := activeMovieQuery(db.WithContext(ctx)).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, errMovieNotFound
	}
	return m, err
}

// currentPricing never fails the request; stored prices fall back to the
// configured defaults.
func currentPricing(ctx context.Context, db *gorm.DB) settings.Pricing {
	fallback := settings.DefaultPricing(config.DEFAULT_MOVIE_PRICE)
	p, err := settings.LoadPricing(ctx, db, fallback)
	if err != nil {
		logging.LogError(err, "failed to load pricing, using defaults")
	}
	return p
}
