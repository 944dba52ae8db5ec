package billing

import (
	"context"

	"gorm.io/gorm"
)

// HasPurchased reports whether at least one successful one-off purchase of
// movieID exists for viewerID.
func HasPurchased(ctx context.Context, db *gorm.DB, viewerID, movieID string) (bool, error) {
	if viewerID == "" || movieID == "" {
		return false, nil
	}
	var count int64
	err := db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ? AND movie_id = ? AND kind = ? AND status = ?", viewerID, movieID, KindPurchase, StatusSuccessful).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurchasedMovieIDs returns the set of movies viewerID owns outright.
func PurchasedMovieIDs(ctx context.Context, db *gorm.DB, viewerID string) (map[string]bool, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ? AND kind = ? AND status = ? AND movie_id IS NOT NULL", viewerID, KindPurchase, StatusSuccessful).
		Distinct().
		Pluck("movie_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
