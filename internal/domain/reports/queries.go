package reports

import (
	"context"
	"time"

	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/library"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/users"

	"gorm.io/gorm"
)

type Summary struct {
	TotalUsers             int64 `json:"total_users"`
	ActiveMovies           int64 `json:"active_movies"`
	SuccessfulTransactions int64 `json:"successful_transactions"`
	TotalRevenue           int64 `json:"total_revenue"`
}

type TopMovie struct {
	MovieID   string `json:"movie_id"`
	Title     string `json:"title"`
	Purchases int64  `json:"purchases"`
	Revenue   int64  `json:"revenue"`
}

type TopGenre struct {
	Genre string `json:"genre"`
	Views int64  `json:"views"`
}

// MonthPoint is one bucket of a monthly series; Month is formatted YYYY-MM.
type MonthPoint struct {
	Month string `json:"month"`
	Value int64  `json:"value"`
}

func LoadSummary(ctx context.Context, db *gorm.DB) (Summary, error) {
	var s Summary
	db = db.WithContext(ctx)

	if err := db.Model(&users.Profile{}).Count(&s.TotalUsers).Error; err != nil {
		return s, err
	}
	if err := db.Model(&movies.Movie{}).Where("status = ?", movies.StatusActive).Count(&s.ActiveMovies).Error; err != nil {
		return s, err
	}

	var agg struct {
		Count   int64
		Revenue int64
	}
	err := db.Model(&billing.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS revenue").
		Where("status = ?", billing.StatusSuccessful).
		Scan(&agg).Error
	if err != nil {
		return s, err
	}
	s.SuccessfulTransactions = agg.Count
	s.TotalRevenue = agg.Revenue
	return s, nil
}

// TopMovies ranks movies by successful one-off purchases.
func TopMovies(ctx context.Context, db *gorm.DB, limit int) ([]TopMovie, error) {
	var out []TopMovie
	err := db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Select("movies.id AS movie_id, movies.title AS title, COUNT(transactions.id) AS purchases, COALESCE(SUM(transactions.amount), 0) AS revenue").
		Joins("JOIN movies ON movies.id = transactions.movie_id").
		Where("transactions.kind = ? AND transactions.status = ?", billing.KindPurchase, billing.StatusSuccessful).
		Group("movies.id, movies.title").
		Order("purchases DESC, revenue DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// TopGenres ranks genres by the number of viewers who started a movie.
func TopGenres(ctx context.Context, db *gorm.DB, limit int) ([]TopGenre, error) {
	var out []TopGenre
	err := db.WithContext(ctx).
		Model(&library.WatchHistory{}).
		Select("movies.genre AS genre, COUNT(watch_history.id) AS views").
		Joins("JOIN movies ON movies.id = watch_history.movie_id").
		Where("movies.genre <> ''").
		Group("movies.genre").
		Order("views DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func MonthlyRevenue(ctx context.Context, db *gorm.DB, since time.Time) ([]MonthPoint, error) {
	var out []MonthPoint
	err := db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Select("TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS value").
		Where("status = ? AND created_at >= ?", billing.StatusSuccessful, since).
		Group("month").
		Order("month ASC").
		Scan(&out).Error
	return out, err
}

func UserGrowth(ctx context.Context, db *gorm.DB, since time.Time) ([]MonthPoint, error) {
	var out []MonthPoint
	err := db.WithContext(ctx).
		Model(&users.Profile{}).
		Select("TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month, COUNT(*) AS value").
		Where("created_at >= ?", since).
		Group("month").
		Order("month ASC").
		Scan(&out).Error
	return out, err
}

// FillMonths returns one point per month from since through now, with zero
// for months that had no rows.
func FillMonths(points []MonthPoint, since, now time.Time) []MonthPoint {
	byMonth := make(map[string]int64, len(points))
	for _, p := range points {
		byMonth[p.Month] = p.Value
	}

	cur := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []MonthPoint
	for !cur.After(end) {
		key := cur.Format("2006-01")
		out = append(out, MonthPoint{Month: key, Value: byMonth[key]})
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
