package admin

import (
	"net/http"
	"time"

	"nontonin-api/database"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/reports"

	"github.com/gin-gonic/gin"
)

type AdminTransaction struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Email         string         `json:"email"`
	FullName      string         `json:"full_name"`
	Kind          billing.Kind   `json:"kind"`
	MovieTitle    *string        `json:"movie_title,omitempty"`
	Amount        int64          `json:"amount"`
	Status        billing.Status `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	Description   string         `json:"description"`
	CreatedAt     string         `json:"created_at"`
}

type NewMovie struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Genre       string     `json:"genre"`
	ReleaseDate *time.Time `json:"release_date"`
}

type DashboardResponse struct {
	Summary            reports.Summary    `json:"summary"`
	RecentTransactions []AdminTransaction `json:"recent_transactions"`
	NewMovies          []NewMovie         `json:"new_movies"`
}

func toAdminTransaction(t billing.Transaction) AdminTransaction {
	out := AdminTransaction{
		ID:            t.ID,
		UserID:        t.UserID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Status:        t.Status,
		PaymentMethod: t.PaymentMethod,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt.Format("2006-01-02 15:04"),
	}
	if t.User != nil {
		out.Email = t.User.Email
		out.FullName = t.User.FullName
	}
	if t.Movie != nil {
		out.MovieTitle = &t.Movie.Title
	}
	return out
}

func AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := reports.LoadSummary(ctx, database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	var recent []billing.Transaction
	if err := (billing.TransactionFilter{Limit: 5}).
		Apply(database.DB.WithContext(ctx)).
		Preload("User").
		Preload("Movie").
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	var newest []movies.Movie
	if err := database.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(3).
		Find(&newest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}

	out := DashboardResponse{
		Summary:            summary,
		RecentTransactions: make([]AdminTransaction, 0, len(recent)),
		NewMovies:          make([]NewMovie, 0, len(newest)),
	}
	for _, t := range recent {
		out.RecentTransactions = append(out.RecentTransactions, toAdminTransaction(t))
	}
	for _, m := range newest {
		out.NewMovies = append(out.NewMovies, NewMovie{ID: m.ID, Title: m.Title, Genre: m.Genre, ReleaseDate: m.ReleaseDate})
	}

	c.JSON(http.StatusOK, out)
}

// ListAllTransactions backs the admin transactions table.
// Query: status, kind, q (payer email or id prefix).
func ListAllTransactions(c *gin.Context) {
	filter := billing.TransactionFilter{Search: c.Query("q"), Limit: 200}
	if s := c.Query("status"); s != "" {
		if !billing.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = billing.Status(s)
	}
	if k := c.Query("kind"); k != "" {
		if k != string(billing.KindPurchase) && k != string(billing.KindSubscription) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind filter"})
			return
		}
		filter.Kind = billing.Kind(k)
	}

	var list []billing.Transaction
	if err := filter.Apply(database.DB.WithContext(c.Request.Context())).
		Preload("User").
		Preload("Movie").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	result := make([]AdminTransaction, 0, len(list))
	for _, t := range list {
		result = append(result, toAdminTransaction(t))
	}
	c.JSON(http.StatusOK, result)
}

// GetReports returns the analytics page: the year's revenue and signups
// per month plus the best selling movies and most watched genres.
func GetReports(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	topMovies, err := reports.TopMovies(ctx, database.DB, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load top movies"})
		return
	}
	topGenres, err := reports.TopGenres(ctx, database.DB, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load top genres"})
		return
	}
	revenue, err := reports.MonthlyRevenue(ctx, database.DB, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load revenue"})
		return
	}
	growth, err := reports.UserGrowth(ctx, database.DB, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user growth"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top_movies":      topMovies,
		"top_genres":      topGenres,
		"monthly_revenue": reports.FillMonths(revenue, since, now),
		"user_growth":     reports.FillMonths(growth, since, now),
	})
}
