package movies

import (
	"net/http"
	"time"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/access"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/library"
	"nontonin-api/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// ------------------------------
// GET /movies/:id/watch
// ------------------------------
// Entitlement is evaluated on every call; nothing about a previous decision
// is cached.
func WatchMovie(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	movie, err := findActiveMovie(ctx, database.DB, c.Param("id"))
	if err != nil {
		respondMovieError(c, err)
		return
	}

	now := time.Now()
	viewer := access.ViewerOf(profile)
	content := access.ContentOf(movie)

	purchased := false
	if access.NeedsPurchaseLookup(now, content, viewer) {
		purchased, err = billing.HasPurchased(ctx, database.DB, viewer.ID, movie.ID)
		if err != nil {
			logging.LogErrorWithUser(profile.ID, err, "purchase lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify access"})
			return
		}
	}

	decision := access.Evaluate(now, content, viewer, purchased)
	if !decision.Allowed {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":  "Subscribe or buy this movie to watch it",
			"access": decision,
			"movie":  toMovieDTO(movie, currentPricing(ctx, database.DB)),
		})
		return
	}

	source, ok := movie.PlayableSource()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No video available for this movie"})
		return
	}

	var saved []library.WatchHistory
	if err := database.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", profile.ID, movie.ID).
		Limit(1).
		Find(&saved).Error; err != nil {
		logging.LogErrorWithUser(profile.ID, err, "failed to load watch progress")
	}
	progress := 0
	if len(saved) > 0 {
		progress = saved[0].Progress
	}

	activity.Record(ctx, profile.ID, activity.TypeWatch, "Watched "+movie.Title)
	c.JSON(http.StatusOK, WatchDTO{
		Movie:    toMovieDTO(movie, currentPricing(ctx, database.DB)),
		Access:   decision,
		Source:   source,
		Progress: progress,
	})
}

// ------------------------------
// PUT /movies/:id/progress
// ------------------------------
func SaveProgress(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Progress *int `json:"progress"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Progress == nil || *body.Progress < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be a non-negative number of seconds"})
		return
	}

	ctx := c.Request.Context()
	movie, err := findActiveMovie(ctx, database.DB, c.Param("id"))
	if err != nil {
		respondMovieError(c, err)
		return
	}

	entry := library.WatchHistory{
		UserID:    profile.ID,
		MovieID:   movie.ID,
		Progress:  *body.Progress,
		WatchedAt: time.Now(),
	}
	err = database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "watched_at"}),
	}).Create(&entry).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": entry.Progress, "watched_at": entry.WatchedAt})
}

// ------------------------------
// GET /library?filter=all|free|premium
// ------------------------------
func GetLibrary(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	var entries []library.WatchHistory
	err := database.DB.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", profile.ID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load library"})
		return
	}

	filter := library.ParseFilter(c.Query("filter"))
	pricing := currentPricing(ctx, database.DB)

	kept := library.Apply(filter, entries)
	out := make([]LibraryEntryDTO, 0, len(kept))
	for _, e := range kept {
		out = append(out, LibraryEntryDTO{
			Movie:     toMovieDTO(*e.Movie, pricing),
			Progress:  e.Progress,
			WatchedAt: e.WatchedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter, "entries": out})
}
