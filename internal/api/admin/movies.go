package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/media"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/infra/logging"
	"nontonin-api/internal/infra/storage"

	"github.com/gin-gonic/gin"
)

// MovieInput is shared by create and update. Pointer fields left out of an
// update keep their stored value.
type MovieInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
	Duration    *int    `json:"duration"`
	ReleaseDate *string `json:"release_date"`
	AccessType  *string `json:"access_type"`
	Price       *int64  `json:"price"`
	VideoURL    *string `json:"video_url"`
	TrailerURL  *string `json:"trailer_url"`
	PosterURL   *string `json:"poster_url"`
	Status      *string `json:"status"`
}

var errInvalidMovie = errors.New("invalid movie")

func invalid(msg string) error {
	return errors.Join(errInvalidMovie, errors.New(msg))
}

// apply copies the set fields onto m and validates the result.
func (in MovieInput) apply(m *movies.Movie) error {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Genre != nil {
		m.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.Duration != nil {
		if *in.Duration < 0 {
			return invalid("duration cannot be negative")
		}
		m.Duration = in.Duration
	}
	if in.ReleaseDate != nil {
		if *in.ReleaseDate == "" {
			m.ReleaseDate = nil
		} else {
			d, err := time.Parse("2006-01-02", *in.ReleaseDate)
			if err != nil {
				return invalid("release_date must be YYYY-MM-DD")
			}
			m.ReleaseDate = &d
		}
	}
	if in.AccessType != nil {
		if !movies.ValidAccessType(*in.AccessType) {
			return invalid("access_type must be free or premium")
		}
		m.AccessType = movies.AccessType(*in.AccessType)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return invalid("price cannot be negative")
		}
		m.Price = in.Price
	}
	if in.VideoURL != nil {
		m.VideoURL = optional(*in.VideoURL)
	}
	if in.TrailerURL != nil {
		m.TrailerURL = optional(*in.TrailerURL)
	}
	if in.PosterURL != nil {
		m.PosterURL = optional(*in.PosterURL)
	}
	if in.Status != nil {
		if *in.Status != movies.StatusActive && *in.Status != movies.StatusInactive {
			return invalid("status must be active or inactive")
		}
		m.Status = *in.Status
	}

	if m.Title == "" {
		return invalid("title is required")
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func respondMovieInputError(c *gin.Context, err error) {
	if errors.Is(err, errInvalidMovie) {
		msg := err.Error()
		if i := strings.LastIndex(msg, "\n"); i >= 0 {
			msg = msg[i+1:]
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

// ListMovies shows the whole catalog, inactive movies included.
func ListMovies(c *gin.Context) {
	filter := movies.CatalogFilter{
		Status: c.Query("status"),
		Genre:  c.Query("genre"),
		Title:  c.Query("q"),
	}
	if a := c.Query("access"); a != "" {
		if !movies.ValidAccessType(a) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid access filter"})
			return
		}
		filter.Access = movies.AccessType(a)
	}

	var list []movies.Movie
	if err := filter.Apply(database.DB.WithContext(c.Request.Context())).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetMovie(c *gin.Context) {
	var m movies.Movie
	if err := database.DB.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		respondLookupError(c, err, "Movie not found")
		return
	}
	c.JSON(http.StatusOK, m)
}

func CreateMovie(c *gin.Context) {
	actor, _ := middleware.CurrentProfile(c)

	var in MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	m := movies.Movie{AccessType: movies.AccessFree, Status: movies.StatusActive}
	if err := in.apply(&m); err != nil {
		respondMovieInputError(c, err)
		return
	}

	if err := database.DB.WithContext(c.Request.Context()).Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie"})
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Created movie "+m.Title)
	c.JSON(http.StatusCreated, m)
}

func UpdateMovie(c *gin.Context) {
	actor, _ := middleware.CurrentProfile(c)
	ctx := c.Request.Context()

	var in MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var m movies.Movie
	if err := database.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		respondLookupError(c, err, "Movie not found")
		return
	}
	if err := in.apply(&m); err != nil {
		respondMovieInputError(c, err)
		return
	}

	if err := database.DB.WithContext(ctx).Save(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie"})
		return
	}

	activity.Record(ctx, actor.ID, activity.TypeAdminAction, "Updated movie "+m.Title)
	c.JSON(http.StatusOK, m)
}

// MovieHandler groups the movie routes that touch object storage.
type MovieHandler struct {
	store media.Uploader
}

func NewMovieHandler(store media.Uploader) *MovieHandler {
	return &MovieHandler{store: store}
}

// Delete removes the movie row and, when the poster lives in our bucket,
// the poster object. Purchases keep their history with movie_id set to NULL.
func (h *MovieHandler) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentProfile(c)
	ctx := c.Request.Context()

	var m movies.Movie
	if err := database.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		respondLookupError(c, err, "Movie not found")
		return
	}
	if err := database.DB.WithContext(ctx).Delete(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete movie"})
		return
	}

	h.deletePoster(c, m.PosterURL)

	activity.Record(ctx, actor.ID, activity.TypeAdminAction, "Deleted movie "+m.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Movie deleted"})
}

// UploadPoster stores the "poster" form file and points the movie at it.
func (h *MovieHandler) UploadPoster(c *gin.Context) {
	actor, _ := middleware.CurrentProfile(c)
	ctx := c.Request.Context()

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	var m movies.Movie
	if err := database.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		respondLookupError(c, err, "Movie not found")
		return
	}

	fh, err := c.FormFile("poster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing poster file"})
		return
	}
	img, err := media.OpenImage(fh)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, media.ErrImageTooLarge) || errors.Is(err, media.ErrUnsupportedType) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer img.Body.Close()

	url, err := h.store.Upload(ctx, storage.ObjectKey(storage.FolderPosters, m.ID, img.Filename), img.Body, img.ContentType)
	if err != nil {
		logging.LogErrorWithUser(actor.ID, err, "poster upload")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload poster"})
		return
	}

	previous := m.PosterURL
	if err := database.DB.WithContext(ctx).Model(&m).Update("poster_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save poster"})
		return
	}
	h.deletePoster(c, previous)

	activity.Record(ctx, actor.ID, activity.TypeAdminAction, "Uploaded poster for "+m.Title)
	c.JSON(http.StatusOK, gin.H{"poster_url": url})
}

func (h *MovieHandler) deletePoster(c *gin.Context, url *string) {
	if h.store == nil || url == nil {
		return
	}
	key, ours := h.store.KeyFromURL(*url)
	if !ours {
		return
	}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		logging.LogError(err, "failed to delete poster "+key)
	}
}
