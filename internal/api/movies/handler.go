package movies

import (
	"errors"
	"net/http"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/reviews"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// GET /movies?genre=&access=&q=
// ------------------------------
func ListMovies(c *gin.Context) {
	filter := movies.PublicCatalog()
	filter.Genre = c.Query("genre")
	filter.Title = c.Query("q")
	if a := c.Query("access"); a != "" {
		if !movies.ValidAccessType(a) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid access filter"})
			return
		}
		filter.Access = movies.AccessType(a)
	}

	ctx := c.Request.Context()
	var list []movies.Movie
	if err := filter.Apply(database.DB.WithContext(ctx)).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movies": toMovieDTOs(list, currentPricing(ctx, database.DB))})
}

// ------------------------------
// GET /movies/:id
// ------------------------------
func GetMovie(c *gin.Context) {
	ctx := c.Request.Context()
	movie, err := findActiveMovie(ctx, database.DB, c.Param("id"))
	if err != nil {
		respondMovieError(c, err)
		return
	}

	var ratings []reviews.Review
	if err := database.DB.WithContext(ctx).Select("rating").Where("movie_id = ?", movie.ID).Find(&ratings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, MovieDetailDTO{
		Movie:         toMovieDTO(movie, currentPricing(ctx, database.DB)),
		AverageRating: reviews.Average(ratings),
		ReviewCount:   len(ratings),
	})
}

// ------------------------------
// GET /categories
// ------------------------------
func GetCategories(c *gin.Context) {
	ctx := c.Request.Context()
	var catalog []movies.Movie
	if err := movies.PublicCatalog().Apply(database.DB.WithContext(ctx)).Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}
	pricing := currentPricing(ctx, database.DB)

	shelves := movies.Shelves(catalog)
	out := make([]ShelfDTO, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, ShelfDTO{Key: s.Key, Title: s.Title, Movies: toMovieDTOs(s.Movies, pricing)})
	}
	c.JSON(http.StatusOK, gin.H{"shelves": out, "genres": movies.Genres})
}

// ------------------------------
// GET /categories/:key
// ------------------------------
func GetCategory(c *gin.Context) {
	ctx := c.Request.Context()
	var catalog []movies.Movie
	if err := movies.PublicCatalog().Apply(database.DB.WithContext(ctx)).Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}

	key := c.Param("key")
	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"movies": toMovieDTOs(movies.ShelfMovies(catalog, key), currentPricing(ctx, database.DB)),
	})
}

// ------------------------------
// GET /movies/:id/reviews
// ------------------------------
func ListReviews(c *gin.Context) {
	var list []reviews.Review
	err := database.DB.WithContext(c.Request.Context()).
		Preload("User").
		Where("movie_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	out := make([]ReviewDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toReviewDTO(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":        out,
		"average_rating": reviews.Average(list),
		"review_count":   len(list),
	})
}

// ------------------------------
// POST /movies/:id/reviews
// ------------------------------
func CreateReview(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	movie, err := findActiveMovie(ctx, database.DB, c.Param("id"))
	if err != nil {
		respondMovieError(c, err)
		return
	}

	review, err := reviews.New(profile.ID, movie.ID, body.Rating, body.Comment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.WithContext(ctx).Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}
	review.User = &profile

	activity.Record(ctx, profile.ID, activity.TypeReview, "Reviewed "+movie.Title)
	c.JSON(http.StatusCreated, toReviewDTO(review))
}

func respondMovieError(c *gin.Context, err error) {
	if errors.Is(err, errMovieNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movie"})
}
