package movies

import (
	"time"

	"nontonin-api/internal/domain/access"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/reviews"
	"nontonin-api/internal/domain/settings"
)

// MovieDTO is the public shape of a catalog entry. The video URL is never
// listed; it is only handed out by the watch endpoint.
type MovieDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Genre       string            `json:"genre"`
	Duration    *int              `json:"duration"`
	ReleaseDate *time.Time        `json:"release_date"`
	AccessType  movies.AccessType `json:"access_type"`
	Price       *int64            `json:"price"`
	PosterURL   *string           `json:"poster_url"`
	TrailerURL  *string           `json:"trailer_url"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ShelfDTO struct {
	Key    string     `json:"key"`
	Title  string     `json:"title"`
	Movies []MovieDTO `json:"movies"`
}

type MovieDetailDTO struct {
	Movie         MovieDTO `json:"movie"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

type ReviewerDTO struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

type ReviewDTO struct {
	ID        string       `json:"id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
	User      *ReviewerDTO `json:"user,omitempty"`
}

type WatchDTO struct {
	Movie    MovieDTO        `json:"movie"`
	Access   access.Decision `json:"access"`
	Source   movies.Source   `json:"source"`
	Progress int             `json:"progress"`
}

type LibraryEntryDTO struct {
	Movie     MovieDTO  `json:"movie"`
	Progress  int       `json:"progress"`
	WatchedAt time.Time `json:"watched_at"`
}

// toMovieDTO resolves the purchase price; free movies carry none.
func toMovieDTO(m movies.Movie, pricing settings.Pricing) MovieDTO {
	var price *int64
	if m.IsPremium() {
		p := m.EffectivePrice(pricing.DefaultMoviePrice)
		price = &p
	}
	return MovieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		Duration:    m.Duration,
		ReleaseDate: m.ReleaseDate,
		AccessType:  m.AccessType,
		Price:       price,
		PosterURL:   m.PosterURL,
		TrailerURL:  m.TrailerURL,
		CreatedAt:   m.CreatedAt,
	}
}

func toMovieDTOs(list []movies.Movie, pricing settings.Pricing) []MovieDTO {
	out := make([]MovieDTO, 0, len(list))
	for _, m := range list {
		out = append(out, toMovieDTO(m, pricing))
	}
	return out
}

func toReviewDTO(r reviews.Review) ReviewDTO {
	dto := ReviewDTO{ID: r.ID, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt}
	if r.User != nil {
		dto.User = &ReviewerDTO{ID: r.User.ID, FullName: r.User.FullName, AvatarURL: r.User.AvatarURL}
	}
	return dto
}
