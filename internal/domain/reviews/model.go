package reviews

import (
	"errors"
	"strings"
	"time"

	"nontonin-api/internal/domain/users"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

const maxCommentLength = 2000

type Review struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *users.Profile `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	MovieID   string         `gorm:"type:uuid;not null;index" json:"movie_id"`
	Rating    int            `gorm:"not null" json:"rating"`
	Comment   string         `json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
}

func New(userID, movieID string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		comment = comment[:maxCommentLength]
	}
	return Review{UserID: userID, MovieID: movieID, Rating: rating, Comment: comment}, nil
}

// Average returns the mean rating rounded to one decimal, 0 when empty.
func Average(list []Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(list))
	return float64(int(avg*10+0.5)) / 10
}
