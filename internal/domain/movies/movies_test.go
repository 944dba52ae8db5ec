package movies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, int64(30000), Movie{Price: ptr(int64(30000))}.EffectivePrice(15000))
	assert.Equal(t, int64(15000), Movie{}.EffectivePrice(15000))
	assert.Equal(t, int64(15000), Movie{Price: ptr(int64(0))}.EffectivePrice(15000))
}

func TestPlayableSource(t *testing.T) {
	tests := []struct {
		name     string
		movie    Movie
		wantOK   bool
		wantKind SourceKind
		wantEmb  string
	}{
		{
			name:     "youtube watch url",
			movie:    Movie{VideoURL: ptr("https://www.youtube.com/watch?v=dQw4w9WgXcQ")},
			wantOK:   true,
			wantKind: SourceYouTube,
			wantEmb:  "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
		},
		{
			name:     "youtu.be short link",
			movie:    Movie{VideoURL: ptr("https://youtu.be/dQw4w9WgXcQ")},
			wantOK:   true,
			wantKind: SourceYouTube,
			wantEmb:  "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
		},
		{
			name:     "google drive file",
			movie:    Movie{VideoURL: ptr("https://drive.google.com/file/d/1AbC_d-EF/view?usp=sharing")},
			wantOK:   true,
			wantKind: SourceDrive,
			wantEmb:  "https://drive.google.com/file/d/1AbC_d-EF/preview",
		},
		{
			name:     "direct mp4 falls back to trailer",
			movie:    Movie{TrailerURL: ptr("https://cdn.example.com/trailer.mp4")},
			wantOK:   true,
			wantKind: SourceDirect,
		},
		{
			name:   "no url",
			movie:  Movie{VideoURL: ptr("")},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok := tt.movie.PlayableSource()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, src.Kind)
			assert.Equal(t, tt.wantEmb, src.EmbedURL)
		})
	}
}

func TestShelves(t *testing.T) {
	catalog := []Movie{
		{ID: "1", Genre: "Aksi, Drama", AccessType: AccessPremium},
		{ID: "2", Genre: "Komedi", AccessType: AccessFree},
		{ID: "3", Genre: "horor", AccessType: AccessPremium},
	}

	shelves := Shelves(catalog)
	byKey := map[string][]Movie{}
	for _, s := range shelves {
		byKey[s.Key] = s.Movies
	}

	assert.Len(t, byKey[ShelfTrending], 3)
	assert.Len(t, byKey[ShelfPremium], 2)
	assert.Len(t, byKey["aksi"], 1)
	assert.Equal(t, "3", byKey["horor"][0].ID)
	assert.Empty(t, byKey["romantis"])
}

func TestShelfMovies_TrendingIsCapped(t *testing.T) {
	catalog := make([]Movie, 20)
	assert.Len(t, Shelves(catalog)[0].Movies, 12)
	assert.Len(t, ShelfMovies(catalog, ShelfNewest), 20)
	assert.Empty(t, ShelfMovies(catalog, "aksi"))
}
