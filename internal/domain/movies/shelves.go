package movies

import "strings"

const shelfSize = 12

const (
	ShelfTrending = "trending"
	ShelfNewest   = "terbaru"
	ShelfPremium  = "premium"
)

// Genre is a browsable category. Key is matched as a substring of a
// movie's genre, so "aksi" also picks up "Aksi, Drama".
type Genre struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var Genres = []Genre{
	{Key: "aksi", Name: "Aksi"},
	{Key: "romantis", Name: "Romantis"},
	{Key: "komedi", Name: "Komedi"},
	{Key: "horor", Name: "Horor"},
}

type Shelf struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Movies []Movie `json:"movies"`
}

func (m Movie) InGenre(key string) bool {
	return key != "" && strings.Contains(strings.ToLower(m.Genre), strings.ToLower(key))
}

// Shelves builds the categories page from the active catalog, newest first.
func Shelves(catalog []Movie) []Shelf {
	head := catalog
	if len(head) > shelfSize {
		head = head[:shelfSize]
	}

	out := []Shelf{
		{Key: ShelfTrending, Title: "Trending Sekarang", Movies: head},
		{Key: ShelfNewest, Title: "Film Terbaru", Movies: head},
		{Key: ShelfPremium, Title: "Film Premium", Movies: ShelfMovies(catalog, ShelfPremium)},
	}
	for _, g := range Genres {
		out = append(out, Shelf{Key: g.Key, Title: g.Name, Movies: ShelfMovies(catalog, g.Key)})
	}
	return out
}

// ShelfMovies returns the full listing behind a shelf key. Unknown keys are
// treated as genre searches.
func ShelfMovies(catalog []Movie, key string) []Movie {
	out := make([]Movie, 0, len(catalog))
	switch key {
	case ShelfTrending, ShelfNewest:
		return append(out, catalog...)
	case ShelfPremium:
		for _, m := range catalog {
			if m.IsPremium() {
				out = append(out, m)
			}
		}
		return out
	}
	for _, m := range catalog {
		if m.InGenre(key) {
			out = append(out, m)
		}
	}
	return out
}
