package movies

import (
	"strings"

	"gorm.io/gorm"
)

// CatalogFilter replaces ad-hoc query branching on the catalog pages.
type CatalogFilter struct {
	Status string
	Genre  string
	Access AccessType
	Title  string
	Limit  int
}

// PublicCatalog is what anonymous and signed-in viewers browse.
func PublicCatalog() CatalogFilter {
	return CatalogFilter{Status: StatusActive}
}

func (f CatalogFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&Movie{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		q = q.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(g)+"%")
	}
	if f.Access != "" {
		q = q.Where("access_type = ?", f.Access)
	}
	if t := strings.TrimSpace(f.Title); t != "" {
		q = q.Where("title ILIKE ?", "%"+t+"%")
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}
