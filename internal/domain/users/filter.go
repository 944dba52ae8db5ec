package users

import (
	"strings"

	"gorm.io/gorm"
)

// ProfileFilter is the admin user list query.
type ProfileFilter struct {
	Search string
	Role   string
	Status string
}

func (f ProfileFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&Profile{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q.Order("created_at DESC")
}
