package admin

import (
	"net/http"
	"strconv"

	"nontonin-api/database"
	"nontonin-api/internal/domain/activity"

	"github.com/gin-gonic/gin"
)

const maxActivityRows = 500

// ListActivity returns the newest activity log entries. Query: type, user_id,
// limit (default 100).
func ListActivity(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxActivityRows)
	}

	q := database.DB.WithContext(c.Request.Context()).Model(&activity.Log{})
	if t := c.Query("type"); t != "" {
		q = q.Where("activity_type = ?", t)
	}
	if u := c.Query("user_id"); u != "" {
		q = q.Where("user_id = ?", u)
	}

	var logs []activity.Log
	if err := q.Preload("User").Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
