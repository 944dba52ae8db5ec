package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/media"
	"nontonin-api/internal/domain/users"
	"nontonin-api/internal/infra/logging"
	"nontonin-api/internal/infra/storage"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, BuildMeResponse(time.Now(), profile))
}

func UpdateCurrentUser(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		FullName *string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if body.FullName == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	name := strings.TrimSpace(*body.FullName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name cannot be empty"})
		return
	}

	if err := database.DB.Model(&users.Profile{}).Where("id = ?", profile.ID).Update("full_name", name).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	profile.FullName = name

	activity.Record(c.Request.Context(), profile.ID, activity.TypeProfileUpdated, "Updated profile")
	c.JSON(http.StatusOK, BuildMeResponse(time.Now(), profile))
}

// AvatarHandler needs object storage, so it is a struct rather than a free
// handler like the rest of the package.
type AvatarHandler struct {
	store media.Uploader
}

func NewAvatarHandler(store media.Uploader) *AvatarHandler {
	return &AvatarHandler{store: store}
}

func (h *AvatarHandler) Upload(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing avatar file"})
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

	ctx := c.Request.Context()
	url, err := h.store.Upload(ctx, storage.ObjectKey(storage.FolderAvatars, profile.ID, img.Filename), img.Body, img.ContentType)
	if err != nil {
		logging.LogErrorWithUser(profile.ID, err, "avatar upload")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload avatar"})
		return
	}

	if err := database.DB.Model(&users.Profile{}).Where("id = ?", profile.ID).Update("avatar_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	if profile.AvatarURL != nil {
		if key, ours := h.store.KeyFromURL(*profile.AvatarURL); ours {
			if err := h.store.Delete(ctx, key); err != nil {
				logging.LogErrorWithUser(profile.ID, err, "failed to delete previous avatar")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
