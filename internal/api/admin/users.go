package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nontonin-api/database"
	"nontonin-api/internal/api/auth"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/subscription"
	"nontonin-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	FullName            string     `json:"full_name"`
	AvatarURL           *string    `json:"avatar_url"`
	Role                string     `json:"role"`
	Status              string     `json:"status"`
	SubscriptionStatus  string     `json:"subscription_status"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toAdminUser(now time.Time, p users.Profile) AdminUser {
	// Report the effective status; the stored column lags behind expiry.
	status := subscription.StatusFree
	if subscription.IsActive(p.SubscriptionEndDate, now) {
		status = subscription.StatusPremium
	}
	return AdminUser{
		ID:                  p.ID,
		Email:               p.Email,
		FullName:            p.FullName,
		AvatarURL:           p.AvatarURL,
		Role:                p.Role,
		Status:              p.Status,
		SubscriptionStatus:  string(status),
		SubscriptionEndDate: p.SubscriptionEndDate,
		CreatedAt:           p.CreatedAt,
	}
}

// ListAllUsers supports ?q= (email or name), ?role= and ?status=.
func ListAllUsers(c *gin.Context) {
	filter := users.ProfileFilter{Search: c.Query("q")}
	if r := c.Query("role"); r != "" {
		if !users.ValidRole(r) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
			return
		}
		filter.Role = r
	}
	if s := c.Query("status"); s != "" {
		if !users.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = s
	}

	var list []users.Profile
	if err := filter.Apply(database.DB.WithContext(c.Request.Context())).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	now := time.Now()
	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, toAdminUser(now, u))
	}
	c.JSON(http.StatusOK, adminUsers)
}

func GetUserDetails(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	var user users.Profile
	if err := database.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		respondLookupError(c, err, "User not found")
		return
	}

	var list []billing.Transaction
	if err := (billing.TransactionFilter{UserID: userID}).
		Apply(database.DB.WithContext(ctx)).
		Preload("Movie").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	txs := make([]AdminTransaction, 0, len(list))
	for _, t := range list {
		t.User = &user
		txs = append(txs, toAdminTransaction(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         toAdminUser(time.Now(), user),
		"transactions": txs,
	})
}

// UpdateUserStatus blocks or unblocks an account. Admins cannot block
// themselves.
func UpdateUserStatus(c *gin.Context) {
	actor, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !users.ValidStatus(body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or blocked"})
		return
	}

	target := c.Param("id")
	if target == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own status"})
		return
	}

	current, ok := manageableProfile(c, actor, target)
	if !ok {
		return
	}

	if !updateProfile(c, target, map[string]interface{}{"status": body.Status}) {
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Set status of "+current.Email+" to "+body.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": body.Status})
}

// UpdateUserRole promotes or demotes an account. Granting or revoking
// super_admin is reserved to super admins.
func UpdateUserRole(c *gin.Context) {
	actor, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !users.ValidRole(body.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	target := c.Param("id")
	if target == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
		return
	}

	if body.Role == users.RoleSuperAdmin && actor.Role != users.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": errSuperAdminOnly})
		return
	}
	current, ok := manageableProfile(c, actor, target)
	if !ok {
		return
	}

	if !updateProfile(c, target, map[string]interface{}{"role": body.Role}) {
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Set role of "+current.Email+" to "+body.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": body.Role})
}

// CreateUser provisions a confirmed account with a chosen role.
func CreateUser(c *gin.Context) {
	actor, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, full name and role are required"})
		return
	}

	email := auth.NormalizeEmail(input.Email)
	if !auth.IsEmailValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if !users.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	if input.Role == users.RoleSuperAdmin && actor.Role != users.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a super admin can create super admins"})
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	profile := users.Profile{
		Email:        email,
		Password:     &hashed,
		AuthProvider: "local",
		FullName:     strings.TrimSpace(input.FullName),
		Role:         input.Role,
		Status:       users.StatusActive,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Created user "+profile.Email+" as "+profile.Role)
	c.JSON(http.StatusCreated, toAdminUser(time.Now(), profile))
}

// UpdateUserPassword sets a new password for any account.
func UpdateUserPassword(c *gin.Context) {
	actor, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	hashed, err := auth.HashPassword(body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	target := c.Param("id")
	current, ok := manageableProfile(c, actor, target)
	if !ok {
		return
	}
	if !updateProfile(c, target, map[string]interface{}{"password": hashed}) {
		return
	}

	activity.Record(c.Request.Context(), actor.ID, activity.TypeAdminAction, "Reset password of "+current.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

const errSuperAdminOnly = "Only a super admin can manage super admins"

// manageableProfile loads the target account and rejects actors who may
// not touch it: super admin accounts are managed by super admins only.
// On false the response has been written.
func manageableProfile(c *gin.Context, actor users.Profile, id string) (users.Profile, bool) {
	var current users.Profile
	if err := database.DB.WithContext(c.Request.Context()).Where("id = ?", id).First(&current).Error; err != nil {
		respondLookupError(c, err, "User not found")
		return users.Profile{}, false
	}
	if current.Role == users.RoleSuperAdmin && actor.Role != users.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": errSuperAdminOnly})
		return users.Profile{}, false
	}
	return current, true
}

// updateProfile writes fields to one profile and reports whether it did;
// on false the response has been written.
func updateProfile(c *gin.Context, id string, fields map[string]interface{}) bool {
	res := database.DB.WithContext(c.Request.Context()).
		Model(&users.Profile{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return false
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return false
	}
	return true
}

func respondLookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
