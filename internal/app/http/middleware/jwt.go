package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"nontonin-api/config"
	"nontonin-api/database"
	"nontonin-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const profileKey = "profile"

// AuthMiddleware validates the bearer token and loads the caller's profile.
// Role and block status are read from the database, not from the token, so
// a demotion or a block takes effect on the next request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(tokenString), func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		var profile users.Profile
		if err := database.DB.WithContext(c.Request.Context()).Where("id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}
		if profile.IsBlocked() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			c.Abort()
			return
		}

		c.Set("user_id", profile.ID)
		c.Set("email", profile.Email)
		c.Set("role", profile.Role)
		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireRole lets the request through when the caller has any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if value == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		c.Abort()
	}
}

// CurrentProfile returns the profile AuthMiddleware loaded.
func CurrentProfile(c *gin.Context) (users.Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return users.Profile{}, false
	}
	p, ok := v.(users.Profile)
	return p, ok
}

// SetProfile is used by handlers that refresh the profile mid-request and
// by tests that bypass AuthMiddleware.
func SetProfile(c *gin.Context, p users.Profile) {
	c.Set("user_id", p.ID)
	c.Set("email", p.Email)
	c.Set("role", p.Role)
	c.Set(profileKey, p)
}
