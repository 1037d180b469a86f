package middleware

import (
	"net/http"
	"strings"
	"vetka/internal/db"
	"vetka/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// LoadTokenUser resolves the Authorization header to a user for API calls.
// A missing or unknown token leaves the request anonymous; read endpoints
// stay open and write handlers reject anonymous callers themselves.
func LoadTokenUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		key := ""
		switch {
		case strings.HasPrefix(header, "Token "):
			key = strings.TrimPrefix(header, "Token ")
		case strings.HasPrefix(header, "Bearer "):
			key = strings.TrimPrefix(header, "Bearer ")
		}
		if key != "" {
			var token models.AuthToken
			if err := db.DB.Preload("User").Where("key = ?", key).First(&token).Error; err == nil {
				c.Set(CheckUserKey, &token.User)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user on the context, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
