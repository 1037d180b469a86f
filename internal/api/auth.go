package api

import (
	"net/http"
	"strings"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TokenAPI struct{}

func NewTokenAPI() *TokenAPI {
	return &TokenAPI{}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Obtain exchanges credentials for the caller's opaque API key. Each user
// has exactly one key; repeated calls return the same one.
func (a *TokenAPI) Obtain(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	errs := map[string]string{}
	if payload.Username == "" {
		errs["username"] = "This field may not be blank."
	}
	if payload.Password == "" {
		errs["password"] = "This field may not be blank."
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		jsonError(c, http.StatusBadRequest, "Unable to log in with provided credentials.")
		return
	}
	if !utils.CheckPasswordHash(payload.Password, user.Password) {
		jsonError(c, http.StatusBadRequest, "Unable to log in with provided credentials.")
		return
	}

	token := models.AuthToken{
		UserID: user.ID,
		Key:    strings.ReplaceAll(uuid.New().String(), "-", ""),
	}
	if err := db.DB.Where("user_id = ?", user.ID).FirstOrCreate(&token).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Key})
}
