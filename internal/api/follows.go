package api

import (
	"net/http"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type FollowAPI struct{}

func NewFollowAPI() *FollowAPI {
	return &FollowAPI{}
}

func (a *FollowAPI) target(c *gin.Context) (models.User, bool) {
	var user models.User
	if err := db.DB.First(&user, idParam(c, "user_id")).Error; err != nil {
		notFound(c)
		return user, false
	}
	return user, true
}

// List returns the follow relations the addressed user has created, i.e.
// who they follow.
func (a *FollowAPI) List(c *gin.Context) {
	user, ok := a.target(c)
	if !ok {
		return
	}

	var count int64
	db.DB.Model(&models.Follow{}).Where("user_id = ?", user.ID).Count(&count)

	_, offset, next, prev := listMeta(count, pageParam(c))

	var follows []models.Follow
	db.DB.Preload("User").Preload("Author").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&follows)

	c.JSON(http.StatusOK, listResponse{
		Count:    count,
		Next:     next,
		Previous: prev,
		Results:  lo.Map(follows, func(f models.Follow, _ int) gin.H { return followJSON(f) }),
	})
}

// Create makes the caller follow the addressed user. Repeating the call
// returns the existing relation.
func (a *FollowAPI) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	author, ok := a.target(c)
	if !ok {
		return
	}

	follow, err := services.FollowUser(user.ID, author.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to follow.")
		return
	}

	follow.User = *user
	follow.Author = author

	c.JSON(http.StatusCreated, followJSON(follow))
}
