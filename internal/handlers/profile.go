package handlers

import (
	"net/http"
	"vetka/internal/middleware"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Profile shows a user's page: their posts plus follow counters.
func (h *ProfileHandler) Profile(c *gin.Context) {
	author, err := services.GetUserByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	feed := services.AuthorFeed(author.ID, pageParam(c))

	following := false
	if user := middleware.CurrentUser(c); user != nil {
		following = services.IsFollowing(user.ID, author.ID)
	}

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":          author.Username,
		"Author":         author,
		"Page":           feed,
		"PostCount":      feed.Count,
		"FollowerCount":  services.FollowerCount(author.ID),
		"FollowingCount": services.FollowingCount(author.ID),
		"Following":      following,
	})
}

// Follow makes the session user follow the profile owner. Following yourself
// is silently skipped, as is following someone twice.
func (h *ProfileHandler) Follow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	if username == user.Username {
		c.Redirect(http.StatusFound, "/follow")
		return
	}

	author, err := services.GetUserByUsername(username)
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if _, err := services.FollowUser(user.ID, author.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to follow")
		return
	}

	c.Redirect(http.StatusFound, "/follow")
}

// Unfollow removes the relation; removing an absent relation is a no-op.
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	author, err := services.GetUserByUsername(c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := services.UnfollowUser(user.ID, author.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to unfollow")
		return
	}

	c.Redirect(http.StatusFound, "/follow")
}
