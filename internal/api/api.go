// Package api is the REST surface under /api/v1. It exposes the same
// resources as the web handlers, serialized as JSON with opaque-token auth.
package api

import (
	"math"
	"net/http"
	"time"
	"vetka/internal/middleware"
	"vetka/internal/models"
	"vetka/internal/utils"

	"github.com/gin-gonic/gin"
)

// Register wires every API resource onto the version group.
func Register(v1 *gin.RouterGroup) {
	tokenAPI := NewTokenAPI()
	postAPI := NewPostAPI()
	commentAPI := NewCommentAPI()
	groupAPI := NewGroupAPI()
	followAPI := NewFollowAPI()

	v1.POST("/api-token-auth", tokenAPI.Obtain)

	v1.GET("/posts", postAPI.List)
	v1.POST("/posts", postAPI.Create)
	v1.GET("/posts/:post_id", postAPI.Retrieve)
	v1.PUT("/posts/:post_id", postAPI.Update)
	v1.PATCH("/posts/:post_id", postAPI.Update)
	v1.DELETE("/posts/:post_id", postAPI.Delete)

	v1.GET("/posts/:post_id/comments", commentAPI.List)
	v1.POST("/posts/:post_id/comments", commentAPI.Create)
	v1.GET("/posts/:post_id/comments/:comment_id", commentAPI.Retrieve)
	v1.PUT("/posts/:post_id/comments/:comment_id", commentAPI.Update)
	v1.PATCH("/posts/:post_id/comments/:comment_id", commentAPI.Update)
	v1.DELETE("/posts/:post_id/comments/:comment_id", commentAPI.Delete)

	v1.GET("/groups", groupAPI.List)
	v1.POST("/groups", groupAPI.Create)
	v1.GET("/groups/:group_id", groupAPI.Retrieve)

	v1.GET("/users/:user_id/follow", followAPI.List)
	v1.POST("/users/:user_id/follow", followAPI.Create)
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func jsonError(c *gin.Context, code int, detail string) {
	c.JSON(code, gin.H{"detail": detail})
}

func unauthenticated(c *gin.Context) {
	jsonError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
}

func permissionDenied(c *gin.Context) {
	jsonError(c, http.StatusForbidden, "You do not have permission to perform this action.")
}

func notFound(c *gin.Context) {
	jsonError(c, http.StatusNotFound, "Not found.")
}

func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func idParam(c *gin.Context, name string) uint {
	return uint(utils.StringToInt(c.Param(name)))
}

// listResponse is the envelope every list endpoint returns. Next and
// Previous are page numbers, null at either end.
type listResponse struct {
	Count    int64       `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

// listMeta clamps a 1-based page number against the row count and returns
// the offset plus next/previous pointers.
func listMeta(count int64, page int) (clamped, offset int, next, prev *int) {
	totalPages := int(math.Ceil(float64(count) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < totalPages {
		n := page + 1
		next = &n
	}
	if page > 1 {
		p := page - 1
		prev = &p
	}
	return page, (page - 1) * pageSize, next, prev
}

const pageSize = 10

func postJSON(p models.Post) gin.H {
	var group interface{}
	if p.GroupID != nil {
		group = *p.GroupID
	}
	return gin.H{
		"id":       p.ID,
		"author":   p.User.Username,
		"text":     p.Text,
		"pub_date": p.PubDate.UTC().Format(time.RFC3339),
		"group":    group,
	}
}

func commentJSON(com models.Comment) gin.H {
	return gin.H{
		"id":      com.ID,
		"author":  com.User.Username,
		"post":    com.PostID,
		"text":    com.Text,
		"created": com.Created.UTC().Format(time.RFC3339),
	}
}

func groupJSON(g models.Group) gin.H {
	return gin.H{
		"id":          g.ID,
		"title":       g.Title,
		"slug":        g.Slug,
		"description": g.Description,
	}
}

func followJSON(f models.Follow) gin.H {
	return gin.H{
		"id":     f.ID,
		"user":   f.User.Username,
		"author": f.Author.Username,
	}
}
