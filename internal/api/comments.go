package api

import (
	"net/http"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type CommentAPI struct{}

func NewCommentAPI() *CommentAPI {
	return &CommentAPI{}
}

type commentPayload struct {
	Text *string `json:"text"`
}

// parent resolves the :post_id segment every nested route shares.
func (a *CommentAPI) parent(c *gin.Context) (models.Post, bool) {
	post, err := services.GetPostByID(idParam(c, "post_id"))
	if err != nil {
		notFound(c)
		return post, false
	}
	return post, true
}

func (a *CommentAPI) List(c *gin.Context) {
	post, ok := a.parent(c)
	if !ok {
		return
	}

	var count int64
	db.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)

	_, offset, next, prev := listMeta(count, pageParam(c))

	var comments []models.Comment
	db.DB.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created ASC, id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments)

	c.JSON(http.StatusOK, listResponse{
		Count:    count,
		Next:     next,
		Previous: prev,
		Results:  lo.Map(comments, func(com models.Comment, _ int) gin.H { return commentJSON(com) }),
	})
}

func (a *CommentAPI) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	post, ok := a.parent(c)
	if !ok {
		return
	}

	var payload commentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	text := ""
	if payload.Text != nil {
		text = *payload.Text
	}
	if errs := services.ValidateComment(text); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	comment, err := services.CreateComment(post.ID, user.ID, text)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to create comment.")
		return
	}

	c.JSON(http.StatusCreated, commentJSON(comment))
}

// find resolves a comment within its parent post, 404 when either is gone
// or the comment hangs off another post.
func (a *CommentAPI) find(c *gin.Context) (models.Comment, bool) {
	post, ok := a.parent(c)
	if !ok {
		return models.Comment{}, false
	}

	comment, err := services.GetCommentByID(idParam(c, "comment_id"))
	if err != nil || comment.PostID != post.ID {
		notFound(c)
		return comment, false
	}
	return comment, true
}

func (a *CommentAPI) Retrieve(c *gin.Context) {
	comment, ok := a.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment))
}

func (a *CommentAPI) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	comment, ok := a.find(c)
	if !ok {
		return
	}

	if !services.CanModify(user, comment.UserID) {
		permissionDenied(c)
		return
	}

	var payload commentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	text := comment.Text
	if payload.Text != nil {
		text = *payload.Text
	} else if c.Request.Method == http.MethodPut {
		text = ""
	}
	if errs := services.ValidateComment(text); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if err := db.DB.Model(&comment).Update("text", text).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to update comment.")
		return
	}
	comment.Text = text

	c.JSON(http.StatusOK, commentJSON(comment))
}

func (a *CommentAPI) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	comment, ok := a.find(c)
	if !ok {
		return
	}

	if !services.CanModify(user, comment.UserID) {
		permissionDenied(c)
		return
	}

	if err := db.DB.Delete(&models.Comment{}, comment.ID).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to delete comment.")
		return
	}

	c.Status(http.StatusNoContent)
}
