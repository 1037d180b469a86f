package api

import (
	"errors"
	"net/http"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type PostAPI struct{}

func NewPostAPI() *PostAPI {
	return &PostAPI{}
}

type postPayload struct {
	Text  *string `json:"text"`
	Group *uint   `json:"group"`
}

func (a *PostAPI) List(c *gin.Context) {
	feed := services.GlobalFeed(pageParam(c))

	_, _, next, prev := listMeta(feed.Count, feed.Number)
	c.JSON(http.StatusOK, listResponse{
		Count:    feed.Count,
		Next:     next,
		Previous: prev,
		Results:  lo.Map(feed.Posts, func(p models.Post, _ int) gin.H { return postJSON(p) }),
	})
}

func (a *PostAPI) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	var payload postPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	text := ""
	if payload.Text != nil {
		text = *payload.Text
	}
	if errs := services.ValidatePost(text); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	post, err := services.CreatePost(user.ID, text, payload.Group)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(c)
			return
		}
		jsonError(c, http.StatusInternalServerError, "Failed to create post.")
		return
	}

	c.JSON(http.StatusCreated, postJSON(post))
}

func (a *PostAPI) Retrieve(c *gin.Context) {
	post, err := services.GetPostByID(idParam(c, "post_id"))
	if err != nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, postJSON(post))
}

func (a *PostAPI) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	post, err := services.GetPostByID(idParam(c, "post_id"))
	if err != nil {
		notFound(c)
		return
	}

	if !services.CanModify(user, post.UserID) {
		permissionDenied(c)
		return
	}

	var payload postPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	text := post.Text
	if payload.Text != nil {
		text = *payload.Text
	} else if c.Request.Method == http.MethodPut {
		text = ""
	}
	if errs := services.ValidatePost(text); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	groupID := post.GroupID
	if payload.Group != nil {
		groupID = payload.Group
	} else if c.Request.Method == http.MethodPut {
		groupID = nil
	}

	if err := services.UpdatePost(&post, text, groupID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(c)
			return
		}
		jsonError(c, http.StatusInternalServerError, "Failed to update post.")
		return
	}

	updated, _ := services.GetPostByID(post.ID)
	c.JSON(http.StatusOK, postJSON(updated))
}

func (a *PostAPI) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	post, err := services.GetPostByID(idParam(c, "post_id"))
	if err != nil {
		notFound(c)
		return
	}

	if !services.CanModify(user, post.UserID) {
		permissionDenied(c)
		return
	}

	if err := services.DeletePost(post.ID); err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to delete post.")
		return
	}

	c.Status(http.StatusNoContent)
}
