package api

import (
	"net/http"
	"strings"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type GroupAPI struct{}

func NewGroupAPI() *GroupAPI {
	return &GroupAPI{}
}

type groupPayload struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (a *GroupAPI) List(c *gin.Context) {
	var count int64
	db.DB.Model(&models.Group{}).Count(&count)

	_, offset, next, prev := listMeta(count, pageParam(c))

	var groups []models.Group
	db.DB.Order("id ASC").Limit(pageSize).Offset(offset).Find(&groups)

	c.JSON(http.StatusOK, listResponse{
		Count:    count,
		Next:     next,
		Previous: prev,
		Results:  lo.Map(groups, func(g models.Group, _ int) gin.H { return groupJSON(g) }),
	})
}

func (a *GroupAPI) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		unauthenticated(c)
		return
	}

	var payload groupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		jsonError(c, http.StatusBadRequest, "Malformed request body.")
		return
	}

	errs := map[string]string{}
	if strings.TrimSpace(payload.Title) == "" {
		errs["title"] = "This field may not be blank."
	}
	if strings.TrimSpace(payload.Slug) == "" {
		errs["slug"] = "This field may not be blank."
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	group := models.Group{
		Title:       payload.Title,
		Slug:        payload.Slug,
		Description: payload.Description,
	}
	if err := db.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"slug": "Group with this slug already exists."})
		return
	}

	c.JSON(http.StatusCreated, groupJSON(group))
}

func (a *GroupAPI) Retrieve(c *gin.Context) {
	group, err := services.GetGroupByID(idParam(c, "group_id"))
	if err != nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, groupJSON(group))
}
