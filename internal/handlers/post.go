package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"time"
	"vetka/internal/db"
	"vetka/internal/middleware"
	"vetka/internal/models"
	"vetka/internal/services"
	"vetka/internal/utils"

	"github.com/gin-gonic/gin"
)

const feedCacheKey = "feed:index"

// feedCacheTTL bounds how long the front page may lag behind new posts.
var feedCacheTTL = 20 * time.Second

// InvalidateFeed drops the cached front page so the next read rebuilds it.
func InvalidateFeed() {
	utils.GetCache().Delete(feedCacheKey)
}

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// Index is the global feed. The first page is served from a single shared
// cache slot; deeper pages are always live.
func (h *PostHandler) Index(c *gin.Context) {
	page := pageParam(c)

	if page == 1 {
		if cached := utils.GetCache().Get(feedCacheKey); cached != nil {
			if hData, ok := cached.(gin.H); ok {
				Render(c, http.StatusOK, "post/index.html", hData)
				return
			}
		}
	}

	feed := services.GlobalFeed(page)

	renderData := gin.H{
		"Title":  "Recent updates",
		"Active": "index",
		"Page":   feed,
	}

	if feed.Number == 1 {
		utils.GetCache().Set(feedCacheKey, renderData, feedCacheTTL)
	}

	Render(c, http.StatusOK, "post/index.html", renderData)
}

// GroupPosts is the feed of a single group, addressed by slug.
func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, err := services.GetGroupBySlug(c.Param("slug"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Group not found")
		return
	}

	feed := services.GroupFeed(group.ID, pageParam(c))

	Render(c, http.StatusOK, "post/group.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Page":  feed,
	})
}

// FollowIndex is the home feed: posts by the authors the user follows.
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	feed := services.HomeFeed(user.ID, pageParam(c))

	Render(c, http.StatusOK, "post/follow.html", gin.H{
		"Title":  "Your feed",
		"Active": "follow",
		"Page":   feed,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	var groups []models.Group
	db.DB.Order("id ASC").Find(&groups)

	Render(c, http.StatusOK, "post/create.html", gin.H{
		"Title":  "New post",
		"Groups": groups,
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	text := c.PostForm("text")
	groupID := formGroupID(c)

	if errs := services.ValidatePost(text); len(errs) > 0 {
		var groups []models.Group
		db.DB.Order("id ASC").Find(&groups)
		Render(c, http.StatusBadRequest, "post/create.html", gin.H{
			"Title":       "New post",
			"Groups":      groups,
			"FieldErrors": errs,
			"Text":        text,
		})
		return
	}

	if _, err := services.CreatePost(user.ID, text, groupID); err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to create post"
		if err == services.ErrNotFound {
			status = http.StatusNotFound
			msg = "Group not found"
		}
		RenderError(c, status, msg)
		return
	}

	// The cached front page keeps serving until its TTL lapses; new posts
	// show up late on purpose.
	c.Redirect(http.StatusFound, "/")
}

// Detail shows one post with its comments and the author's profile counters.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	comments, _ := services.ListComments(post.ID)

	type renderedComment struct {
		models.Comment
		TextHTML template.HTML
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{Comment: com, TextHTML: utils.RenderMarkdown(com.Text)}
	}

	authorPosts := services.AuthorFeed(post.UserID, 1)

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":          fmt.Sprintf("Post by %s", post.User.Username),
		"Post":           post,
		"PostText":       utils.RenderMarkdown(post.Text),
		"Comments":       rendered,
		"Author":         post.User,
		"PostCount":      authorPosts.Count,
		"FollowerCount":  services.FollowerCount(post.UserID),
		"FollowingCount": services.FollowingCount(post.UserID),
	})
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// Only the author may edit; everyone else is bounced back to the post.
	if !services.CanModify(user, post.UserID) {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	var groups []models.Group
	db.DB.Order("id ASC").Find(&groups)

	Render(c, http.StatusOK, "post/edit.html", gin.H{
		"Title":  "Edit post",
		"Post":   post,
		"Groups": groups,
	})
}

func (h *PostHandler) Edit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if !services.CanModify(user, post.UserID) {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	text := c.PostForm("text")
	groupID := formGroupID(c)

	if errs := services.ValidatePost(text); len(errs) > 0 {
		var groups []models.Group
		db.DB.Order("id ASC").Find(&groups)
		Render(c, http.StatusBadRequest, "post/edit.html", gin.H{
			"Title":       "Edit post",
			"Post":        post,
			"Groups":      groups,
			"FieldErrors": errs,
		})
		return
	}

	if err := services.UpdatePost(&post, text, groupID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	c.Redirect(http.StatusFound, postPath(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if !services.CanModify(user, post.UserID) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := services.DeletePost(post.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	InvalidateFeed()

	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	text := c.PostForm("text")
	if errs := services.ValidateComment(text); len(errs) > 0 {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	if _, err := services.CreateComment(post.ID, user.ID, text); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	c.Redirect(http.StatusFound, postPath(post))
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := services.GetUserPost(c.Param("username"), uint(utils.StringToInt(c.Param("post_id"))))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	comment, err := services.GetCommentByID(uint(utils.StringToInt(c.Param("comment_id"))))
	if err != nil || comment.PostID != post.ID {
		RenderError(c, http.StatusNotFound, "Comment not found")
		return
	}

	if !services.CanModify(user, comment.UserID) {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	db.DB.Delete(&models.Comment{}, comment.ID)

	c.Redirect(http.StatusFound, postPath(post))
}

// Search is a plain substring search over post text, capped like a feed page
// times five; no pagination.
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var posts []models.Post
	if query != "" {
		db.DB.Preload("User").Preload("Group").
			Where("text LIKE ?", "%"+query+"%").
			Order("pub_date DESC, id DESC").
			Limit(50).
			Find(&posts)
		services.FillCommentCounts(posts)
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Title": "Search",
		"Query": query,
		"Posts": posts,
	})
}

func postPath(post models.Post) string {
	return fmt.Sprintf("/%s/%d", post.User.Username, post.ID)
}

func formGroupID(c *gin.Context) *uint {
	raw := c.PostForm("group")
	if raw == "" {
		return nil
	}
	id := uint(utils.StringToInt(raw))
	if id == 0 {
		return nil
	}
	return &id
}
