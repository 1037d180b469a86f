package services

import (
	"math"
	"vetka/internal/db"
	"vetka/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// PageSize is fixed for every post listing in the system.
const PageSize = 10

// Page is one slice of a feed plus the metadata pagination controls need.
type Page struct {
	Posts      []models.Post
	Number     int
	TotalPages int
	Count      int64
	HasNext    bool
	HasPrev    bool
}

// GlobalFeed returns all posts, newest first.
func GlobalFeed(page int) Page {
	return buildPage(func() *gorm.DB {
		return db.DB.Model(&models.Post{})
	}, page)
}

// GroupFeed returns the posts filed under one group.
func GroupFeed(groupID uint, page int) Page {
	return buildPage(func() *gorm.DB {
		return db.DB.Model(&models.Post{}).Where("group_id = ?", groupID)
	}, page)
}

// AuthorFeed returns the posts written by one user.
func AuthorFeed(userID uint, page int) Page {
	return buildPage(func() *gorm.DB {
		return db.DB.Model(&models.Post{}).Where("user_id = ?", userID)
	}, page)
}

// HomeFeed returns the posts written by the authors the user follows.
// A user following nobody gets an empty first page, not an error.
func HomeFeed(userID uint, page int) Page {
	return buildPage(func() *gorm.DB {
		followed := db.DB.Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", userID)
		return db.DB.Model(&models.Post{}).Where("user_id IN (?)", followed)
	}, page)
}

// buildPage runs the count-then-slice pattern shared by every feed shape.
// The base query is built twice because gorm chains accumulate state.
func buildPage(base func() *gorm.DB, page int) Page {
	var total int64
	base().Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	// Out-of-range page numbers clamp to the nearest valid page.
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var posts []models.Post
	base().
		Preload("User").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&posts)

	FillCommentCounts(posts)

	return Page{
		Posts:      posts,
		Number:     page,
		TotalPages: totalPages,
		Count:      total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// FillCommentCounts batch-fills the comment counter on a post slice.
func FillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := lo.Associate(results, func(r countResult) (uint, int) {
		return r.PostID, r.Count
	})

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}
