package services

import (
	"errors"
	"strings"
	"vetka/internal/db"
	"vetka/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// CanModify is the single ownership predicate shared by post, comment and
// follow mutations. Reads never consult it.
func CanModify(actor *models.User, ownerID uint) bool {
	return actor != nil && actor.ID == ownerID
}

// ValidatePost checks a post payload and returns field-level errors.
func ValidatePost(text string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(text) == "" {
		errs["text"] = "This field may not be blank."
	}
	return errs
}

// ValidateComment checks a comment payload and returns field-level errors.
func ValidateComment(text string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(text) == "" {
		errs["text"] = "This field may not be blank."
	}
	return errs
}

// GetUserByUsername looks a user up by username.
func GetUserByUsername(username string) (models.User, error) {
	var user models.User
	err := db.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	}
	return user, err
}

// GetGroupBySlug looks a group up by its slug.
func GetGroupBySlug(slug string) (models.Group, error) {
	var group models.Group
	err := db.DB.Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return group, ErrNotFound
	}
	return group, err
}

// GetGroupByID looks a group up by primary key.
func GetGroupByID(id uint) (models.Group, error) {
	var group models.Group
	err := db.DB.First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return group, ErrNotFound
	}
	return group, err
}

// GetPostByID returns a post with its author and group loaded.
func GetPostByID(id uint) (models.Post, error) {
	var post models.Post
	err := db.DB.Preload("User").Preload("Group").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return post, ErrNotFound
	}
	return post, err
}

// GetUserPost returns a post addressed the web way: author username plus id.
func GetUserPost(username string, postID uint) (models.Post, error) {
	var post models.Post
	err := db.DB.Preload("User").Preload("Group").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("users.username = ? AND posts.id = ?", username, postID).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return post, ErrNotFound
	}
	return post, err
}

// GetCommentByID returns a comment with its author loaded.
func GetCommentByID(id uint) (models.Comment, error) {
	var comment models.Comment
	err := db.DB.Preload("User").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return comment, ErrNotFound
	}
	return comment, err
}

// ListComments returns a post's comments, oldest first.
func ListComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Preload("User").
		Where("post_id = ?", postID).
		Order("created ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// CreatePost creates a post for the author. A group id, if supplied, must
// reference an existing group.
func CreatePost(authorID uint, text string, groupID *uint) (models.Post, error) {
	if groupID != nil {
		if _, err := GetGroupByID(*groupID); err != nil {
			return models.Post{}, err
		}
	}

	post := models.Post{
		Text:    text,
		UserID:  authorID,
		GroupID: groupID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		return models.Post{}, err
	}
	return GetPostByID(post.ID)
}

// UpdatePost rewrites a post's text and group. The author and publication
// timestamp never change.
func UpdatePost(post *models.Post, text string, groupID *uint) error {
	if groupID != nil {
		if _, err := GetGroupByID(*groupID); err != nil {
			return err
		}
	}
	return db.DB.Model(post).Updates(map[string]interface{}{
		"text":     text,
		"group_id": groupID,
	}).Error
}

// DeletePost removes a post and its comments in one transaction.
func DeletePost(postID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// CreateComment attaches a comment to an existing post.
func CreateComment(postID, authorID uint, text string) (models.Comment, error) {
	if _, err := GetPostByID(postID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: authorID,
		Text:   text,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return models.Comment{}, err
	}
	return GetCommentByID(comment.ID)
}

// DeleteGroup removes a group and clears the group reference on its posts.
// The posts themselves survive.
func DeleteGroup(groupID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}

// DeleteUser removes a user and everything they own: posts (with the posts'
// comments), comments on other posts, follow edges in both directions and
// the API token. The cleanup is explicit so it holds on any SQL backend.
func DeleteUser(userID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
