package services

import (
	"vetka/internal/db"
	"vetka/internal/models"
)

// FollowUser records that user follows author. Following someone twice is a
// no-op: the existing row is reused, never duplicated.
func FollowUser(userID, authorID uint) (models.Follow, error) {
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	err := db.DB.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&follow).Error
	return follow, err
}

// UnfollowUser removes the relation if present. Unfollowing someone you do
// not follow is treated as already done, not an error.
func UnfollowUser(userID, authorID uint) error {
	return db.DB.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether user follows author.
func IsFollowing(userID, authorID uint) bool {
	var count int64
	db.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count)
	return count > 0
}

// FollowerCount returns how many users follow this user.
func FollowerCount(userID uint) int64 {
	var count int64
	db.DB.Model(&models.Follow{}).Where("author_id = ?", userID).Count(&count)
	return count
}

// FollowingCount returns how many users this user follows.
func FollowingCount(userID uint) int64 {
	var count int64
	db.DB.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count)
	return count
}

// ListFollowing returns the follow rows created by the user, newest first.
func ListFollowing(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := db.DB.Preload("User").Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&follows).Error
	return follows, err
}
