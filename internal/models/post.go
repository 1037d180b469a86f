package models

import (
	"time"
)

type Post struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"` // set once at creation
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	GroupID *uint     `gorm:"index" json:"group_id"` // optional; nulled when the group is deleted
	Group   *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`

	UpdatedAt time.Time `json:"updated_at"`

	// Not a database column, filled in by feed queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}
