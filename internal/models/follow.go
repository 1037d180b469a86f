package models

import (
	"time"
)

// Follow is a directed edge: User follows Author. The pair index keeps the
// first-or-create path from racing itself into duplicate rows.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"user_id"`
	User     User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AuthorID uint `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	CreatedAt time.Time `json:"created_at"`
}
