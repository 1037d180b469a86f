package services

import (
	"testing"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.AuthToken{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	db.DB = gdb
}

func makeUser(t *testing.T, username string) models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}
	user := models.User{Username: username, Password: hash}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func makeGroup(t *testing.T, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: slug, Slug: slug, Description: "test group"}
	if err := db.DB.Create(&group).Error; err != nil {
		t.Fatalf("failed creating group %s: %v", slug, err)
	}
	return group
}

func makePost(t *testing.T, userID uint, text string, groupID *uint) models.Post {
	t.Helper()
	post, err := CreatePost(userID, text, groupID)
	if err != nil {
		t.Fatalf("failed creating post: %v", err)
	}
	return post
}
