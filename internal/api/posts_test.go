package api

import (
	"fmt"
	"net/http"
	"testing"
	"vetka/internal/db"
	"vetka/internal/models"
	"vetka/internal/services"

	"github.com/gin-gonic/gin"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", gin.H{"text": "hi"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous create, got %d", w.Code)
	}

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected create must not persist, found %d posts", count)
	}
}

func TestCreatePostValidation(t *testing.T) {
	r := setupAPI(t)
	_, key := makeUserToken(t, "leo")

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", gin.H{"text": "  "}, key)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", w.Code)
	}
	if decode(t, w)["text"] == nil {
		t.Error("expected a field-level error for text")
	}
}

func TestCreatePostWithMissingGroup(t *testing.T) {
	r := setupAPI(t)
	_, key := makeUserToken(t, "leo")

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", gin.H{"text": "hi", "group": 999}, key)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing group, got %d", w.Code)
	}
}

func TestCreatePostWithGroup(t *testing.T) {
	r := setupAPI(t)
	_, key := makeUserToken(t, "leo")

	group := models.Group{Title: "Tech", Slug: "tech"}
	db.DB.Create(&group)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", gin.H{"text": "hi", "group": group.ID}, key)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["group"]; got != float64(group.ID) {
		t.Errorf("expected group %d in response, got %v", group.ID, got)
	}
}

func TestListPostsPagination(t *testing.T) {
	r := setupAPI(t)
	user, _ := makeUserToken(t, "leo")

	for i := 0; i < 13; i++ {
		if _, err := services.CreatePost(user.ID, fmt.Sprintf("post %d", i), nil); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/posts", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["count"] != float64(13) {
		t.Errorf("expected count 13, got %v", body["count"])
	}
	if got := len(body["results"].([]interface{})); got != 10 {
		t.Errorf("expected 10 results on page 1, got %d", got)
	}
	if body["next"] != float64(2) {
		t.Errorf("expected next page 2, got %v", body["next"])
	}
	if body["previous"] != nil {
		t.Errorf("expected no previous page, got %v", body["previous"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts?page=2", nil, "")
	body = decode(t, w)
	if got := len(body["results"].([]interface{})); got != 3 {
		t.Errorf("expected 3 results on page 2, got %d", got)
	}
	if body["previous"] != float64(1) {
		t.Errorf("expected previous page 1, got %v", body["previous"])
	}
}

func TestRetrievePost(t *testing.T) {
	r := setupAPI(t)
	user, _ := makeUserToken(t, "leo")
	post, _ := services.CreatePost(user.ID, "hello", nil)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode(t, w)["text"]; got != "hello" {
		t.Errorf("expected text hello, got %v", got)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/999", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing post, got %d", w.Code)
	}
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	r := setupAPI(t)
	owner, ownerKey := makeUserToken(t, "owner")
	_, otherKey := makeUserToken(t, "other")
	post, _ := services.CreatePost(owner.ID, "original", nil)

	path := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	w := doJSON(t, r, http.MethodPatch, path, gin.H{"text": "hacked"}, otherKey)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPatch, path, gin.H{"text": "hacked"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous, got %d", w.Code)
	}

	reloaded, _ := services.GetPostByID(post.ID)
	if reloaded.Text != "original" {
		t.Errorf("rejected update must not mutate, got %q", reloaded.Text)
	}

	w = doJSON(t, r, http.MethodPatch, path, gin.H{"text": "edited"}, ownerKey)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["text"]; got != "edited" {
		t.Errorf("expected edited text, got %v", got)
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	r := setupAPI(t)
	owner, ownerKey := makeUserToken(t, "owner")
	_, otherKey := makeUserToken(t, "other")
	post, _ := services.CreatePost(owner.ID, "doomed", nil)

	path := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	if w := doJSON(t, r, http.MethodDelete, path, nil, otherKey); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, nil, ownerKey); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for owner delete, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, path, nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
