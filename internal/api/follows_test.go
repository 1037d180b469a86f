package api

import (
	"fmt"
	"net/http"
	"testing"
	"vetka/internal/db"
	"vetka/internal/models"
)

func TestFollowEndpoint(t *testing.T) {
	r := setupAPI(t)
	alice, aliceKey := makeUserToken(t, "alice")
	bob, _ := makeUserToken(t, "bob")

	path := fmt.Sprintf("/api/v1/users/%d/follow", bob.ID)

	if w := doJSON(t, r, http.MethodPost, path, nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous follow, got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, path, nil, aliceKey)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["user"] != "alice" || body["author"] != "bob" {
		t.Errorf("expected alice->bob, got %v -> %v", body["user"], body["author"])
	}

	// Following twice keeps a single relation.
	doJSON(t, r, http.MethodPost, path, nil, aliceKey)
	var count int64
	db.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", alice.ID, bob.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 follow row, got %d", count)
	}

	// The list under a user shows who that user follows.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), nil, "")
	if got := decode(t, w)["count"]; got != float64(1) {
		t.Errorf("expected alice to follow 1 user, got %v", got)
	}
	w = doJSON(t, r, http.MethodGet, path, nil, "")
	if got := decode(t, w)["count"]; got != float64(0) {
		t.Errorf("expected bob to follow nobody, got %v", got)
	}
}

func TestFollowMissingUser(t *testing.T) {
	r := setupAPI(t)
	_, key := makeUserToken(t, "alice")

	if w := doJSON(t, r, http.MethodPost, "/api/v1/users/999/follow", nil, key); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing target, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/users/999/follow", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 listing follows of a missing user, got %d", w.Code)
	}
}
