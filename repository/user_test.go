package repository

import (
	"errors"
	"testing"
)

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	user, err := repo.Create("juani", "$2a$12$fakehashfakehashfakehash")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.UserID == 0 {
		t.Error("Expected server-assigned user_id")
	}

	got, err := repo.GetByUsername("juani")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.UserID != user.UserID || got.HashPassword != user.HashPassword {
		t.Errorf("Unexpected user: %+v", got)
	}

	if _, err := repo.GetByUsername("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUsernameConflict(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	if _, err := repo.Create("juani", "hash-one"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := repo.Create("juani", "hash-two")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}

	// The conflicting write rolled back; the original hash is intact.
	got, err := repo.GetByUsername("juani")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.HashPassword != "hash-one" {
		t.Errorf("Conflicting write leaked into the store: %s", got.HashPassword)
	}
}
