package repository

import (
	"errors"
	"fmt"
	"testing"

	"heroes-service/models"
)

func TestCharacterCreateAssignsID(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))

	secret := "Steve Rogers"
	age := 105
	character, err := repo.Create(models.CreateCharacterRequest{
		Name:          "Captain America",
		SecretName:    &secret,
		Age:           &age,
		CharacterType: models.TypeHero,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if character.CharacterID == 0 {
		t.Error("Expected server-assigned character_id")
	}

	second := createTestCharacter(t, repo, "Ultron", models.TypeVillain)
	if second.CharacterID == character.CharacterID {
		t.Error("Expected a fresh key for the second character")
	}
}

func TestCharacterGetByID(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))
	created := createTestCharacter(t, repo, "Spiderman", models.TypeHero)

	got, err := repo.GetByID(created.CharacterID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Spiderman" || got.CharacterType != models.TypeHero {
		t.Errorf("Unexpected character: %+v", got)
	}

	if _, err := repo.GetByID(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCharacterListPagination(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))

	for i := 0; i < 12; i++ {
		createTestCharacter(t, repo, fmt.Sprintf("Hero %d", i), models.TypeHero)
	}

	// Defaults: offset 0, limit 10
	page, err := repo.List(0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != DefaultLimit {
		t.Errorf("Expected %d characters, got %d", DefaultLimit, len(page))
	}

	rest, err := repo.List(10, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("Expected 2 characters on second page, got %d", len(rest))
	}
}

func TestCharacterListByType(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))
	createTestCharacter(t, repo, "Spiderman", models.TypeHero)
	createTestCharacter(t, repo, "Thanos", models.TypeVillain)
	createTestCharacter(t, repo, "Ultron", models.TypeVillain)

	villains, err := repo.ListByType(models.TypeVillain)
	if err != nil {
		t.Fatalf("ListByType failed: %v", err)
	}
	if len(villains) != 2 {
		t.Errorf("Expected 2 villains, got %d", len(villains))
	}
	for _, v := range villains {
		if v.CharacterType != models.TypeVillain {
			t.Errorf("Expected villain, got %s", v.CharacterType)
		}
	}
}

func TestCharacterUpdatePartial(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))
	created := createTestCharacter(t, repo, "Spiderman", models.TypeHero)

	// Single-field patch: only secret_name changes
	secret := "Peter Parker"
	updated, err := repo.Update(created.CharacterID, models.UpdateCharacterRequest{SecretName: &secret})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SecretName == nil || *updated.SecretName != "Peter Parker" {
		t.Errorf("Expected secret_name updated, got %+v", updated.SecretName)
	}
	if updated.Name != "Spiderman" || updated.CharacterType != models.TypeHero {
		t.Errorf("Fields outside the patch changed: %+v", updated)
	}

	// Empty partial update leaves every field unchanged
	unchanged, err := repo.Update(created.CharacterID, models.UpdateCharacterRequest{})
	if err != nil {
		t.Fatalf("Empty update failed: %v", err)
	}
	if unchanged.Name != "Spiderman" || *unchanged.SecretName != "Peter Parker" {
		t.Errorf("Empty update changed fields: %+v", unchanged)
	}

	if _, err := repo.Update(9999, models.UpdateCharacterRequest{SecretName: &secret}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCharacterDelete(t *testing.T) {
	repo := NewCharacterRepo(newTestDB(t))
	created := createTestCharacter(t, repo, "Ultron", models.TypeVillain)

	deleted, err := repo.Delete(created.CharacterID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.Name != "Ultron" {
		t.Errorf("Expected last-known state of deleted row, got %+v", deleted)
	}

	if _, err := repo.GetByID(created.CharacterID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.Delete(created.CharacterID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestCharacterDeleteCascadesAssociations(t *testing.T) {
	db := newTestDB(t)
	characters := NewCharacterRepo(db)
	powers := NewPowerRepo(db)
	links := NewCharacterPowerRepo(db)

	character := createTestCharacter(t, characters, "Spiderman", models.TypeHero)
	power := createTestPower(t, powers, "Web Shooting", 320)

	if err := links.Assign(character.CharacterID, power.PowerID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if _, err := characters.Delete(character.CharacterID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM character_power WHERE character_id = ?", character.CharacterID); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no orphaned join rows, got %d", count)
	}
}
