package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"heroes-service/models"

	"github.com/jmoiron/sqlx"
)

// CharacterRepo performs CRUD for the unified character entity.
type CharacterRepo struct {
	db *sqlx.DB
}

// NewCharacterRepo creates a character repository.
func NewCharacterRepo(db *sqlx.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// Create persists a character and returns it with the server-assigned id.
func (r *CharacterRepo) Create(req models.CreateCharacterRequest) (models.Character, error) {
	character := models.Character{
		Name:          req.Name,
		SecretName:    req.SecretName,
		Age:           req.Age,
		CharacterType: req.CharacterType,
	}

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		result, err := tx.Exec(
			"INSERT INTO character (name, secret_name, age, character_type) VALUES (?, ?, ?, ?)",
			character.Name, character.SecretName, character.Age, character.CharacterType,
		)
		if err != nil {
			return fmt.Errorf("insert character: %w", err)
		}
		character.CharacterID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return models.Character{}, err
	}
	return character, nil
}

// List returns a page of characters ordered by id.
func (r *CharacterRepo) List(offset, limit int) ([]models.Character, error) {
	offset, limit = clampLimit(offset, limit)

	characters := []models.Character{}
	err := r.db.Select(&characters,
		"SELECT character_id, name, secret_name, age, character_type FROM character ORDER BY character_id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

// GetByID returns one character or ErrNotFound.
func (r *CharacterRepo) GetByID(id int64) (models.Character, error) {
	var character models.Character
	err := r.db.Get(&character,
		"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Character{}, ErrNotFound
	}
	if err != nil {
		return models.Character{}, fmt.Errorf("get character: %w", err)
	}
	return character, nil
}

// ListByType returns all characters of the given category.
func (r *CharacterRepo) ListByType(characterType models.CharacterType) ([]models.Character, error) {
	characters := []models.Character{}
	err := r.db.Select(&characters,
		"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_type = ? ORDER BY character_id",
		characterType,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters by type: %w", err)
	}
	return characters, nil
}

// Update applies only the fields present in req and returns the updated
// row. An empty partial update leaves every field unchanged. Returns
// ErrNotFound if the id does not exist.
func (r *CharacterRepo) Update(id int64, req models.UpdateCharacterRequest) (models.Character, error) {
	var updated models.Character

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Get(&updated,
			"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get character for update: %w", err)
		}

		if req.Empty() {
			return nil
		}

		// Build the SET clause from the supplied fields only
		setParts := []string{}
		args := []interface{}{}

		if req.Name != nil {
			setParts = append(setParts, "name = ?")
			args = append(args, *req.Name)
			updated.Name = *req.Name
		}
		if req.SecretName != nil {
			setParts = append(setParts, "secret_name = ?")
			args = append(args, *req.SecretName)
			updated.SecretName = req.SecretName
		}
		if req.Age != nil {
			setParts = append(setParts, "age = ?")
			args = append(args, *req.Age)
			updated.Age = req.Age
		}
		if req.CharacterType != nil {
			setParts = append(setParts, "character_type = ?")
			args = append(args, *req.CharacterType)
			updated.CharacterType = *req.CharacterType
		}
		args = append(args, id)

		query := "UPDATE character SET " + strings.Join(setParts, ", ") + " WHERE character_id = ?"
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update character: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Character{}, err
	}
	return updated, nil
}

// Delete removes a character and, in the same transaction, every
// character_power row referencing it, so no orphaned associations
// survive. Returns the deleted row's last-known state.
func (r *CharacterRepo) Delete(id int64) (models.Character, error) {
	var deleted models.Character

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Get(&deleted,
			"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get character for delete: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM character_power WHERE character_id = ?", id); err != nil {
			return fmt.Errorf("delete character associations: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM character WHERE character_id = ?", id); err != nil {
			return fmt.Errorf("delete character: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Character{}, err
	}
	return deleted, nil
}
