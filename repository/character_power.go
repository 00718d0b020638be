package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"heroes-service/models"

	"github.com/jmoiron/sqlx"
)

// CharacterPowerRepo manages the character↔power association. The join
// table's composite primary key guarantees at most one row per pair.
type CharacterPowerRepo struct {
	db *sqlx.DB
}

// NewCharacterPowerRepo creates an association repository.
func NewCharacterPowerRepo(db *sqlx.DB) *CharacterPowerRepo {
	return &CharacterPowerRepo{db: db}
}

// Assign creates the join row for (characterID, powerID). ErrNotFound if
// either referenced entity is absent, ErrConflict if the pair already
// exists.
func (r *CharacterPowerRepo) Assign(characterID, powerID int64) error {
	return inTx(r.db, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.Get(&exists, "SELECT 1 FROM character WHERE character_id = ?", characterID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check character: %w", err)
		}

		err = tx.Get(&exists, "SELECT 1 FROM powers WHERE power_id = ?", powerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check power: %w", err)
		}

		_, err = tx.Exec(
			"INSERT INTO character_power (character_id, power_id) VALUES (?, ?)",
			characterID, powerID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert character_power: %w", err)
		}
		return nil
	})
}

// ListForCharacter returns the character together with its powers,
// derived by joining through character_power. ErrNotFound if the
// character does not exist; a character without powers yields an empty
// (non-nil) slice.
func (r *CharacterPowerRepo) ListForCharacter(characterID int64) (models.CharacterPowers, error) {
	var result models.CharacterPowers

	err := r.db.Get(&result.Character,
		"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_id = ?",
		characterID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CharacterPowers{}, ErrNotFound
	}
	if err != nil {
		return models.CharacterPowers{}, fmt.Errorf("get character: %w", err)
	}

	result.Powers = []models.Power{}
	err = r.db.Select(&result.Powers,
		`SELECT p.power_id, p.power_name, p.power_damage
		 FROM powers p
		 JOIN character_power cp ON cp.power_id = p.power_id
		 WHERE cp.character_id = ?
		 ORDER BY p.power_id`,
		characterID,
	)
	if err != nil {
		return models.CharacterPowers{}, fmt.Errorf("list character powers: %w", err)
	}
	return result, nil
}

// Unassign removes the join row for (characterID, powerID) and returns
// the power and character it linked, for the response body. ErrNotFound
// if the association does not exist.
func (r *CharacterPowerRepo) Unassign(characterID, powerID int64) (models.UnassignedPower, error) {
	var removed models.UnassignedPower

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Get(&removed.DeletedFrom,
			"SELECT character_id, name, secret_name, age, character_type FROM character WHERE character_id = ?",
			characterID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get character: %w", err)
		}

		err = tx.Get(&removed.DeletedPower,
			"SELECT power_id, power_name, power_damage FROM powers WHERE power_id = ?", powerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get power: %w", err)
		}

		result, err := tx.Exec(
			"DELETE FROM character_power WHERE character_id = ? AND power_id = ?",
			characterID, powerID,
		)
		if err != nil {
			return fmt.Errorf("delete character_power: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return models.UnassignedPower{}, err
	}
	return removed, nil
}
