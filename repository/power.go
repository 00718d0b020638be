package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"heroes-service/models"

	"github.com/jmoiron/sqlx"
)

// PowerRepo performs CRUD for powers. power_name uniqueness is enforced
// by the schema and surfaced as ErrConflict.
type PowerRepo struct {
	db *sqlx.DB
}

// NewPowerRepo creates a power repository.
func NewPowerRepo(db *sqlx.DB) *PowerRepo {
	return &PowerRepo{db: db}
}

// Create persists a power and returns it with the server-assigned id.
// A duplicate power_name rolls back and returns ErrConflict.
func (r *PowerRepo) Create(name string, damage int) (models.Power, error) {
	power := models.Power{PowerName: name, PowerDamage: damage}

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		result, err := tx.Exec(
			"INSERT INTO powers (power_name, power_damage) VALUES (?, ?)",
			power.PowerName, power.PowerDamage,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert power: %w", err)
		}
		power.PowerID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return models.Power{}, err
	}
	return power, nil
}

// List returns a page of powers ordered by id.
func (r *PowerRepo) List(offset, limit int) ([]models.Power, error) {
	offset, limit = clampLimit(offset, limit)

	powers := []models.Power{}
	err := r.db.Select(&powers,
		"SELECT power_id, power_name, power_damage FROM powers ORDER BY power_id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list powers: %w", err)
	}
	return powers, nil
}

// GetByID returns exactly the power with the given id, or ErrNotFound.
// The id always scopes the lookup; it never widens to the full list.
func (r *PowerRepo) GetByID(id int64) (models.Power, error) {
	var power models.Power
	err := r.db.Get(&power,
		"SELECT power_id, power_name, power_damage FROM powers WHERE power_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Power{}, ErrNotFound
	}
	if err != nil {
		return models.Power{}, fmt.Errorf("get power: %w", err)
	}
	return power, nil
}

// CharacterIDs returns the ids of all characters the power is assigned
// to. Callers use it to invalidate cached per-character power listings
// before a power mutation removes or renames the join rows.
func (r *PowerRepo) CharacterIDs(powerID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.Select(&ids,
		"SELECT character_id FROM character_power WHERE power_id = ?", powerID)
	if err != nil {
		return nil, fmt.Errorf("list power characters: %w", err)
	}
	return ids, nil
}

// Update applies only the supplied fields. Renaming onto an existing
// power_name returns ErrConflict; a missing id returns ErrNotFound.
func (r *PowerRepo) Update(id int64, req models.UpdatePowerRequest) (models.Power, error) {
	var updated models.Power

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Get(&updated,
			"SELECT power_id, power_name, power_damage FROM powers WHERE power_id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get power for update: %w", err)
		}

		if req.Empty() {
			return nil
		}

		setParts := []string{}
		args := []interface{}{}

		if req.PowerName != nil {
			setParts = append(setParts, "power_name = ?")
			args = append(args, *req.PowerName)
			updated.PowerName = *req.PowerName
		}
		if req.PowerDamage != nil {
			setParts = append(setParts, "power_damage = ?")
			args = append(args, *req.PowerDamage)
			updated.PowerDamage = *req.PowerDamage
		}
		args = append(args, id)

		query := "UPDATE powers SET " + strings.Join(setParts, ", ") + " WHERE power_id = ?"
		if _, err := tx.Exec(query, args...); err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("update power: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Power{}, err
	}
	return updated, nil
}

// Delete removes a power and its character_power rows in one
// transaction. Returns the deleted row's last-known state.
func (r *PowerRepo) Delete(id int64) (models.Power, error) {
	var deleted models.Power

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Get(&deleted,
			"SELECT power_id, power_name, power_damage FROM powers WHERE power_id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get power for delete: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM character_power WHERE power_id = ?", id); err != nil {
			return fmt.Errorf("delete power associations: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM powers WHERE power_id = ?", id); err != nil {
			return fmt.Errorf("delete power: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Power{}, err
	}
	return deleted, nil
}
