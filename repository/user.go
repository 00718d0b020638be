package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"heroes-service/models"

	"github.com/jmoiron/sqlx"
)

// UserRepo stores login accounts. Usernames are unique; the password
// arrives here already hashed.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a user repository.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create persists a user. A taken username rolls back and returns
// ErrConflict.
func (r *UserRepo) Create(username, hashPassword string) (models.User, error) {
	user := models.User{Username: username, HashPassword: hashPassword}

	err := inTx(r.db, func(tx *sqlx.Tx) error {
		result, err := tx.Exec(
			"INSERT INTO users (username, hash_password) VALUES (?, ?)",
			user.Username, user.HashPassword,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert user: %w", err)
		}
		user.UserID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetByUsername returns the stored user, including the password hash for
// login verification, or ErrNotFound.
func (r *UserRepo) GetByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Get(&user,
		"SELECT user_id, username, hash_password FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
