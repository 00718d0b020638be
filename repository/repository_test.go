package repository

import (
	"testing"

	"heroes-service/models"

	"github.com/jmoiron/sqlx"
)

// Mirrors database/migrations; tests run against in-memory SQLite.
const testSchema = `
CREATE TABLE character (
    character_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    secret_name TEXT,
    age INTEGER,
    character_type TEXT NOT NULL CHECK (character_type IN ('Hero', 'Villain'))
);

CREATE TABLE powers (
    power_id INTEGER PRIMARY KEY AUTOINCREMENT,
    power_name TEXT NOT NULL UNIQUE,
    power_damage INTEGER NOT NULL CHECK (power_damage BETWEEN 0 AND 1000)
);

CREATE TABLE character_power (
    character_id INTEGER NOT NULL REFERENCES character (character_id),
    power_id INTEGER NOT NULL REFERENCES powers (power_id),
    PRIMARY KEY (character_id, power_id)
);

CREATE TABLE users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    hash_password TEXT NOT NULL
);
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection would see a different empty :memory: db.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestCharacter(t *testing.T, repo *CharacterRepo, name string, characterType models.CharacterType) models.Character {
	t.Helper()

	character, err := repo.Create(models.CreateCharacterRequest{
		Name:          name,
		CharacterType: characterType,
	})
	if err != nil {
		t.Fatalf("create character %s: %v", name, err)
	}
	return character
}

func createTestPower(t *testing.T, repo *PowerRepo, name string, damage int) models.Power {
	t.Helper()

	power, err := repo.Create(name, damage)
	if err != nil {
		t.Fatalf("create power %s: %v", name, err)
	}
	return power
}
