package models

// CharacterPower is the many-to-many association row linking a character
// to a power. The pair is the primary key, so at most one row per pair
// can exist.
type CharacterPower struct {
	CharacterID int64 `json:"character_id" db:"character_id"`
	PowerID     int64 `json:"power_id" db:"power_id"`
}

// CharacterPowers is the response for listing a character's powers.
type CharacterPowers struct {
	Character Character `json:"character"`
	Powers    []Power   `json:"powers"`
}

// UnassignedPower is the response for removing a power from a character.
type UnassignedPower struct {
	DeletedPower Power     `json:"deleted_power"`
	DeletedFrom  Character `json:"deleted_from"`
}
