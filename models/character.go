package models

// CharacterType is the category of a character. The two recognized values
// are stored verbatim in the character_type column.
type CharacterType string

const (
	TypeHero    CharacterType = "Hero"
	TypeVillain CharacterType = "Villain"
)

// Valid reports whether the type is one of the two recognized categories.
func (t CharacterType) Valid() bool {
	return t == TypeHero || t == TypeVillain
}

// ParseCategory maps a URL path segment ("hero" / "villain", any case) to
// a CharacterType. The bool is false for anything unrecognized.
func ParseCategory(s string) (CharacterType, bool) {
	switch s {
	case "hero", "Hero", "HERO":
		return TypeHero, true
	case "villain", "Villain", "VILLAIN":
		return TypeVillain, true
	}
	return "", false
}

// Character represents a unified hero/villain entity
// Powers are never stored on the row; they are derived through the
// character_power join table.
type Character struct {
	CharacterID   int64         `json:"character_id" db:"character_id"`
	Name          string        `json:"name" db:"name"`
	SecretName    *string       `json:"secret_name" db:"secret_name"`
	Age           *int          `json:"age" db:"age"`
	CharacterType CharacterType `json:"character_type" db:"character_type"`
}

// CreateCharacterRequest represents the request to create a character
// Unknown fields are rejected by the strict decoder in handlers
type CreateCharacterRequest struct {
	Name          string        `json:"name"`
	SecretName    *string       `json:"secret_name"`
	Age           *int          `json:"age"`
	CharacterType CharacterType `json:"character_type"`
}

// UpdateCharacterRequest represents a partial update; nil means the field
// was omitted and keeps its stored value
type UpdateCharacterRequest struct {
	Name          *string        `json:"name"`
	SecretName    *string        `json:"secret_name"`
	Age           *int           `json:"age"`
	CharacterType *CharacterType `json:"character_type"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateCharacterRequest) Empty() bool {
	return r.Name == nil && r.SecretName == nil && r.Age == nil && r.CharacterType == nil
}
