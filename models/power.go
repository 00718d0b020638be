package models

// Damage bounds for a power, enforced at the request boundary.
const (
	MinPowerDamage = 0
	MaxPowerDamage = 1000
)

// Power represents a named ability with a damage value
// power_name is unique at the storage layer; violations surface as 409
type Power struct {
	PowerID     int64  `json:"power_id" db:"power_id"`
	PowerName   string `json:"power_name" db:"power_name"`
	PowerDamage int    `json:"power_damage" db:"power_damage"`
}

// CreatePowerRequest represents the request to create a power
type CreatePowerRequest struct {
	PowerName   string `json:"power_name"`
	PowerDamage *int   `json:"power_damage"`
}

// UpdatePowerRequest represents a partial update; nil fields keep their
// stored value
type UpdatePowerRequest struct {
	PowerName   *string `json:"power_name"`
	PowerDamage *int    `json:"power_damage"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdatePowerRequest) Empty() bool {
	return r.PowerName == nil && r.PowerDamage == nil
}

// DamageInRange reports whether a damage value is inside [0, 1000].
func DamageInRange(damage int) bool {
	return damage >= MinPowerDamage && damage <= MaxPowerDamage
}
