package models

// User represents a login-capable account
// HashPassword is stored hashed (bcrypt); never returned in JSON responses
type User struct {
	UserID       int64  `json:"user_id" db:"user_id"`
	Username     string `json:"username" db:"username"`
	HashPassword string `json:"-" db:"hash_password"`
}

// CreateUserRequest represents the request to create a user
// Password is plaintext here and hashed in the handler before storage
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserPublic is the response projection of a user: no hash, no internals.
type UserPublic struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "bearer"
}
