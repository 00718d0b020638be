package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hashing latency for brute-force resistance.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The salt is
// embedded in the returned hash, so two calls with the same input
// produce different strings.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether the plaintext matches the stored
// hash. A malformed hash verifies as false, never as an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
