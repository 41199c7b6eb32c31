// Package auth hashes passwords and signs bearer tokens.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this many bytes.
const maxBcryptInput = 72

var ErrEmptyPassword = errors.New("password must not be empty")

// cost is a variable so tests can use bcrypt.MinCost.
var cost = bcrypt.DefaultCost

// prepare maps passwords longer than the bcrypt input limit to their SHA-256
// hex digest. Hashing and verification both go through it.
func prepare(password string) []byte {
	if len(password) > maxBcryptInput {
		sum := sha256.Sum256([]byte(password))
		return []byte(hex.EncodeToString(sum[:]))
	}
	return []byte(password)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword(prepare(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(password)) == nil
}
