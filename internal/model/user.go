// Package model defines domain entities for the application.
package model

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// User is the persisted user entity.
// Email is unique across all users.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailFingerprint returns a short stable hash of the email for logs.
// The address itself is never logged.
func (u *User) EmailFingerprint() string {
	return EmailFingerprint(u.Email)
}

// EmailFingerprint hashes a normalized email address into 16 hex chars.
func EmailFingerprint(email string) string {
	if email == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:8])
}

// UserFields holds the writable fields of a user.
// On update a nil field leaves the stored value unchanged; on create it is stored as NULL.
type UserFields struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether no field is set.
func (c UserFields) IsEmpty() bool {
	return c.Name == nil && c.Email == nil
}
