// Package models defines server-side data models persisted by repositories
// and passed between services.
package models

import "time"

// Account is a staff or administrator login.
type Account struct {
	ID           string
	Name         string
	PasswordHash []byte
	IsAdmin      bool
	// TOTPSecret is the base32 secret bound after a confirmed enrollment.
	// Empty while two-factor authentication is disabled.
	TOTPSecret  string
	TOTPEnabled bool
	CreatedAt   time.Time
}
