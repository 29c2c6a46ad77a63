package models

import "time"

// User is an account in the system. Accounts authenticate by email and are
// deactivated instead of deleted.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	Created      time.Time `json:"created"`
}
