// Package model defines domain entities for the application.
package model

import "time"

// User is an account that owns contacts.
// Users are created at registration and never modified afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"createdAt"`
}
