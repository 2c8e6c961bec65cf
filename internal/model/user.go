// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is tagged `json:"-"` so it never leaves the server, even when a
// handler encodes the whole struct. Accounts created through GitHub sign-in have
// no password; their PasswordHash is empty and GitHubID is set instead.
type User struct {
	ID           string    `json:"id"`
	Forenames    string    `json:"forenames"`
	Surname      string    `json:"surname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
