// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The password is only ever stored as a bcrypt hash, and the hash is never
// serialized: PasswordHash carries `json:"-"` so it cannot leak through any
// handler that encodes a User directly. The same goes for IsAdmin — clients
// learn about admin rights only through what they are allowed to do.
//
// Pseudo and Email are unique across all users. The database enforces this
// with UNIQUE constraints; the service layer pre-checks them to produce
// friendlier conflict messages.
type User struct {
	ID           string    `json:"id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Pseudo       string    `json:"pseudo"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
