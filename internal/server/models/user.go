package models

import "time"

// User is an account record. Password holds the bcrypt hash and, like the
// avatar blob, never appears in an outward-facing representation.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Avatar    []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
