package models

import "time"

// User is the write model for a registered user.
// PasswordHash is never serialised; Deleted mirrors the storage-level
// deleted_at column and is only toggled by the delete path.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DisplayName  string     `json:"displayName,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	Deleted      bool       `json:"-"`
	CreatedAt    time.Time  `json:"createdTimestamp"`
	UpdatedAt    time.Time  `json:"updatedTimestamp"`
}
