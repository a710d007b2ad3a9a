package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash or the soft-delete flag.
type UserView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time  `json:"createdTimestamp"`
	UpdatedAt   time.Time  `json:"updatedTimestamp"`
}
