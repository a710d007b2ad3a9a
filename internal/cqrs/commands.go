package cqrs

import "time"

// RegisterUserCommand carries everything needed to onboard a new user.
// Email arrives raw; the command service normalizes it before any check.
type RegisterUserCommand struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DisplayName string
	DateOfBirth *time.Time
	PhoneNumber string
}

// UpdateUserCommand carries the whitelisted mutable fields of an existing
// user. Email and password are deliberately absent: they cannot change
// through this path.
type UpdateUserCommand struct {
	UserID      string
	FirstName   string
	LastName    string
	DisplayName string
	DateOfBirth *time.Time
	PhoneNumber string
}

type DeleteUserCommand struct {
	UserID string
}
