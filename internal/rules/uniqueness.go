package rules

import (
	"context"
	"fmt"

	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/outcome"
)

// Failure codes produced by the uniqueness rules. The repository's
// storage-level constraint violations are mapped to the same codes by the
// command service, so callers see one vocabulary regardless of which layer
// caught the conflict.
const (
	CodeEmailExists = "EMAIL_ALREADY_EXISTS"
	CodePhoneExists = "PHONE_ALREADY_EXISTS"
)

// UniquenessReader is the slice of the repository the rules depend on.
type UniquenessReader interface {
	ExistsByEmail(ctx context.Context, normalizedEmail string) (bool, error)
	ExistsByPhoneExcluding(ctx context.Context, phone, excludeID string) (bool, error)
}

// UniqueEmail fails when another live account already holds the candidate's
// normalized email address.
type UniqueEmail struct {
	Repo UniquenessReader
}

func (r UniqueEmail) Check(ctx context.Context, candidate *models.User) outcome.Outcome[outcome.Void] {
	exists, err := r.Repo.ExistsByEmail(ctx, candidate.Email)
	if err != nil {
		return outcome.FromError[outcome.Void]("VALIDATION", err)
	}
	if exists {
		return outcome.Fail[outcome.Void](CodeEmailExists, "Email is not available",
			fmt.Sprintf("The email address %q is already registered", candidate.Email))
	}
	return outcome.OK(outcome.Void{})
}

// UniquePhone fails when another live account already holds the candidate's
// phone number. Uniqueness is sparse: an absent number never conflicts.
// ExcludeID is set on the update path so the account does not collide with
// its own current number.
type UniquePhone struct {
	Repo      UniquenessReader
	ExcludeID string
}

func (r UniquePhone) Check(ctx context.Context, candidate *models.User) outcome.Outcome[outcome.Void] {
	if candidate.PhoneNumber == "" {
		return outcome.OK(outcome.Void{})
	}
	exists, err := r.Repo.ExistsByPhoneExcluding(ctx, candidate.PhoneNumber, r.ExcludeID)
	if err != nil {
		return outcome.FromError[outcome.Void]("VALIDATION", err)
	}
	if exists {
		return outcome.Fail[outcome.Void](CodePhoneExists, "Phone number is not available",
			fmt.Sprintf("The phone number %q is already registered", candidate.PhoneNumber))
	}
	return outcome.OK(outcome.Void{})
}
