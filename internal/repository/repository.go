package repository

import (
	"context"
	"errors"

	"github.com/harborbank/user-service/internal/models"
)

// Sentinel errors surfaced by every UserRepository implementation.
// Duplicate errors are the storage-level half of the dual-layer uniqueness
// guarantee: the rule pipeline pre-checks optimistically, the repository's
// unique constraints decide races.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicatePhone = errors.New("phone number already exists")
)

// UserRepository is the persistence contract consumed by the command and
// rule layers. Uniqueness lookups only consider non-deleted rows; phone
// uniqueness is sparse (absent phone numbers never collide).
type UserRepository interface {
	ExistsByEmail(ctx context.Context, normalizedEmail string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	// ExistsByPhoneExcluding ignores the row with excludeID, so an update
	// re-submitting the caller's own number does not conflict with itself.
	ExistsByPhoneExcluding(ctx context.Context, phone, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
