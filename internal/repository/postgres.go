package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/harborbank/user-service/internal/models"
)

// Partial unique index names on the users table. Both are declared over
// non-deleted rows only, so a soft-deleted account frees its identifiers:
//
//	CREATE UNIQUE INDEX users_email_unique ON users (email) WHERE deleted_at IS NULL;
//	CREATE UNIQUE INDEX users_phone_unique ON users (phone_number)
//	    WHERE deleted_at IS NULL AND phone_number <> '';
const (
	emailUniqueConstraint = "users_email_unique"
	phoneUniqueConstraint = "users_phone_unique"
)

// PostgresUserRepository is the write store (source of truth) for users.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, normalizedEmail string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, normalizedEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.ExistsByPhoneExcluding(ctx, phone, "")
}

func (r *PostgresUserRepository) ExistsByPhoneExcluding(ctx context.Context, phone, excludeID string) (bool, error) {
	if phone == "" {
		return false, nil
	}
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE phone_number = $1 AND id <> $2 AND deleted_at IS NULL
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, phone, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check phone existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name,
			display_name, date_of_birth, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		nullString(user.DisplayName), nullTime(user.DateOfBirth), user.PhoneNumber,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   display_name, date_of_birth, phone_number, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var user models.User
	var displayName sql.NullString
	var dateOfBirth sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&displayName, &dateOfBirth, &user.PhoneNumber,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if displayName.Valid {
		user.DisplayName = displayName.String
	}
	if dateOfBirth.Valid {
		dob := dateOfBirth.Time
		user.DateOfBirth = &dob
	}
	return &user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, display_name = $4,
			date_of_birth = $5, phone_number = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, nullString(user.DisplayName),
		nullTime(user.DateOfBirth), user.PhoneNumber, user.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return user, nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// duplicateError maps a pq unique_violation (23505) to the matching
// sentinel, keyed on the violated constraint.
func duplicateError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return nil
	}
	switch pqErr.Constraint {
	case phoneUniqueConstraint:
		return ErrDuplicatePhone
	case emailUniqueConstraint:
		return ErrDuplicateEmail
	default:
		return ErrDuplicateEmail
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
