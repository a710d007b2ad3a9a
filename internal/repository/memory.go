package repository

import (
	"context"
	"sync"

	"github.com/harborbank/user-service/internal/models"
)

// MemoryUserRepository stores users in process memory. It enforces the same
// uniqueness guarantees as the Postgres store under a single mutex, which
// makes it a faithful stand-in for tests, including races between concurrent
// registrations.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func clone(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		c.DateOfBirth = &dob
	}
	return &c
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, normalizedEmail string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(normalizedEmail, ""), nil
}

func (r *MemoryUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.ExistsByPhoneExcluding(ctx, phone, "")
}

func (r *MemoryUserRepository) ExistsByPhoneExcluding(ctx context.Context, phone, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phoneTaken(phone, excludeID), nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return nil, ErrDuplicateEmail
	}
	if r.phoneTaken(user.PhoneNumber, "") {
		return nil, ErrDuplicatePhone
	}
	r.users[user.ID] = clone(user)
	return clone(user), nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.Deleted {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok || existing.Deleted {
		return nil, ErrNotFound
	}
	if r.phoneTaken(user.PhoneNumber, user.ID) {
		return nil, ErrDuplicatePhone
	}
	updated := clone(user)
	// The update path never touches immutable columns.
	updated.Email = existing.Email
	updated.PasswordHash = existing.PasswordHash
	updated.CreatedAt = existing.CreatedAt
	updated.Deleted = existing.Deleted
	r.users[user.ID] = updated
	return clone(updated), nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Deleted {
		return ErrNotFound
	}
	u.Deleted = true
	return nil
}

// emailTaken and phoneTaken implement the sparse-uniqueness predicate over
// non-deleted rows. Callers must hold the mutex.
func (r *MemoryUserRepository) emailTaken(email, excludeID string) bool {
	for _, u := range r.users {
		if !u.Deleted && u.ID != excludeID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) phoneTaken(phone, excludeID string) bool {
	if phone == "" {
		return false
	}
	for _, u := range r.users {
		if !u.Deleted && u.ID != excludeID && u.PhoneNumber == phone {
			return true
		}
	}
	return false
}
