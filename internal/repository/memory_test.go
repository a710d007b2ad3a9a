package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harborbank/user-service/internal/models"
)

func seedUser(id, email, phone string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID: id, Email: email, PasswordHash: "hash",
		FirstName: "A", LastName: "B", PhoneNumber: phone,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, seedUser("usr-1", "a@x.com", ""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "usr-1" {
		t.Errorf("unexpected id %q", created.ID)
	}

	got, err := repo.GetByID(ctx, "usr-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Errorf("unexpected email %q", got.Email)
	}
}

func TestMemoryDuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, seedUser("usr-1", "a@x.com", "")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := repo.Create(ctx, seedUser("usr-2", "a@x.com", ""))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryDuplicatePhone(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, seedUser("usr-1", "a@x.com", "+441234567890")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := repo.Create(ctx, seedUser("usr-2", "b@x.com", "+441234567890"))
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestMemorySparsePhoneUniqueness(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, seedUser("usr-1", "a@x.com", "")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := repo.Create(ctx, seedUser("usr-2", "b@x.com", "")); err != nil {
		t.Errorf("two accounts without phone numbers must not conflict: %v", err)
	}
}

func TestMemoryExistsByEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	repo.Create(ctx, seedUser("usr-1", "a@x.com", ""))

	exists, _ := repo.ExistsByEmail(ctx, "a@x.com")
	if !exists {
		t.Error("expected a@x.com to exist")
	}
	exists, _ = repo.ExistsByEmail(ctx, "b@x.com")
	if exists {
		t.Error("expected b@x.com to be free")
	}
}

func TestMemoryExistsByPhoneExcluding(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	repo.Create(ctx, seedUser("usr-1", "a@x.com", "+441234567890"))

	exists, _ := repo.ExistsByPhoneExcluding(ctx, "+441234567890", "usr-1")
	if exists {
		t.Error("a user must not conflict with its own phone number")
	}
	exists, _ = repo.ExistsByPhoneExcluding(ctx, "+441234567890", "usr-2")
	if !exists {
		t.Error("another user must see the number as taken")
	}
}

func TestMemoryUpdatePreservesImmutableFields(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	created, _ := repo.Create(ctx, seedUser("usr-1", "a@x.com", ""))

	tampered := *created
	tampered.Email = "evil@x.com"
	tampered.PasswordHash = "other-hash"
	tampered.FirstName = "Updated"
	tampered.UpdatedAt = created.UpdatedAt.Add(time.Second)

	updated, err := repo.Update(ctx, &tampered)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "a@x.com" || updated.PasswordHash != "hash" {
		t.Error("update must not change email or password hash")
	}
	if updated.FirstName != "Updated" {
		t.Error("whitelisted field was not applied")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("createdAt must be immutable")
	}
}

func TestMemoryUpdateNotFound(t *testing.T) {
	repo := NewMemoryUserRepository()
	_, err := repo.Update(context.Background(), seedUser("usr-missing", "a@x.com", ""))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDeleteFreesIdentifiers(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	repo.Create(ctx, seedUser("usr-1", "a@x.com", "+441234567890"))

	if err := repo.Delete(ctx, "usr-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "usr-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("soft-deleted user must not be fetchable, got %v", err)
	}
	// Uniqueness excludes soft-deleted rows.
	if _, err := repo.Create(ctx, seedUser("usr-2", "a@x.com", "+441234567890")); err != nil {
		t.Errorf("identifiers of a deleted account must be reusable: %v", err)
	}
}

func TestMemoryDeleteNotFound(t *testing.T) {
	repo := NewMemoryUserRepository()
	if err := repo.Delete(context.Background(), "usr-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	repo.Create(ctx, seedUser("usr-1", "a@x.com", ""))

	got, _ := repo.GetByID(ctx, "usr-1")
	got.Email = "mutated@x.com"

	again, _ := repo.GetByID(ctx, "usr-1")
	if again.Email != "a@x.com" {
		t.Error("GetByID must return a copy, not the stored record")
	}
}
