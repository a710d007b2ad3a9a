package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harborbank/user-service/internal/cqrs"
	"github.com/harborbank/user-service/internal/events"
	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/outcome"
	"github.com/harborbank/user-service/internal/repository"
	"github.com/harborbank/user-service/internal/rules"
	"github.com/harborbank/user-service/internal/utils"
)

// Failure codes produced by the command service itself. The uniqueness codes
// live next to the rules that own them, in the rules package.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeMissingEmail    = "MISSING_EMAIL"
	CodeMissingPassword = "MISSING_PASSWORD"
	CodeUserNotFound    = "USER_NOT_FOUND"
)

// EventPublisher is the write-side event sink. Publish failures never fail
// the business operation; they are logged and dropped.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// ViewCacher keeps the read model current after mutations.
type ViewCacher interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

// UserCommandService orchestrates registration, update and deletion of
// users: presence checks, normalization, the rule pipeline, password
// encoding and persistence, in that order. It is stateless and safe for
// concurrent use; it holds no lock across the rule pipeline and the
// repository write, so the storage-level unique constraints remain the
// final authority on races.
type UserCommandService struct {
	repo      repository.UserRepository
	cache     ViewCacher
	publisher EventPublisher

	registrationRules rules.Pipeline
}

// NewUserCommandService wires the command service. cache and publisher may
// be nil, in which case the corresponding side effects are skipped.
func NewUserCommandService(repo repository.UserRepository, cache ViewCacher, publisher EventPublisher) *UserCommandService {
	return &UserCommandService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		registrationRules: rules.Pipeline{
			rules.UniqueEmail{Repo: repo},
			rules.UniquePhone{Repo: repo},
		},
	}
}

// RegisterUser onboards a new user. Every expected failure is returned as a
// failed outcome; faults that escape the individual steps (including panics
// inside a rule or the repository) are caught here and come back as
// REGISTRATION_ERROR.
func (s *UserCommandService) RegisterUser(ctx context.Context, cmd *cqrs.RegisterUserCommand) (result outcome.Outcome[*models.UserView]) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("RegisterUser: recovered from panic: %v", rec)
			result = outcome.FromError[*models.UserView]("REGISTRATION", fmt.Errorf("%v", rec))
		}
	}()

	if cmd == nil {
		return outcome.Fail[*models.UserView](CodeInvalidRequest, "Request body is required")
	}
	email := utils.NormalizeEmail(cmd.Email)
	if email == "" {
		return outcome.Fail[*models.UserView](CodeMissingEmail, "Email is required")
	}
	if strings.TrimSpace(cmd.Password) == "" {
		return outcome.Fail[*models.UserView](CodeMissingPassword, "Password is required")
	}

	// Candidate is unsaved: no ID, no hash yet.
	candidate := &models.User{
		Email:       email,
		FirstName:   cmd.FirstName,
		LastName:    cmd.LastName,
		DisplayName: cmd.DisplayName,
		DateOfBirth: cmd.DateOfBirth,
		PhoneNumber: cmd.PhoneNumber,
	}

	if res := s.registrationRules.Run(ctx, candidate); !res.Success() {
		// A fault inside a rule (a failed uniqueness lookup, say) is an
		// operational error of this operation, not a business failure.
		if res.IsFault() {
			log.Printf("RegisterUser: rule evaluation failed: %v", res.Details())
			return outcome.FaultOf[*models.UserView](res, "REGISTRATION")
		}
		return outcome.FailureOf[*models.UserView](res)
	}

	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		log.Printf("RegisterUser: password encoding failed: %v", err)
		return outcome.FromError[*models.UserView]("REGISTRATION", err)
	}

	now := time.Now().UTC()
	candidate.ID = utils.GenerateID("usr")
	candidate.PasswordHash = hash
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		// A concurrent registration may have won the race after the rule
		// pipeline passed; report it exactly like the pipeline would.
		if dup := duplicateOutcome[*models.UserView](err); dup != nil {
			return *dup
		}
		log.Printf("RegisterUser: create failed: %v", err)
		return outcome.FromError[*models.UserView]("REGISTRATION", err)
	}

	view := userToView(created)
	if s.cache != nil {
		s.cache.CacheUserView(ctx, view)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserRegistered, events.UserRegisteredEvent{
			UserID: created.ID,
			Email:  created.Email,
		}); err != nil {
			log.Printf("Failed to publish user.registered event: %v", err)
		}
	}
	return outcome.OK(view)
}

// UpdateUser applies the whitelisted mutable fields onto an existing user.
// Email, password hash, soft-delete flag, ID and creation timestamp are
// never touched by this path.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd *cqrs.UpdateUserCommand) (result outcome.Outcome[*models.UserView]) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("UpdateUser: recovered from panic: %v", rec)
			result = outcome.FromError[*models.UserView]("UPDATE", fmt.Errorf("%v", rec))
		}
	}()

	if cmd == nil {
		return outcome.Fail[*models.UserView](CodeInvalidRequest, "Request body is required")
	}

	user, err := s.repo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return outcome.Fail[*models.UserView](CodeUserNotFound, "User not found")
		}
		log.Printf("UpdateUser: lookup failed: %v", err)
		return outcome.FromError[*models.UserView]("UPDATE", err)
	}

	if cmd.PhoneNumber != "" && cmd.PhoneNumber != user.PhoneNumber {
		check := rules.Pipeline{rules.UniquePhone{Repo: s.repo, ExcludeID: user.ID}}
		candidate := &models.User{PhoneNumber: cmd.PhoneNumber}
		if res := check.Run(ctx, candidate); !res.Success() {
			if res.IsFault() {
				log.Printf("UpdateUser: rule evaluation failed: %v", res.Details())
				return outcome.FaultOf[*models.UserView](res, "UPDATE")
			}
			return outcome.FailureOf[*models.UserView](res)
		}
	}

	user.FirstName = cmd.FirstName
	user.LastName = cmd.LastName
	user.DisplayName = cmd.DisplayName
	user.DateOfBirth = cmd.DateOfBirth
	user.PhoneNumber = cmd.PhoneNumber
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return outcome.Fail[*models.UserView](CodeUserNotFound, "User not found")
		}
		if dup := duplicateOutcome[*models.UserView](err); dup != nil {
			return *dup
		}
		log.Printf("UpdateUser: update failed: %v", err)
		return outcome.FromError[*models.UserView]("UPDATE", err)
	}

	view := userToView(updated)
	if s.cache != nil {
		s.cache.CacheUserView(ctx, view)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
			UserID: updated.ID,
		}); err != nil {
			log.Printf("Failed to publish user.updated event: %v", err)
		}
	}
	return outcome.OK(view)
}

// DeleteUser soft-deletes a user. The row is kept; its email and phone
// number become available to new registrations.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd *cqrs.DeleteUserCommand) (result outcome.Outcome[outcome.Void]) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("DeleteUser: recovered from panic: %v", rec)
			result = outcome.FromError[outcome.Void]("DELETE", fmt.Errorf("%v", rec))
		}
	}()

	if cmd == nil {
		return outcome.Fail[outcome.Void](CodeInvalidRequest, "Request body is required")
	}

	if err := s.repo.Delete(ctx, cmd.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return outcome.Fail[outcome.Void](CodeUserNotFound, "User not found")
		}
		log.Printf("DeleteUser: delete failed: %v", err)
		return outcome.FromError[outcome.Void]("DELETE", err)
	}

	if s.cache != nil {
		s.cache.InvalidateUserView(ctx, cmd.UserID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
			UserID: cmd.UserID,
		}); err != nil {
			log.Printf("Failed to publish user.deleted event: %v", err)
		}
	}
	return outcome.OK(outcome.Void{})
}

// duplicateOutcome maps the repository's unique-constraint sentinels onto
// the same failure codes the rule pipeline uses. Returns nil for other
// errors.
func duplicateOutcome[T any](err error) *outcome.Outcome[T] {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		o := outcome.Fail[T](rules.CodeEmailExists, "Email is not available",
			"The email address is already registered")
		return &o
	case errors.Is(err, repository.ErrDuplicatePhone):
		o := outcome.Fail[T](rules.CodePhoneExists, "Phone number is not available",
			"The phone number is already registered")
		return &o
	default:
		return nil
	}
}

func userToView(u *models.User) *models.UserView {
	return &models.UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		DateOfBirth: u.DateOfBirth,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
