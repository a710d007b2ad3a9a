package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/user-service/internal/command"
	"github.com/harborbank/user-service/internal/cqrs"
	"github.com/harborbank/user-service/internal/middleware"
	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/outcome"
	"github.com/harborbank/user-service/internal/repository"
	"github.com/harborbank/user-service/internal/rules"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	RegisterUser(ctx context.Context, cmd *cqrs.RegisterUserCommand) outcome.Outcome[*models.UserView]
	UpdateUser(ctx context.Context, cmd *cqrs.UpdateUserCommand) outcome.Outcome[*models.UserView]
	DeleteUser(ctx context.Context, cmd *cqrs.DeleteUserCommand) outcome.Outcome[outcome.Void]
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	DisplayName string `json:"displayName" validate:"omitempty,max=64"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

type UpdateUserRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	DisplayName string `json:"displayName" validate:"omitempty,max=64"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

// FailureResponse is the wire shape of a failed outcome.
type FailureResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result := h.commands.RegisterUser(c.Request.Context(), &cqrs.RegisterUserCommand{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		DateOfBirth: parseDate(req.DateOfBirth),
		PhoneNumber: req.PhoneNumber,
	})
	if !result.Success() {
		respondWithFailure(c, result.Code(), result.Message(), result.Details())
		return
	}

	c.JSON(http.StatusCreated, result.Value())
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{
		UserID:           userID,
		RequestingUserID: requestingUserID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own user details")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	if userID != requestingUserID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own user details")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result := h.commands.UpdateUser(c.Request.Context(), &cqrs.UpdateUserCommand{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		DateOfBirth: parseDate(req.DateOfBirth),
		PhoneNumber: req.PhoneNumber,
	})
	if !result.Success() {
		respondWithFailure(c, result.Code(), result.Message(), result.Details())
		return
	}

	c.JSON(http.StatusOK, result.Value())
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	if userID != requestingUserID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own account")
		return
	}

	result := h.commands.DeleteUser(c.Request.Context(), &cqrs.DeleteUserCommand{UserID: userID})
	if !result.Success() {
		respondWithFailure(c, result.Code(), result.Message(), result.Details())
		return
	}

	c.Status(http.StatusNoContent)
}

// respondWithFailure is the pure Outcome-to-HTTP translation: uniqueness
// conflicts map to 409, a missing update target to 404, operational faults
// to 500 and everything else (caller-correctable input errors) to 400.
func respondWithFailure(c *gin.Context, code, message string, details []string) {
	status := http.StatusBadRequest
	switch {
	case code == rules.CodeEmailExists || code == rules.CodePhoneExists:
		status = http.StatusConflict
	case code == command.CodeUserNotFound:
		status = http.StatusNotFound
	case strings.HasSuffix(code, "_ERROR"):
		status = http.StatusInternalServerError
	}
	c.JSON(status, FailureResponse{Code: code, Message: message, Details: details})
}

// parseDate converts an already-validated yyyy-mm-dd string; empty means
// absent.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
