package query

import (
	"context"
	"fmt"

	"github.com/harborbank/user-service/internal/cqrs"
	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/repository"
)

// UserQueryService reads user views from the Redis cache (with a Postgres fallback).
type UserQueryService struct {
	readRepo *repository.UserReadRepository
}

func NewUserQueryService(readRepo *repository.UserReadRepository) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if q.UserID != q.RequestingUserID {
		return nil, fmt.Errorf("forbidden")
	}
	return s.readRepo.GetByID(ctx, q.UserID)
}
