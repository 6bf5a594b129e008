package usecase

import (
	"context"

	"github.com/joyeria-diana-laura/backend/internal/model"
	"github.com/joyeria-diana-laura/backend/internal/repository"
)

// UserUsecase exposes the thin user CRUD behind /api/users.
type UserUsecase interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, params repository.UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return u.userRepo.GetUserByID(ctx, id)
}

func (u *userUsecase) UpdateUser(
	ctx context.Context,
	id int64,
	params repository.UpdateUserParams,
) (*model.User, error) {
	return u.userRepo.UpdateUser(ctx, id, params)
}

func (u *userUsecase) DeleteUser(ctx context.Context, id int64) error {
	return u.userRepo.DeleteUser(ctx, id)
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx)
}
