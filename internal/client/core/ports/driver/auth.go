package driver

import (
	"context"

	"afrikar/internal/client/core/domain/dto"
	"afrikar/internal/client/core/domain/model"
)

type IAuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (model.User, error)
	Register(ctx context.Context, req dto.RegisterRequest) (model.User, error)
	Logout(ctx context.Context) error
}
