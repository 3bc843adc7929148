package driver

import (
	"context"

	"afrikar/internal/client/core/domain/model"
)

type ISessionService interface {
	Login(ctx context.Context, user model.User, token string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) error
	User() *model.User
	Token() string
	IsAuthenticated() bool
}
