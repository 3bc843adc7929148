package services

import (
	"context"
	"fmt"

	"afrikar/internal/client/core/domain/dto"
	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

const (
	LoginPath    = "/connexion"
	RegisterPath = "/inscription"
)

type AuthService struct {
	mylog   mylogger.Logger
	api     driven.IAPI
	session driver.ISessionService
	broker  driven.IActivityBroker
}

func NewAuthService(
	mylog mylogger.Logger,
	api driven.IAPI,
	session driver.ISessionService,
	broker driven.IActivityBroker,
) *AuthService {
	return &AuthService{
		mylog:   mylog,
		api:     api,
		session: session,
		broker:  broker,
	}
}

// ======================= Login =======================
func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}
	return as.authenticate(ctx, "Login", LoginPath, req)
}

// ======================= Register =======================
func (as *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}
	return as.authenticate(ctx, "Register", RegisterPath, req)
}

func (as *AuthService) Logout(ctx context.Context) error {
	var userID string
	if u := as.session.User(); u != nil {
		userID = u.ID
	}
	if err := as.session.Logout(ctx); err != nil {
		return err
	}
	publish(ctx, as.mylog, as.broker, brokerdto.Activity{Type: brokerdto.ActivityLogout, UserID: userID})
	return nil
}

func (as *AuthService) authenticate(ctx context.Context, action, path string, req any) (model.User, error) {
	mylog := as.mylog.Action(action)

	var resp dto.AuthResponse
	if err := as.api.Post(ctx, path, req, &resp); err != nil {
		mylog.Warn("authentication rejected", "error", err)
		return model.User{}, err
	}
	if err := resp.Validate(); err != nil {
		mylog.Error("malformed auth response", err)
		return model.User{}, fmt.Errorf("decoding %s response: %w", path, err)
	}

	if err := as.session.Login(ctx, *resp.User, resp.AccessToken); err != nil {
		mylog.Error("cannot store session", err)
		return model.User{}, err
	}

	publish(ctx, as.mylog, as.broker, brokerdto.Activity{Type: brokerdto.ActivityLogin, UserID: resp.User.ID})
	mylog.Info("user authenticated", "user_id", resp.User.ID)
	return *resp.User, nil
}
