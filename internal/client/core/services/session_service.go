package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/mylogger"

	"github.com/golang-jwt/jwt"
)

// SessionService owns the current identity. It mirrors every change into
// durable storage under driven.KeyUser and driven.KeyToken.
type SessionService struct {
	mylog mylogger.Logger
	store driven.IKVStore
	now   func() time.Time

	mu    sync.RWMutex
	user  *model.User
	token string
}

func NewSessionService(mylog mylogger.Logger, store driven.IKVStore) *SessionService {
	return &SessionService{
		mylog: mylog,
		store: store,
		now:   time.Now,
	}
}

func (ss *SessionService) Login(ctx context.Context, user model.User, token string) error {
	mylog := ss.mylog.Action("session_login")

	if token == "" {
		return fmt.Errorf("token: %w", myerrors.ErrFieldIsEmpty)
	}
	if err := user.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if err := ss.store.Set(ctx, driven.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	if err := ss.store.Set(ctx, driven.KeyToken, token); err != nil {
		// never leave a user entry without its token
		_ = ss.store.Delete(ctx, driven.KeyUser)
		return fmt.Errorf("storing token: %w", err)
	}

	u := user
	ss.user = &u
	ss.token = token
	mylog.Info("session stored", "user_id", user.ID)
	return nil
}

func (ss *SessionService) Logout(ctx context.Context) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.user = nil
	ss.token = ""
	if err := ss.store.Delete(ctx, driven.KeyUser, driven.KeyToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	ss.mylog.Action("session_logout").Info("session cleared")
	return nil
}

// Restore rehydrates the session from durable storage. An unreadable store
// or a half-present pair is cleared. A JWT whose exp is in the past is cleared and reported as
// myerrors.ErrSessionExpired; opaque tokens are trusted as stored.
func (ss *SessionService) Restore(ctx context.Context) error {
	mylog := ss.mylog.Action("session_restore")

	token, hasToken, err := ss.store.Get(ctx, driven.KeyToken)
	if err != nil {
		mylog.Warn("stored session is unreadable, clearing", "error", err)
		return ss.clear(ctx)
	}
	rawUser, hasUser, err := ss.store.Get(ctx, driven.KeyUser)
	if err != nil {
		mylog.Warn("stored session is unreadable, clearing", "error", err)
		return ss.clear(ctx)
	}

	if !hasToken || token == "" {
		if hasUser {
			mylog.Warn("user stored without token, clearing")
			return ss.clear(ctx)
		}
		return nil
	}
	if !hasUser {
		mylog.Warn("token stored without user, clearing")
		return ss.clear(ctx)
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		mylog.Warn("stored user is not valid json, clearing", "error", err)
		return ss.clear(ctx)
	}
	if err := user.Validate(); err != nil {
		mylog.Warn("stored user is invalid, clearing", "error", err)
		return ss.clear(ctx)
	}

	if tokenExpired(token, ss.now()) {
		mylog.Info("stored token expired, clearing")
		if err := ss.clear(ctx); err != nil {
			return err
		}
		return myerrors.ErrSessionExpired
	}

	ss.mu.Lock()
	ss.user = &user
	ss.token = token
	ss.mu.Unlock()

	mylog.Debug("session restored", "user_id", user.ID)
	return nil
}

func (ss *SessionService) User() *model.User {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.user == nil {
		return nil
	}
	u := *ss.user
	return &u
}

func (ss *SessionService) Token() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.token
}

func (ss *SessionService) IsAuthenticated() bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return model.Session{User: ss.user, Token: ss.token}.Authenticated()
}

func (ss *SessionService) clear(ctx context.Context) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.user = nil
	ss.token = ""
	if err := ss.store.Delete(ctx, driven.KeyUser, driven.KeyToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// tokenExpired only looks at the exp claim; the signature is the backend's
// business. Tokens that are not JWTs never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
