package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"afrikar/internal/client/adapters/driven/storage"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/mylogger"

	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestSessionSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := storage.NewFile(path, "")
	if err != nil {
		t.Fatal(err)
	}
	session := NewSessionService(mylogger.Discard(), store)

	user := model.User{ID: "u1", Prenom: "Fatou", Nom: "Sow", Email: "fatou@example.sn"}
	if err := session.Login(ctx, user, "opaque-token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := session.User(); got == nil || *got != user || session.Token() != "opaque-token" {
		t.Fatalf("after login: user %+v token %q", got, session.Token())
	}

	// simulated reload: fresh store and session over the same file
	reloadedStore, _ := storage.NewFile(path, "")
	reloaded := NewSessionService(mylogger.Discard(), reloadedStore)
	if err := reloaded.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := reloaded.User(); got == nil || *got != user {
		t.Errorf("restored user = %+v", got)
	}
	if reloaded.Token() != "opaque-token" {
		t.Errorf("restored token = %q", reloaded.Token())
	}

	if err := reloaded.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if reloaded.User() != nil || reloaded.Token() != "" {
		t.Error("logout left identity behind")
	}

	again := NewSessionService(mylogger.Discard(), store)
	if err := again.Restore(ctx); err != nil {
		t.Fatal(err)
	}
	if again.IsAuthenticated() {
		t.Error("reload after logout rehydrated the session")
	}
}

func TestLoginRejectsHalfSession(t *testing.T) {
	store := storage.NewMemory()
	session := NewSessionService(mylogger.Discard(), store)

	if err := session.Login(context.Background(), model.User{ID: "u1"}, ""); !errors.Is(err, myerrors.ErrFieldIsEmpty) {
		t.Errorf("empty token err = %v", err)
	}
	if err := session.Login(context.Background(), model.User{}, "tok"); !errors.Is(err, myerrors.ErrInvalidRecord) {
		t.Errorf("empty user err = %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), driven.KeyUser); ok {
		t.Error("rejected login wrote to storage")
	}
}

func TestRestoreClearsHalfPresentPair(t *testing.T) {
	ctx := context.Background()

	tests := map[string]map[string]string{
		"user without token": {driven.KeyUser: `{"id":"u1"}`},
		"token without user": {driven.KeyToken: "tok"},
		"corrupt user":       {driven.KeyUser: `{not json`, driven.KeyToken: "tok"},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			for k, v := range entries {
				_ = store.Set(ctx, k, v)
			}
			session := NewSessionService(mylogger.Discard(), store)
			if err := session.Restore(ctx); err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if session.IsAuthenticated() {
				t.Error("half-present session restored")
			}
			for _, k := range []string{driven.KeyUser, driven.KeyToken} {
				if _, ok, _ := store.Get(ctx, k); ok {
					t.Errorf("%s left in storage", k)
				}
			}
		})
	}
}

func TestRestoreDropsExpiredJWT(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.Set(ctx, driven.KeyUser, `{"id":"u1","prenom":"Awa"}`)
	_ = store.Set(ctx, driven.KeyToken, signedToken(t, time.Now().Add(-time.Hour)))

	session := NewSessionService(mylogger.Discard(), store)
	if err := session.Restore(ctx); !errors.Is(err, myerrors.ErrSessionExpired) {
		t.Fatalf("Restore err = %v, want ErrSessionExpired", err)
	}
	if session.IsAuthenticated() {
		t.Error("expired session restored")
	}
	if _, ok, _ := store.Get(ctx, driven.KeyToken); ok {
		t.Error("expired token left in storage")
	}
}

func TestRestoreKeepsLiveJWT(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	tok := signedToken(t, time.Now().Add(time.Hour))
	_ = store.Set(ctx, driven.KeyUser, `{"id":"u1","prenom":"Awa"}`)
	_ = store.Set(ctx, driven.KeyToken, tok)

	session := NewSessionService(mylogger.Discard(), store)
	if err := session.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if session.Token() != tok || session.User().Prenom != "Awa" {
		t.Errorf("restored %q / %+v", session.Token(), session.User())
	}
}

func TestUserReturnsCopy(t *testing.T) {
	session := NewSessionService(mylogger.Discard(), storage.NewMemory())
	_ = session.Login(context.Background(), model.User{ID: "u1", Prenom: "Awa"}, "tok")

	u := session.User()
	u.Prenom = "changed"
	if session.User().Prenom != "Awa" {
		t.Error("caller mutated the session's user")
	}
}

func TestRestoreClearsUnreadableStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	alpha, _ := storage.NewFile(path, "alpha")
	if err := NewSessionService(mylogger.Discard(), alpha).Login(ctx, model.User{ID: "u1"}, "tok"); err != nil {
		t.Fatal(err)
	}

	beta, _ := storage.NewFile(path, "beta")
	session := NewSessionService(mylogger.Discard(), beta)
	if err := session.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if session.IsAuthenticated() {
		t.Error("session restored from a file sealed with another passphrase")
	}
	if _, ok, err := beta.Get(ctx, driven.KeyToken); err != nil || ok {
		t.Errorf("after Restore: ok %v, err %v", ok, err)
	}
}
