package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"afrikar/internal/client/adapters/driven/api"
	"afrikar/internal/client/adapters/driven/bm"
	"afrikar/internal/client/adapters/driven/storage"
	"afrikar/internal/client/adapters/driver/cli"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/client/core/services"
	"afrikar/internal/config"
	"afrikar/internal/mylogger"
)

// Execute wires storage, session, API client, services and views, then
// runs one command against them.
func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config, args []string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(ctx, cfg, mylog)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			mylog.Error("closing session storage", err)
		}
	}()

	relay, err := bm.New(*cfg.RabbitMq, mylog)
	if err != nil {
		// the relay is optional; the command still runs without it
		mylog.Warn("activity relay disabled", "error", err)
		relay = bm.Noop{}
	}
	defer relay.Close()

	app, session := Compose(mylog, cfg, store, relay)

	if err := session.Restore(ctx); err != nil {
		if errors.Is(err, myerrors.ErrSessionExpired) {
			fmt.Fprintln(out, "Votre session a expiré, veuillez vous reconnecter.")
		} else {
			// the command still runs, anonymously
			mylog.Warn("cannot restore session", "error", err)
		}
	}

	return Run(ctx, app, args, out)
}

// Compose builds the view tree over an already opened store.
func Compose(mylog mylogger.Logger, cfg *config.Config, store driven.IKVStore, relay driven.IActivityBroker) (*cli.App, *services.SessionService) {
	client := api.New(cfg.API.BaseURL(), cfg.API.Timeout, store, mylog)
	session := services.NewSessionService(mylog, store)

	authService := services.NewAuthService(mylog, client, session, relay)
	ridesService := services.NewRidesService(mylog, client, session, relay)
	bookingsService := services.NewBookingsService(mylog, client, session, relay)

	return cli.NewApp(mylog, session, authService, ridesService, bookingsService), session
}

func OpenStore(ctx context.Context, cfg *config.Config, mylog mylogger.Logger) (driven.IKVStore, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return storage.NewMemory(), nil
	case config.SessionBackendPostgres:
		pg, err := storage.ConnectPostgres(ctx, cfg.DB, cfg.Session.Profile, mylog)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.SessionBackendFile:
		f, err := storage.NewFile(cfg.Session.File, cfg.Session.Passphrase)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
