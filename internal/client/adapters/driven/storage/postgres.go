package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"afrikar/internal/config"
	"afrikar/internal/mylogger"

	"github.com/jackc/pgx/v5"
)

const createSessionTable = `
CREATE TABLE IF NOT EXISTS session_kv (
	profile    TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (profile, key)
)`

// Postgres keeps session entries in the session_kv table, one row per key,
// scoped by profile so several clients can share a database.
type Postgres struct {
	ctx     context.Context
	cfg     *config.DBconfig
	mylog   mylogger.Logger
	profile string
	conn    *pgx.Conn
	mu      *sync.Mutex
}

// ConnectPostgres connects with retries and makes sure the table exists.
func ConnectPostgres(ctx context.Context, dbCfg *config.DBconfig, profile string, mylog mylogger.Logger) (*Postgres, error) {
	p := &Postgres{
		ctx:     ctx,
		cfg:     dbCfg,
		mylog:   mylog,
		profile: profile,
		mu:      &sync.Mutex{},
	}

	if err := p.connect(); err != nil {
		return nil, err
	}
	if _, err := p.conn.Exec(ctx, createSessionTable); err != nil {
		p.conn.Close(ctx)
		return nil, fmt.Errorf("creating session table: %w", err)
	}
	return p, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.isAlive(); err != nil {
		return "", false, err
	}

	var value string
	err := p.conn.QueryRow(ctx,
		`SELECT value FROM session_kv WHERE profile = $1 AND key = $2`,
		p.profile, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.isAlive(); err != nil {
		return err
	}

	q := `INSERT INTO session_kv (profile, key, value) VALUES ($1, $2, $3)
	ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := p.conn.Exec(ctx, q, p.profile, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes all keys in one transaction.
func (p *Postgres) Delete(ctx context.Context, keys ...string) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.isAlive(); err != nil {
		return err
	}

	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, key := range keys {
		if _, err = tx.Exec(ctx, `DELETE FROM session_kv WHERE profile = $1 AND key = $2`, p.profile, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Close(p.ctx); err != nil {
		return fmt.Errorf("close database connection: %w", err)
	}
	return nil
}

// isAlive pings and reconnects once if the ping fails, closing the dead
// connection first. Caller holds mu.
func (p *Postgres) isAlive() error {
	if p.conn != nil {
		err := p.conn.Ping(p.ctx)
		if err == nil {
			return nil
		}
		p.mylog.Warn("session database ping failed, reconnecting", "error", err)
		_ = p.conn.Close(p.ctx)
		p.conn = nil
	}
	if err := p.connect(); err != nil {
		return fmt.Errorf("session database unavailable: %w", err)
	}
	return nil
}

// connString builds the DSN with credentials escaped.
func connString(cfg *config.DBconfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (p *Postgres) connect() error {
	retries := p.cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		conn, err := pgx.Connect(p.ctx, connString(p.cfg))
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to database: %w", err)
			p.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

			if i+1 < retries {
				time.Sleep(time.Second * time.Duration(i+1))
			}
			continue
		}

		p.conn = conn
		p.mylog.Debug("connected to session database")
		return nil
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", retries, lastErr)
}
