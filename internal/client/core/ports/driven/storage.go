package driven

import "context"

const (
	KeyUser  = "user"
	KeyToken = "token"
)

// IKVStore is durable string-pair storage for the session.
// Get reports ok=false for a missing key.
type IKVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
