package cli

import (
	"sync/atomic"

	"afrikar/internal/client/core/myerrors"
)

// loading is a view's "request in flight" flag. A second submit while the
// first is running fails fast without touching the network.
type loading struct {
	busy atomic.Bool
}

func (l *loading) run(fn func() error) error {
	if !l.busy.CompareAndSwap(false, true) {
		return myerrors.ErrRequestInFlight
	}
	defer l.busy.Store(false)
	return fn()
}

func (l *loading) Loading() bool {
	return l.busy.Load()
}
