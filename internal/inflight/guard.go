package inflight

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when an action is attempted while another one is still running.
var ErrBusy = errors.New("another action is still in flight")

// Guard lets at most one action run at a time. A second action started while
// the first is pending is rejected, not queued.
type Guard struct {
	busy atomic.Bool
}

// Run calls fn unless another call is in flight. The guard is released when
// fn returns, whether it failed or not.
func (g *Guard) Run(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer g.busy.Store(false)
	return fn()
}

// Busy reports whether an action is in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
