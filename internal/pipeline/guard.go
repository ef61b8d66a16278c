package pipeline

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a runner operation is invoked while another
// one holding the same guard is still in flight.
var ErrBusy = errors.New("pipeline: another run is already in progress")

// Guard is a single-owner execution guard. One Guard is shared by all
// runners of a session so at most one orchestrator operation runs at a
// time; a second caller gets ErrBusy instead of silently racing.
type Guard struct {
	busy atomic.Bool
}

// Acquire claims the guard and returns its release func, or ErrBusy.
func (g *Guard) Acquire() (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { g.busy.Store(false) }, nil
}
