// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Promise settlement states. The settling state is a transient write
// barrier: the value or fault slot is published before the final state
// store, so observers of stateResolved/stateRejected see the slot.
const (
	statePending uint32 = iota
	stateSettling
	stateResolved
	stateRejected
)

// Promise is a single-settlement cell: a value or fault that becomes
// available later. Settled exactly once, observed by arbitrarily many
// readers thereafter.
//
// Resolve and Reject race safely from any goroutine; exactly one wins.
// Poll is non-blocking and returns iox.ErrWouldBlock while pending.
// Await blocks with adaptive backoff, without channels.
type Promise[T any] struct {
	state  atomix.Uint32
	value  T
	fault  error
	serial Serial
}

// NewPromise creates an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{serial: nextSerial()}
}

// Resolved creates a promise already settled with v.
func Resolved[T any](v T) *Promise[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p
}

// Rejected creates a promise already settled with fault err.
func Rejected[T any](err error) *Promise[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

// Serial returns the serial number assigned to this promise.
func (p *Promise[T]) Serial() Serial {
	return p.serial
}

// Resolve settles the promise with v. Returns false if the promise was
// already settled (or is being settled); the first settlement wins.
func (p *Promise[T]) Resolve(v T) bool {
	if !p.state.CompareAndSwap(statePending, stateSettling) {
		return false
	}
	p.value = v
	p.state.Store(stateResolved)
	return true
}

// Reject settles the promise with fault err. Returns false if the
// promise was already settled; the first settlement wins.
//
// err must be non-nil, and must not be iox.ErrWouldBlock: that sentinel
// marks the pending state in Poll.
func (p *Promise[T]) Reject(err error) bool {
	if !p.state.CompareAndSwap(statePending, stateSettling) {
		return false
	}
	p.fault = err
	p.state.Store(stateRejected)
	return true
}

// Poll reads the settlement without blocking. Returns
// iox.ErrWouldBlock while the promise is unsettled, (v, nil) once
// resolved, or (zero, fault) once rejected.
func (p *Promise[T]) Poll() (T, error) {
	switch p.state.Load() {
	case stateResolved:
		return p.value, nil
	case stateRejected:
		var zero T
		return zero, p.fault
	default:
		var zero T
		return zero, iox.ErrWouldBlock
	}
}

// Await blocks until the promise settles, backing off on
// iox.ErrWouldBlock with iox.Backoff. Returns the resolved value or
// the rejection fault.
func (p *Promise[T]) Await() (T, error) {
	var bo iox.Backoff
	for {
		v, err := p.Poll()
		if !iox.IsWouldBlock(err) {
			return v, err
		}
		bo.Wait()
	}
}

// IsSettled reports whether the promise has been resolved or rejected.
func (p *Promise[T]) IsSettled() bool {
	return p.state.Load() >= stateResolved
}
