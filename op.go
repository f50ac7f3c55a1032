// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// settleDispatcher is the structural interface for awaitable operations.
// DispatchSettle is non-blocking: it returns iox.ErrWouldBlock at the
// readiness boundary while the underlying operation is unsettled.
// Operation faults travel in-band as kont.Left, never as the error
// return; the suspension stays consumable either way.
type settleDispatcher interface {
	DispatchSettle() (kont.Resumed, error)
}

// Await is the effect operation for awaiting a promise settlement.
// Perform(Await[T]{Promise: p}) resumes with Either[error, T]:
// Right(v) when p resolves, Left(fault) when p rejects.
type Await[T any] struct {
	kont.Phantom[kont.Either[error, T]]
	Promise *Promise[T]
}

// DispatchSettle polls the promise.
// Non-blocking: returns iox.ErrWouldBlock while the promise is pending.
func (a Await[T]) DispatchSettle() (kont.Resumed, error) {
	v, err := a.Promise.Poll()
	if err == nil {
		return kont.Right[error, T](v), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return kont.Left[error, T](err), nil
}

// Emit is the effect operation for writing a value to a source.
// Perform(Emit[T]{Source: s, Value: v}) resumes with
// Either[error, struct{}]: Right on success, Left once the source has
// been closed or failed.
type Emit[T any] struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Source *Source[T]
	Value  T
}

// DispatchSettle pushes onto the source queue.
// Non-blocking: returns iox.ErrWouldBlock while the bounded queue is full.
func (e Emit[T]) DispatchSettle() (kont.Resumed, error) {
	err := e.Source.TryPush(e.Value)
	if err == nil {
		return kont.Right[error, struct{}](struct{}{}), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return kont.Left[error, struct{}](err), nil
}

// Next is the effect operation for reading the next value from a source.
// Perform(Next[T]{Source: s}) resumes with Either[error, T]: Right(v)
// for each queued item, Left(ErrSourceClosed) past a clean close, or
// Left(fault) past a Fail.
type Next[T any] struct {
	kont.Phantom[kont.Either[error, T]]
	Source *Source[T]
}

// DispatchSettle pulls from the source queue.
// Non-blocking: returns iox.ErrWouldBlock while the queue is empty and
// the source is open.
func (n Next[T]) DispatchSettle() (kont.Resumed, error) {
	v, err := n.Source.tryPull()
	if err == nil {
		return kont.Right[error, T](v), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return kont.Left[error, T](err), nil
}

// End is the effect operation for closing a source from the producer
// side. Perform(End[T]{Source: s}) marks the end of the stream.
// Never blocks; idempotent.
type End[T any] struct {
	kont.Phantom[struct{}]
	Source *Source[T]
}

// DispatchSettle closes the source. Queued items drain before the
// consumer observes the close.
func (e End[T]) DispatchSettle() (kont.Resumed, error) {
	e.Source.Close()
	return struct{}{}, nil
}
