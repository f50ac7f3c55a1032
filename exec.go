// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// settleErrorHandler handles both awaitable and error effects.
// Awaitable ops wait on ErrWouldBlock via iox.Backoff. Error ops
// short-circuit on an uncaught raise. Any other operation is a protocol
// fault and short-circuits with ErrNotAwaitable rather than guessing.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type settleErrorHandler[A any] struct {
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler for the composed Settle+Error handler.
// Dispatch order: Settle → Error → protocol fault.
func (h settleErrorHandler[A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if sop, ok := op.(settleDispatcher); ok {
		return dispatchWait(sop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, A](h.errCtx.Err), false
		}
		return v, true
	}
	return kont.Left[error, A](ErrNotAwaitable), false
}

// dispatchWait blocks until DispatchSettle succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff (settlement readiness waiting).
func dispatchWait(sop settleDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := sop.DispatchSettle()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec drives a Cont-world routine to completion on the calling
// goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff
// (iox.Backoff), without spawning goroutines or creating channels.
// Returns the routine's final value, or the first unhandled fault.
func Exec[R any](routine kont.Eff[R]) (R, error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](routine, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := settleErrorHandler[R]{errCtx: &errCtx}
	return unpack(kont.Handle(wrapped, h))
}

// ExecExpr drives an Expr-world routine to completion on the calling
// goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff
// (iox.Backoff), without spawning goroutines or creating channels.
// Returns the routine's final value, or the first unhandled fault.
func ExecExpr[R any](routine kont.Expr[R]) (R, error) {
	wrapped := kont.ExprMap(routine, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := settleErrorHandler[R]{errCtx: &errCtx}
	return unpack(kont.HandleExpr(wrapped, h))
}

// unpack converts the Either drive currency to the (value, fault) form.
func unpack[R any](e kont.Either[error, R]) (R, error) {
	if fault, ok := e.GetLeft(); ok {
		var zero R
		return zero, fault
	}
	v, _ := e.GetRight()
	return v, nil
}
