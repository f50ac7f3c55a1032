// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a routine until its first suspension.
// Returns (result, nil) on completion, or (zero, suspension) if the
// routine is waiting on a pending operation. The result carries the
// fault channel: Right on success, Left on an unhandled fault.
func Step[R any](routine kont.Expr[R]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]]) {
	wrapped := kont.ExprMap(routine, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.StepExpr(wrapped)
}

// Advance dispatches the suspended operation. Each operation carries
// its own promise or source handle, so no further context is needed.
//
// Awaitable ops are non-blocking: Advance returns iox.ErrWouldBlock
// while the operation is unsettled; the suspension is unconsumed and
// may be retried after the operation settles. On success (nil error)
// the suspension is consumed and the routine resumes with the
// operation's outcome — value or fault — at its suspension point.
//
// Error ops are eager: an uncaught raise discards the suspension and
// returns Left. A suspension on an unrecognized operation is a protocol
// fault: the suspension is discarded and the drive settles failed with
// ErrNotAwaitable. No resumption follows either terminal outcome.
//
// At most one operation is outstanding per drive: a new suspension only
// exists once the previous one has been consumed, and resuming a
// suspension twice panics (affine).
func Advance[R any](susp *kont.Suspension[kont.Either[error, R]]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]], error) {
	// Awaitable ops: non-blocking dispatch
	if sop, ok := susp.Op().(settleDispatcher); ok {
		v, err := sop.DispatchSettle()
		if err != nil {
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[error]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Protocol fault: fail fast, no coercion, no second resumption.
	susp.Discard()
	return kont.Left[error, R](ErrNotAwaitable), nil, nil
}
