// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is pre-allocated to eliminate heap escapes when
// boxing the empty ReturnFrame during Expr-world construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// settledUnwind recovers the Either settlement at a suspension point:
// Left re-raises through the kont error effect, Right continues with
// the bound continuation in Data1.
func settledUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	e := current.(kont.Either[error, T])
	if fault, ok := e.GetLeft(); ok {
		result := kont.ExprThrowError[error, B](fault)
		return kont.Erased(result.Value), result.Frame
	}
	f := data.(func(T) kont.Expr[B])
	v, _ := e.GetRight()
	result := f(v)
	return kont.Erased(result.Value), result.Frame
}

// rawUnwind passes the raw Either settlement to the continuation in
// Data1 without re-raising.
func rawUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(kont.Either[error, T]) kont.Expr[B])
	result := f(current.(kont.Either[error, T]))
	return kont.Erased(result.Value), result.Frame
}

// ExprAwaitBind awaits a promise and passes its resolved value to f.
// Rejection faults are re-raised at this suspension point.
// Fuses ExprPerform(Await[T]) + ExprBind + fault re-raise.
func ExprAwaitBind[T, B any](p *Promise[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = settledUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await[T]{Promise: p}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprAwaitThen awaits a promise, discards its resolved value, and
// continues with next. Rejection faults are re-raised.
func ExprAwaitThen[T, B any](p *Promise[T], next kont.Expr[B]) kont.Expr[B] {
	return ExprAwaitBind(p, func(T) kont.Expr[B] {
		return next
	})
}

// ExprTryAwaitBind awaits a promise and passes the raw settlement to f.
// Fuses ExprPerform(Await[T]) + ExprBind.
func ExprTryAwaitBind[T, B any](p *Promise[T], f func(kont.Either[error, T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = rawUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await[T]{Promise: p}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func emitThenUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	e := current.(kont.Either[error, struct{}])
	if fault, ok := e.GetLeft(); ok {
		result := kont.ExprThrowError[error, B](fault)
		return kont.Erased(result.Value), result.Frame
	}
	next := data.(kont.Expr[B])
	return kont.Erased(next.Value), next.Frame
}

// ExprEmitThen writes a value to a source and continues with next.
// Write faults (closed source) are re-raised at this suspension point.
// Fuses ExprPerform(Emit[T]) + ExprBind + fault re-raise.
func ExprEmitThen[T, B any](src *Source[T], v T, next kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = next
	bf.Unwind = emitThenUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Emit[T]{Source: src, Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprNextBind reads the next value from a source and passes it to f.
// Read faults are re-raised at this suspension point.
// Fuses ExprPerform(Next[T]) + ExprBind + fault re-raise.
func ExprNextBind[T, B any](src *Source[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = settledUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Next[T]{Source: src}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprTryNextBind reads the next value from a source and passes the raw
// outcome to f. Fuses ExprPerform(Next[T]) + ExprBind.
func ExprTryNextBind[T, B any](src *Source[T], f func(kont.Either[error, T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = rawUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Next[T]{Source: src}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprEndDone closes a source from the producer side and returns a.
// Fuses ExprPerform(End[T]) + ExprThen + ExprReturn.
func ExprEndDone[T, A any](src *Source[T], a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = End[T]{Source: src}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}

// ExprRaise raises a fault inside an Expr-world routine.
func ExprRaise[A any](err error) kont.Expr[A] {
	return kont.ExprThrowError[error, A](err)
}
