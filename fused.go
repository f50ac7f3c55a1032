// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/kont"
)

// AwaitBind awaits a promise and passes its resolved value to f.
// A rejection fault is re-raised through the kont error effect at this
// suspension point: a surrounding Recover region observes it here, and
// an unhandled fault short-circuits to the drive result.
// Fuses Perform(Await[T]) + Bind + fault re-raise.
func AwaitBind[T, B any](p *Promise[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Await[T]{Promise: p}), func(e kont.Either[error, T]) kont.Eff[B] {
		if fault, ok := e.GetLeft(); ok {
			return kont.ThrowError[error, B](fault)
		}
		v, _ := e.GetRight()
		return f(v)
	})
}

// AwaitThen awaits a promise, discards its resolved value, and
// continues with next. Rejection faults are re-raised as in AwaitBind.
func AwaitThen[T, B any](p *Promise[T], next kont.Eff[B]) kont.Eff[B] {
	return AwaitBind(p, func(T) kont.Eff[B] {
		return next
	})
}

// TryAwaitBind awaits a promise and passes the raw settlement to f:
// Right(v) or Left(fault). Nothing is re-raised; the routine inspects
// the outcome locally.
// Fuses Perform(Await[T]) + Bind.
func TryAwaitBind[T, B any](p *Promise[T], f func(kont.Either[error, T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Await[T]{Promise: p}), f)
}

// EmitThen writes a value to a source and continues with next.
// A write fault (closed source) is re-raised at this suspension point.
// Fuses Perform(Emit[T]) + Bind + fault re-raise.
func EmitThen[T, B any](src *Source[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Emit[T]{Source: src, Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[B] {
		if fault, ok := e.GetLeft(); ok {
			return kont.ThrowError[error, B](fault)
		}
		return next
	})
}

// NextBind reads the next value from a source and passes it to f.
// A read fault (close or Fail, after the queue drains) is re-raised at
// this suspension point.
// Fuses Perform(Next[T]) + Bind + fault re-raise.
func NextBind[T, B any](src *Source[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Next[T]{Source: src}), func(e kont.Either[error, T]) kont.Eff[B] {
		if fault, ok := e.GetLeft(); ok {
			return kont.ThrowError[error, B](fault)
		}
		v, _ := e.GetRight()
		return f(v)
	})
}

// TryNextBind reads the next value from a source and passes the raw
// outcome to f: Right(v) or Left(fault). Nothing is re-raised.
// Fuses Perform(Next[T]) + Bind.
func TryNextBind[T, B any](src *Source[T], f func(kont.Either[error, T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Next[T]{Source: src}), f)
}

// EndDone closes a source from the producer side and returns a.
// Fuses Perform(End[T]) + Then + Pure.
func EndDone[T, A any](src *Source[T], a A) kont.Eff[A] {
	return kont.Then(kont.Perform(End[T]{Source: src}), kont.Pure(a))
}

// Raise raises a fault inside a routine. Caught by a surrounding
// Recover region, or short-circuits to the drive result.
func Raise[A any](err error) kont.Eff[A] {
	return kont.ThrowError[error, A](err)
}

// Recover runs body and, if a fault is raised inside it (by a rejected
// awaited promise, a drained failed source, or Raise), passes the fault
// to handler and continues with its result. Faults that body handles
// internally never reach the drive result.
func Recover[A any](body kont.Eff[A], handler func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.CatchError[error](body, handler)
}
