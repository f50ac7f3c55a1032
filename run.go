// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Async drives a Cont-world routine on its own goroutine and exposes
// the drive's completion as a promise, settled exactly once with the
// routine's final value or the first unhandled fault. This is the one
// place the package spawns a goroutine; Exec, Run, and Step/Advance
// stay on the calling goroutine.
func Async[R any](routine kont.Eff[R]) *Promise[R] {
	p := NewPromise[R]()
	go settle(p, func() (R, error) { return Exec(routine) })
	return p
}

// AsyncExpr drives an Expr-world routine on its own goroutine and
// exposes the drive's completion as a promise.
func AsyncExpr[R any](routine kont.Expr[R]) *Promise[R] {
	p := NewPromise[R]()
	go settle(p, func() (R, error) { return ExecExpr(routine) })
	return p
}

// settle runs a drive and settles p with its outcome.
func settle[R any](p *Promise[R], drive func() (R, error)) {
	v, err := drive()
	if err != nil {
		p.Reject(err)
		return
	}
	p.Resolve(v)
}

// Run drives two Cont-world routines interleaved on the calling
// goroutine, using adaptive backoff (iox.Backoff) when neither side can
// make progress. Does not spawn goroutines or create channels. Each
// side keeps at most one operation outstanding. Typical use is a
// producer/consumer pair sharing a Source.
func Run[A, B any](a kont.Eff[A], b kont.Eff[B]) (kont.Either[error, A], kont.Either[error, B]) {
	return RunExpr(Reify(a), Reify(b))
}

// RunExpr drives two Expr-world routines interleaved on the calling
// goroutine, using adaptive backoff (iox.Backoff) when neither side can
// make progress. Does not spawn goroutines or create channels.
func RunExpr[A, B any](a kont.Expr[A], b kont.Expr[B]) (kont.Either[error, A], kont.Either[error, B]) {
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance[A](suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance[B](suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
