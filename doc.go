// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package await drives pausable computations against asynchronously
// settling operations via algebraic effects on [code.hybscloud.com/kont].
//
// A routine is an effectful computation that suspends on pending
// operations ([*Promise] settlements, [*Source] reads and writes) and is
// resumed with either the operation's value or its fault, delivered at
// the exact suspension point.
//
// # Architecture
//
//   - Settlement: [Promise] is a single-settlement cell on [code.hybscloud.com/atomix]. Exactly one of [Promise.Resolve]/[Promise.Reject] wins.
//   - Non-blocking: Operation dispatch returns [code.hybscloud.com/iox.ErrWouldBlock] while the operation is unsettled.
//   - Streams: [Source] is a bounded SPSC stream via [code.hybscloud.com/lfq], usable as a pending-operation provider.
//   - Execution: Dual-world API supporting closure-based (Cont-world) and defunctionalized (Expr-world) evaluation.
//   - Faults: Operation outcomes travel as [code.hybscloud.com/kont.Either]; [AwaitBind] re-raises faults through the kont error effect so [Recover] regions observe them at the suspension point, while unhandled faults short-circuit to the drive result.
//
// # API Topologies
//
//   - Operations: [Await], [Emit], [Next], [End]. Each operation carries its own promise or source handle.
//   - Cont-world: [AwaitBind], [AwaitThen], [TryAwaitBind], [EmitThen], [NextBind], [TryNextBind], [EndDone], [Raise], [Recover].
//   - Expr-world: Zero-allocation variants like [ExprAwaitBind], [ExprNextBind], etc. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop] and [ExprLoop] for trampoline-based iterative routines.
//
// # Integration
//
//   - Stepping: [Step] and [Advance] evaluate routines one effect at a time, making them easy to integrate with a proactor loop. Exactly one operation is outstanding per drive.
//   - Blocking: [Exec] and [Run] wait past settlement boundaries using adaptive backoff.
//   - Futures: [Async] exposes a drive's completion as a [*Promise], settled exactly once.
//
// # Example
//
//	p := await.Resolved(42)
//	routine := await.AwaitBind(p, func(n int) kont.Eff[int] {
//		return kont.Pure(n * 2)
//	})
//	result, err := await.Exec(routine)
//	// result == 84, err == nil
package await
