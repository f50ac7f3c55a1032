// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/await"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

func TestStepCompletionWithoutSuspension(t *testing.T) {
	// A routine with no pending operations completes after exactly one
	// resumption: Step returns the result, no suspension, no Advance.
	result, susp := await.Step[int](kont.ExprReturn(33))
	if susp != nil {
		t.Fatal("expected nil suspension for pure routine")
	}
	v, ok := result.GetRight()
	if !ok {
		t.Fatal("expected Right, got Left")
	}
	if v != 33 {
		t.Fatalf("result got %d, want 33", v)
	}
}

func TestStepInspectOperations(t *testing.T) {
	// susp.Op() returns the concrete Await[int] carrying its promise
	p := await.NewPromise[int]()
	routine := await.ExprAwaitBind(p, func(n int) kont.Expr[int] {
		return kont.ExprReturn(n)
	})

	_, susp := await.Step[int](routine)
	if susp == nil {
		t.Fatal("expected suspension for Await")
	}
	op, ok := susp.Op().(await.Await[int])
	if !ok {
		t.Fatalf("expected Await[int], got %T", susp.Op())
	}
	if op.Promise != p {
		t.Fatal("Await must carry the awaited promise")
	}

	p.Resolve(8)
	result, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected nil suspension after final Advance")
	}
	v, _ := result.GetRight()
	if v != 8 {
		t.Fatalf("result got %d, want 8", v)
	}
}

func TestAdvanceWouldBlock(t *testing.T) {
	// Advance returns iox.ErrWouldBlock while the promise is pending,
	// leaving the suspension unconsumed and the routine unresumed.
	p := await.NewPromise[int]()
	resumed := false
	routine := await.ExprAwaitBind(p, func(n int) kont.Expr[int] {
		resumed = true
		return kont.ExprReturn(n)
	})

	_, susp := await.Step[int](routine)
	if susp == nil {
		t.Fatal("expected suspension for Await")
	}

	_, retrySusp, err := await.Advance[int](susp)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	if retrySusp != susp {
		t.Fatal("suspension should be returned unconsumed on error")
	}
	if resumed {
		t.Fatal("routine must not resume before settlement")
	}

	p.Resolve(4)
	result, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected nil suspension after completion")
	}
	v, _ := result.GetRight()
	if v != 4 {
		t.Fatalf("result got %d, want 4", v)
	}
}

func TestAtMostOneOutstanding(t *testing.T) {
	// On-demand settlement: the second operation must not exist until
	// the first has settled and its resumption returned.
	p1 := await.NewPromise[int]()
	p2 := await.NewPromise[int]()
	var inputs []int

	routine := await.ExprAwaitBind(p1, func(a int) kont.Expr[int] {
		inputs = append(inputs, a)
		return await.ExprAwaitBind(p2, func(b int) kont.Expr[int] {
			inputs = append(inputs, b)
			return kont.ExprReturn(a + b)
		})
	})

	_, susp := await.Step[int](routine)
	op1 := susp.Op().(await.Await[int])
	if op1.Promise != p1 {
		t.Fatal("first outstanding operation must be p1")
	}
	if len(inputs) != 0 {
		t.Fatal("no resumption before first settlement")
	}

	p1.Resolve(40)
	_, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	op2 := susp.Op().(await.Await[int])
	if op2.Promise != p2 {
		t.Fatal("second outstanding operation must be p2")
	}
	if len(inputs) != 1 || inputs[0] != 40 {
		t.Fatalf("inputs got %v, want [40]", inputs)
	}

	p2.Resolve(2)
	result, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected completion")
	}
	if len(inputs) != 2 || inputs[1] != 2 {
		t.Fatalf("inputs got %v, want [40 2]", inputs)
	}
	v, _ := result.GetRight()
	if v != 42 {
		t.Fatalf("result got %d, want 42", v)
	}
}

func TestResumptionCount(t *testing.T) {
	// N successful settlements followed by completion: exactly N
	// successful Advances, each delivering the preceding settlement.
	const n = 5
	promises := make([]*await.Promise[int], n)
	for i := range promises {
		promises[i] = await.Resolved(i)
	}

	chain := func(rest []*await.Promise[int]) kont.Expr[int] {
		var build func(i, acc int) kont.Expr[int]
		build = func(i, acc int) kont.Expr[int] {
			if i == len(rest) {
				return kont.ExprReturn(acc)
			}
			return await.ExprAwaitBind(rest[i], func(v int) kont.Expr[int] {
				return build(i+1, acc+v)
			})
		}
		return build(0, 0)
	}

	result, susp := await.Step[int](chain(promises))
	advances := 0
	for susp != nil {
		var err error
		result, susp, err = await.Advance[int](susp)
		if err != nil {
			t.Fatalf("Advance error: %v", err)
		}
		advances++
	}
	if advances != n {
		t.Fatalf("successful advances got %d, want %d", advances, n)
	}
	v, _ := result.GetRight()
	if v != 0+1+2+3+4 {
		t.Fatalf("result got %d, want 10", v)
	}
}

func TestAdvanceFaultPropagation(t *testing.T) {
	// Unhandled operation fault: drive settles failed with the same
	// fault, and no further resumption occurs.
	fault := errors.New("E")
	resumed := false
	routine := await.ExprAwaitBind(await.Rejected[int](fault), func(n int) kont.Expr[int] {
		resumed = true
		return kont.ExprReturn(n)
	})

	_, susp := await.Step[int](routine)
	result, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	// The fault resumes into the routine, re-raises, and surfaces as an
	// error-op suspension; drive it out.
	for susp != nil {
		result, susp, err = await.Advance[int](susp)
		if err != nil {
			t.Fatalf("Advance error: %v", err)
		}
	}
	f, ok := result.GetLeft()
	if !ok {
		t.Fatal("expected Left, got Right")
	}
	if !errors.Is(f, fault) {
		t.Fatalf("fault got %v, want %v", f, fault)
	}
	if resumed {
		t.Fatal("value continuation must not run on fault")
	}
}

func TestAdvanceProtocolFault(t *testing.T) {
	// Non-awaitable suspension: Left(ErrNotAwaitable), suspension
	// discarded, no second resumption attempted.
	type bogus struct{ kont.Phantom[int] }
	resumed := false

	routine := kont.ExprBind(kont.ExprPerform(bogus{}), func(n int) kont.Expr[int] {
		resumed = true
		return kont.ExprReturn(n)
	})

	_, susp := await.Step[int](routine)
	if susp == nil {
		t.Fatal("expected suspension")
	}
	result, susp, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("Advance error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected terminal outcome after protocol fault")
	}
	f, ok := result.GetLeft()
	if !ok {
		t.Fatal("expected Left, got Right")
	}
	if !errors.Is(f, await.ErrNotAwaitable) {
		t.Fatalf("fault got %v, want %v", f, await.ErrNotAwaitable)
	}
	if resumed {
		t.Fatal("no resumption may follow a protocol fault")
	}
}

func TestAdvanceAffine(t *testing.T) {
	// Double resume of a consumed suspension panics
	routine := await.ExprAwaitBind(await.Resolved(1), func(n int) kont.Expr[int] {
		return kont.ExprReturn(n)
	})

	_, susp := await.Step[int](routine)
	_, _, err := await.Advance[int](susp)
	if err != nil {
		t.Fatalf("first Advance error: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on double resume")
		}
		msg, ok := r.(string)
		if !ok || msg != "kont: suspension resumed twice" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	await.Advance[int](susp)
}

func TestStepRecoveredFault(t *testing.T) {
	// Fault recovered inside the routine: the drive still settles with
	// the routine's true final value through the stepping path.
	fault := errors.New("transient")
	body := await.AwaitBind(await.Rejected[int](fault), func(n int) kont.Eff[int] {
		return kont.Pure(n)
	})
	routine := await.Recover(body, func(err error) kont.Eff[int] {
		return kont.Pure(77)
	})

	v, err := driveExpr(await.Reify(routine))
	if err != nil {
		t.Fatalf("drive error: %v", err)
	}
	if v != 77 {
		t.Fatalf("result got %d, want 77", v)
	}
}
