// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await_test

import (
	"code.hybscloud.com/await"
	"code.hybscloud.com/kont"
)

// driveExpr drives a routine to completion via Step+Advance loop.
// Retries on iox.ErrWouldBlock (operation not settled yet).
// Used by stepping tests to exercise the non-blocking path.
func driveExpr[R any](routine kont.Expr[R]) (R, error) {
	result, susp := await.Step[R](routine)
	for susp != nil {
		result, susp, _ = await.Advance[R](susp)
	}
	if fault, ok := result.GetLeft(); ok {
		var zero R
		return zero, fault
	}
	v, _ := result.GetRight()
	return v, nil
}
