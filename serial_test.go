// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await_test

import (
	"testing"

	"code.hybscloud.com/await"
)

func TestSerialMonotonic(t *testing.T) {
	p1 := await.NewPromise[int]()
	p2 := await.NewPromise[int]()
	p3 := await.NewPromise[int]()

	if p1.Serial() >= p2.Serial() {
		t.Fatalf("serials not increasing: %d >= %d", p1.Serial(), p2.Serial())
	}
	if p2.Serial() >= p3.Serial() {
		t.Fatalf("serials not increasing: %d >= %d", p2.Serial(), p3.Serial())
	}
}

func TestSerialSharedCounter(t *testing.T) {
	// Promises and sources draw from the same counter
	p := await.NewPromise[int]()
	s := await.NewSource[int](0)

	if p.Serial() >= s.Serial() {
		t.Fatalf("serials not increasing: %d >= %d", p.Serial(), s.Serial())
	}
}
