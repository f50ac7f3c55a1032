// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import "errors"

// ErrNotAwaitable reports a protocol fault: a routine suspended on an
// operation the driver does not recognize as awaitable. The drive
// settles failed with this error; the suspension is discarded and no
// further resumption occurs.
var ErrNotAwaitable = errors.New("await: routine yielded a non-awaitable operation")

// ErrSourceClosed is the fault delivered to a consumer reading past the
// end of a cleanly closed source, and to a producer writing to a
// closed source.
var ErrSourceClosed = errors.New("await: source closed")
