// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package await

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// defaultCapacity is the bounded capacity for source queues when
// NewSource is given a non-positive capacity. 4 balances amortizing
// producer-side cached-index refresh cost while keeping ring buffers
// within a single cache line.
const defaultCapacity = 4

// Source closed states. closing is a transient write barrier for the
// fault slot, as in Promise settlement.
const (
	sourceOpen uint32 = iota
	sourceClosing
	sourceClosed
	sourceFailed
)

// Source is a bounded single-producer single-consumer stream whose
// reads and writes are pending operations. The producer side is
// TryPush/Fail or the Emit/End effect operations; the consumer side is
// the Next effect operation.
//
// Queued items already in flight are drained before a close or fault is
// observed by the consumer.
type Source[T any] struct {
	q        lfq.SPSC[T]
	state    atomix.Uint32
	fault    error
	pushSlot T
	serial   Serial
}

// NewSource creates a source with the given bounded capacity.
// Non-positive capacity falls back to defaultCapacity.
func NewSource[T any](capacity int) *Source[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	s := &Source[T]{serial: nextSerial()}
	s.q.Init(capacity)
	return s
}

// Serial returns the serial number assigned to this source.
func (s *Source[T]) Serial() Serial {
	return s.serial
}

// TryPush enqueues v without blocking. Returns iox.ErrWouldBlock when
// the queue is full, or ErrSourceClosed (or the Fail fault) after the
// source has been closed. Single producer only.
func (s *Source[T]) TryPush(v T) error {
	if err := s.closeFault(); err != nil {
		return err
	}
	s.pushSlot = v
	return s.q.Enqueue(&s.pushSlot)
}

// Close marks the end of the stream. Items already queued are still
// delivered; after the queue drains, the consumer observes
// ErrSourceClosed as a fault. Idempotent; a prior Fail wins.
func (s *Source[T]) Close() {
	if !s.state.CompareAndSwap(sourceOpen, sourceClosing) {
		return
	}
	s.state.Store(sourceClosed)
}

// Fail closes the stream with fault err. Items already queued are still
// delivered; after the queue drains, the consumer observes err as a
// fault. Returns false if the source was already closed or failed.
//
// err must be non-nil, and must not be iox.ErrWouldBlock.
func (s *Source[T]) Fail(err error) bool {
	if !s.state.CompareAndSwap(sourceOpen, sourceClosing) {
		return false
	}
	s.fault = err
	s.state.Store(sourceFailed)
	return true
}

// IsClosed reports whether the source has been closed or failed.
func (s *Source[T]) IsClosed() bool {
	return s.state.Load() >= sourceClosed
}

// closeFault returns the fault a closed source presents, or nil while
// the source is open (or mid-close).
func (s *Source[T]) closeFault() error {
	switch s.state.Load() {
	case sourceClosed:
		return ErrSourceClosed
	case sourceFailed:
		return s.fault
	default:
		return nil
	}
}

// tryPull dequeues the next item without blocking. Returns
// iox.ErrWouldBlock while the queue is empty and the source is open,
// or the close fault once the queue has drained.
func (s *Source[T]) tryPull() (T, error) {
	v, err := s.q.Dequeue()
	if err == nil {
		return v, nil
	}
	if cerr := s.closeFault(); cerr != nil {
		// Close raced with a concurrent push: drain wins.
		if v, err = s.q.Dequeue(); err == nil {
			return v, nil
		}
		var zero T
		return zero, cerr
	}
	var zero T
	return zero, iox.ErrWouldBlock
}
