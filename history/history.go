// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package history provides a bounded, linear undo/redo stack.
//
// Every value stored in or returned from a Stack is an independent copy made
// by the clone function given to New, so callers may mutate what they get
// back without corrupting the history.
package history

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries kept when New is given a
// non-positive capacity.
const DefaultCapacity = 30

// Entry is one committed snapshot.
type Entry[T any] struct {
	Value T
	Label string
	Time  time.Time
}

// Stack is a generic bounded undo stack with a cursor.
//
// Committing after an undo discards every entry past the cursor. When the
// stack is full, the oldest entry is evicted.
//
// Stack is safe for concurrent use.
// Stack must not be copied after creation (has mutex).
type Stack[T any] struct {
	mu       sync.Mutex
	entries  []Entry[T]
	index    int // -1 when empty
	capacity int
	clone    func(T) T
	now      func() time.Time
}

// New creates an empty stack holding at most capacity entries.
// clone must return a deep copy of its argument; nil means values are
// copied by assignment.
func New[T any](capacity int, clone func(T) T) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Stack[T]{
		index:    -1,
		capacity: capacity,
		clone:    clone,
		now:      time.Now,
	}
}

// Commit records a copy of v as the newest entry and moves the cursor to it.
func (s *Stack[T]) Commit(v T, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop the redo tail.
	s.entries = s.entries[:s.index+1]
	s.entries = append(s.entries, Entry[T]{
		Value: s.clone(v),
		Label: label,
		Time:  s.now(),
	})

	if over := len(s.entries) - s.capacity; over > 0 {
		n := copy(s.entries, s.entries[over:])
		clear(s.entries[n:])
		s.entries = s.entries[:n]
	}
	s.index = len(s.entries) - 1
}

// Undo moves the cursor back one entry and returns a copy of that entry's
// value. At the oldest entry it returns (zero, false) and does nothing.
func (s *Stack[T]) Undo() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index <= 0 {
		var zero T
		return zero, false
	}
	s.index--
	return s.clone(s.entries[s.index].Value), true
}

// Redo moves the cursor forward one entry and returns a copy of that
// entry's value. At the newest entry it returns (zero, false).
func (s *Stack[T]) Redo() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.entries)-1 {
		var zero T
		return zero, false
	}
	s.index++
	return s.clone(s.entries[s.index].Value), true
}

// Current returns a copy of the value under the cursor.
func (s *Stack[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 {
		var zero T
		return zero, false
	}
	return s.clone(s.entries[s.index].Value), true
}

// CanUndo reports whether Undo would move the cursor.
func (s *Stack[T]) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index > 0
}

// CanRedo reports whether Redo would move the cursor.
func (s *Stack[T]) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index < len(s.entries)-1
}

// Len returns the number of entries.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the cursor position, or -1 for an empty stack.
func (s *Stack[T]) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Capacity returns the maximum number of entries.
func (s *Stack[T]) Capacity() int {
	return s.capacity
}

// Entries returns copies of all entries, oldest first.
func (s *Stack[T]) Entries() []Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry[T], len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry[T]{Value: s.clone(e.Value), Label: e.Label, Time: e.Time}
	}
	return out
}

// Reset removes all entries.
func (s *Stack[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	s.entries = s.entries[:0]
	s.index = -1
}
