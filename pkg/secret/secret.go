// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package secret holds derived key material for the lifetime of a single
// unwrap request. Every buffer is mlocked so it cannot be swapped to disk,
// and is overwritten with zeros before being released, on both the success
// and the failure path.
package secret

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/vaultgate/spunwrap/pkg/log"
	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// noCopy makes go vet flag accidental by-value copies of a Buffer, the way
// sync.Mutex does. It has no runtime effect.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer is a fixed-size byte buffer holding derived key material. It must
// only ever be referenced through a pointer -- copying one by value would
// leave an un-mlocked, un-wiped duplicate on the stack or heap.
//
// A Buffer never implements fmt.Stringer or error; formatting one with %v
// prints only its type and address, never its contents.
type Buffer struct {
	_    noCopy
	b    []byte
	zero bool
}

// Format prints only the Buffer's type and address, whatever the verb.
func (b *Buffer) Format(s fmt.State, _ rune) { fmt.Fprintf(s, "*secret.Buffer(%p)", b) }

// New allocates and mlocks an n-byte Buffer.
func New(n int) *Buffer {
	b := &Buffer{b: make([]byte, n)}
	if err := unix.Mlock(b.b); err != nil {
		// Not fatal: on a memory-constrained recovery environment mlock can
		// fail (RLIMIT_MEMLOCK), and the secret still gets wiped on Zero.
		log.FlaggedLogf(flags.NotWire, "secret: mlock failed: %s", err)
	}
	return b
}

// FromBytes copies src into a new mlocked Buffer; src stays with the caller
// and is not wiped.
func FromBytes(src []byte) *Buffer {
	b := New(len(src))
	copy(b.b, src)
	return b
}

// Bytes returns the buffer's contents. The returned slice aliases the
// Buffer's storage and must not outlive a call to Zero.
func (b *Buffer) Bytes() []byte {
	if b.zero {
		panic("secret: use of Buffer after Zero")
	}
	return b.b
}

// Len returns the buffer's length.
func (b *Buffer) Len() int { return len(b.b) }

// Zero overwrites the buffer with zeros, unlocks it, and marks it unusable.
// Safe to call more than once.
func (b *Buffer) Zero() {
	if b.zero {
		return
	}
	Wipe(b.b)
	if err := unix.Munlock(b.b); err != nil {
		log.FlaggedLogf(flags.NotWire, "secret: munlock failed: %s", err)
	}
	b.zero = true
}

// Wipe overwrites b with zeros in place. Unlike Buffer, it neither
// allocates nor mlocks: for key material that only ever lives in one stack
// frame -- a Personalize() output, or a KDF/decrypt result immediately
// copied into a Buffer -- the alloc/mlock/munlock cost of a full Buffer
// buys nothing over zeroing it in place before the frame returns.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
