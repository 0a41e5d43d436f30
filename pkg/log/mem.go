// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import "sync"

// MemLogIdent identifies the default, in-memory-only logger.
const MemLogIdent = "memLog"

// memLog is the default logger installed at process start. It retains
// entries so they can be replayed into a real sink once one is configured
// (see AddLogger's addPrevious parameter).
type memLog struct {
	mu      sync.Mutex
	entries []LogEntry
	next    StackableLogger
}

var _ StackableLogger = (*memLog)(nil)

func (m *memLog) AddEntry(e LogEntry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	if m.next != nil {
		m.next.AddEntry(e)
	}
}

func (m *memLog) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *memLog) ForwardTo(sl StackableLogger) {
	if m.next == nil || sl == nil {
		m.next = sl
	} else {
		panic("next already set")
	}
}

func (*memLog) Ident() string           { return MemLogIdent }
func (m *memLog) Next() StackableLogger { return m.next }

func (m *memLog) Finalize() {
	if m.next != nil {
		m.next.Finalize()
	}
}
