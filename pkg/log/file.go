// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// FileLogIdent identifies the file logger in the stack.
const FileLogIdent = "fileLog"

type fileLog struct {
	mu   sync.Mutex
	f    *os.File
	next StackableLogger
}

// AddFileLog adds a fileLog writing to path. Entries flagged NotFile are
// skipped, matching the console logger's EndUser filtering.
func AddFileLog(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	return AddLogger(&fileLog{f: f}, true)
}

var _ StackableLogger = (*fileLog)(nil)

func (l *fileLog) AddEntry(e LogEntry) {
	if e.Flags&flags.NotFile == 0 {
		l.mu.Lock()
		fmt.Fprintln(l.f, e.String())
		l.mu.Unlock()
	}
	if l.next != nil {
		l.next.AddEntry(e)
	}
}

func (l *fileLog) ForwardTo(sl StackableLogger) {
	if l.next == nil || sl == nil {
		l.next = sl
	} else {
		panic("next already set")
	}
}

func (*fileLog) Ident() string           { return FileLogIdent }
func (l *fileLog) Next() StackableLogger { return l.next }

func (l *fileLog) Finalize() {
	l.mu.Lock()
	_ = l.f.Close()
	l.mu.Unlock()
	if l.next != nil {
		l.next.Finalize()
	}
}
