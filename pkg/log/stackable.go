// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"sync"
	"time"

	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// A type of logger which can be chained/stacked, each adding different
// functionality. Events can go to a console, a file, or an in-memory buffer,
// and this is transparent to callers.
//
// Normal logging should go through the package-level Logf, Msgf, Fatalf
// functions rather than through a StackableLogger directly.
type StackableLogger interface {
	// AddEntry adds an entry to the log. Must call the same method on the
	// next log in the stack (if not nil).
	AddEntry(e LogEntry)

	// ForwardTo chains one logger to another. It is an error to call this
	// on a logger to which another has already been chained.
	ForwardTo(StackableLogger)

	// Ident identifies the type of logger, for detecting duplicates in the stack.
	Ident() string
	// Next returns the next StackableLogger, or nil.
	Next() StackableLogger
	// Finalize flushes outstanding entries and releases resources. Must
	// call the same method on the next log in the stack (if not nil).
	Finalize()
}

// Top logger on the stack. Access must be through logStackMtx.
var logStack StackableLogger = &memLog{}

var logStackMtx sync.Mutex

type stackErr struct {
	Id string
}

func (se *stackErr) Error() string {
	return fmt.Sprintf("duplicate logger %s in stack", se.Id)
}

// Finalize flushes data, closes files/connections, etc.
func Finalize() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.Finalize()
}

// DefaultLogStack restores the log stack to its initial, in-memory-only state.
func DefaultLogStack() { NewLogStack(&memLog{}) }

// NewLogStack finalizes the existing stack and replaces it with newLog.
func NewLogStack(newLog StackableLogger) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if logStack != nil {
		logStack.Finalize()
	}
	logStack = newLog
}

// AddLogger adds a logger to the top of the stack. If addPrevious is true,
// events already recorded in a MemLog are replayed into the new logger.
func AddLogger(sl StackableLogger, addPrevious bool) error {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if addPrevious {
		addPreviousEvents(sl, logStack)
	}
	sl.ForwardTo(logStack)
	if err := checkDuplicate(sl, logStack); err != nil {
		return err
	}
	logStack = sl
	return nil
}

func checkDuplicate(newLogger, sl StackableLogger) error {
	if newLogger.Ident() == sl.Ident() {
		return &stackErr{Id: sl.Ident()}
	}
	if next := sl.Next(); next != nil {
		return checkDuplicate(newLogger, next)
	}
	return nil
}

// RemoveLogger removes the log with the given id from the stack, if present.
func RemoveLogger(id string) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	l := logStack
	var prev StackableLogger
	for l != nil {
		next := l.Next()
		if l.Ident() == id {
			l.ForwardTo(nil)
			l.Finalize()
			if prev != nil {
				prev.ForwardTo(nil)
				prev.ForwardTo(next)
			} else {
				logStack = next
			}
			break
		}
		prev = l
		l = next
	}
}

// LogEntry is the record type carried by StackableLogger.
type LogEntry struct {
	Time  time.Time `json:"t"`
	Msg   string
	Args  []interface{} `json:",omitempty"`
	Flags flags.Flag    `json:",omitempty"`
}

// FlaggedLogf is the backend of Logf, Msgf, Fatalf: it builds a LogEntry and
// inserts it into the topmost logger.
func FlaggedLogf(opts flags.Flag, f string, va ...interface{}) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.AddEntry(LogEntry{
		Time:  time.Now(),
		Flags: opts,
		Msg:   f,
		Args:  va,
	})
}

func (le *LogEntry) String() string {
	var div string
	switch {
	case le.Flags&flags.EndUser != 0:
		div = "-- "
	case le.Flags&flags.Fatal != 0:
		div = "!! "
	case le.Flags == 0:
		div = "*- "
	default:
		div = "?? "
	}
	f := div + le.Time.Format(TimestampLayout) + " " + div + le.Msg
	if le.Flags&flags.Secret != 0 {
		return f
	}
	return fmt.Sprintf(f, le.Args...)
}

func addPreviousEvents(newlog, current StackableLogger) {
	if _, isMem := newlog.(*memLog); isMem {
		return
	}
	l := FindInStack(MemLogIdent)
	if l == nil {
		return
	}
	if mem, ok := l.(*memLog); ok {
		for _, e := range mem.Entries() {
			newlog.AddEntry(e)
		}
	}
}

// InStack reports whether a logger matching id is present in the stack.
func InStack(id string) bool { return FindInStack(id) != nil }

// FindInStack returns the StackableLogger matching id, or nil.
func FindInStack(id string) StackableLogger {
	l := logStack
	for l != nil {
		if l.Ident() == id {
			return l
		}
		l = l.Next()
	}
	return nil
}

// TimestampLayout is the format used to render LogEntry.Time.
const TimestampLayout = "2006-01-02 15:04:05.000"
