// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"os"
	"strings"

	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// FatalFunc runs after a fatal event has been logged and finalized.
type FatalFunc func()

// PreFunc runs after a fatal event has been logged but before Finalize, so
// the log is still writable.
type PreFunc func(f string, va ...interface{})

// FailAction describes what happens when Fatalf is called. It need not log
// the event itself -- that happens automatically.
type FailAction struct {
	// MsgPfx is prepended to the message.
	MsgPfx string
	// Pre runs before Finalize.
	Pre PreFunc
	// Terminator runs after Finalize; logs are no longer writable.
	Terminator FatalFunc
}

var fatalAction = DefaultFatal

// SetFatalAction changes what Fatalf does after logging. The engine's
// cmd/spunwrapd entry point sets this to exit with a diagnostic code rather
// than the library default of panicking, since spunwrap is embedded, not a
// standalone init process.
func SetFatalAction(act FailAction) { fatalAction = act }

// DefaultFatal panics; embedding callers must call SetFatalAction before
// invoking anything that can reach Fatalf.
var DefaultFatal = FailAction{Terminator: defaultFatalAction}

func defaultFatalAction() {
	if strings.HasSuffix(os.Args[0], "test") {
		panic("generic fatal called from test")
	}
	panic("log.Fatalf called with no FailAction configured")
}

// Fatalf logs a fatal event, then runs the configured FailAction.
func Fatalf(f string, va ...interface{}) {
	if logStack.Next() == nil && logStack.Ident() == MemLogIdent {
		AddConsoleLog(0)
		Log("Fatalf: logging unconfigured")
	}
	FlaggedLogf(flags.Fatal, fatalAction.MsgPfx+f, va...)
	if fatalAction.Pre != nil {
		fatalAction.Pre(fatalAction.MsgPfx+f, va...)
	}
	Finalize()
	fatalAction.Terminator()
}
