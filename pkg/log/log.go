// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package log is a flexible logging mechanism allowing multiple log sinks --
// console, file, or an in-memory buffer used to replay events into a sink
// added later on.
//
// Callers must never pass derived key material to any function in this
// package. A *secret.Buffer formats as its type and address only, but raw
// byte slices and the parsed blob types in pkg/unwrap print their contents
// under %v, so the discipline of not passing them at all is the engine's
// responsibility.
package log

import (
	"fmt"

	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

var logPrefix string

// SetPrefix sets the log prefix, used in file names and message framing.
func SetPrefix(pfx string) { logPrefix = pfx }

// GetPrefix returns the log prefix.
func GetPrefix() string { return logPrefix }

// Msgf is for messages suitable for display to the user: short, non-technical.
func Msgf(f string, va ...interface{}) { FlaggedLogf(flags.EndUser, f, va...) }

// Msgln is like Msgf but formats its arguments with fmt.Sprintln.
func Msgln(va ...interface{}) { Msgf(fmt.Sprintln(va...)) }

// Msg is like Msgf with no format arguments.
func Msg(message string) { Msgf(message) }

// Logf is for technical or trivial messages, never shown to the end user.
func Logf(f string, va ...interface{}) { FlaggedLogf(flags.NA, f, va...) }

// Logln is like Logf but formats its arguments with fmt.Sprintln.
func Logln(va ...interface{}) { Logf(fmt.Sprintln(va...)) }

// Log is like Logf with no format arguments.
func Log(message string) { Logf(message) }
