// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// Stack returns the current logStack. Only suitable for testing -- ignores
// logStackMtx.
func Stack() StackableLogger { return logStack }

func TestMarshalEntry(t *testing.T) {
	tm, _ := time.Parse("2006", "1999")
	e := LogEntry{
		Time:  tm,
		Flags: flags.EndUser | flags.Fatal | flags.Flag(0x90),
		Msg:   "test",
	}
	j, err := json.Marshal(e)
	require.NoError(t, err)
	want := `{"t":"1999-01-01T00:00:00Z","Msg":"test","Flags":"user|fatal|0x90"}`
	assert.Equal(t, want, string(j))
}

func TestDuplicateLoggerRejected(t *testing.T) {
	defer DefaultLogStack()
	DefaultLogStack()
	assert.True(t, InStack(MemLogIdent))
	e := AddLogger(&memLog{}, false)
	assert.Error(t, e)
}

func TestFindInStack(t *testing.T) {
	defer DefaultLogStack()
	DefaultLogStack()
	assert.Nil(t, FindInStack(ConsoleLogIdent))
	AddConsoleLog(flags.NA)
	assert.NotNil(t, FindInStack(ConsoleLogIdent))
	RemoveLogger(ConsoleLogIdent)
	assert.Nil(t, FindInStack(ConsoleLogIdent))
}
