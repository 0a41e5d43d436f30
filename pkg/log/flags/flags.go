// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package flags defines the bitmask attached to every log entry emitted
// by pkg/log.
package flags

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Flag int

const (
	NA Flag = 0

	// ok to display message to end user
	EndUser Flag = 1 << (iota - 1)
	// logging a fatal error
	Fatal
	// do not write to local file log
	NotFile
	// do not write over the wire to a hardware service log sink
	NotWire
	// message would contain derived key material; refuse to render args
	Secret
)

func (f Flag) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f Flag) String() string {
	switch f {
	case NA:
		return ""
	case EndUser:
		return "user"
	case Fatal:
		return "fatal"
	case NotFile:
		return "not file"
	case NotWire:
		return "not wire"
	case Secret:
		return "secret"
	}
	for _, bit := range []Flag{EndUser, Fatal, NotFile, NotWire, Secret} {
		if f&bit > 0 {
			return strings.Join([]string{bit.String(), (f &^ bit).String()}, "|")
		}
	}
	return fmt.Sprintf("0x%x", int(f))
}
