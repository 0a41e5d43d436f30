// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"github.com/vaultgate/spunwrap/pkg/log"
	"github.com/vaultgate/spunwrap/pkg/log/flags"
)

// State is one stage of a single unlock attempt. Transitions only move
// forward; a failure moves to Failed and stops.
type State int

const (
	Locked State = iota
	TokenDerived
	ApplicationIDBuilt
	EnvelopeOpened
	SecretDerived
	Unlocked
	Failed
)

func (s State) String() string {
	switch s {
	case Locked:
		return "Locked"
	case TokenDerived:
		return "TokenDerived"
	case ApplicationIDBuilt:
		return "ApplicationIdBuilt"
	case EnvelopeOpened:
		return "EnvelopeOpened"
	case SecretDerived:
		return "SecretDerived"
	case Unlocked:
		return "Unlocked"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// tracker records the current stage of one unlock attempt and the terminal
// error, if any. It exists mainly so failure paths can report which stage
// they failed at without threading a stage argument through every wrap()
// call in the orchestrator.
type tracker struct {
	state State
	err   *Error
}

func newTracker() *tracker { return &tracker{state: Locked} }

// State reports the tracker's current stage.
func (t *tracker) State() State { return t.state }

func (t *tracker) advance(s State) {
	log.FlaggedLogf(flags.NotWire, "unwrap: %s -> %s", t.state, s)
	t.state = s
}

// fail logs the stage the attempt was in when err occurred, records err, and
// moves the tracker to Failed.
func (t *tracker) fail(err *Error) *Error {
	log.FlaggedLogf(flags.NotWire, "unwrap: failed in state %s: %s", t.state, err)
	t.state = Failed
	t.err = err
	return err
}
