// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package hwsvc holds the RPC-facing capabilities the unwrap engine
// depends on: a weaver, a gatekeeper, a keystore, and an authorization
// broker. The orchestrator holds only these capability interfaces, never a
// transport-specific handle; each has exactly one concrete transport here,
// a grpc.ClientConn dialed once at Init.
package hwsvc

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// AuthTokenSize is the fixed HAL layout size: a 1-byte version prefix
// (always 0, per the HAL definition this blob comes from) followed by
// challenge, user id, authenticator id, authenticator type, timestamp, and
// a trailing HMAC.
const AuthTokenSize = 1 + 8 + 8 + 8 + 4 + 8 + 32

// AuthToken is the hardware auth token the gatekeeper returns on a
// successful verify. It is forwarded unchanged to the authorization
// service's AddAuthToken so the subsequent keystore Begin call finds a
// matching entry.
type AuthToken struct {
	Version         byte
	Challenge       uint64
	UserID          uint64
	AuthenticatorID uint64
	// AuthenticatorType and TimestampMs are stored big-endian on the wire,
	// unlike the little-endian fields around them.
	AuthenticatorType uint32
	TimestampMs       uint64
	HMAC              [32]byte
}

// ParseAuthToken decodes the 69-byte HAL layout:
//
//	version: u8 | challenge: u64 | user_id: u64 | authenticator_id: u64 |
//	authenticator_type: u32 (BE) | timestamp_ms: u64 (BE) | hmac: [32]byte
func ParseAuthToken(buf []byte) (*AuthToken, error) {
	if len(buf) != AuthTokenSize {
		return nil, errors.Errorf("auth token: want %d bytes, got %d", AuthTokenSize, len(buf))
	}
	le := binary.LittleEndian
	be := binary.BigEndian
	at := &AuthToken{
		Version:           buf[0],
		Challenge:         le.Uint64(buf[1:9]),
		UserID:            le.Uint64(buf[9:17]),
		AuthenticatorID:   le.Uint64(buf[17:25]),
		AuthenticatorType: be.Uint32(buf[25:29]),
		TimestampMs:       be.Uint64(buf[29:37]),
	}
	copy(at.HMAC[:], buf[37:69])
	return at, nil
}

// Bytes re-encodes the token in the same 69-byte layout it was parsed from,
// for forwarding to the authorization service unchanged.
func (at *AuthToken) Bytes() []byte {
	buf := make([]byte, AuthTokenSize)
	le := binary.LittleEndian
	be := binary.BigEndian
	buf[0] = at.Version
	le.PutUint64(buf[1:9], at.Challenge)
	le.PutUint64(buf[9:17], at.UserID)
	le.PutUint64(buf[17:25], at.AuthenticatorID)
	be.PutUint32(buf[25:29], at.AuthenticatorType)
	be.PutUint64(buf[29:37], at.TimestampMs)
	copy(buf[37:69], at.HMAC[:])
	return buf
}

// FakeUID converts an Android user id into the "fake uid" the gatekeeper
// HAL expects.
func FakeUID(userID uint32) uint32 { return 100000 + userID }
