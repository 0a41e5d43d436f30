// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	at := &AuthToken{
		Version:           0,
		Challenge:         1,
		UserID:            10,
		AuthenticatorID:   0xdeadbeef,
		AuthenticatorType: 1,
		TimestampMs:       1700000000000,
	}
	for i := range at.HMAC {
		at.HMAC[i] = byte(i)
	}

	buf := at.Bytes()
	assert.Len(t, buf, AuthTokenSize)

	got, err := ParseAuthToken(buf)
	require.NoError(t, err)
	assert.Equal(t, at, got)
}

func TestParseAuthTokenWrongLength(t *testing.T) {
	_, err := ParseAuthToken(make([]byte, AuthTokenSize-1))
	require.Error(t, err)
}

func TestParseAuthTokenBigEndianFields(t *testing.T) {
	buf := make([]byte, AuthTokenSize)
	buf[25] = 0x00
	buf[26] = 0x00
	buf[27] = 0x00
	buf[28] = 0x02
	at, err := ParseAuthToken(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), at.AuthenticatorType)
}

func TestFakeUIDOffset(t *testing.T) {
	assert.Equal(t, uint32(100010), FakeUID(10))
}
