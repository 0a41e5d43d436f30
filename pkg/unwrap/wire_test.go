// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePasswordData(passwordType int32, n, r, p uint8, salt, handle []byte) []byte {
	buf := make([]byte, 0, 64)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(passwordType))
	buf = append(buf, tmp[:]...)
	buf = append(buf, n, r, p)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(salt)))
	buf = append(buf, tmp[:]...)
	buf = append(buf, salt...)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(handle)))
	buf = append(buf, tmp[:]...)
	buf = append(buf, handle...)
	return buf
}

func TestParsePasswordDataRoundTrip(t *testing.T) {
	buf := encodePasswordData(4, 14, 3, 1, []byte("saltsaltsalt"), []byte("handle123"))
	pd, err := parsePasswordData(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(4), pd.PasswordType)
	assert.Equal(t, uint8(14), pd.ScryptN)
	assert.Equal(t, uint8(3), pd.ScryptR)
	assert.Equal(t, uint8(1), pd.ScryptP)
	assert.Equal(t, []byte("saltsaltsalt"), pd.Salt)
	assert.Equal(t, []byte("handle123"), pd.Handle)
}

func TestParsePasswordDataTruncated(t *testing.T) {
	buf := encodePasswordData(4, 14, 3, 1, []byte("salt"), []byte("handle"))
	_, err := parsePasswordData(buf[:len(buf)-3])
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}

func TestParsePasswordDataZeroSaltLenRejected(t *testing.T) {
	buf := encodePasswordData(4, 14, 3, 1, nil, []byte("handle"))
	_, err := parsePasswordData(buf)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}

func TestParsePasswordDataEmptyHandleAllowed(t *testing.T) {
	buf := encodePasswordData(-1, 14, 3, 1, []byte("salt"), nil)
	pd, err := parsePasswordData(buf)
	require.NoError(t, err)
	assert.Empty(t, pd.Handle)
}

func encodeSpBlob(version, typ byte, iv [12]byte, ciphertextWithTag []byte) []byte {
	buf := []byte{version, typ}
	buf = append(buf, iv[:]...)
	buf = append(buf, ciphertextWithTag...)
	return buf
}

func TestParseSpBlobAcceptsV2AndV3(t *testing.T) {
	for _, v := range []byte{2, 3} {
		var iv [12]byte
		ct := make([]byte, gcmTagSize+8)
		buf := encodeSpBlob(v, spBlobTypePasswordBased, iv, ct)
		sb, err := parseSpBlob(buf)
		require.NoError(t, err)
		assert.Equal(t, v, sb.Version)
		assert.Equal(t, ct, sb.CiphertextWithTag)
	}
}

func TestParseSpBlobRejectsV1(t *testing.T) {
	var iv [12]byte
	buf := encodeSpBlob(1, spBlobTypePasswordBased, iv, make([]byte, gcmTagSize))
	_, err := parseSpBlob(buf)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}

func TestParseSpBlobRejectsBadType(t *testing.T) {
	var iv [12]byte
	buf := encodeSpBlob(2, 1, iv, make([]byte, gcmTagSize))
	_, err := parseSpBlob(buf)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}

func TestParseSpBlobRejectsShortCiphertext(t *testing.T) {
	var iv [12]byte
	buf := encodeSpBlob(2, spBlobTypePasswordBased, iv, make([]byte, gcmTagSize-1))
	_, err := parseSpBlob(buf)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}

func TestParseWeaverDataHostEndian(t *testing.T) {
	buf := make([]byte, 5)
	buf[0] = 1
	hostEndian.PutUint32(buf[1:], 7)
	wd, err := parseWeaverData(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(1), wd.Version)
	assert.Equal(t, uint32(7), wd.Slot)
}

func TestReaderBoundsChecked(t *testing.T) {
	r := newReader([]byte{1, 2, 3})
	_, err := r.take(4)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}
