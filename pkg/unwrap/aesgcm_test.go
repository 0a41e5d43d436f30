// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seal(t *testing.T, key, iv, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	require.NoError(t, err)
	return gcm.Seal(nil, iv, plaintext, nil)
}

func TestAesGCMDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	iv := make([]byte, gcmIVSize)
	plaintext := []byte("synthetic password material")
	ct := seal(t, key, iv, plaintext)

	got, err := aesGCMDecrypt(key, iv, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAesGCMDecryptTamperedTagFails(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, gcmIVSize)
	ct := seal(t, key, iv, []byte("secret"))
	ct[len(ct)-1] ^= 0xFF

	_, err := aesGCMDecrypt(key, iv, ct)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CryptoError, e.Kind)
}

func TestAesGCMDecryptBadIVLength(t *testing.T) {
	key := make([]byte, 32)
	_, err := aesGCMDecrypt(key, make([]byte, 4), make([]byte, gcmTagSize))
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobCorrupt, e.Kind)
}
