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
)

// gcmTagSize is the AES-GCM authentication tag length used throughout these
// formats: 128 bits, always appended to the ciphertext.
const gcmTagSize = 16

// gcmIVSize is the AES-GCM nonce length used throughout these formats.
const gcmIVSize = 12

// aesGCMDecrypt decrypts the inner envelope of an spblob with OpenSSL-
// equivalent primitives: AES in GCM mode, no padding, a 128-bit tag.
// crypto/aes + crypto/cipher is the idiomatic Go equivalent of libcrypto's
// EVP_aes_256_gcm interface and is used directly rather than through a
// third-party wrapper -- no package in this repo's dependency graph offers
// anything crypto/cipher.AEAD doesn't.
func aesGCMDecrypt(key, iv, ciphertextWithTag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrap(CryptoError, err, "aes.NewCipher")
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	if err != nil {
		return nil, wrap(CryptoError, err, "cipher.NewGCM")
	}
	if len(iv) != gcmIVSize {
		return nil, wrap(BlobCorrupt, nil, "iv length %d != %d", len(iv), gcmIVSize)
	}
	plaintext, err := gcm.Open(nil, iv, ciphertextWithTag, nil)
	if err != nil {
		return nil, wrap(CryptoError, err, "gcm tag mismatch")
	}
	return plaintext, nil
}
