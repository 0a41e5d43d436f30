// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
)

// personalizeLabelSize is the fixed width every label is right-padded to
// before hashing. Recognized labels: "application-id", "fbe-key",
// "secdiscardable-transform", "weaver-key", "weaver-pwd",
// "user-gk-authentication".
const personalizeLabelSize = 128

// Personalize computes SHA-512(pad128(label) || data), where pad128
// right-pads the UTF-8 label with NUL bytes to exactly 128 bytes.
//
// This is implemented directly against crypto/sha512 rather than an
// off-the-shelf personalization library: the padded-label-prefix
// construction here is a fixed, one-off wire format, not a general HMAC or
// KDF use case any third-party package in this repo's dependency graph
// models.
func Personalize(label string, data []byte) [64]byte {
	if len(label) > personalizeLabelSize {
		panic("unwrap: label longer than personalizeLabelSize")
	}
	var padded [personalizeLabelSize]byte
	copy(padded[:], label)

	h := sha512.New()
	h.Write(padded[:])
	h.Write(data)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PersonalizeSP800 implements the NIST SP 800-108 counter-mode KDF with
// HMAC-SHA-256 as the PRF, producing a 32-byte key. It is used only when the
// spblob version is 3.
//
// Built directly on crypto/hmac rather than a third-party KDF package: the
// counter-mode construction (4-byte big-endian counter || label || 0x00 ||
// context || 4-byte big-endian output-bit-length) is small, exactly
// specified, and not exposed as a reusable primitive by golang.org/x/crypto
// (which offers HKDF, a different construction, but not SP 800-108).
func PersonalizeSP800(label, context string, key []byte) [32]byte {
	const outputBytes = 32
	mac := hmac.New(sha256.New, key)

	var counter [4]byte
	binary.BigEndian.PutUint32(counter[:], 1)

	var lengthBits [4]byte
	binary.BigEndian.PutUint32(lengthBits[:], outputBytes*8)

	mac.Write(counter[:])
	mac.Write([]byte(label))
	mac.Write([]byte{0x00})
	mac.Write([]byte(context))
	mac.Write(lengthBits[:])

	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// Recognized personalization labels.
const (
	labelApplicationID     = "application-id"
	labelFbeKey            = "fbe-key"
	labelSecdiscardable    = "secdiscardable-transform"
	labelWeaverKey         = "weaver-key"
	labelWeaverPwd         = "weaver-pwd"
	labelGkAuthentication  = "user-gk-authentication"
	sp800ContextFbeKey     = "fbe-key-context"
)
