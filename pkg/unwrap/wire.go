// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import "encoding/binary"

// reader is a bounds-checked cursor over an untrusted blob. Every accessor
// returns BlobCorrupt instead of panicking or reading past the end of buf,
// which is the single biggest safety difference from the pointer-arithmetic
// parser this engine replaces.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, wrap(BlobCorrupt, nil, "want %d bytes, have %d", n, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) i32be() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *reader) u32host() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return hostEndian.Uint32(b), nil
}

// rest returns every remaining byte without advancing off further than the
// end (there is nothing left to advance past).
func (r *reader) rest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

// PasswordData is the parsed contents of a <handle>.pwd file.
type PasswordData struct {
	PasswordType int32
	ScryptN      uint8
	ScryptR      uint8
	ScryptP      uint8
	Salt         []byte
	Handle       []byte
}

// parsePasswordData decodes the big-endian .pwd wire format:
//
//	i32 password_type | u8 scryptN | u8 scryptR | u8 scryptP |
//	i32 salt_len | bytes salt[salt_len] |
//	i32 handle_len | bytes handle[handle_len]
func parsePasswordData(buf []byte) (*PasswordData, error) {
	r := newReader(buf)
	pd := &PasswordData{}
	var err error
	if pd.PasswordType, err = r.i32be(); err != nil {
		return nil, err
	}
	if pd.ScryptN, err = r.u8(); err != nil {
		return nil, err
	}
	if pd.ScryptR, err = r.u8(); err != nil {
		return nil, err
	}
	if pd.ScryptP, err = r.u8(); err != nil {
		return nil, err
	}
	saltLen, err := r.i32be()
	if err != nil {
		return nil, err
	}
	if saltLen <= 0 {
		return nil, wrap(BlobCorrupt, nil, "salt_len %d must be > 0", saltLen)
	}
	if pd.Salt, err = r.take(int(saltLen)); err != nil {
		return nil, err
	}
	handleLen, err := r.i32be()
	if err != nil {
		return nil, err
	}
	if handleLen < 0 {
		return nil, wrap(BlobCorrupt, nil, "handle_len %d must be >= 0", handleLen)
	}
	if pd.Handle, err = r.take(int(handleLen)); err != nil {
		return nil, err
	}
	return pd, nil
}

// spBlobTypePasswordBased is the only value valid in an SpBlob's type byte.
const spBlobTypePasswordBased = 0

// SpBlob is the parsed contents of a <handle>.spblob file.
type SpBlob struct {
	Version           byte
	Type              byte
	IV                [12]byte
	CiphertextWithTag []byte
}

// parseSpBlob decodes the .spblob wire format:
//
//	u8 version | u8 type | u8[12] iv | bytes ciphertext_with_tag
//
// and enforces two invariants: version must be 2 or 3 (v1 is legacy and
// deliberately unsupported), type must be PASSWORD_BASED (0).
func parseSpBlob(buf []byte) (*SpBlob, error) {
	r := newReader(buf)
	sb := &SpBlob{}
	var err error
	if sb.Version, err = r.u8(); err != nil {
		return nil, err
	}
	if sb.Type, err = r.u8(); err != nil {
		return nil, err
	}
	iv, err := r.take(12)
	if err != nil {
		return nil, err
	}
	copy(sb.IV[:], iv)
	sb.CiphertextWithTag = r.rest()

	if sb.Version != 2 && sb.Version != 3 {
		return nil, wrap(BlobCorrupt, nil, "unsupported spblob version %d", sb.Version)
	}
	if sb.Type != spBlobTypePasswordBased {
		return nil, wrap(BlobCorrupt, nil, "unsupported spblob type %d", sb.Type)
	}
	if len(sb.CiphertextWithTag) < gcmTagSize {
		return nil, wrap(BlobCorrupt, nil, "ciphertext too short for a GCM tag")
	}
	return sb, nil
}

// WeaverData is the parsed contents of a <handle>.weaver file.
type WeaverData struct {
	Version byte
	Slot    uint32
}

// parseWeaverData decodes the .weaver wire format:
//
//	u8 version | i32 slot (host-endian, as observed -- see endian.go)
func parseWeaverData(buf []byte) (*WeaverData, error) {
	r := newReader(buf)
	wd := &WeaverData{}
	var err error
	if wd.Version, err = r.u8(); err != nil {
		return nil, err
	}
	if wd.Slot, err = r.u32host(); err != nil {
		return nil, err
	}
	return wd, nil
}
