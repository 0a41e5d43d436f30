// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"golang.org/x/crypto/scrypt"
)

// passwordTokenSize is the length of the derived password token.
const passwordTokenSize = 32

// defaultPasswordLiteral is used verbatim, zero-padded to passwordTokenSize,
// when the caller passes the "!" sentinel credential.
const defaultPasswordLiteral = "default-password"

// deriveDefaultToken builds the fixed password token used on the
// default-password path. It never touches scrypt.
func deriveDefaultToken() []byte {
	tok := make([]byte, passwordTokenSize)
	copy(tok, defaultPasswordLiteral)
	return tok
}

// deriveScryptToken runs scrypt over credential and pwd.Salt using the
// exponents recorded verbatim in the .pwd file. logN/logR/logP are never
// clamped, however implausible.
func deriveScryptToken(credential []byte, pd *PasswordData) ([]byte, error) {
	n := 1 << pd.ScryptN
	r := 1 << pd.ScryptR
	p := 1 << pd.ScryptP
	tok, err := scrypt.Key(credential, pd.Salt, n, r, p, passwordTokenSize)
	if err != nil {
		return nil, wrap(KdfError, err, "scrypt(N=2^%d,r=2^%d,p=2^%d)", pd.ScryptN, pd.ScryptR, pd.ScryptP)
	}
	return tok, nil
}
