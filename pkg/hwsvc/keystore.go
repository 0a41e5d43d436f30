// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import "context"

// KeystoreErrorClass distinguishes the three keystore failure shapes the
// orchestrator needs to tell apart.
type KeystoreErrorClass int

const (
	// KeystoreOK: no error.
	KeystoreOK KeystoreErrorClass = iota
	// KeystoreNotFound: getKeyEntry found nothing under the alias --
	// surfaced by the orchestrator as KeyRotated.
	KeystoreNotFound
	// KeystoreAuthFailed: the begin operation failed for
	// KeyNotYetValid/KeyUserNotAuthenticated -- surfaced as CredentialWrong,
	// since it means the earlier gatekeeper step failed to install a
	// valid auth token.
	KeystoreAuthFailed
	// KeystoreOtherError: anything else -- surfaced as HardwareUnavailable.
	KeystoreOtherError
)

// KeystoreError reports which of the three shapes above occurred.
type KeystoreError struct {
	Class KeystoreErrorClass
	Err   error
}

func (e *KeystoreError) Error() string { return e.Err.Error() }
func (e *KeystoreError) Unwrap() error { return e.Err }

// KeyHandle identifies an AES-256-GCM key obtained from the keystore.
// Decrypt hides the getKeyEntry -> createOperation -> finish sequence
// behind a single call.
type KeyHandle interface {
	// Decrypt performs AES-256-GCM decrypt with algorithm/mode/padding
	// fixed to AES/GCM/NONE, purpose DECRYPT, MAC length 128 bits. aad is
	// always empty for this engine's use.
	Decrypt(ctx context.Context, iv, aad, ciphertextWithTag []byte) ([]byte, error)
}

// Keystore is a minimal client capability over the platform key store.
type Keystore interface {
	// GetKey resolves alias (SELINUX/LOCKSETTINGS domain) to a KeyHandle
	// bound to gatekeeper authentication.
	GetKey(ctx context.Context, alias string) (KeyHandle, error)
}
