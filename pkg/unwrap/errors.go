// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Kind classifies why unlock (or one of its stages) failed. No Kind is
// locally recovered or retried by the engine; the state machine has a single
// Failed state, and the Kind of the returned Error says why it was reached.
type Kind int

const (
	// BlobMissing means a required on-disk artifact could not be found
	// under any zero-padded name variant.
	BlobMissing Kind = iota
	// BlobCorrupt means a declared length exceeded the file, or the
	// spblob version/type byte was invalid.
	BlobCorrupt
	// CredentialWrong means the weaver returned Incorrect, the gatekeeper
	// returned non-OK, or the keystore rejected the operation for auth
	// reasons.
	CredentialWrong
	// RetryAfterKind means the weaver or gatekeeper asked to be retried
	// after a delay; see Error.After.
	RetryAfterKind
	// HardwareUnavailable means a hardware service could not be reached
	// or returned a generic error.
	HardwareUnavailable
	// KeyRotated means the keystore has no entry under the expected alias.
	KeyRotated
	// KdfError means Scrypt failed.
	KdfError
	// CryptoError means AES-GCM authentication failed on the inner
	// envelope (tag mismatch).
	CryptoError
	// IoError covers any other I/O failure.
	IoError
)

func (k Kind) String() string {
	switch k {
	case BlobMissing:
		return "BlobMissing"
	case BlobCorrupt:
		return "BlobCorrupt"
	case CredentialWrong:
		return "CredentialWrong"
	case RetryAfterKind:
		return "RetryAfter"
	case HardwareUnavailable:
		return "HardwareUnavailable"
	case KeyRotated:
		return "KeyRotated"
	case KdfError:
		return "KdfError"
	case CryptoError:
		return "CryptoError"
	case IoError:
		return "IoError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the only error type unlock returns. Callers switch on Kind; the
// wrapped cause (available via errors.Unwrap) is for logging only and is
// never a secret value.
type Error struct {
	Kind  Kind
	After time.Duration // meaningful only when Kind == RetryAfterKind
	cause error
}

func (e *Error) Error() string {
	if e.Kind == RetryAfterKind {
		return fmt.Sprintf("%s(%s)", e.Kind, e.After)
	}
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// wrap produces an *Error of the given kind, wrapping cause with pkg/errors
// so a stack trace is retained for logging.
func wrap(k Kind, cause error, format string, args ...interface{}) *Error {
	var c error
	if cause != nil {
		c = errors.Wrapf(cause, format, args...)
	} else if format != "" {
		c = errors.Errorf(format, args...)
	}
	return &Error{Kind: k, cause: c}
}

func retryAfter(d time.Duration) *Error {
	return &Error{Kind: RetryAfterKind, After: d}
}

// AsError reports whether err is an *Error and, if so, returns it.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
