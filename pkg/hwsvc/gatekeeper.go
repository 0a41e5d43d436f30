// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import (
	"context"
	"time"
)

// GkStatus is the outcome of a Gatekeeper.Verify call.
type GkStatus int

const (
	// GkOK means the password token verified; AuthToken holds the signed
	// hardware auth token.
	GkOK GkStatus = iota
	// GkRetry means the service is throttling; retry after Timeout.
	GkRetry
	// GkError covers a wrong credential or any other non-OK result. The
	// gatekeeper HAL exposes only Ok/Retry/Error, so the engine cannot
	// distinguish "wrong PIN" from other failures here; both are surfaced
	// as CredentialWrong by the orchestrator.
	GkError
)

// GkResult is the outcome of Gatekeeper.Verify.
type GkResult struct {
	Status    GkStatus
	AuthToken []byte // raw 69-byte HAL layout, forwarded unchanged
	Timeout   time.Duration
}

// Gatekeeper is a minimal client capability over the gatekeeper HAL.
type Gatekeeper interface {
	// Verify checks gkPasswordToken against the handle enrolled for the
	// given (fake) user id. The challenge is always fixed at 0; this
	// engine never issues a live gatekeeper challenge of its own.
	Verify(ctx context.Context, fakeUserID uint32, handle, gkPasswordToken []byte) (GkResult, error)
}
