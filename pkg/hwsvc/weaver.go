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

// WeaverStatus is the outcome of a Weaver.Verify call.
type WeaverStatus int

const (
	// WeaverOK means the (slot, key) pair was correct; Payload holds the
	// escrowed secret.
	WeaverOK WeaverStatus = iota
	// WeaverRetry means the service is throttling; retry after Timeout.
	WeaverRetry
	// WeaverIncorrect means the key did not match the slot.
	WeaverIncorrect
	// WeaverError means the service could not service the request at all.
	WeaverError
)

// WeaverResult is the outcome of Weaver.Verify.
type WeaverResult struct {
	Status  WeaverStatus
	Payload []byte
	Timeout time.Duration
}

// Weaver is a minimal client capability over the secure-element-backed
// weaver slot. The orchestrator holds this interface, never a transport
// handle -- see the package doc.
type Weaver interface {
	// KeySize returns the fixed key length this weaver expects, checked
	// against len(weaverKey) before Verify is called.
	KeySize(ctx context.Context) (uint32, error)
	// Verify checks (slot, key) and returns the escrowed payload on success.
	Verify(ctx context.Context, slot uint32, key []byte) (WeaverResult, error)
}
