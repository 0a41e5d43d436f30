// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import "context"

// Authorization is the per-boot broker that keeps auth tokens and forwards
// them to the keystore during key operations. On the secdiscardable path,
// AddAuthToken must complete before Keystore.GetKey(...).Decrypt is called --
// the keystore checks for a live auth token at operation-begin time, not at
// key-creation time.
type Authorization interface {
	AddAuthToken(ctx context.Context, token *AuthToken) error
}
