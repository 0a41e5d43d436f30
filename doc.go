// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command spunwrapd and its supporting packages reconstruct a user's
// file-based-encryption key from a credential and the on-disk artifacts
// left by a synthetic-password manager. The engine hands that key to an
// unwrap.CEUnlocker to unlock the user's credential-encrypted storage when
// one is supplied; cmd/spunwrapd supplies none, so it only recovers the key
// and does not unlock or mount storage.
//
// The engine (pkg/unwrap) is a read-only, single-shot pipeline: it does
// not enroll or change credentials, allocate weaver slots, or upgrade
// stale key-blobs. It cooperates with four hardware-backed services --
// weaver, gatekeeper, keystore and an authorization broker -- reached
// through pkg/hwsvc, and resolves each user's on-disk handle and
// keystore alias through the small persistent record store in
// pkg/keystoreinfo.
package spunwrap
