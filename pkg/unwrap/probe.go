// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"fmt"
	"os"
	"path/filepath"
)

// CredentialType is the public classification a caller-facing UI uses to
// decide what kind of prompt to show.
type CredentialType int

const (
	// Default means no credential was ever set; treat as "!" on unlock.
	Default CredentialType = iota
	Password
	Pattern
	Pin
	// PasswordOrPin covers password_type == 2: the UI cannot tell PIN from
	// password apart in this state, so both are folded into one value.
	PasswordOrPin
)

func (t CredentialType) String() string {
	switch t {
	case Default:
		return "Default"
	case Password:
		return "Password"
	case Pattern:
		return "Pattern"
	case Pin:
		return "Pin"
	case PasswordOrPin:
		return "PasswordOrPin"
	default:
		return "Unknown"
	}
}

// ProbeResult is the outcome of Probe: a classification plus, on the legacy
// fallback path, the filename the caller should present to the pre-
// synthetic-password gatekeeper flow.
type ProbeResult struct {
	Type         CredentialType
	LegacyHandle string
}

const (
	legacyPasswordKey = "gatekeeper.password.key"
	legacyPatternKey  = "gatekeeper.pattern.key"
)

// Probe classifies the credential type stored for uid without requiring a
// credential to be supplied. base is the /data-equivalent root; pass
// Config.DataDir.
//
// A missing spblob directory short-circuits to a legacy-file probe rather
// than a BlobMissing error: it is the common shape for a user who never set
// a credential, not a corrupt state.
func Probe(base string, uid int) (ProbeResult, error) {
	dir := spblobDirFor(base, uid)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return probeLegacy(base, uid)
	}

	handle, err := currentHandle(dir)
	if err != nil {
		return probeLegacy(base, uid)
	}
	bs := &BlobStore{Dir: dir}
	pd, err := bs.readPasswordData(handle)
	if err != nil {
		return probeLegacy(base, uid)
	}
	return ProbeResult{Type: typeFromPasswordType(pd.PasswordType)}, nil
}

func typeFromPasswordType(pt int32) CredentialType {
	switch pt {
	case 1:
		return Pattern
	case 2:
		return PasswordOrPin
	case 3:
		return Pin
	case 4:
		return Password
	case -1:
		return Default
	default:
		return Default
	}
}

// currentHandle finds the single handle stem present in dir by looking for
// a ".pwd" file among the zero-padded prefix variants. Real deployments
// have exactly one handle per user directory.
func currentHandle(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", wrap(IoError, err, "read %s", dir)
	}
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) == suffixPwd {
			stem := name[:len(name)-len(suffixPwd)]
			for _, pfx := range handlePrefixes {
				if pfx != "" && len(stem) > len(pfx) && stem[:len(pfx)] == pfx {
					stem = stem[len(pfx):]
					break
				}
			}
			return stem, nil
		}
	}
	return "", wrap(BlobMissing, nil, "no .pwd file under %s", dir)
}

// probeLegacy falls back to the pre-synthetic-password gatekeeper files.
// uid 0 (root) keeps its keys directly under /data/system; every other user
// has a per-user subdirectory.
func probeLegacy(base string, uid int) (ProbeResult, error) {
	dir := filepath.Join(base, "system")
	if uid != 0 {
		dir = filepath.Join(base, "system", "users", fmt.Sprint(uid))
	}
	if exists(filepath.Join(dir, legacyPasswordKey)) {
		return ProbeResult{Type: PasswordOrPin, LegacyHandle: legacyPasswordKey}, nil
	}
	if exists(filepath.Join(dir, legacyPatternKey)) {
		return ProbeResult{Type: Pattern, LegacyHandle: legacyPatternKey}, nil
	}
	return ProbeResult{Type: Default}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
