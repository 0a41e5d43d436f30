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

// BlobStore locates and reads the on-disk artifacts written by the
// synthetic-password manager for a given (user, handle) pair. It never
// interprets content; parsing lives in wire.go.
type BlobStore struct {
	// Dir is the directory holding <handle>.pwd, <handle>.spblob, etc,
	// normally /data/system_de/<uid>/spblob.
	Dir string
}

// zero-padded handle variants tried in order.
var handlePrefixes = []string{"", "0", "00"}

// read tries <handle><suffix>, then 0<handle><suffix>, then 00<handle><suffix>
// under Dir, returning the first one that exists.
func (bs *BlobStore) read(handle, suffix string) ([]byte, error) {
	var lastErr error
	for _, pfx := range handlePrefixes {
		name := pfx + handle + suffix
		buf, err := os.ReadFile(filepath.Join(bs.Dir, name))
		if err == nil {
			return buf, nil
		}
		if !os.IsNotExist(err) {
			return nil, wrap(IoError, err, "read %s", name)
		}
		lastErr = err
	}
	return nil, wrap(BlobMissing, lastErr, "no variant of %s%s found under %s", handle, suffix, bs.Dir)
}

// exists reports whether any zero-padded variant of <handle><suffix> exists
// under Dir, without reading its contents.
func (bs *BlobStore) exists(handle, suffix string) bool {
	for _, pfx := range handlePrefixes {
		name := pfx + handle + suffix
		if _, err := os.Stat(filepath.Join(bs.Dir, name)); err == nil {
			return true
		}
	}
	return false
}

// suffixes recognized under Dir.
const (
	suffixPwd     = ".pwd"
	suffixSpblob  = ".spblob"
	suffixWeaver  = ".weaver"
	suffixSecdis  = ".secdis"
)

func (bs *BlobStore) readPasswordData(handle string) (*PasswordData, error) {
	buf, err := bs.read(handle, suffixPwd)
	if err != nil {
		return nil, err
	}
	return parsePasswordData(buf)
}

func (bs *BlobStore) readSpBlob(handle string) (*SpBlob, error) {
	buf, err := bs.read(handle, suffixSpblob)
	if err != nil {
		return nil, err
	}
	return parseSpBlob(buf)
}

func (bs *BlobStore) readWeaverData(handle string) (*WeaverData, error) {
	buf, err := bs.read(handle, suffixWeaver)
	if err != nil {
		return nil, err
	}
	return parseWeaverData(buf)
}

func (bs *BlobStore) readSecDiscardable(handle string) ([]byte, error) {
	return bs.read(handle, suffixSecdis)
}

func (bs *BlobStore) hasWeaver(handle string) bool { return bs.exists(handle, suffixWeaver) }

// spblobDirFor returns the per-user spblob directory under base:
// /data/system_de/<uid>/spblob/.
func spblobDirFor(base string, uid int) string {
	return filepath.Join(base, "system_de", fmt.Sprint(uid), "spblob")
}
