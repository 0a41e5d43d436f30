// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStoreReadsUnprefixedHandle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.pwd"), []byte("data"), 0600))
	bs := &BlobStore{Dir: dir}
	buf, err := bs.read("abc", suffixPwd)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), buf)
}

func TestBlobStoreResolvesZeroPaddedHandle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00abc.pwd"), []byte("padded"), 0600))
	bs := &BlobStore{Dir: dir}
	buf, err := bs.read("abc", suffixPwd)
	require.NoError(t, err)
	assert.Equal(t, []byte("padded"), buf)
}

func TestBlobStoreResolvesSinglyPaddedBeforeDoublyPadded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0abc.pwd"), []byte("single"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00abc.pwd"), []byte("double"), 0600))
	bs := &BlobStore{Dir: dir}
	buf, err := bs.read("abc", suffixPwd)
	require.NoError(t, err)
	assert.Equal(t, []byte("single"), buf)
}

func TestBlobStoreMissingIsBlobMissing(t *testing.T) {
	dir := t.TempDir()
	bs := &BlobStore{Dir: dir}
	_, err := bs.read("nope", suffixPwd)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, BlobMissing, e.Kind)
}

func TestBlobStoreHasWeaver(t *testing.T) {
	dir := t.TempDir()
	bs := &BlobStore{Dir: dir}
	assert.False(t, bs.hasWeaver("abc"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.weaver"), []byte{1, 0, 0, 0, 0}, 0600))
	assert.True(t, bs.hasWeaver("abc"))
}

func TestSpblobDirForLayout(t *testing.T) {
	got := spblobDirFor("/data", 10)
	assert.Equal(t, filepath.Join("/data", "system_de", "10", "spblob"), got)
}
