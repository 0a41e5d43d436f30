// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package keystoreinfo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "keystoreinfo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(10, "h1", false))

	rec, err := s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.UserID)
	assert.Equal(t, "h1", rec.Handle)
	assert.Equal(t, "USRPKEY_10", rec.Alias)
}

func TestPutHardwareBoundAliasPrefix(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(10, "h1", true))

	rec, err := s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "USRSKEY_10", rec.Alias)
}

func TestResolveMatchesKeyLookupSignature(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(10, "h1", false))

	handle, alias, err := s.Resolve(10)
	require.NoError(t, err)
	assert.Equal(t, "h1", handle)
	assert.Equal(t, "USRPKEY_10", alias)
}

func TestGetUnknownUserErrors(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(999)
	require.Error(t, err)
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(10, "h1", false))
	require.NoError(t, s.Delete(10))

	_, err := s.Get(10)
	require.Error(t, err)
}

func TestPutOverwritesExistingRecord(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(10, "h1", false))
	require.NoError(t, s.Put(10, "h2", true))

	rec, err := s.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "h2", rec.Handle)
	assert.Equal(t, "USRSKEY_10", rec.Alias)
}

func TestSeparateUsersDoNotCollide(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(1, "h1", false))
	require.NoError(t, s.Put(2, "h2", true))

	rec1, err := s.Get(1)
	require.NoError(t, err)
	rec2, err := s.Get(2)
	require.NoError(t, err)
	assert.NotEqual(t, rec1.Alias, rec2.Alias)
}
