// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package keystoreinfo is the small persistent record store mapping an
// Android user id to the handle stem and keystore alias the unwrap engine
// resolves for it. It exists because handles and aliases are assigned once
// (by the synthetic-password manager, outside this engine) and must be
// looked up quickly and repeatably on every boot.
package keystoreinfo

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/prologic/bitcask"
)

// Record is one user's persisted handle/alias pair.
type Record struct {
	UserID int
	Handle string
	Alias  string
}

// aliasFor mirrors the fixed-prefix alias scheme used before this record
// type existed: hardware-bound keys got "USRSKEY_", software-only keys got
// "USRPKEY_". New records still go through this so the derivation lives in
// one place.
func aliasFor(userID int, hardwareBound bool) string {
	prefix := "USRPKEY_"
	if hardwareBound {
		prefix = "USRSKEY_"
	}
	return fmt.Sprintf("%s%d", prefix, userID)
}

// Store is a bitcask-backed key-value store of Records, one entry per user.
type Store struct {
	bc *bitcask.Bitcask
	sync.Mutex
}

// Open opens (creating if necessary) the bitcask database at path.
func Open(path string) (*Store, error) {
	bc, err := bitcask.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open keystoreinfo db at %s", path)
	}
	return &Store{bc: bc}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()
	return s.bc.Close()
}

// Put records handle/alias for userID, hardwareBound selecting the alias
// prefix convention.
func (s *Store) Put(userID int, handle string, hardwareBound bool) error {
	rec := Record{UserID: userID, Handle: handle, Alias: aliasFor(userID, hardwareBound)}
	buf, err := encode(&rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	s.Lock()
	defer s.Unlock()
	return s.bc.Put(key(userID), buf)
}

// Get returns the Record for userID.
func (s *Store) Get(userID int) (Record, error) {
	s.Lock()
	buf, err := s.bc.Get(key(userID))
	s.Unlock()
	if err != nil {
		return Record{}, errors.Wrapf(err, "no keystoreinfo record for user %d", userID)
	}
	var rec Record
	if err := decode(buf, &rec); err != nil {
		return Record{}, errors.Wrap(err, "decode record")
	}
	return rec, nil
}

// Resolve implements unwrap.KeyLookup.
func (s *Store) Resolve(userID int) (handle, alias string, err error) {
	rec, err := s.Get(userID)
	if err != nil {
		return "", "", err
	}
	return rec.Handle, rec.Alias, nil
}

// Delete removes the record for userID, if present.
func (s *Store) Delete(userID int) error {
	s.Lock()
	defer s.Unlock()
	return s.bc.Delete(key(userID))
}

func key(userID int) []byte { return []byte(fmt.Sprintf("user_%d", userID)) }

func encode(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, rec *Record) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(rec)
}
