// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroWipesContents(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3, 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
	b.Zero()
	assert.Panics(t, func() { b.Bytes() })
}

func TestZeroIdempotent(t *testing.T) {
	b := New(8)
	assert.NotPanics(t, func() {
		b.Zero()
		b.Zero()
	})
}

func TestLen(t *testing.T) {
	b := New(32)
	defer b.Zero()
	assert.Equal(t, 32, b.Len())
}
