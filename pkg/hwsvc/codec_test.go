// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGobCodecName(t *testing.T) {
	assert.Equal(t, "gob", gobCodec{}.Name())
}

func TestGobCodecRoundTrip(t *testing.T) {
	c := gobCodec{}
	req := &weaverVerifyReq{Slot: 7, Key: []byte("weaver key bytes")}

	buf, err := c.Marshal(req)
	require.NoError(t, err)

	var got weaverVerifyReq
	require.NoError(t, c.Unmarshal(buf, &got))
	assert.Equal(t, req.Slot, got.Slot)
	assert.Equal(t, req.Key, got.Key)
}

func TestGobCodecRoundTripEmptyStruct(t *testing.T) {
	c := gobCodec{}
	buf, err := c.Marshal(&weaverKeySizeReq{})
	require.NoError(t, err)

	var got weaverKeySizeReq
	assert.NoError(t, c.Unmarshal(buf, &got))
}
