// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import (
	"bytes"
	"encoding/gob"

	"google.golang.org/grpc/encoding"
)

// gobCodecName is registered with grpc's encoding package and selected via
// grpc.CallContentSubtype on every Invoke in this package. The hardware
// services this engine talks to (weaver, gatekeeper, keystore, an
// authorization broker) are HIDL/AIDL HALs in their real form, not
// protobuf-defined gRPC services; gob keeps the wire messages here to plain
// Go structs instead of requiring a .proto/protoc step for what is, on real
// hardware, not actually a protobuf service.
const gobCodecName = "gob"

type gobCodec struct{}

func (gobCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobCodec) Name() string { return gobCodecName }

func init() {
	encoding.RegisterCodec(gobCodec{})
}
