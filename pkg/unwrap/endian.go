// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package unwrap

import "encoding/binary"

// hostEndian is the byte order used to read the .weaver slot field. Every
// other integer in these wire formats is big-endian; this one field was
// written with a raw host-order store in the original writer and must be
// read the same way. Every Android target is little-endian, so this is
// hardcoded rather than detected at runtime, and must not be "corrected" to
// big-endian to match its neighbors.
var hostEndian binary.ByteOrder = binary.LittleEndian
