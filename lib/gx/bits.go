// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

// PackBits packs values, each bits wide, into dst. The first value goes into
// the most significant bits of dst[0]. bits must be 1, 2, 4 or 8, and dst must
// hold at least (len(values) * bits + 7) / 8 bytes.
//
// Each value is masked to its low bits. It returns the number of bytes
// written.
func PackBits(dst []byte, values []uint8, bits int) int {
	if (bits != 1) && (bits != 2) && (bits != 4) && (bits != 8) {
		panic("gx: PackBits: bad bits")
	}
	n := ((len(values) * bits) + 7) / 8
	dst = dst[:n]
	clear(dst)

	perByte := 8 / bits
	mask := uint8(1<<bits) - 1
	for i, v := range values {
		shift := 8 - (bits * (1 + (i % perByte)))
		dst[i/perByte] |= (v & mask) << shift
	}
	return n
}

// UnpackBits is the inverse of PackBits. It fills all of dst from src.
func UnpackBits(dst []uint8, src []byte, bits int) {
	if (bits != 1) && (bits != 2) && (bits != 4) && (bits != 8) {
		panic("gx: UnpackBits: bad bits")
	}
	perByte := 8 / bits
	mask := uint8(1<<bits) - 1
	for i := range dst {
		shift := 8 - (bits * (1 + (i % perByte)))
		dst[i] = (src[i/perByte] >> shift) & mask
	}
}

func readU16BE(b []byte) uint16 {
	_ = b[1]
	return (uint16(b[0]) << 8) | uint16(b[1])
}

func writeU16BE(b []byte, x uint16) {
	_ = b[1]
	b[0] = uint8(x >> 8)
	b[1] = uint8(x >> 0)
}
