// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

var allFormats = []Format{
	FormatIntensity4,
	FormatIntensity8,
	FormatIntensityAlpha4,
	FormatIntensityAlpha8,
	FormatRGB565,
	FormatRGB5A3,
	FormatARGB8888,
	FormatIndex4,
	FormatIndex8,
	FormatDXT1,
}

// makeGradient returns a deterministic image with every channel varying.
func makeGradient(width int, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / max(1, width-1)),
				G: uint8((y * 255) / max(1, height-1)),
				B: uint8(((x + y) * 37) & 0xFF),
				A: uint8(0xFF - ((x * y * 3) & 0x7F)),
			})
		}
	}
	return m
}

func absDiff(a uint8, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestFormatTileBytes(tt *testing.T) {
	for _, f := range allFormats {
		tw, th := f.TileSize()
		want := 32
		if f == FormatARGB8888 {
			want = 64
		}
		if got := f.LevelSize(tw, th); got != want {
			tt.Errorf("f=%v: tile bytes: got %d, want %d", f, got, want)
		}
	}
}

func TestCheckDimensions(tt *testing.T) {
	testCases := []struct {
		f      Format
		w, h   int
		wantOK bool
	}{
		{FormatDXT1, 8, 8, true},
		{FormatDXT1, 4, 4, true},
		{FormatDXT1, 1, 1, true},
		{FormatDXT1, 16, 4, true},
		{FormatDXT1, 12, 8, true},
		{FormatDXT1, 20, 12, true},
		{FormatDXT1, 4, 12, true},
		{FormatDXT1, 6, 4, false},
		{FormatDXT1, 8, 10, false},
		{FormatIndex4, 8, 24, true},
		{FormatIndex4, 8, 20, false},
		{FormatIndex8, 16, 12, true},
		{FormatRGB565, 6, 4, false},
		{FormatRGB565, 0, 4, false},
		{FormatARGB8888, 64, 32, true},
	}

	for _, tc := range testCases {
		err := tc.f.CheckDimensions(tc.w, tc.h)
		if gotOK := err == nil; gotOK != tc.wantOK {
			tt.Errorf("f=%v, %dx%d: got %v, want ok=%t", tc.f, tc.w, tc.h, err, tc.wantOK)
		} else if !gotOK && !errors.Is(err, ErrUnsupportedDimensions) {
			tt.Errorf("f=%v, %dx%d: got %v, want ErrUnsupportedDimensions", tc.f, tc.w, tc.h, err)
		}
	}
}

func TestPackBits(tt *testing.T) {
	testCases := []struct {
		bits   int
		values []uint8
		want   []byte
	}{
		{1, []uint8{1, 0, 1, 1, 0, 0, 0, 1, 1}, []byte{0xB1, 0x80}},
		{2, []uint8{3, 2, 1, 0, 1}, []byte{0xE4, 0x40}},
		{4, []uint8{0xA, 0x5, 0xF}, []byte{0xA5, 0xF0}},
		{4, []uint8{0x1A, 0x25}, []byte{0xA5}},
		{8, []uint8{0x12, 0x34}, []byte{0x12, 0x34}},
	}

	for _, tc := range testCases {
		got := make([]byte, 8)
		n := PackBits(got, tc.values, tc.bits)
		if !bytes.Equal(got[:n], tc.want) {
			tt.Errorf("bits=%d: PackBits: got % 02X, want % 02X", tc.bits, got[:n], tc.want)
			continue
		}

		unpacked := make([]uint8, len(tc.values))
		UnpackBits(unpacked, tc.want, tc.bits)
		mask := uint8(1<<tc.bits) - 1
		for i, v := range tc.values {
			if unpacked[i] != v&mask {
				tt.Errorf("bits=%d: UnpackBits[%d]: got %d, want %d", tc.bits, i, unpacked[i], v&mask)
			}
		}
	}
}

func TestTiledOrderIsAPermutation(tt *testing.T) {
	tileSizes := [][2]int{{4, 4}, {8, 4}, {8, 8}, {2, 2}}
	for _, ts := range tileSizes {
		for _, dims := range [][2]int{{1, 1}, {2, 3}, {5, 2}} {
			w, h := dims[0]*ts[0], dims[1]*ts[1]
			order, err := TiledOrder(w, h, ts[0], ts[1])
			if err != nil {
				tt.Errorf("tile=%v, %dx%d: %v", ts, w, h, err)
				continue
			}
			if len(order) != w*h {
				tt.Errorf("tile=%v, %dx%d: length: got %d, want %d", ts, w, h, len(order), w*h)
				continue
			}
			seen := make([]bool, w*h)
			for _, p := range order {
				if (p.X < 0) || (p.X >= w) || (p.Y < 0) || (p.Y >= h) || seen[(p.Y*w)+p.X] {
					tt.Errorf("tile=%v, %dx%d: bad or repeated point %v", ts, w, h, p)
					break
				}
				seen[(p.Y*w)+p.X] = true
			}
		}
	}
}

func TestTiledOrderSequence(tt *testing.T) {
	order, err := TiledOrder(4, 2, 2, 2)
	if err != nil {
		tt.Fatalf("TiledOrder: %v", err)
	}
	want := []image.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
		{X: 2, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1},
	}
	for i := range want {
		if order[i] != want[i] {
			tt.Fatalf("i=%d: got %v, want %v", i, order[i], want[i])
		}
	}

	if _, err := TiledOrder(6, 4, 4, 4); !errors.Is(err, ErrUnsupportedDimensions) {
		tt.Errorf("6x4 with 4x4 tiles: got %v, want ErrUnsupportedDimensions", err)
	}
}

func TestMipLevelSize(tt *testing.T) {
	testCases := []struct {
		w, h, n      int
		wantW, wantH int
	}{
		{64, 64, 0, 64, 64},
		{64, 64, 3, 8, 8},
		{64, 64, 6, 1, 1},
		{64, 16, 5, 2, 1},
		{5, 3, 1, 2, 1},
	}
	for _, tc := range testCases {
		gotW, gotH := MipLevelSize(tc.w, tc.h, tc.n)
		if (gotW != tc.wantW) || (gotH != tc.wantH) {
			tt.Errorf("%dx%d level %d: got %dx%d, want %dx%d",
				tc.w, tc.h, tc.n, gotW, gotH, tc.wantW, tc.wantH)
		}
	}

	if got, want := NumMipLevels(64, 16), 7; got != want {
		tt.Errorf("NumMipLevels(64, 16): got %d, want %d", got, want)
	}
}

func TestBuildChain(tt *testing.T) {
	chain := BuildChain(makeGradient(64, 64))
	if len(chain) != 7 {
		tt.Fatalf("length: got %d, want 7", len(chain))
	}
	for i, m := range chain {
		want := 64 >> i
		if b := m.Bounds(); (b.Dx() != want) || (b.Dy() != want) {
			tt.Errorf("level %d: got %dx%d, want %dx%d", i, b.Dx(), b.Dy(), want, want)
		}
	}
}

func TestBuildChainBoxFilter(tt *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	base.SetNRGBA(0, 0, color.NRGBA{R: 0x00, G: 0x10, B: 0x20, A: 0xFF})
	base.SetNRGBA(1, 0, color.NRGBA{R: 0x10, G: 0x10, B: 0x30, A: 0xFF})
	base.SetNRGBA(2, 0, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x00})

	chain := BuildChain(base)
	if len(chain) != 2 {
		tt.Fatalf("length: got %d, want 2", len(chain))
	}
	got := chain[1].NRGBAAt(0, 0)
	want := color.NRGBA{R: 0x08, G: 0x10, B: 0x28, A: 0xFF}
	if got != want {
		tt.Errorf("got %v, want %v", got, want)
	}
}
