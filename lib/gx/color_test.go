// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package gx

import (
	"image/color"
	"testing"
)

func TestRGB565Bounds(tt *testing.T) {
	for v := range 256 {
		c := color.NRGBA{R: uint8(v), G: uint8(255 - v), B: uint8(v ^ 0x5A), A: uint8(v)}
		got := DecodeColor16(FormatRGB565, EncodeColor16(FormatRGB565, c))
		if d := absDiff(got.R, c.R); d > 256/32 {
			tt.Errorf("v=%d: R: got 0x%02X, want 0x%02X", v, got.R, c.R)
		}
		if d := absDiff(got.G, c.G); d > 256/64 {
			tt.Errorf("v=%d: G: got 0x%02X, want 0x%02X", v, got.G, c.G)
		}
		if d := absDiff(got.B, c.B); d > 256/32 {
			tt.Errorf("v=%d: B: got 0x%02X, want 0x%02X", v, got.B, c.B)
		}
		if got.A != 0xFF {
			tt.Errorf("v=%d: A: got 0x%02X, want 0xFF", v, got.A)
		}
	}
}

func TestRGB565Words(tt *testing.T) {
	testCases := []struct {
		c    color.NRGBA
		want uint16
	}{
		{color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}, 0xF800},
		{color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}, 0x07E0},
		{color.NRGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0x00}, 0x001F},
		{color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, 0xFFFF},
		{color.NRGBA{R: 0x04, G: 0x02, B: 0x04, A: 0xFF}, 0x0000},
		{color.NRGBA{R: 0x05, G: 0x03, B: 0x05, A: 0xFF}, 0x0821},
	}
	for _, tc := range testCases {
		if got := EncodeColor16(FormatRGB565, tc.c); got != tc.want {
			tt.Errorf("c=%v: got 0x%04X, want 0x%04X", tc.c, got, tc.want)
		}
	}
}

func TestRGB5A3Modes(tt *testing.T) {
	testCases := []struct {
		c    color.NRGBA
		want uint16
	}{
		{color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}, 0xFC00},
		{color.NRGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xF0}, 0x801F},
		{color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0x00}, 0x0F00},
		{color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, 0x4123},
	}
	for _, tc := range testCases {
		got := EncodeColor16(FormatRGB5A3, tc.c)
		if got != tc.want {
			tt.Errorf("c=%v: got 0x%04X, want 0x%04X", tc.c, got, tc.want)
			continue
		}
		back := DecodeColor16(FormatRGB5A3, got)
		if (got & 0x8000) != 0 {
			if back.A != 0xFF {
				tt.Errorf("c=%v: opaque mode decoded alpha 0x%02X", tc.c, back.A)
			}
		} else if d := absDiff(back.A, tc.c.A); d > 256/8 {
			tt.Errorf("c=%v: translucent mode decoded alpha 0x%02X", tc.c, back.A)
		}
	}

	if got := DecodeColor16(FormatRGB5A3, 0x4123); got != (color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x92}) {
		tt.Errorf("0x4123: got %v", got)
	}
}

func TestIntensity(tt *testing.T) {
	for v := range 256 {
		gray := color.NRGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 0xFF}
		if got := Luminance(gray); got != uint8(v) {
			tt.Fatalf("Luminance(gray %d): got %d", v, got)
		}
		if got := DecodeColor8(FormatIntensity8, EncodeColor8(FormatIntensity8, gray)); got != gray {
			tt.Errorf("I8 gray %d: got %v", v, got)
		}
		got := DecodeColor8(FormatIntensity4, EncodeColor8(FormatIntensity4, gray))
		if d := absDiff(got.R, uint8(v)); d > 256/32 {
			tt.Errorf("I4 gray %d: got %v", v, got)
		}
	}

	c := color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0x66}
	if got, want := EncodeColor16(FormatIntensityAlpha8, c), uint16(0x664C); got != want {
		tt.Errorf("IA8 red: got 0x%04X, want 0x%04X", got, want)
	}
	if got, want := EncodeColor8(FormatIntensityAlpha4, c), uint8(0x64); got != want {
		tt.Errorf("IA4 red: got 0x%02X, want 0x%02X", got, want)
	}
	if got, want := DecodeColor8(FormatIntensityAlpha4, 0x64), (color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0x66}); got != want {
		tt.Errorf("IA4 0x64: got %v, want %v", got, want)
	}
}
