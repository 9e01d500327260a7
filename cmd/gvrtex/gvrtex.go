// Copyright 2025 The GVR Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// gvrtex decodes, encodes and inspects GVR textures, the GameCube and Wii
// texture file format.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/gvrtex/gvr/internal/nie"
	"github.com/gvrtex/gvr/lib/gvr"
	"github.com/gvrtex/gvr/lib/gx"

	"github.com/disintegration/gift"
	"github.com/lucasb-eyer/go-colorful"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	decodeFlag = flag.Bool("decode", false, "whether to decode the input")
	encodeFlag = flag.Bool("encode", false, "whether to encode the input")
	infoFlag   = flag.Bool("info", false, "whether to describe the input")

	outputFlag = flag.String("output", "", "decoded output format")
	mipFlag    = flag.Int("mip", 0, "the mipmap level to decode")

	formatFlag        = flag.String("format", "dxt1", "data format")
	paletteFormatFlag = flag.String("palette-format", "rgb5a3", "palette entry format")
	mipmapsFlag       = flag.Bool("mipmaps", false, "whether to store mipmaps")
	headerFlag        = flag.String("header", "gcix", "leading chunk: gcix, gbix or none")
	globalIndexFlag   = flag.Uint("global-index", 0, "global index")
	paletteSizeFlag   = flag.Int("palette-size", 0, "maximum number of palette colors")
	ditherFlag        = flag.Bool("dither", false, "whether to dither palette formats")
	strictFlag        = flag.Bool("strict", false, "whether to reject images with too many colors")
	qualityFlag       = flag.String("quality", "best", "DXT1 quality: best or fast")
	resizeFlag        = flag.String("resize", "", "resize to WxH before encoding")
)

const usageStr = `gvrtex decodes, encodes and inspects the GVR texture file format.

Usage: choose one of

    gvrtex -decode [path]
    gvrtex -encode [path]
    gvrtex -info   [path]

The path to the input file is optional. If omitted, stdin is read.

When decoding you can also pass these flags (before the path):

    -output=nie-bn8
    -output=png (this is the default)
    -mip=N      (0 is the base image, the default)

When encoding you can also pass these flags (before the path):

    -format=F          one of i4, i8, ia4, ia8, rgb565, rgb5a3, argb8888,
                       index4, index8 or dxt1 (the default)
    -palette-format=P  one of ia8, rgb565 or rgb5a3 (the default)
    -mipmaps           store the mipmap chain (dxt1, rgb565 and rgb5a3 only)
    -header=H          one of gcix (the default), gbix or none
    -global-index=N
    -palette-size=N    at most 16 (index4) or 256 (index8)
    -dither
    -strict
    -quality=Q         best (the default) or fast
    -resize=WxH

The output (NIE/PNG, GVR or text) is written to stdout.

Decode inputs GVR and outputs NIE/PNG.
Encode inputs BMP, GIF, JPEG, PNG, TIFF or WEBP and outputs GVR.
Info inputs GVR and outputs a text description.
`

var (
	ErrBadFormatFlag        = errors.New("main: bad -format flag")
	ErrBadHeaderFlag        = errors.New("main: bad -header flag")
	ErrBadMipFlag           = errors.New("main: bad -mip flag")
	ErrBadOutputFlag        = errors.New("main: bad -output flag")
	ErrBadPaletteFormatFlag = errors.New("main: bad -palette-format flag")
	ErrBadQualityFlag       = errors.New("main: bad -quality flag")
	ErrBadResizeFlag        = errors.New("main: bad -resize flag")
)

var formatNames = map[string]gx.Format{
	"i4":       gx.FormatIntensity4,
	"i8":       gx.FormatIntensity8,
	"ia4":      gx.FormatIntensityAlpha4,
	"ia8":      gx.FormatIntensityAlpha8,
	"rgb565":   gx.FormatRGB565,
	"rgb5a3":   gx.FormatRGB5A3,
	"argb8888": gx.FormatARGB8888,
	"index4":   gx.FormatIndex4,
	"index8":   gx.FormatIndex8,
	"dxt1":     gx.FormatDXT1,
}

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	switch {
	case *decodeFlag && !*encodeFlag && !*infoFlag:
		return decode(inFile)
	case !*decodeFlag && *encodeFlag && !*infoFlag:
		return encode(inFile)
	case !*decodeFlag && !*encodeFlag && *infoFlag:
		return info(inFile)
	}
	return errors.New("must specify exactly one of -decode, -encode, -info or -help")
}

func decode(inFile *os.File) error {
	switch *outputFlag {
	case "", "nie-bn8", "png":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	data, err := io.ReadAll(inFile)
	if err != nil {
		return err
	}
	t, err := gvr.DecodeTexture(data, &gvr.DecodeOptions{
		SkipMipmaps: *mipFlag == 0,
	})
	if err != nil {
		return err
	}
	src := t.Level(*mipFlag)
	if src == nil {
		return ErrBadMipFlag
	}

	if *outputFlag == "nie-bn8" {
		dst, err := nie.EncodeBN8(src)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(dst)
		return err
	}
	return png.Encode(os.Stdout, src)
}

func encode(inFile *os.File) error {
	options, err := parseEncodeOptions()
	if err != nil {
		return err
	}

	src, _, err := image.Decode(inFile)
	if err != nil {
		return err
	}
	if *resizeFlag != "" {
		if src, err = resize(src, *resizeFlag); err != nil {
			return err
		}
	}
	return gvr.Encode(os.Stdout, src, options)
}

func parseEncodeOptions() (*gvr.EncodeOptions, error) {
	o := &gvr.EncodeOptions{
		Mipmaps:     *mipmapsFlag,
		PaletteSize: *paletteSizeFlag,
		Dither:      *ditherFlag,
		Strict:      *strictFlag,
		GlobalIndex: uint32(*globalIndexFlag),
	}

	ok := false
	if o.Format, ok = formatNames[strings.ToLower(*formatFlag)]; !ok {
		return nil, ErrBadFormatFlag
	}
	if o.PaletteFormat, ok = formatNames[strings.ToLower(*paletteFormatFlag)]; !ok || !o.PaletteFormat.CanBePaletteFormat() {
		return nil, ErrBadPaletteFormatFlag
	}

	switch strings.ToLower(*headerFlag) {
	case "gcix":
		o.Header = gvr.HeaderGCIX
	case "gbix":
		o.Header = gvr.HeaderGBIX
	case "none":
		o.Header = gvr.HeaderNone
	default:
		return nil, ErrBadHeaderFlag
	}

	switch *qualityFlag {
	case "best":
		o.Quality = gx.BlockQualityBest
	case "fast":
		o.Quality = gx.BlockQualityFast
	default:
		return nil, ErrBadQualityFlag
	}
	return o, nil
}

// resize scales src to the "WxH" size, using Lanczos resampling.
func resize(src image.Image, size string) (image.Image, error) {
	w, h := 0, 0
	if n, err := fmt.Sscanf(size, "%dx%d", &w, &h); (err != nil) || (n != 2) || (w <= 0) || (h <= 0) {
		return nil, ErrBadResizeFlag
	}
	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst, nil
}

func info(inFile *os.File) error {
	data, err := io.ReadAll(inFile)
	if err != nil {
		return err
	}
	h, err := gvr.ParseHeader(data)
	if err != nil {
		return err
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%v\n", h)
	for i := range h.NumLevels() {
		w, hh := gx.MipLevelSize(h.Width, h.Height, i)
		fmt.Fprintf(sb, "level %d: %dx%d, %d bytes\n", i, w, hh, h.Format.LevelSize(w, hh))
	}

	if h.Format.HasPalette() && ((h.Flags & gvr.FlagInternalPalette) != 0) {
		t, err := gvr.DecodeTexture(data, &gvr.DecodeOptions{SkipMipmaps: true})
		if err != nil {
			return err
		}
		for i, c := range t.Palette {
			cc, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
			fmt.Fprintf(sb, "palette %3d: %s alpha 0x%02X\n", i, cc.Hex(), c.A)
		}
	}

	_, err = os.Stdout.WriteString(sb.String())
	return err
}
