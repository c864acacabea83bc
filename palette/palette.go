// Package palette assembles Palette Color lookup tables from their
// per-channel descriptor/data attributes and applies them to indexed frames.
package palette

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-dicom-lut/lut"
)

// Band indices of a ColorLUT
const (
	BandBlue = iota
	BandGreen
	BandRed
)

// Component carries one color channel's raw Palette Color attributes: the
// LUT Descriptor plus either literal LUT Data or Segmented LUT Data.
type Component struct {
	Descriptor []int
	Data       []byte
	Segmented  []uint16
}

// ColorLUT is an assembled three-band palette. Bands are stored in
// [blue, green, red] order and may have heterogeneous sizes and offsets;
// each band answers its own input range independently.
type ColorLUT struct {
	bands [3]*lut.LookupTable
}

// Band returns one band of the palette (BandBlue, BandGreen or BandRed)
func (c *ColorLUT) Band(i int) *lut.LookupTable {
	return c.bands[i]
}

// Assemble decodes the three Palette Color channels into one ColorLUT. A
// missing channel (nil component or absent descriptor) yields (nil, nil):
// the image simply carries no palette. Decoding errors on any channel
// propagate, including the 8-bit segmented-data rejection.
func Assemble(red, green, blue *Component, bigEndian bool) (*ColorLUT, error) {
	for _, c := range []*Component{red, green, blue} {
		if c == nil || len(c.Descriptor) == 0 {
			return nil, nil
		}
	}
	clut := &ColorLUT{}
	channels := []struct {
		name string
		band int
		c    *Component
	}{
		{"blue", BandBlue, blue},
		{"green", BandGreen, green},
		{"red", BandRed, red},
	}
	for _, ch := range channels {
		band, err := decodeComponent(ch.c, bigEndian)
		if err != nil {
			return nil, fmt.Errorf("palette %s channel: %w", ch.name, err)
		}
		clut.bands[ch.band] = band
	}
	return clut, nil
}

func decodeComponent(c *Component, bigEndian bool) (*lut.LookupTable, error) {
	desc, err := lut.DecodeDescriptor(c.Descriptor)
	if err != nil {
		return nil, err
	}
	return lut.DecodeData(desc, c.Data, c.Segmented, bigEndian)
}

// ApplyToFrame maps an indexed single-sample frame through the palette,
// producing an interleaved RGB frame. A nil palette returns the input frame
// unchanged. Samples outside a band's domain fall back to the raw sample
// value, mirroring the modality-lookup fallback policy. The output sample
// depth is the widest band depth (8 or 16 bits).
func ApplyToFrame(frame []byte, info *imagetypes.FrameInfo, clut *ColorLUT) ([]byte, error) {
	if clut == nil {
		return frame, nil
	}
	if info == nil {
		return nil, fmt.Errorf("frame info is required to apply a palette")
	}
	if int(info.SamplesPerPixel) != 1 {
		return nil, fmt.Errorf("palette color requires 1 sample per pixel, got %d", int(info.SamplesPerPixel))
	}

	pixels := int(info.Width) * int(info.Height)
	bytesPerSample := 1
	if int(info.BitsAllocated) > 8 {
		bytesPerSample = 2
	}
	if len(frame) < pixels*bytesPerSample {
		return nil, fmt.Errorf("frame too short: need %d bytes, have %d", pixels*bytesPerSample, len(frame))
	}

	signed := int(info.PixelRepresentation) != 0
	if fast, ok := fastPath(clut, int(info.BitsAllocated)); ok {
		return fast.apply(frame, pixels, signed), nil
	}
	return applyGeneral(frame, pixels, bytesPerSample, int(info.BitsStored), signed, clut), nil
}

// fastGather is the zero-offset 8-bit fast path: three parallel byte arrays
// indexed directly by the stored sample
type fastGather struct {
	b, g, r []byte
}

// fastPath reports whether the direct-gather path applies: every band a byte
// table with offset 0 and samples at most 8 bits wide
func fastPath(clut *ColorLUT, bitsAllocated int) (fastGather, bool) {
	if bitsAllocated > 8 {
		return fastGather{}, false
	}
	for _, band := range clut.bands {
		if !band.IsByte() || band.Offset() != 0 {
			return fastGather{}, false
		}
	}
	return fastGather{
		b: clut.bands[BandBlue].Bytes(),
		g: clut.bands[BandGreen].Bytes(),
		r: clut.bands[BandRed].Bytes(),
	}, true
}

func (f fastGather) apply(frame []byte, pixels int, signed bool) []byte {
	out := make([]byte, pixels*3)
	for i := 0; i < pixels; i++ {
		idx := int(frame[i])
		if signed {
			idx = int(int8(frame[i]))
		}
		out[i*3+0] = gatherByte(f.r, idx)
		out[i*3+1] = gatherByte(f.g, idx)
		out[i*3+2] = gatherByte(f.b, idx)
	}
	return out
}

func gatherByte(band []byte, idx int) byte {
	if idx < 0 || idx >= len(band) {
		return byte(idx)
	}
	return band[idx]
}

func applyGeneral(frame []byte, pixels, bytesPerSample, bitsStored int, signed bool, clut *ColorLUT) []byte {
	wide := false
	for _, band := range clut.bands {
		if !band.IsByte() {
			wide = true
		}
	}

	red := clut.bands[BandRed]
	green := clut.bands[BandGreen]
	blue := clut.bands[BandBlue]

	if wide {
		out := make([]byte, pixels*3*2)
		for i := 0; i < pixels; i++ {
			s := sampleAt(frame, i, bytesPerSample, bitsStored, signed)
			binary.LittleEndian.PutUint16(out[(i*3+0)*2:], uint16(lookupOr(red, s)))
			binary.LittleEndian.PutUint16(out[(i*3+1)*2:], uint16(lookupOr(green, s)))
			binary.LittleEndian.PutUint16(out[(i*3+2)*2:], uint16(lookupOr(blue, s)))
		}
		return out
	}

	out := make([]byte, pixels*3)
	for i := 0; i < pixels; i++ {
		s := sampleAt(frame, i, bytesPerSample, bitsStored, signed)
		out[i*3+0] = byte(lookupOr(red, s))
		out[i*3+1] = byte(lookupOr(green, s))
		out[i*3+2] = byte(lookupOr(blue, s))
	}
	return out
}

// lookupOr applies the out-of-range fallback policy: samples a band cannot
// answer keep their raw value
func lookupOr(band *lut.LookupTable, sample int) int {
	if v, ok := band.Lookup(sample); ok {
		return v
	}
	return sample
}

// sampleAt decodes the i-th stored sample of a little-endian frame, masked
// to the stored bit depth and sign-extended when the pixel representation is
// signed
func sampleAt(frame []byte, i, bytesPerSample, bitsStored int, signed bool) int {
	var raw int
	if bytesPerSample == 1 {
		raw = int(frame[i])
	} else {
		raw = int(binary.LittleEndian.Uint16(frame[i*2:]))
	}
	bits := lut.Clamp(bitsStored, 1, 16)
	raw &= 1<<bits - 1
	if signed && raw&(1<<(bits-1)) != 0 {
		raw -= 1 << bits
	}
	return raw
}
