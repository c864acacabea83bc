// Package pipeline composes the grayscale pixel transformation chain
// (modality rescale, pixel padding, VOI windowing) and applies it frame by
// frame to pixel data.
package pipeline

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-dicom-lut/lut"
	"github.com/cocosip/go-dicom-lut/rescale"
	"github.com/cocosip/go-dicom-lut/voi"
)

// Params configures a grayscale render
type Params struct {
	// Rescale is the modality transform; the zero value passes stored
	// samples through unchanged.
	Rescale rescale.Transform

	// Padding, when non-nil, blanks the pixel padding range before windowing.
	Padding *rescale.PaddingRange

	// VOI selects the transfer function. KindNone falls back to a linear
	// window.
	VOI voi.Function

	// Window is the window center/width. Ignored when AutoWindow is set or
	// the width is not positive.
	Window voi.Window

	// AutoWindow derives the window from the rescaled value range.
	AutoWindow bool

	// Inverse complements display values (MONOCHROME1 presentation).
	Inverse bool
}

// Validate checks the parameters
func (p *Params) Validate() error {
	if p.Window.Width < 0 {
		return fmt.Errorf("window width cannot be negative: %g", p.Window.Width)
	}
	if p.VOI.Kind == voi.KindSequence && (p.VOI.Sequence == nil || p.VOI.Sequence.Len() == 0) {
		return fmt.Errorf("sequence VOI function requires a lookup table")
	}
	return nil
}

// Renderer applies the grayscale pipeline to pixel data. Output frames are
// display values at the VOI output depth: one byte per pixel for images
// whose rescaled range fits 8 bits, little-endian 16-bit samples otherwise.
type Renderer struct {
	params Params
}

// NewRenderer creates a renderer for the given parameters
func NewRenderer(params Params) *Renderer {
	return &Renderer{params: params}
}

// Render transforms every frame of src and appends the display frames to
// dst, mirroring the per-frame decode loop of the image codecs.
func (r *Renderer) Render(src imagetypes.PixelData, dst imagetypes.PixelData) error {
	if src == nil || dst == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	if err := r.params.Validate(); err != nil {
		return fmt.Errorf("invalid render parameters: %w", err)
	}
	info := src.GetFrameInfo()
	if info == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}
	frameCount := src.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("source pixel data is empty (no frames)")
	}

	display, err := r.buildDisplayLUT(info)
	if err != nil {
		return fmt.Errorf("building display LUT: %w", err)
	}

	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := src.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		rendered, err := renderFrame(frameData, info, display)
		if err != nil {
			return fmt.Errorf("rendering frame %d: %w", frameIndex, err)
		}
		if err := dst.AddFrame(rendered); err != nil {
			return fmt.Errorf("failed to add rendered frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// buildDisplayLUT precomputes the composed stored-value -> display-value
// table for one image geometry: modality rescale first, padding fill, then
// the VOI window over the rescaled range.
func (r *Renderer) buildDisplayLUT(info *imagetypes.FrameInfo) (*lut.LookupTable, error) {
	storedBits := int(info.BitsStored)
	signed := int(info.PixelRepresentation) != 0
	minIn, maxIn := lut.InputRange(storedBits, signed)

	modality := r.buildModalityLUT(minIn, maxIn, storedBits, signed)
	modMin, modMax := valueRange(modality, minIn, maxIn)

	win := r.params.Window
	if r.params.AutoWindow || win.Width <= 0 {
		win = voi.AutoWindow(modMin, modMax)
	}
	fn := r.params.VOI
	if fn.Kind == voi.KindNone {
		fn.Kind = voi.KindLinear
	}

	voiBits := 16
	if modMin >= 0 && modMax <= 0xff {
		voiBits = 8
	}
	voiTable, err := voi.Build(fn, win, modMin, modMax, voiBits, modMin < 0, r.params.Inverse)
	if err != nil {
		return nil, err
	}

	entries := maxIn - minIn + 1
	var display *lut.LookupTable
	if voiTable.IsByte() {
		display = lut.NewByteTable(make([]byte, entries), minIn)
	} else {
		display = lut.NewShortTable(make([]uint16, entries), minIn, false)
	}
	for i := 0; i < entries; i++ {
		m := rescale.Pixel2Value(modality, i+minIn)
		v, ok := voiTable.Lookup(m)
		if !ok {
			// the window table covers the full rescaled range; anything
			// outside pins to the nearer end
			if m < voiTable.Offset() {
				v = voiTable.Get(0)
			} else {
				v = voiTable.Get(voiTable.Len() - 1)
			}
		}
		display.Set(i, v)
	}
	return display, nil
}

// buildModalityLUT returns the modality stage table, or nil when the image
// carries neither a rescale transform nor pixel padding
func (r *Renderer) buildModalityLUT(minIn, maxIn, storedBits int, signed bool) *lut.LookupTable {
	p := r.params
	if !p.Rescale.Present && p.Padding == nil {
		return nil
	}
	slope, intercept := p.Rescale.Slope, p.Rescale.Intercept
	if !p.Rescale.Present {
		slope, intercept = 1, 0
	}
	outSigned := float64(minIn)*slope+intercept < 0 || float64(maxIn)*slope+intercept < 0
	table := rescale.Build(intercept, slope, minIn, maxIn, storedBits, signed, false, outSigned, 16)
	rescale.ApplyPadding(table, p.Padding, p.Inverse)
	return table
}

// valueRange scans a modality table for its extreme output values. A nil
// table is the identity over [minIn, maxIn].
func valueRange(table *lut.LookupTable, minIn, maxIn int) (int, int) {
	if table == nil {
		return minIn, maxIn
	}
	lo, hi := table.Get(0), table.Get(0)
	for i := 1; i < table.Len(); i++ {
		v := table.Get(i)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// renderFrame maps every stored sample of one frame through the display LUT
func renderFrame(frame []byte, info *imagetypes.FrameInfo, display *lut.LookupTable) ([]byte, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("frame pixel data is empty")
	}
	if int(info.SamplesPerPixel) != 1 {
		return nil, fmt.Errorf("grayscale pipeline requires 1 sample per pixel, got %d", int(info.SamplesPerPixel))
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
	bits := lut.Clamp(int(info.BitsStored), 1, 16)

	if display.IsByte() {
		out := make([]byte, pixels)
		for i := 0; i < pixels; i++ {
			s := storedSample(frame, i, bytesPerSample, bits, signed)
			out[i] = byte(rescale.Pixel2Value(display, s))
		}
		return out, nil
	}
	out := make([]byte, pixels*2)
	for i := 0; i < pixels; i++ {
		s := storedSample(frame, i, bytesPerSample, bits, signed)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(rescale.Pixel2Value(display, s)))
	}
	return out, nil
}

// storedSample decodes the i-th little-endian stored sample, masked to the
// stored bit depth and sign-extended for signed pixel representations
func storedSample(frame []byte, i, bytesPerSample, bitsStored int, signed bool) int {
	var raw int
	if bytesPerSample == 1 {
		raw = int(frame[i])
	} else {
		raw = int(binary.LittleEndian.Uint16(frame[i*2:]))
	}
	raw &= 1<<bitsStored - 1
	if signed && raw&(1<<(bitsStored-1)) != 0 {
		raw -= 1 << bitsStored
	}
	return raw
}
