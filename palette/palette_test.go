package palette

import (
	"errors"
	"testing"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
	"github.com/google/go-cmp/cmp"

	"github.com/cocosip/go-dicom-lut/lut"
)

// rampComponent builds an 8-bit component whose entry i equals base+i
func rampComponent(entries, offset, base int) *Component {
	data := make([]byte, entries)
	for i := range data {
		data[i] = byte(base + i)
	}
	return &Component{
		Descriptor: []int{entries, offset, 8},
		Data:       data,
	}
}

func grayFrameInfo(width, height uint16) *imagetypes.FrameInfo {
	return &imagetypes.FrameInfo{
		Width:                     width,
		Height:                    height,
		BitsAllocated:             8,
		BitsStored:                8,
		HighBit:                   7,
		SamplesPerPixel:           1,
		PixelRepresentation:       0,
		PhotometricInterpretation: "PALETTE COLOR",
	}
}

// TestAssembleMissingComponent tests that any absent channel disables the palette
func TestAssembleMissingComponent(t *testing.T) {
	full := rampComponent(256, 0, 0)
	tests := []struct {
		name             string
		red, green, blue *Component
	}{
		{"red missing", nil, full, full},
		{"green missing", full, nil, full},
		{"blue missing", full, full, nil},
		{"empty descriptor", &Component{}, full, full},
		{"all missing", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clut, err := Assemble(tt.red, tt.green, tt.blue, false)
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if clut != nil {
				t.Error("expected a nil palette for a missing channel")
			}
		})
	}
}

// TestAssembleBandOrder tests the [blue, green, red] band layout
func TestAssembleBandOrder(t *testing.T) {
	clut, err := Assemble(rampComponent(256, 0, 1), rampComponent(256, 0, 2), rampComponent(256, 0, 3), false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if clut == nil {
		t.Fatal("Assemble returned a nil palette")
	}
	if got := clut.Band(BandBlue).Get(0); got != 3 {
		t.Errorf("blue band entry 0 = %d, want 3", got)
	}
	if got := clut.Band(BandGreen).Get(0); got != 2 {
		t.Errorf("green band entry 0 = %d, want 2", got)
	}
	if got := clut.Band(BandRed).Get(0); got != 1 {
		t.Errorf("red band entry 0 = %d, want 1", got)
	}
}

// TestAssembleHeterogeneousBands tests that bands keep their own sizes and offsets
func TestAssembleHeterogeneousBands(t *testing.T) {
	clut, err := Assemble(rampComponent(16, 0, 0), rampComponent(32, 5, 0), rampComponent(64, -3, 0), false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if clut.Band(BandRed).Len() != 16 || clut.Band(BandGreen).Len() != 32 || clut.Band(BandBlue).Len() != 64 {
		t.Error("bands did not keep their own sizes")
	}
	if clut.Band(BandGreen).Offset() != 5 || clut.Band(BandBlue).Offset() != -3 {
		t.Error("bands did not keep their own offsets")
	}
}

// TestAssembleSegmentedRejects8Bit tests that 8-bit segmented channels fail
func TestAssembleSegmentedRejects8Bit(t *testing.T) {
	bad := &Component{
		Descriptor: []int{256, 0, 8},
		Segmented:  []uint16{0, 1, 42},
	}
	full := rampComponent(256, 0, 0)
	if _, err := Assemble(bad, full, full, false); !errors.Is(err, lut.ErrSegmentedBits) {
		t.Errorf("Assemble error = %v, want %v", err, lut.ErrSegmentedBits)
	}
}

// TestApplyToFrameFastPath tests the zero-offset 8-bit gather
func TestApplyToFrameFastPath(t *testing.T) {
	clut, err := Assemble(rampComponent(256, 0, 10), rampComponent(256, 0, 20), rampComponent(256, 0, 30), false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	frame := []byte{0, 1, 2, 3}
	out, err := ApplyToFrame(frame, grayFrameInfo(2, 2), clut)
	if err != nil {
		t.Fatalf("ApplyToFrame failed: %v", err)
	}
	want := []byte{
		10, 20, 30,
		11, 21, 31,
		12, 22, 32,
		13, 23, 33,
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("rendered frame mismatch (-want +got):\n%s", diff)
	}
}

// TestApplyToFrameGeneralPath tests offset handling and the out-of-range fallback
func TestApplyToFrameGeneralPath(t *testing.T) {
	// offset 2 forces the general path; indices 0 and 1 fall outside every band
	clut, err := Assemble(rampComponent(4, 2, 10), rampComponent(4, 2, 20), rampComponent(4, 2, 30), false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	frame := []byte{0, 2, 5}
	info := grayFrameInfo(3, 1)
	out, err := ApplyToFrame(frame, info, clut)
	if err != nil {
		t.Fatalf("ApplyToFrame failed: %v", err)
	}
	want := []byte{
		0, 0, 0, // out of range: sample value passes through
		10, 20, 30,
		13, 23, 33,
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("rendered frame mismatch (-want +got):\n%s", diff)
	}
}

// TestApplyToFrameNilPalette tests the identity fallback
func TestApplyToFrameNilPalette(t *testing.T) {
	frame := []byte{1, 2, 3, 4}
	out, err := ApplyToFrame(frame, grayFrameInfo(2, 2), nil)
	if err != nil {
		t.Fatalf("ApplyToFrame failed: %v", err)
	}
	if diff := cmp.Diff(frame, out); diff != "" {
		t.Errorf("nil palette should return the frame unchanged (-want +got):\n%s", diff)
	}
}

// TestApplyToFrameShortFrame tests the frame length validation
func TestApplyToFrameShortFrame(t *testing.T) {
	clut, err := Assemble(rampComponent(256, 0, 0), rampComponent(256, 0, 0), rampComponent(256, 0, 0), false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if _, err := ApplyToFrame([]byte{1, 2}, grayFrameInfo(2, 2), clut); err == nil {
		t.Error("expected an error for a truncated frame")
	}
}

// TestApplyToFrame16BitIndices tests the general path over 16-bit stored samples
func TestApplyToFrame16BitIndices(t *testing.T) {
	entries := 512
	data := make([]byte, entries*2)
	for i := 0; i < entries; i++ {
		data[i*2] = byte(i)
		data[i*2+1] = byte(i >> 8)
	}
	comp := &Component{Descriptor: []int{entries, 0, 16}, Data: data}
	clut, err := Assemble(comp, comp, comp, false)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	info := &imagetypes.FrameInfo{
		Width:                     2,
		Height:                    1,
		BitsAllocated:             16,
		BitsStored:                16,
		HighBit:                   15,
		SamplesPerPixel:           1,
		PixelRepresentation:       0,
		PhotometricInterpretation: "PALETTE COLOR",
	}
	frame := []byte{0x2c, 0x01, 0x00, 0x00} // samples 300, 0
	out, err := ApplyToFrame(frame, info, clut)
	if err != nil {
		t.Fatalf("ApplyToFrame failed: %v", err)
	}
	if len(out) != 2*3*2 {
		t.Fatalf("output length = %d, want 12", len(out))
	}
	// first pixel: every channel maps index 300 to value 300
	if got := int(out[0]) | int(out[1])<<8; got != 300 {
		t.Errorf("first red sample = %d, want 300", got)
	}
}
