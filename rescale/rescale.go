// Package rescale builds Modality LUTs from Rescale Slope/Intercept pairs
// and handles pixel-padding fill and scalar rescaling of individual samples.
package rescale

import (
	"math"

	"github.com/cocosip/go-dicom-lut/lut"
)

// Transform is the linear modality rescale defined by the Rescale Slope and
// Rescale Intercept attributes. Present records whether either attribute was
// actually carried by the source object; an absent transform passes samples
// through unchanged.
type Transform struct {
	Slope     float64
	Intercept float64
	Present   bool
}

// NewTransform builds a Transform from optional slope and intercept
// attribute values, applying the standard defaults (slope 1, intercept 0)
// for whichever is missing.
func NewTransform(slope, intercept *float64) Transform {
	t := Transform{Slope: 1}
	if slope != nil {
		t.Slope = *slope
		t.Present = true
	}
	if intercept != nil {
		t.Intercept = *intercept
		t.Present = true
	}
	return t
}

// Apply rescales a single stored sample. When neither slope nor intercept
// was present on the source object the sample is returned unchanged.
func (t Transform) Apply(pixel int) float64 {
	if !t.Present {
		return float64(pixel)
	}
	return float64(pixel)*t.Slope + t.Intercept
}

// Build constructs a Modality LUT over the intersection of the stored-bit
// range and the caller-supplied sample range. Each entry is
// round(x*slope+intercept), clamped to the output range implied by
// outputBits and outputSigned, and complemented against that range when
// inverse is set. Tables are byte-backed for outputBits <= 8.
func Build(intercept, slope float64, minValue, maxValue, storedBits int, signed, inverse, outputSigned bool, outputBits int) *lut.LookupTable {
	lo, hi := lut.InputRange(storedBits, signed)
	minValue, maxValue = lut.MinMax(minValue, maxValue)
	minIn := lut.Clamp(minValue, lo, hi)
	maxIn := lut.Clamp(maxValue, lo, hi)
	minOut, maxOut := lut.OutputRange(outputBits, outputSigned)

	entries := maxIn - minIn + 1
	var table *lut.LookupTable
	if outputBits <= 8 {
		table = lut.NewByteTable(make([]byte, entries), minIn)
	} else {
		table = lut.NewShortTable(make([]uint16, entries), minIn, outputSigned)
	}

	for i := 0; i < entries; i++ {
		y := math.Round(float64(i+minIn)*slope + intercept)
		v := int(lut.Clamp(y, float64(minOut), float64(maxOut)))
		if inverse {
			v = maxOut + minOut - v
		}
		table.Set(i, v)
	}
	return table
}

// PaddingRange is the inclusive range of input values reserved as pixel
// padding (image border filler)
type PaddingRange struct {
	Min int
	Max int
}

// NewPaddingRange builds a PaddingRange from the Pixel Padding Value and the
// optional Pixel Padding Range Limit. With no range limit the range is the
// single padding value; otherwise the pair is sorted into [min, max].
func NewPaddingRange(paddingValue int, rangeLimit *int) *PaddingRange {
	r := &PaddingRange{Min: paddingValue, Max: paddingValue}
	if rangeLimit != nil {
		r.Min, r.Max = lut.MinMax(paddingValue, *rangeLimit)
	}
	return r
}

// ApplyPadding blanks the padding range of a Modality LUT in place. Padded
// entries collapse to a boundary display value: 0 (or 255 when inverse) for
// byte tables, the table's own first (or last, when inverse) entry for
// 16-bit tables. A nil table or nil range is a no-op, as is a range entirely
// outside the table's domain.
//
// ApplyPadding mutates its table argument and must not run concurrently with
// other uses of the same table.
func ApplyPadding(table *lut.LookupTable, pad *PaddingRange, inverse bool) {
	if table == nil || pad == nil || table.Len() == 0 {
		return
	}
	count := pad.Max - pad.Min + 1
	start := pad.Min - table.Offset()
	if start >= table.Len() {
		return
	}
	if start < 0 {
		count += start
		start = 0
	}
	if count <= 0 {
		return
	}
	end := start + count
	if end > table.Len() {
		end = table.Len()
	}

	var fill int
	switch {
	case table.IsByte() && inverse:
		fill = 0xff
	case table.IsByte():
		fill = 0
	case inverse:
		fill = table.Get(table.Len() - 1)
	default:
		fill = table.Get(0)
	}
	for i := start; i < end; i++ {
		table.Set(i, fill)
	}
}

// Pixel2Value maps a stored sample through a Modality LUT. Samples outside
// the table's domain, or a nil table, fall back to the sample itself; this
// mirrors how missing modality transforms leave stored values untouched.
func Pixel2Value(table *lut.LookupTable, pixel int) int {
	if table == nil {
		return pixel
	}
	if v, ok := table.Lookup(pixel); ok {
		return v
	}
	return pixel
}
