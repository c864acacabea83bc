package lut

import "errors"

var (
	// ErrInvalidDescriptor is returned when a LUT Descriptor is not exactly
	// three integers or declares an out-of-range field
	ErrInvalidDescriptor = errors.New("invalid LUT descriptor")

	// ErrUnsupportedBits is returned when bits per entry is neither 8 nor 16
	ErrUnsupportedBits = errors.New("unsupported bits per LUT entry (must be 8 or 16)")

	// ErrMissingData is returned when neither LUT Data nor Segmented LUT Data is present
	ErrMissingData = errors.New("missing LUT data")

	// ErrDataLength is returned when the declared entry count and the actual
	// LUT Data length disagree
	ErrDataLength = errors.New("LUT data length does not match descriptor")

	// ErrSegmentedBits is returned when Segmented LUT Data is combined with an
	// 8-bit descriptor (segmented encoding requires 16-bit words)
	ErrSegmentedBits = errors.New("segmented LUT data requires a 16-bit descriptor")

	// ErrSegmentOverflow is returned when a segment would write past the end
	// of the output table
	ErrSegmentOverflow = errors.New("segmented LUT data overflows the output table")

	// ErrSegmentUnderflow is returned when the word stream ends mid-segment
	ErrSegmentUnderflow = errors.New("segmented LUT data ended mid-segment")

	// ErrLinearFirst is returned when a linear segment opens the stream
	// (linear interpolation needs a preceding value)
	ErrLinearFirst = errors.New("linear segment cannot be the first segment")

	// ErrNestedIndirect is returned when an indirect segment is reached from
	// within another indirect expansion
	ErrNestedIndirect = errors.New("nested indirect segment")

	// ErrIllegalOpcode is returned for any segment opcode outside {0, 1, 2}
	ErrIllegalOpcode = errors.New("illegal segment opcode")
)
