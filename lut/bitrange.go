package lut

import "golang.org/x/exp/constraints"

// InputRange returns the inclusive range of sample values representable with
// the given stored bit depth and signedness. The bit depth is clamped to
// [1, 16] first, matching the DICOM Bits Stored constraints.
func InputRange(storedBits int, signed bool) (min, max int) {
	bits := Clamp(storedBits, 1, 16)
	if signed {
		return -(1 << (bits - 1)), 1<<(bits-1) - 1
	}
	return 0, 1<<bits - 1
}

// OutputRange returns the inclusive display-value range for an output table
// of the given bit depth and signedness. The bit depth is clamped to [1, 16].
func OutputRange(outputBits int, signed bool) (min, max int) {
	return InputRange(outputBits, signed)
}

// OutputBits derives the output table depth from the stored bit depth:
// 8-bit tables for samples of 8 bits or fewer, 16-bit tables otherwise.
func OutputBits(storedBits int) int {
	if storedBits <= 8 {
		return 8
	}
	return 16
}

// Clamp limits v to the inclusive range [lo, hi]
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MinMax returns the pair (a, b) sorted into (min, max)
func MinMax[T constraints.Integer | constraints.Float](a, b T) (T, T) {
	if a > b {
		return b, a
	}
	return a, b
}
