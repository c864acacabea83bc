// Package voi builds VOI (Value of Interest) windowing lookup tables that
// map stored sample values onto display values for a given window center,
// window width and transfer function.
package voi

import (
	"fmt"
	"math"

	"github.com/cocosip/go-dicom-lut/lut"
)

// Kind identifies a VOI transfer function
type Kind int

const (
	// KindNone means no VOI transformation is requested
	KindNone Kind = iota
	// KindLinear is the standard linear window
	KindLinear
	// KindSigmoid is the DICOM SIGMOID function
	KindSigmoid
	// KindSigmoidNormalized is the sigmoid rescaled so the window edges map
	// exactly onto the output extremes
	KindSigmoidNormalized
	// KindLogarithmic is a logarithmic curve normalized against the window edges
	KindLogarithmic
	// KindLogInverse is an exponential curve normalized against the window edges
	KindLogInverse
	// KindSequence samples an explicit VOI LUT Sequence response curve
	KindSequence
)

// Function is the transfer-function selector. KindSequence carries the
// response-curve table decoded from the VOI LUT Sequence item; all other
// kinds leave Sequence nil.
type Function struct {
	Kind     Kind
	Sequence *lut.LookupTable
}

// KindForName maps a VOI LUT Function keyword to its Kind. Unknown keywords
// report ok == false; callers typically fall back to KindLinear.
func KindForName(keyword string) (kind Kind, ok bool) {
	switch keyword {
	case "", "LINEAR":
		return KindLinear, true
	case "SIGMOID":
		return KindSigmoid, true
	case "SIGMOID_NORMALIZED":
		return KindSigmoidNormalized, true
	case "LOGARITHMIC":
		return KindLogarithmic, true
	case "LOG_INVERSE":
		return KindLogInverse, true
	}
	return KindNone, false
}

// Window is a window center/width pair. Width below 1.0 is clamped to 1.0
// when a table is built.
type Window struct {
	Center float64
	Width  float64
}

// sigmoid/log steepness constants from the source transfer functions
const (
	sigmoidFactor = -20.0
	logFactor     = 20.0
)

// Build constructs a lookup table mapping every sample in [minIn, maxIn] to
// a display value. The domain is the caller's range as-is (sorted if given
// out of order): rescaled values routinely exceed the stored-bit range and
// every one of them gets an entry. The output depth follows the stored depth
// (8-bit tables for storedBits <= 8, 16-bit otherwise) with an unsigned
// display range. inverse complements every entry against the output range
// (MONOCHROME1 presentation). A KindNone function yields (nil, nil).
func Build(fn Function, win Window, minIn, maxIn, storedBits int, signed, inverse bool) (*lut.LookupTable, error) {
	if fn.Kind == KindNone {
		return nil, nil
	}

	if win.Width < 1 {
		win.Width = 1
	}
	minIn, maxIn = lut.MinMax(minIn, maxIn)

	outBits := lut.OutputBits(storedBits)
	minOut, maxOut := lut.OutputRange(outBits, false)

	curve, err := curveFor(fn, win, minOut, maxOut)
	if err != nil {
		return nil, err
	}

	entries := maxIn - minIn + 1
	var table *lut.LookupTable
	if outBits <= 8 {
		table = lut.NewByteTable(make([]byte, entries), minIn)
	} else {
		table = lut.NewShortTable(make([]uint16, entries), minIn, false)
	}

	for i := 0; i < entries; i++ {
		v := quantize(curve(float64(i+minIn)), minOut, maxOut)
		if inverse {
			v = maxOut + minOut - v
		}
		table.Set(i, v)
	}
	return table, nil
}

// curveFor returns the float-valued transfer function for one table build.
// The returned curve already includes the minOut offset; quantize does the
// rounding and clamping.
func curveFor(fn Function, win Window, minOut, maxOut int) (func(float64) float64, error) {
	outRange := float64(maxOut - minOut)
	center, width := win.Center, win.Width

	switch fn.Kind {
	case KindLinear:
		slope := outRange / width
		intercept := float64(maxOut) - slope*(center+width/2)
		return func(x float64) float64 {
			return x*slope + intercept
		}, nil

	case KindSigmoid:
		raw := sigmoidCurve(center, width, outRange)
		return func(x float64) float64 {
			return float64(minOut) + raw(x)
		}, nil

	case KindSigmoidNormalized:
		return normalized(sigmoidCurve(center, width, outRange), win, minOut, outRange), nil

	case KindLogarithmic:
		return normalized(logCurve(center, width, outRange), win, minOut, outRange), nil

	case KindLogInverse:
		return normalized(expCurve(center, width, outRange), win, minOut, outRange), nil

	case KindSequence:
		return sequenceCurve(fn.Sequence, win, minOut, maxOut)
	}
	return nil, fmt.Errorf("unknown VOI transfer function kind %d", fn.Kind)
}

func sigmoidCurve(center, width, outRange float64) func(float64) float64 {
	k := 2 * sigmoidFactor / 10
	return func(x float64) float64 {
		return outRange / (1 + math.Exp(k*(x-center)/width))
	}
}

func logCurve(center, width, outRange float64) func(float64) float64 {
	k := logFactor / 10
	return func(x float64) float64 {
		arg := k * (1 + (x-center)/width)
		if arg <= 0 {
			return math.Inf(-1)
		}
		return outRange * math.Log(arg)
	}
}

func expCurve(center, width, outRange float64) func(float64) float64 {
	k := logFactor / 10
	return func(x float64) float64 {
		return outRange * math.Exp(k*(x-center)/width)
	}
}

// normalized rescales raw so the curve values at the two window edges map
// exactly onto the output extremes
func normalized(raw func(float64) float64, win Window, minOut int, outRange float64) func(float64) float64 {
	edgeLow := raw(win.Center - win.Width/2)
	edgeHigh := raw(win.Center + win.Width/2)
	span := math.Abs(edgeHigh - edgeLow)
	var ratio float64
	if span > 0 {
		ratio = outRange / span
	}
	return func(x float64) float64 {
		return float64(minOut) + (raw(x)-edgeLow)*ratio
	}
}

// sequenceCurve maps the input domain onto a VOI LUT Sequence response
// curve: inputs at or below the lower window edge pin to the first entry,
// inputs above the upper edge pin to the last, and everything between
// interpolates the two nearest entries. The raw sequence value range is then
// rescaled onto the output range.
func sequenceCurve(seq *lut.LookupTable, win Window, minOut, maxOut int) (func(float64) float64, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, fmt.Errorf("sequence transfer function requires a non-empty lookup table")
	}
	last := seq.Len() - 1
	minLookup, maxLookup := seq.Get(0), seq.Get(0)
	for i := 1; i <= last; i++ {
		v := seq.Get(i)
		if v < minLookup {
			minLookup = v
		}
		if v > maxLookup {
			maxLookup = v
		}
	}

	low := win.Center - win.Width/2
	high := win.Center + win.Width/2
	var scale float64
	if maxLookup > minLookup {
		scale = float64(maxOut-minOut) / float64(maxLookup-minLookup)
	}

	return func(x float64) float64 {
		var pos float64
		switch {
		case x <= low:
			pos = 0
		case x > high:
			pos = float64(last)
		default:
			pos = (x - low) * float64(last) / win.Width
		}
		i0 := lut.Clamp(int(math.Floor(pos)), 0, last)
		i1 := lut.Clamp(int(math.Ceil(pos)), 0, last)
		v0 := float64(seq.Get(i0))
		v1 := float64(seq.Get(i1))
		v := v0 + (v1-v0)*(pos-float64(i0))
		return float64(minOut) + (v-float64(minLookup))*scale
	}, nil
}

// quantize rounds a curve value to the nearest integer display value and
// clamps it to the output range. NaN (degenerate curve input) pins to minOut.
func quantize(v float64, minOut, maxOut int) int {
	if math.IsNaN(v) {
		return minOut
	}
	return int(lut.Clamp(math.Round(v), float64(minOut), float64(maxOut)))
}
