package lut

import "fmt"

// Segment opcodes of the Segmented LUT Data encoding (PS3.3 C.7.9)
const (
	opDiscrete = 0
	opLinear   = 1
	opIndirect = 2
)

// allSegments makes run process segments until the word stream is exhausted
const allSegments = -1

// InflateSegmented decodes Segmented LUT Data into a flat 8-bit table with
// entries output entries. The input is the raw stream of 16-bit words; each
// segment is an opcode word, a count word and opcode-specific operands.
// The interpreter carries a 16-bit running value across segments; each
// produced value is truncated to one byte of the output table, matching the
// byte-oriented storage of inflated palette tables.
func InflateSegmented(words []uint16, entries int) ([]byte, error) {
	inf := &segmentedInflater{
		words: words,
		out:   make([]byte, entries),
	}
	if err := inf.run(0, allSegments); err != nil {
		return nil, err
	}
	return inf.out, nil
}

// segmentedInflater is the interpreter state for one inflation. The running
// value y0 carries across segments so linear segments can continue from the
// last written value. indirect is a depth flag rather than a counter: the
// encoding permits exactly one level of indirection.
type segmentedInflater struct {
	words    []uint16
	out      []byte
	pos      int // next output index
	y0       int // last produced 16-bit value
	started  bool
	indirect bool
}

// run interprets segments starting at word index start. segs is the exact
// number of segments to process, or allSegments to continue until the word
// stream ends.
func (s *segmentedInflater) run(start, segs int) error {
	i := start
	for n := 0; segs == allSegments || n < segs; n++ {
		if segs == allSegments && i >= len(s.words) {
			return nil
		}
		if i+1 >= len(s.words) {
			return fmt.Errorf("%w: segment header at word %d", ErrSegmentUnderflow, i)
		}
		opcode := int(s.words[i])
		count := int(s.words[i+1])
		i += 2

		switch opcode {
		case opDiscrete:
			if i+count > len(s.words) {
				return fmt.Errorf("%w: discrete segment needs %d values", ErrSegmentUnderflow, count)
			}
			for j := 0; j < count; j++ {
				if err := s.emit(int(s.words[i+j])); err != nil {
					return err
				}
			}
			i += count

		case opLinear:
			if !s.started {
				return ErrLinearFirst
			}
			if i >= len(s.words) {
				return fmt.Errorf("%w: linear segment missing end value", ErrSegmentUnderflow)
			}
			y1 := int(s.words[i])
			i++
			if count > 0 {
				y0 := s.y0
				for j := 1; j <= count; j++ {
					if err := s.emit(y0 + (y1-y0)*j/count); err != nil {
						return err
					}
				}
			}
			s.y0 = y1

		case opIndirect:
			if s.indirect {
				return ErrNestedIndirect
			}
			if i+1 >= len(s.words) {
				return fmt.Errorf("%w: indirect segment missing pointer", ErrSegmentUnderflow)
			}
			ptr := int(s.words[i]) | int(s.words[i+1])<<16
			i += 2
			s.indirect = true
			err := s.run(ptr, count)
			s.indirect = false
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %d at word %d", ErrIllegalOpcode, opcode, i-2)
		}
	}
	return nil
}

// emit writes one 16-bit working value to the output table
func (s *segmentedInflater) emit(v int) error {
	if s.pos >= len(s.out) {
		return ErrSegmentOverflow
	}
	v &= 0xffff
	s.out[s.pos] = byte(v)
	s.pos++
	s.y0 = v
	s.started = true
	return nil
}
