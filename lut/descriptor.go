package lut

import (
	"encoding/binary"
	"fmt"
)

// Descriptor is a decoded LUT Descriptor: the three-value attribute that
// precedes every LUT Data element.
type Descriptor struct {
	// Entries is the number of table entries. The stored value 0 means 65536.
	Entries int
	// Offset is the first input value mapped by the table, sign-extended
	// from its 16-bit stored form.
	Offset int
	// Bits is the declared bit depth of each entry, 8 or 16.
	Bits int
}

// DecodeDescriptor validates and decodes a raw LUT Descriptor. The input
// must be exactly three integers [entries, firstMapped, bitsPerEntry].
//
// The entry count is an unsigned 16-bit field; a negative raw value is the
// same field widened through a signed type by the reader and decodes back
// through uint16 (so -5 means 65531). The stored value 0 means 65536.
// DecodeDescriptorStrict rejects negative counts instead.
func DecodeDescriptor(raw []int) (*Descriptor, error) {
	if len(raw) != 3 {
		return nil, fmt.Errorf("%w: expected 3 values, got %d", ErrInvalidDescriptor, len(raw))
	}
	bits := raw[2]
	if bits != 8 && bits != 16 {
		return nil, fmt.Errorf("%w: %d bits per entry", ErrInvalidDescriptor, bits)
	}
	entries := raw[0]
	if entries < 0 {
		entries = int(uint16(entries))
	}
	if entries == 0 {
		entries = 0x10000
	}
	return &Descriptor{
		Entries: entries,
		Offset:  int(int16(uint16(raw[1]))),
		Bits:    bits,
	}, nil
}

// DecodeDescriptorStrict is DecodeDescriptor with the additional entry-count
// check applied to Modality and VOI LUT Sequence items, where a negative
// count indicates a corrupt element rather than an encoder quirk.
func DecodeDescriptorStrict(raw []int) (*Descriptor, error) {
	if len(raw) == 3 && raw[0] < 0 {
		return nil, fmt.Errorf("%w: negative entry count %d", ErrInvalidDescriptor, raw[0])
	}
	return DecodeDescriptor(raw)
}

// DecodeData produces the flat lookup table described by d. literal is the
// LUT Data element value (nil when absent); segmented is the Segmented LUT
// Data word stream (nil when absent). bigEndian selects the byte order of
// literal 16-bit data.
//
// 16-bit literal tables with at most 256 entries are compacted into byte
// tables by rescaling each value with v*(entries-1)/65535.
func DecodeData(d *Descriptor, literal []byte, segmented []uint16, bigEndian bool) (*LookupTable, error) {
	if len(literal) > 0 {
		return decodeLiteral(d, literal, bigEndian)
	}
	if d.Bits != 8 && d.Bits != 16 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBits, d.Bits)
	}
	if len(segmented) == 0 {
		return nil, ErrMissingData
	}
	if d.Bits == 8 {
		return nil, ErrSegmentedBits
	}
	data, err := InflateSegmented(segmented, d.Entries)
	if err != nil {
		return nil, fmt.Errorf("inflating segmented LUT data: %w", err)
	}
	return NewByteTable(data, d.Offset), nil
}

func decodeLiteral(d *Descriptor, data []byte, bigEndian bool) (*LookupTable, error) {
	byteOrder := byteOrderFor(bigEndian)
	switch d.Bits {
	case 8:
		if len(data) == d.Entries {
			return NewByteTable(data, d.Offset), nil
		}
		if len(data) == d.Entries*2 {
			// Encoder-compatibility path: 8 significant bits stored in
			// 16-bit allocated words. Keep the significant byte of each
			// word: the high byte on big-endian streams, the low byte
			// otherwise.
			out := make([]byte, d.Entries)
			for i := range out {
				w := byteOrder.Uint16(data[i*2:])
				if bigEndian {
					out[i] = byte(w >> 8)
				} else {
					out[i] = byte(w)
				}
			}
			return NewByteTable(out, d.Offset), nil
		}
		return nil, fmt.Errorf("%w: %d entries declared, %d bytes present",
			ErrDataLength, d.Entries, len(data))

	case 16:
		if len(data) != d.Entries*2 {
			return nil, fmt.Errorf("%w: %d entries declared, %d bytes present",
				ErrDataLength, d.Entries, len(data))
		}
		if d.Entries <= 256 {
			out := make([]byte, d.Entries)
			for i := range out {
				v := int(byteOrder.Uint16(data[i*2:]))
				out[i] = byte(v * (d.Entries - 1) / 0xffff)
			}
			return NewByteTable(out, d.Offset), nil
		}
		out := make([]uint16, d.Entries)
		for i := range out {
			out[i] = byteOrder.Uint16(data[i*2:])
		}
		return NewShortTable(out, d.Offset, false), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBits, d.Bits)
	}
}

func byteOrderFor(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
