// Package lut decodes DICOM lookup-table attributes (LUT Descriptor, LUT
// Data, Segmented LUT Data) into flat in-memory tables and provides the
// shared table type used by the VOI, modality-rescale and palette builders.
package lut

// LookupTable is a flat single-band lookup table. Entries are stored either
// as bytes or as 16-bit words, chosen at decode time from the declared bit
// depth. Index i answers input value Offset()+i; lookups outside that range
// must be handled by the caller (see Lookup).
type LookupTable struct {
	bytes  []byte
	shorts []uint16
	offset int
	signed bool
}

// NewByteTable creates an 8-bit lookup table. The table takes ownership of
// data.
func NewByteTable(data []byte, offset int) *LookupTable {
	return &LookupTable{bytes: data, offset: offset}
}

// NewShortTable creates a 16-bit lookup table. When signed is set, entries
// are sign-extended on read.
func NewShortTable(data []uint16, offset int, signed bool) *LookupTable {
	return &LookupTable{shorts: data, offset: offset, signed: signed}
}

// IsByte reports whether the table stores 8-bit entries
func (t *LookupTable) IsByte() bool {
	return t.bytes != nil
}

// Signed reports whether 16-bit entries are interpreted as signed values
func (t *LookupTable) Signed() bool {
	return t.signed
}

// Offset returns the input value mapped by index 0
func (t *LookupTable) Offset() int {
	return t.offset
}

// Len returns the number of entries
func (t *LookupTable) Len() int {
	if t.bytes != nil {
		return len(t.bytes)
	}
	return len(t.shorts)
}

// Get returns the entry at index i as an int, sign-extending 16-bit entries
// of signed tables
func (t *LookupTable) Get(i int) int {
	if t.bytes != nil {
		return int(t.bytes[i])
	}
	if t.signed {
		return int(int16(t.shorts[i]))
	}
	return int(t.shorts[i])
}

// Set stores v at index i, truncated to the table's entry width
func (t *LookupTable) Set(i, v int) {
	if t.bytes != nil {
		t.bytes[i] = byte(v)
		return
	}
	t.shorts[i] = uint16(v)
}

// Lookup maps an input sample through the table. ok is false when pixel lies
// outside [Offset, Offset+Len-1]; the caller decides the fallback policy.
func (t *LookupTable) Lookup(pixel int) (value int, ok bool) {
	i := pixel - t.offset
	if i < 0 || i >= t.Len() {
		return 0, false
	}
	return t.Get(i), true
}

// Bytes returns the backing byte slice, or nil for a 16-bit table
func (t *LookupTable) Bytes() []byte {
	return t.bytes
}

// Shorts returns the backing word slice, or nil for an 8-bit table
func (t *LookupTable) Shorts() []uint16 {
	return t.shorts
}
