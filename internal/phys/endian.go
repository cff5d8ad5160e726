package phys

import (
	"encoding/binary"
	"fmt"
)

// EndianOrder tags the byte order carried by a decoder/encoder and every
// checksummed region. The order is never implicit: every record codec
// takes one explicitly.
type EndianOrder uint8

const (
	// BigEndian encodes/decodes multi-byte integers most-significant byte
	// first.
	BigEndian EndianOrder = iota
	// LittleEndian encodes/decodes multi-byte integers least-significant
	// byte first.
	LittleEndian
)

// String implements fmt.Stringer.
func (o EndianOrder) String() string {
	switch o {
	case BigEndian:
		return "BigEndian"
	case LittleEndian:
		return "LittleEndian"
	default:
		return fmt.Sprintf("EndianOrder(%d)", uint8(o))
	}
}

func (o EndianOrder) byteOrder() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// EndOfInputError is returned when a decoder does not have count bytes
// remaining at offset out of capacity.
type EndOfInputError struct {
	Offset   uint64
	Capacity uint64
	Count    uint64
}

func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("end of input: offset %d, count %d, capacity %d", e.Offset, e.Count, e.Capacity)
}

// EndOfOutputError is returned when an encoder does not have room for
// count bytes remaining at offset out of capacity.
type EndOfOutputError struct {
	Offset   uint64
	Capacity uint64
	Count    uint64
}

func (e *EndOfOutputError) Error() string {
	return fmt.Sprintf("end of output: offset %d, count %d, capacity %d", e.Offset, e.Count, e.Capacity)
}

// NonZeroPaddingError is returned by SkipZeroPadding when a reserved
// region contains a non-zero byte.
type NonZeroPaddingError struct {
	Offset uint64
	Value  byte
}

func (e *NonZeroPaddingError) Error() string {
	return fmt.Sprintf("non-zero padding at offset %d: 0x%02x", e.Offset, e.Value)
}

// Decoder is a positional reader over a caller-supplied byte region with
// an explicit byte order. The offset is monotonic: there is no seek, and
// the order cannot change mid-stream. Decoder never allocates beyond the
// slices it returns views into.
type Decoder struct {
	data  []byte
	pos   int
	order EndianOrder
}

// NewDecoder returns a Decoder over data using the given byte order.
func NewDecoder(data []byte, order EndianOrder) *Decoder {
	return &Decoder{data: data, order: order}
}

// Order returns the decoder's byte order.
func (d *Decoder) Order() EndianOrder { return d.order }

// Offset returns the current read position.
func (d *Decoder) Offset() uint64 { return uint64(d.pos) }

// Capacity returns the total byte length of the decoder's region.
func (d *Decoder) Capacity() uint64 { return uint64(len(d.data)) }

// Available returns the number of unread bytes.
func (d *Decoder) Available() uint64 { return d.Capacity() - d.Offset() }

// IsEmpty reports whether there are no unread bytes remaining.
func (d *Decoder) IsEmpty() bool { return d.pos >= len(d.data) }

func (d *Decoder) checkNeed(count int) error {
	if d.pos+count > len(d.data) {
		return &EndOfInputError{Offset: uint64(d.pos), Capacity: uint64(len(d.data)), Count: uint64(count)}
	}
	return nil
}

// GetBytes returns the next n bytes as a view into the decoder's backing
// array (not a copy) and advances the offset.
func (d *Decoder) GetBytes(n int) ([]byte, error) {
	if err := d.checkNeed(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// GetU8 reads a single byte.
func (d *Decoder) GetU8() (uint8, error) {
	b, err := d.GetBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetU16 reads a 16-bit unsigned integer in the decoder's byte order.
func (d *Decoder) GetU16() (uint16, error) {
	b, err := d.GetBytes(2)
	if err != nil {
		return 0, err
	}
	return d.order.byteOrder().Uint16(b), nil
}

// GetU32 reads a 32-bit unsigned integer in the decoder's byte order.
func (d *Decoder) GetU32() (uint32, error) {
	b, err := d.GetBytes(4)
	if err != nil {
		return 0, err
	}
	return d.order.byteOrder().Uint32(b), nil
}

// GetU64 reads a 64-bit unsigned integer in the decoder's byte order.
func (d *Decoder) GetU64() (uint64, error) {
	b, err := d.GetBytes(8)
	if err != nil {
		return 0, err
	}
	return d.order.byteOrder().Uint64(b), nil
}

// GetI8 reads a signed byte.
func (d *Decoder) GetI8() (int8, error) {
	v, err := d.GetU8()
	return int8(v), err
}

// GetI16 reads a signed 16-bit integer.
func (d *Decoder) GetI16() (int16, error) {
	v, err := d.GetU16()
	return int16(v), err
}

// GetI32 reads a signed 32-bit integer.
func (d *Decoder) GetI32() (int32, error) {
	v, err := d.GetU32()
	return int32(v), err
}

// GetI64 reads a signed 64-bit integer.
func (d *Decoder) GetI64() (int64, error) {
	v, err := d.GetU64()
	return int64(v), err
}

// SkipZeroPadding consumes n bytes, failing with NonZeroPaddingError if
// any of them are non-zero. Used for reserved regions.
func (d *Decoder) SkipZeroPadding(n int) error {
	b, err := d.GetBytes(n)
	if err != nil {
		return err
	}
	for i, v := range b {
		if v != 0 {
			return &NonZeroPaddingError{Offset: uint64(d.pos-n) + uint64(i), Value: v}
		}
	}
	return nil
}

// GetPaddedBytes reads n content bytes followed by however many zero
// bytes are needed to round the total up to a 4-byte boundary, failing
// with NonZeroPaddingError if any padding byte is non-zero. Used by the
// NV list codec, whose names, strings, and byte arrays are individually
// aligned to 4 bytes.
func (d *Decoder) GetPaddedBytes(n int) ([]byte, error) {
	padded := alignUp4(n)
	b, err := d.GetBytes(padded)
	if err != nil {
		return nil, err
	}
	for i := n; i < padded; i++ {
		if b[i] != 0 {
			return nil, &NonZeroPaddingError{Offset: uint64(d.pos-padded) + uint64(i), Value: b[i]}
		}
	}
	return b[:n:n], nil
}

// alignUp4 rounds n up to the next multiple of 4.
func alignUp4(n int) int { return (n + 3) &^ 3 }

// IsZeroSkip peeks at the next n bytes; if all are zero it consumes them
// and returns true, otherwise it leaves the offset untouched and returns
// false. Used to detect an absent (all-zero) fixed-size record without
// committing to consuming it as one.
func (d *Decoder) IsZeroSkip(n int) (bool, error) {
	if err := d.checkNeed(n); err != nil {
		return false, err
	}
	for _, v := range d.data[d.pos : d.pos+n] {
		if v != 0 {
			return false, nil
		}
	}
	d.pos += n
	return true, nil
}

// Encoder is a positional writer over a caller-supplied byte region with
// an explicit byte order, the inverse of Decoder.
type Encoder struct {
	data  []byte
	pos   int
	order EndianOrder
}

// NewEncoder returns an Encoder writing into data using the given byte
// order.
func NewEncoder(data []byte, order EndianOrder) *Encoder {
	return &Encoder{data: data, order: order}
}

// Order returns the encoder's byte order.
func (e *Encoder) Order() EndianOrder { return e.order }

// Offset returns the current write position.
func (e *Encoder) Offset() uint64 { return uint64(e.pos) }

// Capacity returns the total byte length of the encoder's region.
func (e *Encoder) Capacity() uint64 { return uint64(len(e.data)) }

// Available returns the number of unwritten bytes remaining.
func (e *Encoder) Available() uint64 { return e.Capacity() - e.Offset() }

// IsEmpty reports whether there is no room left to write.
func (e *Encoder) IsEmpty() bool { return e.pos >= len(e.data) }

func (e *Encoder) checkNeed(count int) error {
	if e.pos+count > len(e.data) {
		return &EndOfOutputError{Offset: uint64(e.pos), Capacity: uint64(len(e.data)), Count: uint64(count)}
	}
	return nil
}

// PutBytes writes b verbatim and advances the offset.
func (e *Encoder) PutBytes(b []byte) error {
	if err := e.checkNeed(len(b)); err != nil {
		return err
	}
	copy(e.data[e.pos:], b)
	e.pos += len(b)
	return nil
}

// PutU8 writes a single byte.
func (e *Encoder) PutU8(v uint8) error {
	return e.PutBytes([]byte{v})
}

// PutU16 writes a 16-bit unsigned integer in the encoder's byte order.
func (e *Encoder) PutU16(v uint16) error {
	if err := e.checkNeed(2); err != nil {
		return err
	}
	e.order.byteOrder().PutUint16(e.data[e.pos:], v)
	e.pos += 2
	return nil
}

// PutU32 writes a 32-bit unsigned integer in the encoder's byte order.
func (e *Encoder) PutU32(v uint32) error {
	if err := e.checkNeed(4); err != nil {
		return err
	}
	e.order.byteOrder().PutUint32(e.data[e.pos:], v)
	e.pos += 4
	return nil
}

// PutU64 writes a 64-bit unsigned integer in the encoder's byte order.
func (e *Encoder) PutU64(v uint64) error {
	if err := e.checkNeed(8); err != nil {
		return err
	}
	e.order.byteOrder().PutUint64(e.data[e.pos:], v)
	e.pos += 8
	return nil
}

// PutI8 writes a signed byte.
func (e *Encoder) PutI8(v int8) error { return e.PutU8(uint8(v)) }

// PutI16 writes a signed 16-bit integer.
func (e *Encoder) PutI16(v int16) error { return e.PutU16(uint16(v)) }

// PutI32 writes a signed 32-bit integer.
func (e *Encoder) PutI32(v int32) error { return e.PutU32(uint32(v)) }

// PutI64 writes a signed 64-bit integer.
func (e *Encoder) PutI64(v int64) error { return e.PutU64(uint64(v)) }

// PutPaddedBytes writes b followed by however many zero bytes are
// needed to round the total up to a 4-byte boundary.
func (e *Encoder) PutPaddedBytes(b []byte) error {
	if err := e.PutBytes(b); err != nil {
		return err
	}
	return e.PutZeroPadding(alignUp4(len(b)) - len(b))
}

// PutZeroPadding writes n zero bytes.
func (e *Encoder) PutZeroPadding(n int) error {
	if err := e.checkNeed(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		e.data[e.pos+i] = 0
	}
	e.pos += n
	return nil
}
