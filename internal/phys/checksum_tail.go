package phys

import "fmt"

// ChecksumTailSize is the fixed on-disk byte size of a ChecksumTail.
const ChecksumTailSize = 40

// checksumTailMagic is an arbitrary constant written at the start of
// every ChecksumTail. Its role is purely to let a decoder determine
// which byte order the tail — and by extension the block it
// terminates — was written in, the same way a label's own magic
// number would.
//
// NOTE: no retained original_source file defines a ChecksumTail byte
// layout; this magic value and the 8-byte-marker/32-byte-digest split
// are an inference reconciling spec.md's prose description against
// the fixed 40-byte size used throughout label.rs — see DESIGN.md.
const checksumTailMagic = uint64(0x0210da7ab10c7a11)

// ChecksumTail is the 40-byte trailer embedded at the end of every
// label sub-region and uberblock: an order marker followed by the
// region's digest.
type ChecksumTail struct {
	Order EndianOrder
	Value [4]uint64
}

// ChecksumTailMagicError reports a ChecksumTail whose marker matches
// neither byte order's expected magic value.
type ChecksumTailMagicError struct{ Value uint64 }

func (e *ChecksumTailMagicError) Error() string {
	return fmt.Sprintf("checksum tail: unrecognized magic 0x%016x", e.Value)
}

// DecodeChecksumTail decodes a 40-byte ChecksumTail from b, determining
// its byte order from the marker. b must be exactly ChecksumTailSize
// bytes.
func DecodeChecksumTail(b []byte) (*ChecksumTail, error) {
	if len(b) != ChecksumTailSize {
		return nil, &InvalidDvaFieldError{Field: "checksum tail length"}
	}

	for _, order := range [...]EndianOrder{BigEndian, LittleEndian} {
		d := NewDecoder(b, order)
		magic, err := d.GetU64()
		if err != nil {
			return nil, err
		}
		if magic != checksumTailMagic {
			continue
		}

		tail := &ChecksumTail{Order: order}
		for i := range tail.Value {
			v, err := d.GetU64()
			if err != nil {
				return nil, err
			}
			tail.Value[i] = v
		}
		return tail, nil
	}

	d := NewDecoder(b, BigEndian)
	magic, _ := d.GetU64()
	return nil, &ChecksumTailMagicError{Value: magic}
}

// EncodeChecksumTail encodes tail into b, which must be exactly
// ChecksumTailSize bytes.
func EncodeChecksumTail(b []byte, tail *ChecksumTail) error {
	if len(b) != ChecksumTailSize {
		return &InvalidDvaFieldError{Field: "checksum tail length"}
	}

	e := NewEncoder(b, tail.Order)
	if err := e.PutU64(checksumTailMagic); err != nil {
		return err
	}
	for _, w := range tail.Value {
		if err := e.PutU64(w); err != nil {
			return err
		}
	}
	return nil
}
