package checksum

import (
	"fmt"

	"github.com/scigolib/zfsphys/internal/phys"
)

// LabelInvalidLengthError reports a buffer too short to hold a
// ChecksumTail.
type LabelInvalidLengthError struct{ Length int }

func (e *LabelInvalidLengthError) Error() string {
	return fmt.Sprintf("label checksum: invalid length %d", e.Length)
}

// LabelMismatchError reports a verified digest that does not match
// the stored one.
type LabelMismatchError struct {
	Computed, Stored [4]uint64
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("label checksum mismatch, computed: %016x, stored: %016x", e.Computed, e.Stored)
}

func offsetTail(offset uint64, order phys.EndianOrder) ([phys.ChecksumTailSize]byte, error) {
	var buf [phys.ChecksumTailSize]byte
	tail := &phys.ChecksumTail{Order: order, Value: [4]uint64{offset, 0, 0, 0}}
	if err := phys.EncodeChecksumTail(buf[:], tail); err != nil {
		return buf, err
	}
	return buf, nil
}

// LabelChecksum computes the checksum of data and writes it into
// data's trailing ChecksumTail in place. offset is the byte offset of
// data from the start of the block device, and is folded into the
// digest so mis-directed reads and swapped labels are detectable.
func LabelChecksum(data []byte, offset uint64, h *Sha256, order phys.EndianOrder) error {
	length := len(data)
	if length < phys.ChecksumTailSize {
		return &LabelInvalidLengthError{Length: length}
	}

	offsetTailBytes, err := offsetTail(offset, order)
	if err != nil {
		return err
	}

	h.Reset()
	h.Update(data[:length-phys.ChecksumTailSize])
	h.Update(offsetTailBytes[:])
	digest := h.Finalize()

	tail := &phys.ChecksumTail{Order: order, Value: digest}
	return phys.EncodeChecksumTail(data[length-phys.ChecksumTailSize:length], tail)
}

// LabelVerify verifies the checksum of data against its trailing
// ChecksumTail, decoding the byte order from the tail itself.
func LabelVerify(data []byte, offset uint64, h *Sha256) error {
	length := len(data)
	if length < phys.ChecksumTailSize {
		return &LabelInvalidLengthError{Length: length}
	}

	tail, err := phys.DecodeChecksumTail(data[length-phys.ChecksumTailSize : length])
	if err != nil {
		return err
	}

	offsetTailBytes, err := offsetTail(offset, tail.Order)
	if err != nil {
		return err
	}

	h.Reset()
	h.Update(data[:length-phys.ChecksumTailSize])
	h.Update(offsetTailBytes[:])
	computed := h.Finalize()

	if computed != tail.Value {
		return &LabelMismatchError{Computed: computed, Stored: tail.Value}
	}
	return nil
}
