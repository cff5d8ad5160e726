// Package checksum implements the streaming checksum engines used to
// verify and compute the digests embedded in block pointers and
// labels.
package checksum

import (
	"fmt"

	"github.com/scigolib/zfsphys/internal/phys"
)

// Checksum is a streaming checksum engine. Implementations are reset
// to their initial state, fed data in any number of Update calls, and
// produce a final digest via Finalize.
type Checksum interface {
	Reset()
	Update(data []byte)
	Finalize() [4]uint64
}

// Hash is a convenience wrapper computing a one-shot checksum over
// data.
func Hash(h Checksum, data []byte) [4]uint64 {
	h.Reset()
	h.Update(data)
	return h.Finalize()
}

// UnsupportedError reports a checksum implementation that is not
// available for the requested algorithm.
type UnsupportedError struct {
	Checksum       phys.ChecksumType
	Order          phys.EndianOrder
	Implementation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("checksum: unsupported implementation %q for %s (%s)",
		e.Implementation, e.Checksum, e.Order)
}
