package phys

import "fmt"

// Dva is a data virtual address: a (vdev, offset, allocated-size, gang)
// tuple locating a block on a particular virtual device. A nil *Dva
// (returned by DecodeDva) represents "absent" — the all-zero 16-byte
// on-disk encoding.
type Dva struct {
	// Vdev is the index of the virtual device this block lives on.
	Vdev uint32

	// Grid is reserved in modern pools and MUST be zero.
	Grid uint8

	// Asize is the allocated size in sectors.
	Asize uint32

	// IsGang marks this DVA as pointing at a gang block.
	IsGang bool

	// Offset is the sector offset on Vdev.
	Offset uint64
}

const (
	dvaSize = 16

	dvaAllocatedMin = 1
	dvaAllocatedMax = (1 << 24) - 1
	dvaVdevMax      = (1 << 24) - 1

	dvaGridShift    = 24
	dvaVdevShift    = 32
	dvaOffsetMask   = (uint64(1) << 63) - 1
	dvaGangBit      = uint64(1) << 63
	dvaAsizeMask    = (uint32(1) << 24) - 1
	dvaGridMaskDown = uint32(0xff)
)

// DvaSize is the fixed on-disk byte size of a Dva.
const DvaSize = dvaSize

// NonZeroGridError reports a non-zero grid field, which is reserved
// and must be zero in every pool version this codec understands.
type NonZeroGridError struct{ Grid uint8 }

func (e *NonZeroGridError) Error() string {
	return fmt.Sprintf("dva: non-zero grid %d", e.Grid)
}

// InvalidDvaFieldError reports an out-of-range Dva field on encode.
type InvalidDvaFieldError struct{ Field string }

func (e *InvalidDvaFieldError) Error() string {
	return fmt.Sprintf("dva: invalid field %s", e.Field)
}

// DecodeDva decodes a 16-byte Dva region. A nil result with a nil error
// means the region was all-zero ("absent").
func DecodeDva(d *Decoder) (*Dva, error) {
	absent, err := d.IsZeroSkip(dvaSize)
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}

	a, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	b, err := d.GetU64()
	if err != nil {
		return nil, err
	}

	// Bits 56-63 of the first word are padding and must be zero.
	if pad := byte(a >> 56); pad != 0 {
		off := d.Offset() - dvaSize
		if d.Order() == LittleEndian {
			off += 7
		}
		return nil, &NonZeroPaddingError{Offset: off, Value: pad}
	}

	asize := uint32(a & uint64(dvaAsizeMask))
	grid := uint8((a >> dvaGridShift) & uint64(dvaGridMaskDown))
	vdev := uint32(a >> dvaVdevShift)

	if grid != 0 {
		return nil, &NonZeroGridError{Grid: grid}
	}

	isGang := b&dvaGangBit != 0
	offset := b & dvaOffsetMask

	return &Dva{
		Vdev:   vdev,
		Grid:   grid,
		Asize:  asize,
		IsGang: isGang,
		Offset: offset,
	}, nil
}

// EncodeDva encodes dva, or the all-zero "absent" region if dva is nil.
func EncodeDva(e *Encoder, dva *Dva) error {
	if dva == nil {
		return e.PutZeroPadding(dvaSize)
	}

	if dva.Vdev > dvaVdevMax {
		return &InvalidDvaFieldError{Field: "vdev"}
	}
	if dva.Grid != 0 {
		return &InvalidDvaFieldError{Field: "grid"}
	}
	if dva.Asize > dvaAsizeMask {
		return &InvalidDvaFieldError{Field: "asize"}
	}
	if dva.Offset > dvaOffsetMask {
		return &InvalidDvaFieldError{Field: "offset"}
	}

	a := uint64(dva.Vdev)<<dvaVdevShift | uint64(dva.Grid)<<dvaGridShift | uint64(dva.Asize)
	b := dva.Offset
	if dva.IsGang {
		b |= dvaGangBit
	}

	if err := e.PutU64(a); err != nil {
		return err
	}
	return e.PutU64(b)
}

// AllocatedSectorsInRange reports whether asize falls within the
// documented DVA allocated-size range [1, (1<<24)-1].
func AllocatedSectorsInRange(asize uint32) bool {
	return asize >= dvaAllocatedMin && asize <= dvaAllocatedMax
}
