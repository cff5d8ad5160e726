package phys

import "fmt"

const (
	dnodeFlagUsedBytes            = 1
	dnodeFlagUserUsedAccounted     = 2
	dnodeFlagSpillBlockPointer     = 4
	dnodeFlagUserObjUsedAccounted  = 8
	dnodeFlagAll                   = dnodeFlagUsedBytes | dnodeFlagUserUsedAccounted |
		dnodeFlagSpillBlockPointer | dnodeFlagUserObjUsedAccounted
)

// DnodeSize is the fixed on-disk byte size of a Dnode.
const DnodeSize = 512

// Bonus capacities for each tail shape, each one BlockPointerSize
// smaller than the last: Zero has no embedded pointers, so its bonus
// region spans the full tail; every additional pointer shrinks it by
// one BlockPointer.
const (
	DnodeTailZeroBonusSize  = 448
	DnodeTailOneBonusSize   = DnodeTailZeroBonusSize - BlockPointerSize
	DnodeTailTwoBonusSize   = DnodeTailOneBonusSize - BlockPointerSize
	DnodeTailThreeBonusSize = DnodeTailTwoBonusSize - BlockPointerSize
	DnodeTailSpillBonusSize = DnodeTailOneBonusSize - BlockPointerSize
)

// DnodeUsedKind selects whether Dnode.Used is a byte count or a sector
// count.
type DnodeUsedKind uint8

const (
	DnodeUsedSectors DnodeUsedKind = 0
	DnodeUsedBytes   DnodeUsedKind = 1
)

// DnodeTailKind identifies which of the five fixed-shape tail variants
// a Dnode carries, selected on decode by (block-pointer-count, spill).
type DnodeTailKind uint8

const (
	DnodeTailKindZero DnodeTailKind = iota
	DnodeTailKindOne
	DnodeTailKindTwo
	DnodeTailKindThree
	DnodeTailKindSpill
)

// DnodeTail is the tagged union over the five fixed-shape dnode tails.
// Kind determines which of Pointers/Spill are meaningful:
// Pointers has length 0, 1, 2, or 3 (1 for Spill); Spill is only
// non-nil-checked when Kind is DnodeTailKindSpill; BonusCapacity is
// always sized to the full tail capacity for the kind, and the
// logical (used) bonus is its BonusLen-byte prefix.
type DnodeTail struct {
	Kind DnodeTailKind

	// Pointers holds the embedded block pointers for this tail shape,
	// each possibly nil ("absent").
	Pointers []*BlockPointer

	// Spill is the spill block pointer, only present for
	// DnodeTailKindSpill.
	Spill *BlockPointer

	// BonusCapacity is the full on-disk bonus region for this tail
	// shape; the whole capacity is re-encoded on every encode, so bytes
	// beyond BonusLen still round-trip.
	BonusCapacity []byte
}

// bonusCapacitySize returns the fixed bonus capacity in bytes for kind.
func bonusCapacitySize(kind DnodeTailKind) int {
	switch kind {
	case DnodeTailKindZero:
		return DnodeTailZeroBonusSize
	case DnodeTailKindOne:
		return DnodeTailOneBonusSize
	case DnodeTailKindTwo:
		return DnodeTailTwoBonusSize
	case DnodeTailKindThree:
		return DnodeTailThreeBonusSize
	case DnodeTailKindSpill:
		return DnodeTailSpillBonusSize
	default:
		return 0
	}
}

// Dnode is the on-disk object header describing an object of some DMU
// kind, its block-pointer fan-out, and bonus data.
type Dnode struct {
	Dmu                 DmuType
	IndirectBlockShift  uint8
	Levels              uint8
	BonusType           DmuType
	Checksum            ChecksumType
	Compression         CompressionType
	DataBlockSizeSectors uint16
	BonusLen            int
	ExtraSlots          uint8
	MaxBlockId          uint64
	UsedKind            DnodeUsedKind
	Used                uint64
	UserUsedAccounted   bool
	UserObjUsedAccounted bool

	Tail DnodeTail
}

// DnodeFlagsError reports flag bits outside the recognized mask.
type DnodeFlagsError struct{ Flags uint8 }

func (e *DnodeFlagsError) Error() string {
	return fmt.Sprintf("dnode: invalid flags 0x%02x", e.Flags)
}

// DnodeBlockPointerCountError reports a block-pointer count outside
// {0,1,2,3}.
type DnodeBlockPointerCountError struct{ Count uint8 }

func (e *DnodeBlockPointerCountError) Error() string {
	return fmt.Sprintf("dnode: invalid block pointer count %d", e.Count)
}

// DnodeSpillBlockPointerCountError reports the spill flag set with a
// block-pointer count other than 1.
type DnodeSpillBlockPointerCountError struct{ Count uint8 }

func (e *DnodeSpillBlockPointerCountError) Error() string {
	return fmt.Sprintf("dnode: spill flag set with block pointer count %d", e.Count)
}

// DnodeBonusLengthError reports a bonus length exceeding the tail
// shape's bonus capacity.
type DnodeBonusLengthError struct{ Length int }

func (e *DnodeBonusLengthError) Error() string {
	return fmt.Sprintf("dnode: invalid bonus length %d", e.Length)
}

// DecodeDnode decodes a 512-byte Dnode region. A nil result with a nil
// error means the region was all-zero ("absent").
func DecodeDnode(d *Decoder) (*Dnode, error) {
	absent, err := d.IsZeroSkip(DnodeSize)
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}

	dmuRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	dmu, err := DmuTypeFromU8(dmuRaw)
	if err != nil {
		return nil, err
	}

	indirectBlockShift, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	levels, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	blockPointersN, err := d.GetU8()
	if err != nil {
		return nil, err
	}

	bonusTypeRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	bonusType, err := DmuTypeFromU8(bonusTypeRaw)
	if err != nil {
		return nil, err
	}

	checksumRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	checksum, err := ChecksumTypeFromU8(checksumRaw)
	if err != nil {
		return nil, err
	}

	compressionRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	compression, err := CompressionTypeFromU8(compressionRaw)
	if err != nil {
		return nil, err
	}

	flags, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	if flags&dnodeFlagAll != flags {
		return nil, &DnodeFlagsError{Flags: flags}
	}
	isSpill := flags&dnodeFlagSpillBlockPointer != 0
	if isSpill && blockPointersN != 1 {
		return nil, &DnodeSpillBlockPointerCountError{Count: blockPointersN}
	}

	dataBlockSizeSectors, err := d.GetU16()
	if err != nil {
		return nil, err
	}
	bonusLenRaw, err := d.GetU16()
	if err != nil {
		return nil, err
	}
	bonusLen := int(bonusLenRaw)

	extraSlots, err := d.GetU8()
	if err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(3); err != nil {
		return nil, err
	}

	maxBlockId, err := d.GetU64()
	if err != nil {
		return nil, err
	}

	used, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	usedKind := DnodeUsedSectors
	if flags&dnodeFlagUsedBytes != 0 {
		usedKind = DnodeUsedBytes
	}

	if err := d.SkipZeroPadding(32); err != nil {
		return nil, err
	}

	var tail DnodeTail
	switch {
	case blockPointersN == 0:
		tail.Kind = DnodeTailKindZero
	case blockPointersN == 1 && isSpill:
		tail.Kind = DnodeTailKindSpill
	case blockPointersN == 1:
		tail.Kind = DnodeTailKindOne
	case blockPointersN == 2:
		tail.Kind = DnodeTailKindTwo
	case blockPointersN == 3:
		tail.Kind = DnodeTailKindThree
	default:
		return nil, &DnodeBlockPointerCountError{Count: blockPointersN}
	}

	tail.Pointers = make([]*BlockPointer, blockPointersN)
	for i := range tail.Pointers {
		bp, err := DecodeBlockPointer(d)
		if err != nil {
			return nil, fmt.Errorf("dnode: block pointer[%d]: %w", i, err)
		}
		tail.Pointers[i] = bp
	}

	bonus, err := d.GetBytes(bonusCapacitySize(tail.Kind))
	if err != nil {
		return nil, err
	}
	tail.BonusCapacity = append([]byte(nil), bonus...)

	if tail.Kind == DnodeTailKindSpill {
		spill, err := DecodeBlockPointer(d)
		if err != nil {
			return nil, fmt.Errorf("dnode: spill block pointer: %w", err)
		}
		tail.Spill = spill
	}

	if bonusLen > len(tail.BonusCapacity) {
		return nil, &DnodeBonusLengthError{Length: bonusLen}
	}

	return &Dnode{
		Dmu:                  dmu,
		IndirectBlockShift:   indirectBlockShift,
		Levels:               levels,
		BonusType:            bonusType,
		Checksum:             checksum,
		Compression:          compression,
		DataBlockSizeSectors: dataBlockSizeSectors,
		BonusLen:             bonusLen,
		ExtraSlots:           extraSlots,
		MaxBlockId:           maxBlockId,
		UsedKind:             usedKind,
		Used:                 used,
		UserUsedAccounted:    flags&dnodeFlagUserUsedAccounted != 0,
		UserObjUsedAccounted: flags&dnodeFlagUserObjUsedAccounted != 0,
		Tail:                 tail,
	}, nil
}

// EncodeEmptyDnode writes the all-zero 512-byte "absent" Dnode region.
func EncodeEmptyDnode(e *Encoder) error {
	return e.PutZeroPadding(DnodeSize)
}

// EncodeDnode encodes dn, or the all-zero "absent" region if dn is
// nil.
func EncodeDnode(e *Encoder, dn *Dnode) error {
	if dn == nil {
		return EncodeEmptyDnode(e)
	}

	if dn.BonusLen > bonusCapacitySize(dn.Tail.Kind) {
		return &DnodeBonusLengthError{Length: dn.BonusLen}
	}

	if err := e.PutU8(uint8(dn.Dmu)); err != nil {
		return err
	}
	if err := e.PutU8(dn.IndirectBlockShift); err != nil {
		return err
	}
	if err := e.PutU8(dn.Levels); err != nil {
		return err
	}
	if err := e.PutU8(uint8(len(dn.Tail.Pointers))); err != nil {
		return err
	}
	if err := e.PutU8(uint8(dn.BonusType)); err != nil {
		return err
	}
	if err := e.PutU8(uint8(dn.Checksum)); err != nil {
		return err
	}
	if err := e.PutU8(uint8(dn.Compression)); err != nil {
		return err
	}

	flags := uint8(0)
	if dn.UsedKind == DnodeUsedBytes {
		flags |= dnodeFlagUsedBytes
	}
	if dn.UserUsedAccounted {
		flags |= dnodeFlagUserUsedAccounted
	}
	if dn.UserObjUsedAccounted {
		flags |= dnodeFlagUserObjUsedAccounted
	}
	if dn.Tail.Kind == DnodeTailKindSpill {
		flags |= dnodeFlagSpillBlockPointer
	}
	if err := e.PutU8(flags); err != nil {
		return err
	}

	if err := e.PutU16(dn.DataBlockSizeSectors); err != nil {
		return err
	}
	if err := e.PutU16(uint16(dn.BonusLen)); err != nil {
		return err
	}
	if err := e.PutU8(dn.ExtraSlots); err != nil {
		return err
	}
	if err := e.PutZeroPadding(3); err != nil {
		return err
	}
	if err := e.PutU64(dn.MaxBlockId); err != nil {
		return err
	}
	if err := e.PutU64(dn.Used); err != nil {
		return err
	}
	if err := e.PutZeroPadding(32); err != nil {
		return err
	}

	for i, bp := range dn.Tail.Pointers {
		if err := EncodeBlockPointer(e, bp); err != nil {
			return fmt.Errorf("dnode: block pointer[%d]: %w", i, err)
		}
	}
	if err := e.PutBytes(dn.Tail.BonusCapacity); err != nil {
		return err
	}
	if dn.Tail.Kind == DnodeTailKindSpill {
		if err := EncodeBlockPointer(e, dn.Tail.Spill); err != nil {
			return fmt.Errorf("dnode: spill block pointer: %w", err)
		}
	}

	return nil
}
