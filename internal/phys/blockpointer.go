package phys

import "fmt"

// BlockPointer is the fixed 128-byte record locating up to three
// replicas (DVAs) of a block, along with the metadata needed to read
// and verify it: kind, compression, checksum algorithm, birth
// transaction groups, and an embedded checksum value.
//
// NOTE: no retained original_source file defines block_pointer.rs; the
// bit layout below is an inference from usage sites (Dnode tails, ZIL
// header, DSL dataset) and the general shape of a ZFS blkptr_t, not a
// transcription of a grounded source — see DESIGN.md.
type BlockPointer struct {
	Dva [3]*Dva

	Level       uint8
	Type        DmuType
	Checksum    ChecksumType
	Compression CompressionType
	Endian      EndianOrder

	// PhysicalBirthTxg is non-zero only when this pointer is a dedup or
	// clone reference whose physical birth differs from its logical
	// birth.
	PhysicalBirthTxg uint64
	LogicalBirthTxg  uint64

	FillCount uint64

	// ChecksumValue is the embedded checksum digest, native order.
	ChecksumValue [4]uint64
}

const (
	blockPointerSize        = 128
	blockPointerPaddingSize = 16

	bpPropTypeMask        = uint64(0xff)
	bpPropChecksumShift   = 8
	bpPropChecksumMask    = uint64(0xff)
	bpPropCompressShift   = 16
	bpPropCompressMask    = uint64(0x7f)
	bpPropEmbeddedBit     = uint64(1) << 23
	bpPropLevelShift      = 24
	bpPropLevelMask       = uint64(0x1f)
	bpPropEndianBit       = uint64(1) << 32
	bpPropReservedMask    = ^(bpPropTypeMask | bpPropChecksumMask<<bpPropChecksumShift |
		bpPropCompressMask<<bpPropCompressShift |
		bpPropLevelMask<<bpPropLevelShift | bpPropEndianBit)
)

// BlockPointerSize is the fixed on-disk byte size of a BlockPointer.
const BlockPointerSize = blockPointerSize

// InvalidBlockPointerPropsError reports reserved property bits set.
type InvalidBlockPointerPropsError struct{ Value uint64 }

func (e *InvalidBlockPointerPropsError) Error() string {
	return fmt.Sprintf("block pointer: reserved property bits set in 0x%016x", e.Value)
}

// InvalidBlockPointerBirthError reports a physical birth txg that
// precedes the logical birth txg.
type InvalidBlockPointerBirthError struct {
	Logical, Physical uint64
}

func (e *InvalidBlockPointerBirthError) Error() string {
	return fmt.Sprintf("block pointer: physical birth %d precedes logical birth %d", e.Physical, e.Logical)
}

// DecodeBlockPointer decodes a 128-byte BlockPointer region. A nil
// result with a nil error means the region was all-zero ("absent").
func DecodeBlockPointer(d *Decoder) (*BlockPointer, error) {
	absent, err := d.IsZeroSkip(blockPointerSize)
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}

	bp := &BlockPointer{}
	for i := range bp.Dva {
		dva, err := DecodeDva(d)
		if err != nil {
			return nil, fmt.Errorf("block pointer: dva[%d]: %w", i, err)
		}
		bp.Dva[i] = dva
	}

	props, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if props&bpPropReservedMask != 0 {
		return nil, &InvalidBlockPointerPropsError{Value: props}
	}

	bp.Type = DmuType(props & bpPropTypeMask)
	if _, err := DmuTypeFromU8(uint8(bp.Type)); err != nil {
		return nil, err
	}
	checksum, err := ChecksumTypeFromU8(uint8((props >> bpPropChecksumShift) & bpPropChecksumMask))
	if err != nil {
		return nil, err
	}
	bp.Checksum = checksum
	compression, err := CompressionTypeFromU8(uint8((props >> bpPropCompressShift) & bpPropCompressMask))
	if err != nil {
		return nil, err
	}
	bp.Compression = compression
	bp.Level = uint8((props >> bpPropLevelShift) & bpPropLevelMask)
	if props&bpPropEndianBit != 0 {
		bp.Endian = LittleEndian
	} else {
		bp.Endian = BigEndian
	}

	if err := d.SkipZeroPadding(blockPointerPaddingSize); err != nil {
		return nil, err
	}

	bp.PhysicalBirthTxg, err = d.GetU64()
	if err != nil {
		return nil, err
	}
	bp.LogicalBirthTxg, err = d.GetU64()
	if err != nil {
		return nil, err
	}
	if bp.PhysicalBirthTxg != 0 && bp.PhysicalBirthTxg < bp.LogicalBirthTxg {
		return nil, &InvalidBlockPointerBirthError{Logical: bp.LogicalBirthTxg, Physical: bp.PhysicalBirthTxg}
	}

	bp.FillCount, err = d.GetU64()
	if err != nil {
		return nil, err
	}

	for i := range bp.ChecksumValue {
		bp.ChecksumValue[i], err = d.GetU64()
		if err != nil {
			return nil, err
		}
	}

	return bp, nil
}

// EncodeBlockPointer encodes bp, or the all-zero "absent" region if bp
// is nil.
func EncodeBlockPointer(e *Encoder, bp *BlockPointer) error {
	if bp == nil {
		return e.PutZeroPadding(blockPointerSize)
	}

	for i, dva := range bp.Dva {
		if err := EncodeDva(e, dva); err != nil {
			return fmt.Errorf("block pointer: dva[%d]: %w", i, err)
		}
	}

	if bp.PhysicalBirthTxg != 0 && bp.PhysicalBirthTxg < bp.LogicalBirthTxg {
		return &InvalidBlockPointerBirthError{Logical: bp.LogicalBirthTxg, Physical: bp.PhysicalBirthTxg}
	}

	props := uint64(bp.Type) & bpPropTypeMask
	props |= (uint64(bp.Checksum) & bpPropChecksumMask) << bpPropChecksumShift
	props |= (uint64(bp.Compression) & bpPropCompressMask) << bpPropCompressShift
	props |= (uint64(bp.Level) & bpPropLevelMask) << bpPropLevelShift
	if bp.Endian == LittleEndian {
		props |= bpPropEndianBit
	}
	if err := e.PutU64(props); err != nil {
		return err
	}

	if err := e.PutZeroPadding(blockPointerPaddingSize); err != nil {
		return err
	}

	if err := e.PutU64(bp.PhysicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutU64(bp.LogicalBirthTxg); err != nil {
		return err
	}
	if err := e.PutU64(bp.FillCount); err != nil {
		return err
	}
	for _, w := range bp.ChecksumValue {
		if err := e.PutU64(w); err != nil {
			return err
		}
	}
	return nil
}
