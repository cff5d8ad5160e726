package phys

import "fmt"

// LabelBlankSize is the byte size of a label's blank region (8 KiB).
const LabelBlankSize = 8 * 1024

// LabelBlankPayloadSize is LabelBlankSize minus its trailing
// ChecksumTail. A blank region carries no checksum of its own — it is
// reserved space, never verified or written beyond round-tripping its
// payload bytes.
const LabelBlankPayloadSize = LabelBlankSize - ChecksumTailSize

// LabelBlank is the first 8 KiB of a Label: reserved, unchecksummed
// space.
type LabelBlank struct {
	Payload [LabelBlankPayloadSize]byte
}

// LabelBlankOffset is LabelBlank's offset in sectors from the start of
// a Label.
const LabelBlankOffset = 0

// DecodeLabelBlank decodes a LabelBlankSize-byte LabelBlank verbatim.
func DecodeLabelBlank(b []byte) (*LabelBlank, error) {
	if len(b) != LabelBlankSize {
		return nil, &LabelRegionSizeError{Want: LabelBlankSize, Got: len(b)}
	}
	lb := &LabelBlank{}
	copy(lb.Payload[:], b[:LabelBlankPayloadSize])
	return lb, nil
}

// EncodeLabelBlank encodes lb into b, which must be exactly
// LabelBlankSize bytes. The trailing ChecksumTailSize bytes are left
// as whatever b already held (typically zero); LabelBlank has no
// checksum to compute.
func EncodeLabelBlank(b []byte, lb *LabelBlank) error {
	if len(b) != LabelBlankSize {
		return &LabelRegionSizeError{Want: LabelBlankSize, Got: len(b)}
	}
	copy(b[:LabelBlankPayloadSize], lb.Payload[:])
	return nil
}

// NonZeroBlankError reports a LabelBlank whose reserved payload
// contains a non-zero byte. Returned only by DecodeLabelBlankStrict.
type NonZeroBlankError struct{ Offset int }

func (e *NonZeroBlankError) Error() string {
	return fmt.Sprintf("label blank region not zero at payload offset %d", e.Offset)
}

// DecodeLabelBlankStrict decodes a LabelBlankSize-byte LabelBlank,
// failing with NonZeroBlankError if any payload byte is non-zero.
// Whether a non-zero blank region should be a hard decode failure or
// only a diagnostic is the kind of ambiguity spec.md's Design Notes
// flag explicitly; this module treats it as strict by default.
// Forensic tools recovering a corrupted or foreign label should call
// DecodeLabelBlank (lax) instead, which never inspects the payload.
func DecodeLabelBlankStrict(b []byte) (*LabelBlank, error) {
	lb, err := DecodeLabelBlank(b)
	if err != nil {
		return nil, err
	}
	for i, v := range lb.Payload {
		if v != 0 {
			return nil, &NonZeroBlankError{Offset: i}
		}
	}
	return lb, nil
}

// LabelBootHeaderSize is the byte size of a label's boot header region
// (8 KiB).
const LabelBootHeaderSize = 8 * 1024

// LabelBootHeaderPayloadSize is LabelBootHeaderSize minus its trailing
// ChecksumTail.
const LabelBootHeaderPayloadSize = LabelBootHeaderSize - ChecksumTailSize

// LabelBootHeaderOffset is LabelBootHeader's offset in sectors from
// the start of a Label.
const LabelBootHeaderOffset = LabelBlankOffset + LabelBlankSize>>SectorShift

// LabelBootHeader is the second 8 KiB of a Label: a checksummed,
// otherwise reserved payload historically used to locate a bootable
// kernel image. Decoding/encoding it requires a checksum engine, so
// those operations live in internal/label rather than here, keeping
// this package free of a dependency on internal/checksum.
type LabelBootHeader struct {
	Payload [LabelBootHeaderPayloadSize]byte
}

// LabelRegionSizeError reports a byte slice of the wrong size for the
// label sub-region being decoded or encoded.
type LabelRegionSizeError struct {
	Want, Got int
}

func (e *LabelRegionSizeError) Error() string {
	return fmt.Sprintf("label region: want %d bytes, got %d", e.Want, e.Got)
}

// LabelNvPairsSize is the byte size of a label's NV pairs region
// (112 KiB).
const LabelNvPairsSize = 112 * 1024

// LabelNvPairsPayloadSize is LabelNvPairsSize minus its trailing
// ChecksumTail.
const LabelNvPairsPayloadSize = LabelNvPairsSize - ChecksumTailSize

// LabelNvPairsOffset is LabelNvPairs's offset in sectors from the
// start of a Label.
const LabelNvPairsOffset = LabelBootHeaderOffset + LabelBootHeaderSize>>SectorShift

// LabelNvPairs is the third region of a Label: a checksummed NvList
// describing the pool and vdev configuration (spec's well-known pool
// configuration keys), followed by reserved zero padding out to
// LabelNvPairsPayloadSize. Decoding/encoding it requires a checksum
// engine; see internal/label.
type LabelNvPairs struct {
	List *NvList
}

// LabelUberblockRingOffset is the uberblock ring's offset in sectors
// from the start of a Label.
const LabelUberblockRingOffset = LabelNvPairsOffset + LabelNvPairsSize>>SectorShift

// UberblockMinSize is the floor on an individual uberblock's encoded
// size in bytes, used whenever 1<<ashift would otherwise be smaller.
const UberblockMinSize = 1024

// UberblockMaxSizeFeatures caps an individual uberblock's encoded size
// when the pool's SpaVersion is SpaVersionFeatures; larger ashift
// values do not grow the uberblock further.
const UberblockMaxSizeFeatures = 8192

// UberblockRingSize is the total byte size of a Label's uberblock
// ring (128 KiB), regardless of how large an individual entry is.
const UberblockRingSize = 128 * 1024

// UberblockSize returns the encoded byte size of a single uberblock
// entry for the given ashift and pool version.
func UberblockSize(ashift uint8, version SpaVersion) uint64 {
	size := uint64(1) << ashift
	if size < UberblockMinSize {
		size = UberblockMinSize
	}
	if version == SpaVersionFeatures && size > UberblockMaxSizeFeatures {
		size = UberblockMaxSizeFeatures
	}
	return size
}

// UberblockCount returns the number of uberblock slots in a Label's
// ring for the given ashift and pool version.
func UberblockCount(ashift uint8, version SpaVersion) uint64 {
	return UberblockRingSize / UberblockSize(ashift, version)
}

// Uberblock is a single entry in a Label's uberblock ring. No retained
// original_source file defines an uberblock's internal byte layout (only
// its sizing regime, reflected in UberblockSize/UberblockCount); per
// DESIGN.md this is modeled as an opaque checksummed payload, the same
// treatment LabelBlank's reserved bytes receive, rather than guessing
// at an unfounded field layout. Decoding/encoding it requires a
// checksum engine; see internal/label.
type Uberblock struct {
	Payload []byte
}

// LabelCount is the fixed number of labels on every vdev.
const LabelCount = 4

// LabelSize is the byte size of an encoded Label: blank + boot header
// + NV pairs + uberblock ring (256 KiB for every ashift, since the
// ring always totals UberblockRingSize regardless of entry size).
const LabelSize = LabelBlankSize + LabelBootHeaderSize + LabelNvPairsSize + UberblockRingSize

// LabelSectors is LabelSize expressed in sectors.
const LabelSectors = LabelSize >> SectorShift

// LabelSectorsError reports a vdev too small to hold all four labels.
type LabelSectorsError struct{ Sectors uint64 }

func (e *LabelSectorsError) Error() string {
	return fmt.Sprintf("not enough sectors for label geometry: %d", e.Sectors)
}

// LabelOffsets returns the sector offset of each of a vdev's four
// labels (L0, L1, L2, L3) given the vdev's total size in sectors. L0
// and L1 sit at the head of the device; L2 and L3 at the tail.
func LabelOffsets(vdevSectors uint64) ([4]uint64, error) {
	if vdevSectors < LabelSectors*4 {
		return [4]uint64{}, &LabelSectorsError{Sectors: vdevSectors}
	}
	return [4]uint64{
		0,
		LabelSectors,
		vdevSectors - 2*LabelSectors,
		vdevSectors - LabelSectors,
	}, nil
}

// BootBlockSize is the byte size of the boot block region sitting
// between a vdev's L1 and L2 labels (3.5 MiB).
const BootBlockSize = 3584 * 1024

// BootBlockOffset is the boot block's offset in sectors from the
// start of a block device.
const BootBlockOffset = 2 * LabelSectors

// BootBlockSectors is BootBlockSize expressed in sectors.
const BootBlockSectors = BootBlockSize >> SectorShift

// BootBlock is the reserved, unchecksummed region historically used to
// store a bootable kernel image.
type BootBlock struct {
	Payload []byte
}

// DecodeBootBlock decodes a BootBlockSize-byte BootBlock verbatim.
// Unlike the label sub-regions, BootBlock is heap-allocated rather
// than a fixed array, since 3.5 MiB comfortably exceeds what should
// ever be carried on the Go call stack.
func DecodeBootBlock(b []byte) (*BootBlock, error) {
	if len(b) != BootBlockSize {
		return nil, &LabelRegionSizeError{Want: BootBlockSize, Got: len(b)}
	}
	payload := make([]byte, BootBlockSize)
	copy(payload, b)
	return &BootBlock{Payload: payload}, nil
}

// EncodeBootBlock encodes bb into b verbatim.
func EncodeBootBlock(b []byte, bb *BootBlock) error {
	if len(b) != BootBlockSize {
		return &LabelRegionSizeError{Want: BootBlockSize, Got: len(b)}
	}
	copy(b, bb.Payload)
	return nil
}
