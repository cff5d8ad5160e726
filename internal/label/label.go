// Package label decodes and encodes the checksummed regions of a
// vdev's Label — the boot header, NV pairs, and uberblock ring — by
// composing internal/phys's structural types with internal/checksum's
// SHA-256 engine. It is split out from internal/phys so that package
// stays free of a dependency on the checksum engine it would otherwise
// need for every region but LabelBlank and BootBlock.
package label

import (
	"github.com/scigolib/zfsphys/internal/checksum"
	"github.com/scigolib/zfsphys/internal/phys"
)

// DecodeBootHeader verifies and decodes a
// phys.LabelBootHeaderSize-byte region. offset is this region's byte
// offset from the start of the block device, folded into the
// checksum.
func DecodeBootHeader(b []byte, offset uint64, h *checksum.Sha256) (*phys.LabelBootHeader, error) {
	if len(b) != phys.LabelBootHeaderSize {
		return nil, &phys.LabelRegionSizeError{Want: phys.LabelBootHeaderSize, Got: len(b)}
	}
	if err := checksum.LabelVerify(b, offset, h); err != nil {
		return nil, err
	}
	lh := &phys.LabelBootHeader{}
	copy(lh.Payload[:], b[:phys.LabelBootHeaderPayloadSize])
	return lh, nil
}

// EncodeBootHeader encodes lh into b and computes its checksum. offset
// is this region's byte offset from the start of the block device.
func EncodeBootHeader(b []byte, lh *phys.LabelBootHeader, offset uint64, h *checksum.Sha256, order phys.EndianOrder) error {
	if len(b) != phys.LabelBootHeaderSize {
		return &phys.LabelRegionSizeError{Want: phys.LabelBootHeaderSize, Got: len(b)}
	}
	copy(b[:phys.LabelBootHeaderPayloadSize], lh.Payload[:])
	return checksum.LabelChecksum(b, offset, h, order)
}

// DecodeNvPairs verifies the checksum of a phys.LabelNvPairsSize-byte
// region and decodes its NvList. Trailing bytes after the NvList's
// terminator within the payload are reserved and are not validated.
func DecodeNvPairs(b []byte, offset uint64, h *checksum.Sha256) (*phys.LabelNvPairs, error) {
	if len(b) != phys.LabelNvPairsSize {
		return nil, &phys.LabelRegionSizeError{Want: phys.LabelNvPairsSize, Got: len(b)}
	}
	if err := checksum.LabelVerify(b, offset, h); err != nil {
		return nil, err
	}
	d := phys.NewDecoder(b[:phys.LabelNvPairsPayloadSize], phys.BigEndian)
	list, err := phys.DecodeNvList(d)
	if err != nil {
		return nil, err
	}
	return &phys.LabelNvPairs{List: list}, nil
}

// EncodeNvPairs encodes np's NvList into b, zero-padding the remainder
// of the payload region, and computes the checksum. offset is this
// region's byte offset from the start of the block device.
func EncodeNvPairs(b []byte, np *phys.LabelNvPairs, offset uint64, h *checksum.Sha256, order phys.EndianOrder) error {
	if len(b) != phys.LabelNvPairsSize {
		return &phys.LabelRegionSizeError{Want: phys.LabelNvPairsSize, Got: len(b)}
	}
	payload := b[:phys.LabelNvPairsPayloadSize]
	for i := range payload {
		payload[i] = 0
	}
	e := phys.NewEncoder(payload, np.List.Order)
	if err := phys.EncodeNvList(e, np.List); err != nil {
		return err
	}
	return checksum.LabelChecksum(b, offset, h, order)
}

// DecodeUberblock verifies and decodes a size-byte Uberblock slot.
// offset is this slot's byte offset from the start of the block
// device.
func DecodeUberblock(b []byte, size uint64, offset uint64, h *checksum.Sha256) (*phys.Uberblock, error) {
	if uint64(len(b)) != size {
		return nil, &phys.LabelRegionSizeError{Want: int(size), Got: len(b)}
	}
	if err := checksum.LabelVerify(b, offset, h); err != nil {
		return nil, err
	}
	payload := make([]byte, size-phys.ChecksumTailSize)
	copy(payload, b[:size-phys.ChecksumTailSize])
	return &phys.Uberblock{Payload: payload}, nil
}

// EncodeUberblock encodes ub into b and computes its checksum. offset
// is this slot's byte offset from the start of the block device.
func EncodeUberblock(b []byte, ub *phys.Uberblock, offset uint64, h *checksum.Sha256, order phys.EndianOrder) error {
	size := uint64(len(b))
	if uint64(len(ub.Payload)) != size-phys.ChecksumTailSize {
		return &phys.LabelRegionSizeError{Want: int(size - phys.ChecksumTailSize), Got: len(ub.Payload)}
	}
	copy(b[:size-phys.ChecksumTailSize], ub.Payload)
	return checksum.LabelChecksum(b, offset, h, order)
}

// ReadUberblocks decodes every slot in a label's uberblock ring,
// skipping slots that fail checksum verification (a normal occurrence:
// unused or stale slots are not expected to carry a valid digest).
// region must be exactly phys.UberblockRingSize bytes.
func ReadUberblocks(region []byte, ashift uint8, version phys.SpaVersion, labelByteOffset uint64, h *checksum.Sha256) ([]*phys.Uberblock, error) {
	if uint64(len(region)) != phys.UberblockRingSize {
		return nil, &phys.LabelRegionSizeError{Want: phys.UberblockRingSize, Got: len(region)}
	}
	size := phys.UberblockSize(ashift, version)
	count := phys.UberblockCount(ashift, version)

	blocks := make([]*phys.Uberblock, 0, count)
	for i := uint64(0); i < count; i++ {
		slot := region[i*size : (i+1)*size]
		ub, err := DecodeUberblock(slot, size, labelByteOffset+i*size, h)
		if err != nil {
			continue
		}
		blocks = append(blocks, ub)
	}
	return blocks, nil
}
