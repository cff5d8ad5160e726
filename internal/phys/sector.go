// Package phys implements the on-disk physical structures of a
// copy-on-write, transactional storage pool filesystem: sectors, labels,
// the endian-aware binary codec, and the typed records (DVA, block
// pointer, dnode, object set, ZIL header, DSL directory/dataset, znode)
// that compose them.
package phys

// SectorShift is log2 of the sector size: every sector is 1<<SectorShift
// bytes.
const SectorShift = 9

// SectorSize is the fixed on-disk sector unit, 512 bytes.
const SectorSize = 1 << SectorShift

// IsMultipleOfSectorSize reports whether v is a multiple of SectorSize.
func IsMultipleOfSectorSize(v uint64) bool {
	return v&(SectorSize-1) == 0
}

// SectorsToBytes converts a sector count to a byte count.
func SectorsToBytes(sectors uint64) uint64 {
	return sectors << SectorShift
}

// BytesToSectors converts a byte count to a sector count, truncating any
// remainder.
func BytesToSectors(bytes uint64) uint64 {
	return bytes >> SectorShift
}
