// Package device implements the positioned, sector-aligned block
// device abstraction (component I) that every higher-level reader in
// this module is built on: a regular file treated as a flat array of
// 512-byte sectors.
package device

import (
	"fmt"
	"io"
	"os"

	"github.com/scigolib/zfsphys/internal/phys"
	"github.com/scigolib/zfsphys/internal/utils"
)

// OpenError reports a failure opening the backing file.
type OpenError struct {
	Path  string
	Cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("block device: open %q: %v", e.Path, e.Cause)
}

func (e *OpenError) Unwrap() error { return e.Cause }

// MetadataError reports a failure querying the backing file's size.
type MetadataError struct {
	Path  string
	Cause error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("block device: stat %q: %v", e.Path, e.Cause)
}

func (e *MetadataError) Unwrap() error { return e.Cause }

// InvalidSizeError reports a backing file whose size is not a
// multiple of the sector size.
type InvalidSizeError struct{ Size uint64 }

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("block device: invalid size 0x%016x, not a multiple of sector size", e.Size)
}

// InvalidReadError reports a read request that is not sector-aligned
// or extends beyond the device.
type InvalidReadError struct {
	Sector uint64
	Size   int
}

func (e *InvalidReadError) Error() string {
	return fmt.Sprintf("block device: invalid read sector 0x%016x size 0x%x", e.Sector, e.Size)
}

// IoError reports a failure from the underlying positioned read.
type IoError struct {
	Sector uint64
	Size   int
	Cause  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("block device: read io error at sector 0x%016x size 0x%x: %v", e.Sector, e.Size, e.Cause)
}

func (e *IoError) Unwrap() error { return e.Cause }

// BlockDevice is a positioned reader over a regular file treated as a
// sector array. No concurrent access is defined: reads are
// synchronous and blocking, and the caller controls when they happen.
type BlockDevice struct {
	file    *os.File
	sectors uint64
}

// Open opens path as a block device. The file size must be a multiple
// of phys.SectorSize.
func Open(path string) (*BlockDevice, error) {
	//nolint:gosec // G304: caller-provided block device path is intentional.
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Cause: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &MetadataError{Path: path, Cause: err}
	}

	size := uint64(info.Size())
	if !phys.IsMultipleOfSectorSize(size) {
		_ = f.Close()
		return nil, &InvalidSizeError{Size: size}
	}

	return &BlockDevice{file: f, sectors: phys.BytesToSectors(size)}, nil
}

// Close closes the underlying file. It is safe to call multiple
// times.
func (d *BlockDevice) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// Sectors returns the device's size in sectors.
func (d *BlockDevice) Sectors() uint64 { return d.sectors }

// Bytes returns the device's size in bytes.
func (d *BlockDevice) Bytes() uint64 { return phys.SectorsToBytes(d.sectors) }

// Read fills dst starting at sector. len(dst) must be a multiple of
// phys.SectorSize and the requested range must lie within the device;
// otherwise InvalidReadError is returned. Short reads from the
// underlying file are transparently retried until dst is filled or an
// I/O error occurs.
func (d *BlockDevice) Read(dst []byte, sector uint64) error {
	size := len(dst)
	if !phys.IsMultipleOfSectorSize(uint64(size)) {
		return &InvalidReadError{Sector: sector, Size: size}
	}

	sectorCount := phys.BytesToSectors(uint64(size))
	if sector > d.sectors || d.sectors-sector < sectorCount {
		return &InvalidReadError{Sector: sector, Size: size}
	}

	offset, err := utils.SafeMultiply(sector, phys.SectorSize)
	if err != nil {
		return &InvalidReadError{Sector: sector, Size: size}
	}
	if err := utils.ValidateRangeWithinCapacity(offset, uint64(size), d.Bytes()); err != nil {
		return &InvalidReadError{Sector: sector, Size: size}
	}

	off := int64(offset)
	remaining := dst
	for len(remaining) > 0 {
		n, err := d.file.ReadAt(remaining, off)
		if err != nil && err != io.EOF {
			return &IoError{Sector: sector, Size: size, Cause: err}
		}
		if n == 0 && err == io.EOF {
			return &IoError{Sector: sector, Size: size, Cause: io.ErrUnexpectedEOF}
		}
		remaining = remaining[n:]
		off += int64(n)
	}
	return nil
}

// ReadAt reads phys.SectorSize-aligned chunks into a freshly allocated
// buffer of size bytes drawn from the shared buffer pool, returning it
// to the caller. size must itself be a multiple of phys.SectorSize.
// Callers done with the returned slice should pass it to
// utils.ReleaseBuffer to let the pool reclaim it.
func (d *BlockDevice) ReadAt(sector uint64, size int) ([]byte, error) {
	buf := utils.GetBuffer(size)
	if err := d.Read(buf, sector); err != nil {
		utils.ReleaseBuffer(buf)
		return nil, err
	}
	return buf, nil
}
