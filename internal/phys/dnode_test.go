package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDnodeRoundTripZeroTail(t *testing.T) {
	dn := &Dnode{
		Dmu:                  DmuType(1),
		IndirectBlockShift:   12,
		Levels:               1,
		BonusType:            DmuType(0),
		Checksum:             ChecksumType(7),
		Compression:          CompressionType(2),
		DataBlockSizeSectors: 16,
		BonusLen:             10,
		ExtraSlots:           0,
		MaxBlockId:           99,
		UsedKind:             DnodeUsedBytes,
		Used:                 4096,
		Tail: DnodeTail{
			Kind:          DnodeTailKindZero,
			Pointers:      []*BlockPointer{},
			BonusCapacity: make([]byte, DnodeTailZeroBonusSize),
		},
	}
	dn.Tail.BonusCapacity[0] = 0xab

	buf := make([]byte, DnodeSize)
	require.NoError(t, EncodeDnode(NewEncoder(buf, BigEndian), dn))

	got, err := DecodeDnode(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, dn, got)
}

func TestDnodeRoundTripSpillTail(t *testing.T) {
	dn := &Dnode{
		Dmu: DmuType(1),
		Tail: DnodeTail{
			Kind:          DnodeTailKindSpill,
			Pointers:      []*BlockPointer{nil},
			Spill:         nil,
			BonusCapacity: make([]byte, DnodeTailSpillBonusSize),
		},
	}

	buf := make([]byte, DnodeSize)
	require.NoError(t, EncodeDnode(NewEncoder(buf, BigEndian), dn))

	got, err := DecodeDnode(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, DnodeTailKindSpill, got.Tail.Kind)
	require.Len(t, got.Tail.Pointers, 1)
}

func TestDnodeAbsent(t *testing.T) {
	buf := make([]byte, DnodeSize)
	got, err := DecodeDnode(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Nil(t, got)

	buf2 := make([]byte, DnodeSize)
	require.NoError(t, EncodeEmptyDnode(NewEncoder(buf2, BigEndian)))
	require.Equal(t, buf, buf2)
}

func TestDnodeInvalidFlags(t *testing.T) {
	buf := make([]byte, DnodeSize)
	e := NewEncoder(buf, BigEndian)
	for i := 0; i < 7; i++ {
		require.NoError(t, e.PutU8(0))
	}
	require.NoError(t, e.PutU8(0x80))

	_, err := DecodeDnode(NewDecoder(buf, BigEndian))
	require.Error(t, err)
	var flagsErr *DnodeFlagsError
	require.ErrorAs(t, err, &flagsErr)
}

func TestDnodeBonusLengthExceedsCapacity(t *testing.T) {
	dn := &Dnode{
		BonusLen: DnodeTailZeroBonusSize + 1,
		Tail: DnodeTail{
			Kind:          DnodeTailKindZero,
			Pointers:      []*BlockPointer{},
			BonusCapacity: make([]byte, DnodeTailZeroBonusSize),
		},
	}
	buf := make([]byte, DnodeSize)
	err := EncodeDnode(NewEncoder(buf, BigEndian), dn)
	require.Error(t, err)
	var bonusErr *DnodeBonusLengthError
	require.ErrorAs(t, err, &bonusErr)
}

func TestDnodeSpillFlagWithoutSingleBlockPointer(t *testing.T) {
	buf := make([]byte, DnodeSize)
	e := NewEncoder(buf, BigEndian)
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(2))
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(0))
	require.NoError(t, e.PutU8(dnodeFlagSpillBlockPointer))

	_, err := DecodeDnode(NewDecoder(buf, BigEndian))
	require.Error(t, err)
	var spillErr *DnodeSpillBlockPointerCountError
	require.ErrorAs(t, err, &spillErr)
}
