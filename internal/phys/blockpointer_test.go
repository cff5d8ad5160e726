package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDva(vdev uint32, offset uint64) *Dva {
	return &Dva{Vdev: vdev, Grid: 0, Asize: 1024, IsGang: false, Offset: offset}
}

func TestBlockPointerRoundTrip(t *testing.T) {
	bp := &BlockPointer{
		Dva:              [3]*Dva{sampleDva(0, 100), sampleDva(1, 200), nil},
		Level:            3,
		Type:             DmuType(1),
		Checksum:         ChecksumType(7),
		Compression:      CompressionType(2),
		Endian:           LittleEndian,
		PhysicalBirthTxg: 0,
		LogicalBirthTxg:  42,
		FillCount:        1,
		ChecksumValue:    [4]uint64{1, 2, 3, 4},
	}

	buf := make([]byte, BlockPointerSize)
	require.NoError(t, EncodeBlockPointer(NewEncoder(buf, BigEndian), bp))

	got, err := DecodeBlockPointer(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, bp, got)
}

func TestBlockPointerAbsent(t *testing.T) {
	buf := make([]byte, BlockPointerSize)
	got, err := DecodeBlockPointer(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Nil(t, got)

	buf2 := make([]byte, BlockPointerSize)
	require.NoError(t, EncodeBlockPointer(NewEncoder(buf2, BigEndian), nil))
	require.Equal(t, buf, buf2)
}

func TestBlockPointerInvalidBirth(t *testing.T) {
	bp := &BlockPointer{
		LogicalBirthTxg:  100,
		PhysicalBirthTxg: 50,
	}
	buf := make([]byte, BlockPointerSize)
	err := EncodeBlockPointer(NewEncoder(buf, BigEndian), bp)
	require.Error(t, err)
	var birthErr *InvalidBlockPointerBirthError
	require.ErrorAs(t, err, &birthErr)
}

func TestBlockPointerReservedPropsBits(t *testing.T) {
	buf := make([]byte, BlockPointerSize)
	e := NewEncoder(buf, BigEndian)
	for i := 0; i < 3; i++ {
		require.NoError(t, EncodeDva(e, nil))
	}
	require.NoError(t, e.PutU64(uint64(1)<<40))
	require.NoError(t, e.PutZeroPadding(blockPointerPaddingSize))
	require.NoError(t, e.PutU64(0))
	require.NoError(t, e.PutU64(0))
	require.NoError(t, e.PutU64(0))
	for i := 0; i < 4; i++ {
		require.NoError(t, e.PutU64(0))
	}

	_, err := DecodeBlockPointer(NewDecoder(buf, BigEndian))
	require.Error(t, err)
	var propsErr *InvalidBlockPointerPropsError
	require.ErrorAs(t, err, &propsErr)
}
