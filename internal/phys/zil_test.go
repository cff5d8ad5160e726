package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZilHeaderRoundTrip(t *testing.T) {
	zh := &ZilHeader{
		ClaimTxg:    1,
		ReplaySeq:   2,
		Log:         &BlockPointer{Dva: [3]*Dva{sampleDva(0, 1), nil, nil}, LogicalBirthTxg: 1},
		ClaimBlkSeq: 3,
		Flags:       4,
		ClaimLrSeq:  5,
	}

	buf := make([]byte, ZilHeaderSize)
	require.NoError(t, EncodeZilHeader(NewEncoder(buf, BigEndian), zh))

	got, err := DecodeZilHeader(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, zh, got)
}

func TestZilHeaderAbsentLog(t *testing.T) {
	zh := &ZilHeader{ClaimTxg: 7}
	buf := make([]byte, ZilHeaderSize)
	require.NoError(t, EncodeZilHeader(NewEncoder(buf, BigEndian), zh))

	got, err := DecodeZilHeader(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Nil(t, got.Log)
	require.Equal(t, uint64(7), got.ClaimTxg)
}
