package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumTailRoundTrip(t *testing.T) {
	for _, order := range []EndianOrder{BigEndian, LittleEndian} {
		tail := &ChecksumTail{Order: order, Value: [4]uint64{1, 2, 3, 4}}
		buf := make([]byte, ChecksumTailSize)
		require.NoError(t, EncodeChecksumTail(buf, tail))

		got, err := DecodeChecksumTail(buf)
		require.NoError(t, err)
		require.Equal(t, tail, got)
	}
}

func TestChecksumTailMagicMismatch(t *testing.T) {
	buf := make([]byte, ChecksumTailSize)
	_, err := DecodeChecksumTail(buf)
	require.Error(t, err)
	var magicErr *ChecksumTailMagicError
	require.ErrorAs(t, err, &magicErr)
}

func TestChecksumTailInvalidLength(t *testing.T) {
	_, err := DecodeChecksumTail(make([]byte, ChecksumTailSize-1))
	require.Error(t, err)

	err = EncodeChecksumTail(make([]byte, ChecksumTailSize+1), &ChecksumTail{})
	require.Error(t, err)
}
