package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionTypeStringAndFromU8(t *testing.T) {
	ct, err := CompressionTypeFromU8(16)
	require.NoError(t, err)
	require.Equal(t, CompressionZstd, ct)
	require.Equal(t, "Zstd", ct.String())

	_, err = CompressionTypeFromU8(255)
	require.Error(t, err)
	var typeErr *CompressionTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "CompressionType(255)", CompressionType(255).String())
}

func TestCompressionTypeAllMembersRoundTrip(t *testing.T) {
	for v := uint8(0); v <= 16; v++ {
		ct, err := CompressionTypeFromU8(v)
		require.NoError(t, err)
		require.NotEmpty(t, ct.String())
		require.NotContains(t, ct.String(), "CompressionType(")
	}
}
