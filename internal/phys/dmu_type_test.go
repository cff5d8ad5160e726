package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDmuTypeStringAndFromU8(t *testing.T) {
	dt, err := DmuTypeFromU8(10)
	require.NoError(t, err)
	require.Equal(t, DmuDnode, dt)
	require.Equal(t, "Dnode", dt.String())

	_, err = DmuTypeFromU8(255)
	require.Error(t, err)
	var typeErr *DmuTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "DmuType(255)", DmuType(255).String())
}

func TestDmuTypeAllMembersRoundTrip(t *testing.T) {
	for v := uint8(0); v <= 53; v++ {
		dt, err := DmuTypeFromU8(v)
		require.NoError(t, err)
		require.NotEmpty(t, dt.String())
		require.NotContains(t, dt.String(), "DmuType(")
	}
}
