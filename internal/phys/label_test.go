package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelOffsets(t *testing.T) {
	offsets, err := LabelOffsets(LabelSectors * 4)
	require.NoError(t, err)
	require.Equal(t, [4]uint64{0, LabelSectors, LabelSectors * 2, LabelSectors * 3}, offsets)

	big := LabelSectors*4 + 1000
	offsets, err = LabelOffsets(big)
	require.NoError(t, err)
	require.Equal(t, uint64(0), offsets[0])
	require.Equal(t, LabelSectors, offsets[1])
	require.Equal(t, big-2*LabelSectors, offsets[2])
	require.Equal(t, big-LabelSectors, offsets[3])
}

func TestLabelOffsetsTooSmall(t *testing.T) {
	_, err := LabelOffsets(LabelSectors*4 - 1)
	require.Error(t, err)
	var sizeErr *LabelSectorsError
	require.ErrorAs(t, err, &sizeErr)
}

func TestUberblockSizing(t *testing.T) {
	require.Equal(t, uint64(UberblockMinSize), UberblockSize(0, SpaVersion(28)))
	require.Equal(t, uint64(4096), UberblockSize(12, SpaVersion(28)))
	require.Equal(t, uint64(UberblockMaxSizeFeatures), UberblockSize(20, SpaVersionFeatures))
	require.Equal(t, uint64(UberblockRingSize)/uint64(UberblockMinSize), UberblockCount(0, SpaVersion(28)))
}

func TestLabelBlankRoundTrip(t *testing.T) {
	lb := &LabelBlank{}
	lb.Payload[0] = 0xab
	lb.Payload[len(lb.Payload)-1] = 0xcd

	buf := make([]byte, LabelBlankSize)
	require.NoError(t, EncodeLabelBlank(buf, lb))

	got, err := DecodeLabelBlank(buf)
	require.NoError(t, err)
	require.Equal(t, lb, got)
}

func TestBootBlockRoundTrip(t *testing.T) {
	payload := make([]byte, BootBlockSize)
	payload[0] = 0x11
	payload[len(payload)-1] = 0x22
	bb := &BootBlock{Payload: payload}

	buf := make([]byte, BootBlockSize)
	require.NoError(t, EncodeBootBlock(buf, bb))

	got, err := DecodeBootBlock(buf)
	require.NoError(t, err)
	require.Equal(t, bb.Payload, got.Payload)
}

func TestLabelBlankStrictRejectsNonZero(t *testing.T) {
	buf := make([]byte, LabelBlankSize)

	_, err := DecodeLabelBlankStrict(buf)
	require.NoError(t, err)

	buf[5] = 0x01
	_, err = DecodeLabelBlankStrict(buf)
	require.Error(t, err)
	var blankErr *NonZeroBlankError
	require.ErrorAs(t, err, &blankErr)
	require.Equal(t, 5, blankErr.Offset)

	// Lax decode never inspects the payload.
	lax, err := DecodeLabelBlank(buf)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), lax.Payload[5])
}

func TestLabelRegionSizeErrors(t *testing.T) {
	_, err := DecodeLabelBlank(make([]byte, LabelBlankSize-1))
	require.Error(t, err)

	_, err = DecodeBootBlock(make([]byte, BootBlockSize+1))
	require.Error(t, err)
}
