package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFstr(t *testing.T) {
	f := NewFstr(8)
	require.Equal(t, 8, f.Capacity())
	require.Equal(t, 0, f.Len())
	require.True(t, f.IsEmpty())
	require.False(t, f.IsTrimmed())
	require.Equal(t, "", f.String())
}

func TestFstrFromBytesUnderCapacity(t *testing.T) {
	f := FstrFromBytes([]byte("hi"), 8)
	require.Equal(t, []byte("hi"), f.AsBytes())
	require.False(t, f.IsTrimmed())
	s, ok := f.AsString()
	require.True(t, ok)
	require.Equal(t, "hi", s)
	require.Equal(t, "hi", f.String())
}

func TestFstrFromBytesOverCapacityTrims(t *testing.T) {
	f := FstrFromBytes([]byte("hello world"), 5)
	require.Equal(t, []byte("hello"), f.AsBytes())
	require.True(t, f.IsTrimmed())
	require.Equal(t, "hello..", f.String())
}

func TestFstrFromStringUnderCapacity(t *testing.T) {
	f := FstrFromString("name", 32)
	require.False(t, f.IsTrimmed())
	s, ok := f.AsString()
	require.True(t, ok)
	require.Equal(t, "name", s)
}

func TestFstrFromStringTrimsAtUtf8Boundary(t *testing.T) {
	// "café" is 5 bytes in UTF-8 (the é is 2 bytes); a naive 4-byte
	// truncation would split the é, so the trimmer should back off one
	// more byte to land on a valid boundary.
	f := FstrFromString("café", 4)
	require.True(t, f.IsTrimmed())
	s, ok := f.AsString()
	require.True(t, ok)
	require.Equal(t, "caf", s)
}

func TestFstrFromStringNoValidBoundaryKeepsRawPrefix(t *testing.T) {
	// Four continuation bytes with no leading byte: never valid UTF-8
	// at any trim point within the 3-byte search window, so the raw
	// prefix is kept as-is.
	raw := string([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
	f := FstrFromString(raw, 4)
	require.True(t, f.IsTrimmed())
	_, ok := f.AsString()
	require.False(t, ok)
	require.Contains(t, f.String(), "..")
}
