package phys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZnodeFileTypeStringAndFromU8(t *testing.T) {
	ft, err := ZnodeFileTypeFromU8(8)
	require.NoError(t, err)
	require.Equal(t, ZnodeFileTypeRegular, ft)
	require.Equal(t, "Regular", ft.String())

	_, err = ZnodeFileTypeFromU8(9)
	require.Error(t, err)
	var ftErr *ZnodeFileTypeError
	require.ErrorAs(t, err, &ftErr)

	require.Equal(t, "ZnodeFileType(9)", ZnodeFileType(9).String())
}

func TestAclRoundTrip(t *testing.T) {
	acl := &Acl{}
	acl.Raw[0] = 0x11
	acl.Raw[AclSize-1] = 0x22

	buf := make([]byte, AclSize)
	require.NoError(t, EncodeAcl(NewEncoder(buf, BigEndian), acl))

	got, err := DecodeAcl(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, acl, got)
}

func sampleZnode() *Znode {
	return &Znode{
		AccessTime:     ZnodeTime{Seconds: 1, Nanoseconds: 2},
		ModifiedTime:   ZnodeTime{Seconds: 3, Nanoseconds: 4},
		ChangeTime:     ZnodeTime{Seconds: 5, Nanoseconds: 6},
		CreationTime:   ZnodeTime{Seconds: 7, Nanoseconds: 8},
		CreationTxg:    100,
		PermissionBits: ZnodePermissionUsrR | ZnodePermissionUsrW | ZnodePermissionGrpR,
		FileType:       ZnodeFileTypeRegular,
		Size:           4096,
		ParentObjectID: 12,
		NumLinks:       1,
		DeviceNumber:   0,
		Flags:          0,
		UserID:         1000,
		GroupID:        1000,
	}
}

func TestZnodeRoundTripNoXattr(t *testing.T) {
	zn := sampleZnode()
	zn.Acl.Raw[0] = 0xaa

	buf := make([]byte, ZnodeSize)
	require.NoError(t, EncodeZnode(NewEncoder(buf, BigEndian), zn))

	got, err := DecodeZnode(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, zn, got)
	require.Nil(t, got.XattrObjectID)
}

func TestZnodeRoundTripWithXattr(t *testing.T) {
	zn := sampleZnode()
	xattr := uint64(77)
	zn.XattrObjectID = &xattr

	buf := make([]byte, ZnodeSize)
	require.NoError(t, EncodeZnode(NewEncoder(buf, BigEndian), zn))

	got, err := DecodeZnode(NewDecoder(buf, BigEndian))
	require.NoError(t, err)
	require.Equal(t, zn, got)
}

func TestZnodeUnknownMode(t *testing.T) {
	buf := make([]byte, ZnodeSize)
	e := NewEncoder(buf, BigEndian)
	for i := 0; i < 4; i++ {
		require.NoError(t, EncodeZnodeTime(e, ZnodeTime{}))
	}
	require.NoError(t, e.PutU64(0))                  // creation txg
	require.NoError(t, e.PutU64(uint64(1)<<20))       // mode with reserved bits set

	_, err := DecodeZnode(NewDecoder(buf, BigEndian))
	require.Error(t, err)
	var modeErr *ZnodeModeError
	require.ErrorAs(t, err, &modeErr)
}

func TestZnodeMissingParentObjectID(t *testing.T) {
	zn := sampleZnode()
	zn.ParentObjectID = 0
	buf := make([]byte, ZnodeSize)
	err := EncodeZnode(NewEncoder(buf, BigEndian), zn)
	require.Error(t, err)
	var parentErr *ZnodeMissingParentObjectIDError
	require.ErrorAs(t, err, &parentErr)
}

func TestZnodeInvalidPermissionBits(t *testing.T) {
	zn := sampleZnode()
	zn.PermissionBits = 0x8000
	buf := make([]byte, ZnodeSize)
	err := EncodeZnode(NewEncoder(buf, BigEndian), zn)
	require.Error(t, err)
	var permErr *ZnodePermissionsError
	require.ErrorAs(t, err, &permErr)
}

func TestZnodeUnrecognizedFileType(t *testing.T) {
	buf := make([]byte, ZnodeSize)
	e := NewEncoder(buf, BigEndian)
	for i := 0; i < 4; i++ {
		require.NoError(t, EncodeZnodeTime(e, ZnodeTime{}))
	}
	require.NoError(t, e.PutU64(0))                 // creation txg
	require.NoError(t, e.PutU64(uint64(9)<<znodeModeFileTypeShift)) // 9 is not a known file type

	_, err := DecodeZnode(NewDecoder(buf, BigEndian))
	require.Error(t, err)
	var ftErr *ZnodeFileTypeError
	require.ErrorAs(t, err, &ftErr)
}
