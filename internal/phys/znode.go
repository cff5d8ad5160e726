package phys

import "fmt"

// ZnodeFileType is the closed taxonomy of POSIX file kinds a znode
// mode field can encode.
type ZnodeFileType uint8

const (
	ZnodeFileTypeFifo      ZnodeFileType = 1
	ZnodeFileTypeCharacter ZnodeFileType = 2
	ZnodeFileTypeDirectory ZnodeFileType = 4
	ZnodeFileTypeBlock     ZnodeFileType = 6
	ZnodeFileTypeRegular   ZnodeFileType = 8
	ZnodeFileTypeSymlink   ZnodeFileType = 10
	ZnodeFileTypeSocket    ZnodeFileType = 12
	ZnodeFileTypeDoor      ZnodeFileType = 13
	ZnodeFileTypeEventPort ZnodeFileType = 14
)

var znodeFileTypeNames = map[ZnodeFileType]string{
	ZnodeFileTypeFifo:      "Fifo",
	ZnodeFileTypeCharacter: "Character",
	ZnodeFileTypeDirectory: "Directory",
	ZnodeFileTypeBlock:     "Block",
	ZnodeFileTypeRegular:   "Regular",
	ZnodeFileTypeSymlink:   "Symlink",
	ZnodeFileTypeSocket:    "Socket",
	ZnodeFileTypeDoor:      "Door",
	ZnodeFileTypeEventPort: "EventPort",
}

// String implements fmt.Stringer.
func (t ZnodeFileType) String() string {
	if name, ok := znodeFileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ZnodeFileType(%d)", uint8(t))
}

// ZnodeFileTypeError reports an unrecognized ZnodeFileType
// discriminant.
type ZnodeFileTypeError struct{ Value uint8 }

func (e *ZnodeFileTypeError) Error() string {
	return fmt.Sprintf("unknown ZnodeFileType %d", e.Value)
}

// ZnodeFileTypeFromU8 converts a raw nibble to a ZnodeFileType.
func ZnodeFileTypeFromU8(v uint8) (ZnodeFileType, error) {
	if _, ok := znodeFileTypeNames[ZnodeFileType(v)]; !ok {
		return 0, &ZnodeFileTypeError{Value: v}
	}
	return ZnodeFileType(v), nil
}

// ZnodeTime is a (seconds, nanoseconds) timestamp since the Unix
// epoch, as stored in a Znode's four timestamp fields.
type ZnodeTime struct {
	Seconds     uint64
	Nanoseconds uint64
}

// DecodeZnodeTime decodes a 16-byte ZnodeTime.
func DecodeZnodeTime(d *Decoder) (ZnodeTime, error) {
	seconds, err := d.GetU64()
	if err != nil {
		return ZnodeTime{}, err
	}
	nanoseconds, err := d.GetU64()
	if err != nil {
		return ZnodeTime{}, err
	}
	return ZnodeTime{Seconds: seconds, Nanoseconds: nanoseconds}, nil
}

// EncodeZnodeTime encodes t.
func EncodeZnodeTime(e *Encoder, t ZnodeTime) error {
	if err := e.PutU64(t.Seconds); err != nil {
		return err
	}
	return e.PutU64(t.Nanoseconds)
}

// ZnodePermission bits, mirroring the traditional Unix mode bit
// layout packed into the low 12 bits of a znode's mode field.
const (
	ZnodePermissionSUID = uint16(0o4000)
	ZnodePermissionSGID = uint16(0o2000)
	ZnodePermissionSTCK = uint16(0o1000)
	ZnodePermissionUsrR = uint16(0o0400)
	ZnodePermissionUsrW = uint16(0o0200)
	ZnodePermissionUsrX = uint16(0o0100)
	ZnodePermissionGrpR = uint16(0o0040)
	ZnodePermissionGrpW = uint16(0o0020)
	ZnodePermissionGrpX = uint16(0o0010)
	ZnodePermissionOthR = uint16(0o0004)
	ZnodePermissionOthW = uint16(0o0002)
	ZnodePermissionOthX = uint16(0o0001)

	// ZnodePermissionMask is the full valid permission bit mask.
	ZnodePermissionMask = uint16(0o7777)
)

// AclSize is the byte size of the opaque ACL region embedded in a
// Znode. No retained original_source file defines the internal
// structure of an ACL; it is treated as an opaque payload, per
// DESIGN.md.
const AclSize = 88

// Acl is the opaque access control list payload trailing a Znode.
// Its internal structure is not modeled; callers that need to
// interpret ACL entries must do so from Raw themselves.
type Acl struct {
	Raw [AclSize]byte
}

// DecodeAcl decodes the fixed 88-byte Acl region verbatim.
func DecodeAcl(d *Decoder) (*Acl, error) {
	raw, err := d.GetBytes(AclSize)
	if err != nil {
		return nil, err
	}
	acl := &Acl{}
	copy(acl.Raw[:], raw)
	return acl, nil
}

// EncodeAcl encodes acl verbatim.
func EncodeAcl(e *Encoder, acl *Acl) error {
	return e.PutBytes(acl.Raw[:])
}

// ZnodeSize is the fixed on-disk byte size of a Znode, matching the
// size of the dnode bonus buffer it's always stored within.
const ZnodeSize = 512

const (
	znodePaddingSize = 24

	// znodeTrailingPaddingSize pads the defined 264-byte region (152
	// header bytes + 24 padding bytes + 88 ACL bytes) out to the full
	// 512-byte ZnodeSize.
	znodeTrailingPaddingSize = ZnodeSize - 152 - znodePaddingSize - AclSize

	znodeModeUnknownMask           = ^uint64(0) ^ ((uint64(1) << 16) - 1)
	znodeModeFileTypeShift         = 12
	znodeModeFileTypeMaskDownShift = uint64(0xf)
)

// Znode is the ZFS POSIX Layer inode record stored in a file or
// directory dnode's bonus buffer: timestamps, mode, ownership,
// link count, and the attached Acl.
type Znode struct {
	AccessTime   ZnodeTime
	ModifiedTime ZnodeTime
	ChangeTime   ZnodeTime
	CreationTime ZnodeTime

	CreationTxg uint64

	PermissionBits uint16
	FileType       ZnodeFileType

	Size           uint64
	ParentObjectID uint64
	NumLinks       uint64

	// XattrObjectID is nil when this object has no extended
	// attributes.
	XattrObjectID *uint64

	DeviceNumber uint64
	Flags        uint64
	UserID       uint64
	GroupID      uint64

	ExtraAttributes uint64

	Acl Acl
}

// ZnodeModeError reports a mode field with bits set above bit 15,
// which are reserved.
type ZnodeModeError struct{ Mode uint64 }

func (e *ZnodeModeError) Error() string {
	return fmt.Sprintf("znode: unknown mode 0x%x", e.Mode)
}

// ZnodeMissingParentObjectIDError reports a zero parent object id,
// which is never valid.
type ZnodeMissingParentObjectIDError struct{}

func (e *ZnodeMissingParentObjectIDError) Error() string {
	return "znode: missing parent object id"
}

// ZnodePermissionsError reports permission bits outside the
// recognized 12-bit mask.
type ZnodePermissionsError struct{ Permissions uint16 }

func (e *ZnodePermissionsError) Error() string {
	return fmt.Sprintf("znode: unknown permission bits 0x%x", e.Permissions)
}

// DecodeZnode decodes a 512-byte Znode region.
func DecodeZnode(d *Decoder) (*Znode, error) {
	zn := &Znode{}

	var err error
	if zn.AccessTime, err = DecodeZnodeTime(d); err != nil {
		return nil, err
	}
	if zn.ModifiedTime, err = DecodeZnodeTime(d); err != nil {
		return nil, err
	}
	if zn.ChangeTime, err = DecodeZnodeTime(d); err != nil {
		return nil, err
	}
	if zn.CreationTime, err = DecodeZnodeTime(d); err != nil {
		return nil, err
	}

	if zn.CreationTxg, err = d.GetU64(); err != nil {
		return nil, err
	}

	mode, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if mode&znodeModeUnknownMask != 0 {
		return nil, &ZnodeModeError{Mode: mode}
	}
	zn.PermissionBits = uint16(mode & uint64(ZnodePermissionMask))
	fileTypeRaw := (mode >> znodeModeFileTypeShift) & znodeModeFileTypeMaskDownShift
	fileType, err := ZnodeFileTypeFromU8(uint8(fileTypeRaw))
	if err != nil {
		return nil, err
	}
	zn.FileType = fileType

	if zn.Size, err = d.GetU64(); err != nil {
		return nil, err
	}

	parentObjectID, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if parentObjectID == 0 {
		return nil, &ZnodeMissingParentObjectIDError{}
	}
	zn.ParentObjectID = parentObjectID

	if zn.NumLinks, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zn.XattrObjectID, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if zn.DeviceNumber, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zn.Flags, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zn.UserID, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zn.GroupID, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zn.ExtraAttributes, err = d.GetU64(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(znodePaddingSize); err != nil {
		return nil, err
	}

	acl, err := DecodeAcl(d)
	if err != nil {
		return nil, err
	}
	zn.Acl = *acl

	if err := d.SkipZeroPadding(znodeTrailingPaddingSize); err != nil {
		return nil, err
	}

	return zn, nil
}

// EncodeZnode encodes zn.
func EncodeZnode(e *Encoder, zn *Znode) error {
	if err := EncodeZnodeTime(e, zn.AccessTime); err != nil {
		return err
	}
	if err := EncodeZnodeTime(e, zn.ModifiedTime); err != nil {
		return err
	}
	if err := EncodeZnodeTime(e, zn.ChangeTime); err != nil {
		return err
	}
	if err := EncodeZnodeTime(e, zn.CreationTime); err != nil {
		return err
	}

	if err := e.PutU64(zn.CreationTxg); err != nil {
		return err
	}

	if zn.PermissionBits&ZnodePermissionMask != zn.PermissionBits {
		return &ZnodePermissionsError{Permissions: zn.PermissionBits}
	}
	mode := uint64(zn.FileType) << znodeModeFileTypeShift
	mode |= uint64(zn.PermissionBits)
	if err := e.PutU64(mode); err != nil {
		return err
	}

	if err := e.PutU64(zn.Size); err != nil {
		return err
	}

	if zn.ParentObjectID == 0 {
		return &ZnodeMissingParentObjectIDError{}
	}
	if err := e.PutU64(zn.ParentObjectID); err != nil {
		return err
	}

	if err := e.PutU64(zn.NumLinks); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(zn.XattrObjectID)); err != nil {
		return err
	}
	if err := e.PutU64(zn.DeviceNumber); err != nil {
		return err
	}
	if err := e.PutU64(zn.Flags); err != nil {
		return err
	}
	if err := e.PutU64(zn.UserID); err != nil {
		return err
	}
	if err := e.PutU64(zn.GroupID); err != nil {
		return err
	}
	if err := e.PutU64(zn.ExtraAttributes); err != nil {
		return err
	}

	if err := e.PutZeroPadding(znodePaddingSize); err != nil {
		return err
	}

	if err := EncodeAcl(e, &zn.Acl); err != nil {
		return err
	}

	return e.PutZeroPadding(znodeTrailingPaddingSize)
}
