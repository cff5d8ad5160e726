package phys

import "fmt"

// ObjectSetType is the closed taxonomy of dataset kinds an object set
// header declares.
type ObjectSetType uint64

const (
	ObjectSetNone ObjectSetType = 0
	ObjectSetMeta ObjectSetType = 1
	ObjectSetZFS  ObjectSetType = 2
	ObjectSetZVol ObjectSetType = 3
	ObjectSetOther ObjectSetType = 4
	ObjectSetAny  ObjectSetType = 5
)

var objectSetTypeNames = map[ObjectSetType]string{
	ObjectSetNone:  "None",
	ObjectSetMeta:  "Meta",
	ObjectSetZFS:   "ZFS",
	ObjectSetZVol:  "ZVol",
	ObjectSetOther: "Other",
	ObjectSetAny:   "Any",
}

// String implements fmt.Stringer.
func (t ObjectSetType) String() string {
	if name, ok := objectSetTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ObjectSetType(%d)", uint64(t))
}

// ObjectSetTypeError reports an unrecognized ObjectSetType
// discriminant.
type ObjectSetTypeError struct{ Value uint64 }

func (e *ObjectSetTypeError) Error() string {
	return fmt.Sprintf("unknown ObjectSetType %d", e.Value)
}

// ObjectSetTypeFromU64 converts a raw value to an ObjectSetType.
func ObjectSetTypeFromU64(v uint64) (ObjectSetType, error) {
	if _, ok := objectSetTypeNames[ObjectSetType(v)]; !ok {
		return 0, &ObjectSetTypeError{Value: v}
	}
	return ObjectSetType(v), nil
}

const (
	objectSetFlagUserAccountingComplete       = uint64(1) << 0
	objectSetFlagUserObjectAccountingComplete = uint64(1) << 1
	objectSetFlagProjectQuotaComplete         = uint64(1) << 2
	objectSetFlagAll                          = objectSetFlagUserAccountingComplete |
		objectSetFlagUserObjectAccountingComplete | objectSetFlagProjectQuotaComplete
)

// ObjectSetMacLen is the byte length of each object set MAC.
const ObjectSetMacLen = 32

const (
	objectSetPaddingSizeNone  = 240
	objectSetPaddingSizeThree = 1536
)

// ObjectSetSizeZero, ObjectSetSizeTwo, and ObjectSetSizeThree are the
// fixed encoded sizes for each extension shape.
const (
	ObjectSetSizeZero  = DnodeSize + ZilHeaderSize + 16 + ObjectSetMacLen*2 + objectSetPaddingSizeNone
	ObjectSetSizeTwo   = ObjectSetSizeZero + 2*DnodeSize
	ObjectSetSizeThree = ObjectSetSizeTwo + DnodeSize + objectSetPaddingSizeThree
)

// ObjectSetExtensionKind selects which of the three tail shapes an
// ObjectSet carries, determined purely by how many bytes remain in the
// decoder after the fixed header.
type ObjectSetExtensionKind uint8

const (
	ObjectSetExtensionZero ObjectSetExtensionKind = iota
	ObjectSetExtensionTwo
	ObjectSetExtensionThree
)

// ObjectSetExtension is the tagged union over the three object set
// tail shapes.
type ObjectSetExtension struct {
	Kind ObjectSetExtensionKind

	UserUsed    *Dnode
	GroupUsed   *Dnode
	ProjectUsed *Dnode
}

// ObjectSet is a container of dnodes, anchored by its own "object
// directory" dnode, plus the ZIL header, dataset kind, per-dataset
// accounting flags, and optional user/group/project usage dnodes.
type ObjectSet struct {
	Dnode     Dnode
	ZilHeader ZilHeader
	Type      ObjectSetType

	UserAccountingComplete       bool
	UserObjectAccountingComplete bool
	ProjectQuotaComplete         bool

	PortableMac [ObjectSetMacLen]byte
	LocalMac    [ObjectSetMacLen]byte

	Extension ObjectSetExtension
}

// ObjectSetEmptyDnodeError reports an all-zero primary dnode, which is
// never valid: every object set is anchored by a real object
// directory dnode.
type ObjectSetEmptyDnodeError struct{}

func (e *ObjectSetEmptyDnodeError) Error() string { return "object set: empty dnode" }

// ObjectSetFlagsError reports flag bits outside the recognized mask.
type ObjectSetFlagsError struct{ Flags uint64 }

func (e *ObjectSetFlagsError) Error() string {
	return fmt.Sprintf("object set: invalid flags 0x%016x", e.Flags)
}

// DecodeObjectSet decodes an ObjectSet. Its total length is not fixed:
// the tail extension present is inferred from how many bytes remain
// after the 240-byte padding that follows the MACs.
func DecodeObjectSet(d *Decoder) (*ObjectSet, error) {
	dnode, err := DecodeDnode(d)
	if err != nil {
		return nil, fmt.Errorf("object set: dnode: %w", err)
	}
	if dnode == nil {
		return nil, &ObjectSetEmptyDnodeError{}
	}

	zilHeader, err := DecodeZilHeader(d)
	if err != nil {
		return nil, fmt.Errorf("object set: zil header: %w", err)
	}

	typeRaw, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	osType, err := ObjectSetTypeFromU64(typeRaw)
	if err != nil {
		return nil, err
	}

	flags, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if flags&objectSetFlagAll != flags {
		return nil, &ObjectSetFlagsError{Flags: flags}
	}

	portableMacBytes, err := d.GetBytes(ObjectSetMacLen)
	if err != nil {
		return nil, err
	}
	localMacBytes, err := d.GetBytes(ObjectSetMacLen)
	if err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(objectSetPaddingSizeNone); err != nil {
		return nil, err
	}

	extension := ObjectSetExtension{Kind: ObjectSetExtensionZero}
	if !d.IsEmpty() {
		userUsed, err := DecodeDnode(d)
		if err != nil {
			return nil, fmt.Errorf("object set: user used dnode: %w", err)
		}
		groupUsed, err := DecodeDnode(d)
		if err != nil {
			return nil, fmt.Errorf("object set: group used dnode: %w", err)
		}

		if d.IsEmpty() {
			extension = ObjectSetExtension{
				Kind:      ObjectSetExtensionTwo,
				UserUsed:  userUsed,
				GroupUsed: groupUsed,
			}
		} else {
			projectUsed, err := DecodeDnode(d)
			if err != nil {
				return nil, fmt.Errorf("object set: project used dnode: %w", err)
			}
			if err := d.SkipZeroPadding(objectSetPaddingSizeThree); err != nil {
				return nil, err
			}
			extension = ObjectSetExtension{
				Kind:        ObjectSetExtensionThree,
				UserUsed:    userUsed,
				GroupUsed:   groupUsed,
				ProjectUsed: projectUsed,
			}
		}
	}

	os := &ObjectSet{
		Dnode:     *dnode,
		ZilHeader: *zilHeader,
		Type:      osType,

		UserAccountingComplete:       flags&objectSetFlagUserAccountingComplete != 0,
		UserObjectAccountingComplete: flags&objectSetFlagUserObjectAccountingComplete != 0,
		ProjectQuotaComplete:         flags&objectSetFlagProjectQuotaComplete != 0,

		Extension: extension,
	}
	copy(os.PortableMac[:], portableMacBytes)
	copy(os.LocalMac[:], localMacBytes)
	return os, nil
}

// EncodeObjectSet encodes os.
func EncodeObjectSet(e *Encoder, os *ObjectSet) error {
	if err := EncodeDnode(e, &os.Dnode); err != nil {
		return fmt.Errorf("object set: dnode: %w", err)
	}
	if err := EncodeZilHeader(e, &os.ZilHeader); err != nil {
		return fmt.Errorf("object set: zil header: %w", err)
	}
	if err := e.PutU64(uint64(os.Type)); err != nil {
		return err
	}

	flags := uint64(0)
	if os.UserAccountingComplete {
		flags |= objectSetFlagUserAccountingComplete
	}
	if os.UserObjectAccountingComplete {
		flags |= objectSetFlagUserObjectAccountingComplete
	}
	if os.ProjectQuotaComplete {
		flags |= objectSetFlagProjectQuotaComplete
	}
	if err := e.PutU64(flags); err != nil {
		return err
	}

	if err := e.PutBytes(os.PortableMac[:]); err != nil {
		return err
	}
	if err := e.PutBytes(os.LocalMac[:]); err != nil {
		return err
	}
	if err := e.PutZeroPadding(objectSetPaddingSizeNone); err != nil {
		return err
	}

	switch os.Extension.Kind {
	case ObjectSetExtensionZero:
	case ObjectSetExtensionTwo:
		if err := EncodeDnode(e, os.Extension.UserUsed); err != nil {
			return fmt.Errorf("object set: user used dnode: %w", err)
		}
		if err := EncodeDnode(e, os.Extension.GroupUsed); err != nil {
			return fmt.Errorf("object set: group used dnode: %w", err)
		}
	case ObjectSetExtensionThree:
		if err := EncodeDnode(e, os.Extension.UserUsed); err != nil {
			return fmt.Errorf("object set: user used dnode: %w", err)
		}
		if err := EncodeDnode(e, os.Extension.GroupUsed); err != nil {
			return fmt.Errorf("object set: group used dnode: %w", err)
		}
		if err := EncodeDnode(e, os.Extension.ProjectUsed); err != nil {
			return fmt.Errorf("object set: project used dnode: %w", err)
		}
		if err := e.PutZeroPadding(objectSetPaddingSizeThree); err != nil {
			return err
		}
	}

	return nil
}
