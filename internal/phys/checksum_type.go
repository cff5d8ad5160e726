package phys

import "fmt"

// ChecksumType is the closed taxonomy of on-disk checksum algorithms a
// block pointer, dnode, or label region may declare.
type ChecksumType uint8

const (
	ChecksumInherit    ChecksumType = 0
	ChecksumOn         ChecksumType = 1
	ChecksumOff        ChecksumType = 2
	ChecksumLabel      ChecksumType = 3
	ChecksumGangHeader ChecksumType = 4
	ChecksumZilog      ChecksumType = 5
	ChecksumFletcher2  ChecksumType = 6
	ChecksumFletcher4  ChecksumType = 7
	ChecksumSha256     ChecksumType = 8
	ChecksumZilog2     ChecksumType = 9
	ChecksumNoParity   ChecksumType = 10
	ChecksumSha512_256 ChecksumType = 11
	ChecksumSkein      ChecksumType = 12
	ChecksumEdonr      ChecksumType = 13
	ChecksumBlake3     ChecksumType = 14
)

var checksumTypeNames = map[ChecksumType]string{
	ChecksumInherit:    "Inherit",
	ChecksumOn:         "On",
	ChecksumOff:        "Off",
	ChecksumLabel:      "Label",
	ChecksumGangHeader: "GangHeader",
	ChecksumZilog:      "Zilog",
	ChecksumFletcher2:  "Fletcher2",
	ChecksumFletcher4:  "Fletcher4",
	ChecksumSha256:     "Sha256",
	ChecksumZilog2:     "Zilog2",
	ChecksumNoParity:   "NoParity",
	ChecksumSha512_256: "Sha512_256",
	ChecksumSkein:      "Skein",
	ChecksumEdonr:      "Edonr",
	ChecksumBlake3:     "Blake3",
}

// String implements fmt.Stringer, matching the variant name exactly.
func (t ChecksumType) String() string {
	if name, ok := checksumTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ChecksumType(%d)", uint8(t))
}

// ChecksumTypeError reports an unrecognized ChecksumType discriminant.
type ChecksumTypeError struct{ Value uint8 }

func (e *ChecksumTypeError) Error() string {
	return fmt.Sprintf("unknown ChecksumType %d", e.Value)
}

// ChecksumTypeFromU8 converts a raw byte to a ChecksumType.
func ChecksumTypeFromU8(v uint8) (ChecksumType, error) {
	if _, ok := checksumTypeNames[ChecksumType(v)]; !ok {
		return 0, &ChecksumTypeError{Value: v}
	}
	return ChecksumType(v), nil
}
