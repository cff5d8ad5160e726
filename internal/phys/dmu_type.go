package phys

import "fmt"

// DmuGenericObjectType is the closed taxonomy of generic DMU (data
// management unit) array element encodings, used by ZAP and array
// objects.
type DmuGenericObjectType uint8

const (
	DmuGenericUint8    DmuGenericObjectType = 0
	DmuGenericUint16   DmuGenericObjectType = 1
	DmuGenericUint32   DmuGenericObjectType = 2
	DmuGenericUint64   DmuGenericObjectType = 3
	DmuGenericZap      DmuGenericObjectType = 4
	DmuGenericDnode    DmuGenericObjectType = 5
	DmuGenericObjectSt DmuGenericObjectType = 6
	DmuGenericZnode    DmuGenericObjectType = 7
	DmuGenericAclV0    DmuGenericObjectType = 8
	DmuGenericAclV1    DmuGenericObjectType = 9
)

// DmuType is the closed taxonomy of per-object DMU kinds stored in a
// dnode's header.
type DmuType uint8

const (
	DmuNone                          DmuType = 0
	DmuObjectDirectory               DmuType = 1
	DmuObjectArray                   DmuType = 2
	DmuPackedNvList                  DmuType = 3
	DmuPackedNvListSize              DmuType = 4
	DmuBpObject                      DmuType = 5
	DmuBpObjectHeader                DmuType = 6
	DmuSpaceMapHeader                DmuType = 7
	DmuSpaceMap                      DmuType = 8
	DmuIntentLog                     DmuType = 9
	DmuDnode                         DmuType = 10
	DmuObjectSet                     DmuType = 11
	DmuDslDirectory                  DmuType = 12
	DmuDslDirectoryChildMap          DmuType = 13
	DmuDslDsSnapshotMap              DmuType = 14
	DmuDslProperties                 DmuType = 15
	DmuDslDataSet                    DmuType = 16
	DmuZnode                         DmuType = 17
	DmuAclV0                         DmuType = 18
	DmuPlainFileContents             DmuType = 19
	DmuDirectoryContents             DmuType = 20
	DmuMasterNode                    DmuType = 21
	DmuUnlinkedSet                   DmuType = 22
	DmuZvol                          DmuType = 23
	DmuZvolProperty                  DmuType = 24
	DmuPlainOther                    DmuType = 25
	DmuUint64Other                   DmuType = 26
	DmuZapOther                      DmuType = 27
	DmuErrorLog                      DmuType = 28
	DmuSpaHistory                    DmuType = 29
	DmuSpaHistoryOffsets             DmuType = 30
	DmuPoolProperties                DmuType = 31
	DmuDslPermissions                DmuType = 32
	DmuAclV1                         DmuType = 33
	DmuSysAcl                        DmuType = 34
	DmuFuid                          DmuType = 35
	DmuFuidSize                      DmuType = 36
	DmuNextClones                    DmuType = 37
	DmuScanQueue                     DmuType = 38
	DmuUserGroupUsed                 DmuType = 39
	DmuUserGroupQuota                DmuType = 40
	DmuUserRefs                      DmuType = 41
	DmuDdtZap                        DmuType = 42
	DmuDdtStats                      DmuType = 43
	DmuSystemAttribute               DmuType = 44
	DmuSystemAttributeMasterNode     DmuType = 45
	DmuSystemAttributeRegistration   DmuType = 46
	DmuSystemAttributeLayouts        DmuType = 47
	DmuScanXlate                     DmuType = 48
	DmuDedup                         DmuType = 49
	DmuDeadList                      DmuType = 50
	DmuDeadListHeader                DmuType = 51
	DmuDslClones                     DmuType = 52
	DmuBpObjectSubObject             DmuType = 53
)

var dmuTypeNames = map[DmuType]string{
	DmuNone:                        "None",
	DmuObjectDirectory:             "ObjectDirectory",
	DmuObjectArray:                 "ObjectArray",
	DmuPackedNvList:                "PackedNvList",
	DmuPackedNvListSize:            "PackedNvListSize",
	DmuBpObject:                    "BpObject",
	DmuBpObjectHeader:              "BpObjectHeader",
	DmuSpaceMapHeader:              "SpaceMapHeader",
	DmuSpaceMap:                    "SpaceMap",
	DmuIntentLog:                   "IntentLog",
	DmuDnode:                       "Dnode",
	DmuObjectSet:                   "ObjectSet",
	DmuDslDirectory:                "DslDirectory",
	DmuDslDirectoryChildMap:        "DslDirectoryChildMap",
	DmuDslDsSnapshotMap:            "DslDsSnapshotMap",
	DmuDslProperties:               "DslProperties",
	DmuDslDataSet:                  "DslDataSet",
	DmuZnode:                       "Znode",
	DmuAclV0:                       "AclV0",
	DmuPlainFileContents:           "PlainFileContents",
	DmuDirectoryContents:           "DirectoryContents",
	DmuMasterNode:                  "MasterNode",
	DmuUnlinkedSet:                 "UnlinkedSet",
	DmuZvol:                        "Zvol",
	DmuZvolProperty:                "ZvolProperty",
	DmuPlainOther:                  "PlainOther",
	DmuUint64Other:                 "Uint64Other",
	DmuZapOther:                    "ZapOther",
	DmuErrorLog:                    "ErrorLog",
	DmuSpaHistory:                  "SpaHistory",
	DmuSpaHistoryOffsets:           "SpaHistoryOffsets",
	DmuPoolProperties:              "PoolProperties",
	DmuDslPermissions:              "DslPermissions",
	DmuAclV1:                       "AclV1",
	DmuSysAcl:                      "SysAcl",
	DmuFuid:                        "Fuid",
	DmuFuidSize:                    "FuidSize",
	DmuNextClones:                  "NextClones",
	DmuScanQueue:                   "ScanQueue",
	DmuUserGroupUsed:               "UserGroupUsed",
	DmuUserGroupQuota:              "UserGroupQuota",
	DmuUserRefs:                    "UserRefs",
	DmuDdtZap:                      "DdtZap",
	DmuDdtStats:                    "DdtStats",
	DmuSystemAttribute:             "SystemAttribute",
	DmuSystemAttributeMasterNode:   "SystemAttributeMasterNode",
	DmuSystemAttributeRegistration: "SystemAttributeRegistration",
	DmuSystemAttributeLayouts:      "SystemAttributeLayouts",
	DmuScanXlate:                   "ScanXlate",
	DmuDedup:                       "Dedup",
	DmuDeadList:                    "DeadList",
	DmuDeadListHeader:              "DeadListHeader",
	DmuDslClones:                   "DslClones",
	DmuBpObjectSubObject:           "BpObjectSubObject",
}

// String implements fmt.Stringer.
func (t DmuType) String() string {
	if name, ok := dmuTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DmuType(%d)", uint8(t))
}

// DmuTypeError reports an unrecognized DmuType discriminant.
type DmuTypeError struct{ Value uint8 }

func (e *DmuTypeError) Error() string {
	return fmt.Sprintf("unknown DmuType %d", e.Value)
}

// DmuTypeFromU8 converts a raw byte to a DmuType.
func DmuTypeFromU8(v uint8) (DmuType, error) {
	if _, ok := dmuTypeNames[DmuType(v)]; !ok {
		return 0, &DmuTypeError{Value: v}
	}
	return DmuType(v), nil
}
