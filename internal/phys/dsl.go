package phys

import "fmt"

// DslDirectoryUsedBreakdown is the optional fine-grained accounting of
// a DslDirectory's used_bytes field.
type DslDirectoryUsedBreakdown struct {
	Head                   uint64
	Snapshot               uint64
	Child                  uint64
	ChildReserved          uint64
	ReferencedReservation uint64
}

// DslDirectoryUsedBreakdownSize is the fixed on-disk byte size of a
// DslDirectoryUsedBreakdown.
const DslDirectoryUsedBreakdownSize = 40

// DslDirectorySize is the fixed on-disk byte size of a DslDirectory.
const DslDirectorySize = 256

const (
	dslDirectoryPaddingSize    = 104
	dslDirectoryFlagUsedBreakdown = uint64(1) << 0
	dslDirectoryFlagAll           = dslDirectoryFlagUsedBreakdown
)

// DslDirectory is the Dataset Snapshot Layer directory object: the
// filesystem-namespace node tying a head dataset, its parent directory,
// clone origin, child map, and space accounting together.
type DslDirectory struct {
	CreationTime uint64

	// HeadDatasetObj is nil for the $MOS directory.
	HeadDatasetObj *uint64

	// ParentDirectoryObj is nil for the root_dataset directory.
	ParentDirectoryObj *uint64

	// OriginDatasetObj is non-nil only for clones.
	OriginDatasetObj *uint64

	ChildDirectoryZapObj uint64

	UsedBytes         uint64
	CompressedBytes   uint64
	UncompressedBytes uint64
	Quota             uint64
	Reserved          uint64

	PropertiesZapObj uint64

	DelegationZapObj *uint64

	UsedBreakdown *DslDirectoryUsedBreakdown

	Clones uint64
}

// DslDirectoryFlagsError reports flag bits outside the recognized mask.
type DslDirectoryFlagsError struct{ Flags uint64 }

func (e *DslDirectoryFlagsError) Error() string {
	return fmt.Sprintf("dsl directory: invalid flags 0x%016x", e.Flags)
}

// DslDirectoryMissingChildDirectoryError reports a zero child directory
// ZAP object number, which is never valid.
type DslDirectoryMissingChildDirectoryError struct{}

func (e *DslDirectoryMissingChildDirectoryError) Error() string {
	return "dsl directory: child directory zap object is 0"
}

// DslDirectoryMissingPropertiesError reports a zero properties ZAP
// object number, which is never valid.
type DslDirectoryMissingPropertiesError struct{}

func (e *DslDirectoryMissingPropertiesError) Error() string {
	return "dsl directory: properties zap object is 0"
}

func decodeOptionalObj(d *Decoder) (*uint64, error) {
	v, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if v == 0 {
		return nil, nil
	}
	return &v, nil
}

func optionalObjValue(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

// DecodeDslDirectory decodes a 256-byte DslDirectory region.
func DecodeDslDirectory(d *Decoder) (*DslDirectory, error) {
	dd := &DslDirectory{}

	var err error
	if dd.CreationTime, err = d.GetU64(); err != nil {
		return nil, err
	}
	if dd.HeadDatasetObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if dd.ParentDirectoryObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if dd.OriginDatasetObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}

	childDirectoryZapObj, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if childDirectoryZapObj == 0 {
		return nil, &DslDirectoryMissingChildDirectoryError{}
	}
	dd.ChildDirectoryZapObj = childDirectoryZapObj

	if dd.UsedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if dd.CompressedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if dd.UncompressedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if dd.Quota, err = d.GetU64(); err != nil {
		return nil, err
	}
	if dd.Reserved, err = d.GetU64(); err != nil {
		return nil, err
	}

	propertiesZapObj, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if propertiesZapObj == 0 {
		return nil, &DslDirectoryMissingPropertiesError{}
	}
	dd.PropertiesZapObj = propertiesZapObj

	if dd.DelegationZapObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}

	flags, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if flags&dslDirectoryFlagAll != flags {
		return nil, &DslDirectoryFlagsError{Flags: flags}
	}

	if flags&dslDirectoryFlagUsedBreakdown == 0 {
		if err := d.SkipZeroPadding(DslDirectoryUsedBreakdownSize); err != nil {
			return nil, err
		}
	} else {
		ub := &DslDirectoryUsedBreakdown{}
		if ub.Head, err = d.GetU64(); err != nil {
			return nil, err
		}
		if ub.Snapshot, err = d.GetU64(); err != nil {
			return nil, err
		}
		if ub.Child, err = d.GetU64(); err != nil {
			return nil, err
		}
		if ub.ChildReserved, err = d.GetU64(); err != nil {
			return nil, err
		}
		if ub.ReferencedReservation, err = d.GetU64(); err != nil {
			return nil, err
		}
		dd.UsedBreakdown = ub
	}

	if dd.Clones, err = d.GetU64(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(dslDirectoryPaddingSize); err != nil {
		return nil, err
	}

	return dd, nil
}

// EncodeDslDirectory encodes dd.
func EncodeDslDirectory(e *Encoder, dd *DslDirectory) error {
	if err := e.PutU64(dd.CreationTime); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(dd.HeadDatasetObj)); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(dd.ParentDirectoryObj)); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(dd.OriginDatasetObj)); err != nil {
		return err
	}

	if dd.ChildDirectoryZapObj == 0 {
		return &DslDirectoryMissingChildDirectoryError{}
	}
	if err := e.PutU64(dd.ChildDirectoryZapObj); err != nil {
		return err
	}

	if err := e.PutU64(dd.UsedBytes); err != nil {
		return err
	}
	if err := e.PutU64(dd.CompressedBytes); err != nil {
		return err
	}
	if err := e.PutU64(dd.UncompressedBytes); err != nil {
		return err
	}
	if err := e.PutU64(dd.Quota); err != nil {
		return err
	}
	if err := e.PutU64(dd.Reserved); err != nil {
		return err
	}

	if dd.PropertiesZapObj == 0 {
		return &DslDirectoryMissingPropertiesError{}
	}
	if err := e.PutU64(dd.PropertiesZapObj); err != nil {
		return err
	}

	if err := e.PutU64(optionalObjValue(dd.DelegationZapObj)); err != nil {
		return err
	}

	flags := uint64(0)
	if dd.UsedBreakdown != nil {
		flags = dslDirectoryFlagUsedBreakdown
	}
	if err := e.PutU64(flags); err != nil {
		return err
	}

	if dd.UsedBreakdown != nil {
		ub := dd.UsedBreakdown
		if err := e.PutU64(ub.Head); err != nil {
			return err
		}
		if err := e.PutU64(ub.Snapshot); err != nil {
			return err
		}
		if err := e.PutU64(ub.Child); err != nil {
			return err
		}
		if err := e.PutU64(ub.ChildReserved); err != nil {
			return err
		}
		if err := e.PutU64(ub.ReferencedReservation); err != nil {
			return err
		}
	} else {
		if err := e.PutZeroPadding(DslDirectoryUsedBreakdownSize); err != nil {
			return err
		}
	}

	if err := e.PutU64(dd.Clones); err != nil {
		return err
	}

	return e.PutZeroPadding(dslDirectoryPaddingSize)
}

////////////////////////////////////////////////////////////////////////////////

// DslDataSetSize is the fixed on-disk byte size of a DslDataSet.
const DslDataSetSize = 320

const (
	dslDataSetPaddingSize = 40

	dslDataSetFlagInconsistent      = uint64(1) << 0
	dslDataSetFlagNoPromote         = uint64(1) << 1
	dslDataSetFlagUniqueAccurate    = uint64(1) << 2
	dslDataSetFlagDeferDestroy      = uint64(1) << 3
	dslDataSetFlagCaseInsensitiveFS = uint64(1) << 16
	dslDataSetFlagNoDirty           = uint64(1) << 24

	dslDataSetFlagAll = dslDataSetFlagInconsistent | dslDataSetFlagNoPromote |
		dslDataSetFlagUniqueAccurate | dslDataSetFlagDeferDestroy |
		dslDataSetFlagCaseInsensitiveFS | dslDataSetFlagNoDirty
)

// DslDataSet is a single dataset (filesystem, volume, or snapshot)
// within a DslDirectory's namespace.
type DslDataSet struct {
	DirObj uint64

	// PrevSnapshotObj and PrevSnapshotTxg are either both nil or both
	// set.
	PrevSnapshotObj *uint64
	PrevSnapshotTxg *uint64

	NextSnapshotObj     *uint64
	SnapshotNamesZapObj *uint64

	NumChildren    uint64
	CreationTime   uint64
	CreationTxg    uint64
	DeadlistObj    uint64

	ReferencedBytes   uint64
	CompressedBytes   uint64
	UncompressedBytes uint64
	UniqueBytes       uint64

	FsidGuid uint64
	Guid     uint64

	Flags uint64

	BlockPointer *BlockPointer

	NextClonesObj uint64

	SnapshotPropsObj *uint64

	UserRefsObj uint64
}

// DslDataSetFlagsError reports flag bits outside the recognized mask.
type DslDataSetFlagsError struct{ Flags uint64 }

func (e *DslDataSetFlagsError) Error() string {
	return fmt.Sprintf("dsl data set: invalid flags 0x%016x", e.Flags)
}

// DslDataSetMissingDirectoryError reports a zero directory object
// number, which is never valid.
type DslDataSetMissingDirectoryError struct{}

func (e *DslDataSetMissingDirectoryError) Error() string {
	return "dsl data set: missing directory object"
}

// DslDataSetPreviousSnapshotError reports that exactly one of
// PrevSnapshotObj/PrevSnapshotTxg is set, which is never valid: they
// must agree on presence.
type DslDataSetPreviousSnapshotError struct {
	PrevSnapshotObj, PrevSnapshotTxg uint64
}

func (e *DslDataSetPreviousSnapshotError) Error() string {
	return fmt.Sprintf("dsl data set: previous snapshot obj: %d txg: %d disagree on presence",
		e.PrevSnapshotObj, e.PrevSnapshotTxg)
}

// DecodeDslDataSet decodes a 320-byte DslDataSet region.
func DecodeDslDataSet(d *Decoder) (*DslDataSet, error) {
	ds := &DslDataSet{}

	dirObj, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if dirObj == 0 {
		return nil, &DslDataSetMissingDirectoryError{}
	}
	ds.DirObj = dirObj

	if ds.PrevSnapshotObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if ds.PrevSnapshotTxg, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if (ds.PrevSnapshotObj == nil) != (ds.PrevSnapshotTxg == nil) {
		return nil, &DslDataSetPreviousSnapshotError{
			PrevSnapshotObj: optionalObjValue(ds.PrevSnapshotObj),
			PrevSnapshotTxg: optionalObjValue(ds.PrevSnapshotTxg),
		}
	}

	if ds.NextSnapshotObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}
	if ds.SnapshotNamesZapObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}

	if ds.NumChildren, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.CreationTime, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.CreationTxg, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.DeadlistObj, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.ReferencedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.CompressedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.UncompressedBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.UniqueBytes, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.FsidGuid, err = d.GetU64(); err != nil {
		return nil, err
	}
	if ds.Guid, err = d.GetU64(); err != nil {
		return nil, err
	}

	flags, err := d.GetU64()
	if err != nil {
		return nil, err
	}
	if flags&dslDataSetFlagAll != flags {
		return nil, &DslDataSetFlagsError{Flags: flags}
	}
	ds.Flags = flags

	if ds.BlockPointer, err = DecodeBlockPointer(d); err != nil {
		return nil, err
	}

	if ds.NextClonesObj, err = d.GetU64(); err != nil {
		return nil, err
	}

	if ds.SnapshotPropsObj, err = decodeOptionalObj(d); err != nil {
		return nil, err
	}

	if ds.UserRefsObj, err = d.GetU64(); err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(dslDataSetPaddingSize); err != nil {
		return nil, err
	}

	return ds, nil
}

// EncodeDslDataSet encodes ds.
func EncodeDslDataSet(e *Encoder, ds *DslDataSet) error {
	if ds.DirObj == 0 {
		return &DslDataSetMissingDirectoryError{}
	}
	if err := e.PutU64(ds.DirObj); err != nil {
		return err
	}

	if (optionalObjValue(ds.PrevSnapshotObj) == 0) != (optionalObjValue(ds.PrevSnapshotTxg) == 0) {
		return &DslDataSetPreviousSnapshotError{
			PrevSnapshotObj: optionalObjValue(ds.PrevSnapshotObj),
			PrevSnapshotTxg: optionalObjValue(ds.PrevSnapshotTxg),
		}
	}
	if err := e.PutU64(optionalObjValue(ds.PrevSnapshotObj)); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(ds.PrevSnapshotTxg)); err != nil {
		return err
	}

	if err := e.PutU64(optionalObjValue(ds.NextSnapshotObj)); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(ds.SnapshotNamesZapObj)); err != nil {
		return err
	}

	if err := e.PutU64(ds.NumChildren); err != nil {
		return err
	}
	if err := e.PutU64(ds.CreationTime); err != nil {
		return err
	}
	if err := e.PutU64(ds.CreationTxg); err != nil {
		return err
	}
	if err := e.PutU64(ds.DeadlistObj); err != nil {
		return err
	}
	if err := e.PutU64(ds.ReferencedBytes); err != nil {
		return err
	}
	if err := e.PutU64(ds.CompressedBytes); err != nil {
		return err
	}
	if err := e.PutU64(ds.UncompressedBytes); err != nil {
		return err
	}
	if err := e.PutU64(ds.UniqueBytes); err != nil {
		return err
	}
	if err := e.PutU64(ds.FsidGuid); err != nil {
		return err
	}
	if err := e.PutU64(ds.Guid); err != nil {
		return err
	}
	if err := e.PutU64(ds.Flags); err != nil {
		return err
	}

	if err := EncodeBlockPointer(e, ds.BlockPointer); err != nil {
		return err
	}

	if err := e.PutU64(ds.NextClonesObj); err != nil {
		return err
	}
	if err := e.PutU64(optionalObjValue(ds.SnapshotPropsObj)); err != nil {
		return err
	}
	if err := e.PutU64(ds.UserRefsObj); err != nil {
		return err
	}

	return e.PutZeroPadding(dslDataSetPaddingSize)
}
