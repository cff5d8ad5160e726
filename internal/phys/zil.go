package phys

// ZilHeaderSize is the fixed on-disk byte size of a ZilHeader.
const ZilHeaderSize = BlockPointerSize + 64

// ZilHeader is the ZFS intent log header embedded at a fixed offset in
// every object set, recording the log's head block pointer and replay
// bookkeeping.
type ZilHeader struct {
	ClaimTxg    uint64
	ReplaySeq   uint64
	Log         *BlockPointer
	ClaimBlkSeq uint64
	Flags       uint64
	ClaimLrSeq  uint64
}

// DecodeZilHeader decodes a 192-byte ZilHeader region.
func DecodeZilHeader(d *Decoder) (*ZilHeader, error) {
	zh := &ZilHeader{}

	var err error
	if zh.ClaimTxg, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zh.ReplaySeq, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zh.Log, err = DecodeBlockPointer(d); err != nil {
		return nil, err
	}
	if zh.ClaimBlkSeq, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zh.Flags, err = d.GetU64(); err != nil {
		return nil, err
	}
	if zh.ClaimLrSeq, err = d.GetU64(); err != nil {
		return nil, err
	}
	if err := d.SkipZeroPadding(24); err != nil {
		return nil, err
	}

	return zh, nil
}

// EncodeZilHeader encodes zh.
func EncodeZilHeader(e *Encoder, zh *ZilHeader) error {
	if err := e.PutU64(zh.ClaimTxg); err != nil {
		return err
	}
	if err := e.PutU64(zh.ReplaySeq); err != nil {
		return err
	}
	if err := EncodeBlockPointer(e, zh.Log); err != nil {
		return err
	}
	if err := e.PutU64(zh.ClaimBlkSeq); err != nil {
		return err
	}
	if err := e.PutU64(zh.Flags); err != nil {
		return err
	}
	if err := e.PutU64(zh.ClaimLrSeq); err != nil {
		return err
	}
	return e.PutZeroPadding(24)
}
