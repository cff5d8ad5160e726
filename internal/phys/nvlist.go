package phys

import (
	"fmt"
	"math"
)

// NvEncoding identifies the wire encoding of a top-level NV list. Only
// the XDR form is used on production pools; native encoding is kept
// for completeness since the discriminant is just a header byte.
type NvEncoding uint8

const (
	NvEncodingNative NvEncoding = 0
	NvEncodingXDR    NvEncoding = 1
)

var nvEncodingNames = map[NvEncoding]string{
	NvEncodingNative: "Native",
	NvEncodingXDR:    "XDR",
}

// String implements fmt.Stringer.
func (e NvEncoding) String() string {
	if name, ok := nvEncodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("NvEncoding(%d)", uint8(e))
}

// NvEncodingError reports an unrecognized NvEncoding discriminant.
type NvEncodingError struct{ Value uint8 }

func (e *NvEncodingError) Error() string {
	return fmt.Sprintf("nv list: unknown encoding %d", e.Value)
}

// NvEncodingFromU8 converts a raw header byte to an NvEncoding.
func NvEncodingFromU8(v uint8) (NvEncoding, error) {
	if _, ok := nvEncodingNames[NvEncoding(v)]; !ok {
		return 0, &NvEncodingError{Value: v}
	}
	return NvEncoding(v), nil
}

const (
	nvOrderBig    = uint8(0)
	nvOrderLittle = uint8(1)
)

// NvOrderError reports an unrecognized NV list header order byte.
type NvOrderError struct{ Value uint8 }

func (e *NvOrderError) Error() string {
	return fmt.Sprintf("nv list: unknown order byte %d", e.Value)
}

func nvOrderFromU8(v uint8) (EndianOrder, error) {
	switch v {
	case nvOrderBig:
		return BigEndian, nil
	case nvOrderLittle:
		return LittleEndian, nil
	default:
		return 0, &NvOrderError{Value: v}
	}
}

func nvOrderToU8(o EndianOrder) uint8 {
	if o == LittleEndian {
		return nvOrderLittle
	}
	return nvOrderBig
}

// NvDataType is the closed taxonomy of value kinds an NvPair can
// carry. Numeric values match the well-known libnvpair data_type_t
// discriminants, not an arbitrary local assignment.
type NvDataType uint32

const (
	NvDataTypeBoolean      NvDataType = 1
	NvDataTypeByte         NvDataType = 2
	NvDataTypeInt16        NvDataType = 3
	NvDataTypeUint16       NvDataType = 4
	NvDataTypeInt32        NvDataType = 5
	NvDataTypeUint32       NvDataType = 6
	NvDataTypeInt64        NvDataType = 7
	NvDataTypeUint64       NvDataType = 8
	NvDataTypeString       NvDataType = 9
	NvDataTypeByteArray    NvDataType = 10
	NvDataTypeInt16Array   NvDataType = 11
	NvDataTypeUint16Array  NvDataType = 12
	NvDataTypeInt32Array   NvDataType = 13
	NvDataTypeUint32Array  NvDataType = 14
	NvDataTypeInt64Array   NvDataType = 15
	NvDataTypeUint64Array  NvDataType = 16
	NvDataTypeStringArray  NvDataType = 17
	NvDataTypeHrTime       NvDataType = 18
	NvDataTypeNvList       NvDataType = 19
	NvDataTypeNvListArray  NvDataType = 20
	NvDataTypeBooleanValue NvDataType = 21
	NvDataTypeInt8         NvDataType = 22
	NvDataTypeUint8        NvDataType = 23
	NvDataTypeBooleanArray NvDataType = 24
	NvDataTypeInt8Array    NvDataType = 25
	NvDataTypeUint8Array   NvDataType = 26
	NvDataTypeDouble       NvDataType = 27
)

var nvDataTypeNames = map[NvDataType]string{
	NvDataTypeBoolean:      "Boolean",
	NvDataTypeByte:         "Byte",
	NvDataTypeInt16:        "Int16",
	NvDataTypeUint16:       "Uint16",
	NvDataTypeInt32:        "Int32",
	NvDataTypeUint32:       "Uint32",
	NvDataTypeInt64:        "Int64",
	NvDataTypeUint64:       "Uint64",
	NvDataTypeString:       "String",
	NvDataTypeByteArray:    "ByteArray",
	NvDataTypeInt16Array:   "Int16Array",
	NvDataTypeUint16Array:  "Uint16Array",
	NvDataTypeInt32Array:   "Int32Array",
	NvDataTypeUint32Array:  "Uint32Array",
	NvDataTypeInt64Array:   "Int64Array",
	NvDataTypeUint64Array:  "Uint64Array",
	NvDataTypeStringArray:  "StringArray",
	NvDataTypeHrTime:       "HrTime",
	NvDataTypeNvList:       "NvList",
	NvDataTypeNvListArray:  "NvListArray",
	NvDataTypeBooleanValue: "BooleanValue",
	NvDataTypeInt8:         "Int8",
	NvDataTypeUint8:        "Uint8",
	NvDataTypeBooleanArray: "BooleanArray",
	NvDataTypeInt8Array:    "Int8Array",
	NvDataTypeUint8Array:   "Uint8Array",
	NvDataTypeDouble:       "Double",
}

// String implements fmt.Stringer.
func (t NvDataType) String() string {
	if name, ok := nvDataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NvDataType(%d)", uint32(t))
}

// NvDataTypeError reports an unrecognized NvDataType discriminant.
type NvDataTypeError struct{ Value uint32 }

func (e *NvDataTypeError) Error() string {
	return fmt.Sprintf("nv list: unknown data type %d", e.Value)
}

// NvDataTypeFromU32 converts a raw type discriminant to an NvDataType.
func NvDataTypeFromU32(v uint32) (NvDataType, error) {
	if _, ok := nvDataTypeNames[NvDataType(v)]; !ok {
		return 0, &NvDataTypeError{Value: v}
	}
	return NvDataType(v), nil
}

// NvElementCountError reports a scalar NvPair whose wire element count
// is not 1.
type NvElementCountError struct {
	Type  NvDataType
	Count uint32
}

func (e *NvElementCountError) Error() string {
	return fmt.Sprintf("nv list: %s element count %d, want 1", e.Type, e.Count)
}

// nvNameMaxLen bounds an NV pair name's stored capacity. No retained
// original_source file pins this value; it mirrors real-world ZFS's
// MAXNAMELEN, per DESIGN.md.
const nvNameMaxLen = 256

// NvValue is a tagged union over every kind an NvPair's value can
// take. Exactly the fields matching Type are meaningful; the rest are
// zero. Arrays are decoded eagerly into Go slices rather than modeled
// as borrowing iterators, since Go's slice semantics already give
// single-pass-or-random access without the lifetime concerns a
// borrow-based API is solving for in other languages.
type NvValue struct {
	Type NvDataType

	Bool         bool
	BooleanValue bool
	Int8         int8
	Uint8        uint8
	Int16        int16
	Uint16       uint16
	Int32        int32
	Uint32       uint32
	Int64        int64
	Uint64       uint64
	HrTime       int64
	Double       float64
	String       string

	ByteArray    []byte
	Int8Array    []int8
	Uint8Array   []uint8
	Int16Array   []int16
	Uint16Array  []uint16
	Int32Array   []int32
	Uint32Array  []uint32
	Int64Array   []int64
	Uint64Array  []uint64
	BooleanArray []bool
	StringArray  []string

	// NvList and NvListArray elements never carry their own header:
	// they inherit the encoding and order of the root NvList they
	// were decoded from, so their own Encoding/Order fields are
	// always zero.
	NvList      *NvList
	NvListArray []*NvList
}

// NvPair is a single name/value entry in an NvList. EncodedSize and
// DecodedSize are the raw wire bookkeeping fields; they are replayed
// verbatim on encode rather than recomputed. The one exception is an
// EncodedSize of zero, which the decoder reads as the end of the list:
// on encode it is replaced by the pair's actual encoded byte length.
type NvPair struct {
	EncodedSize uint32
	DecodedSize uint32
	Name        *Fstr
	Value       NvValue
}

// NvList is a self-framed, endian-tagged sequence of name/value pairs
// in encounter order. Only the list returned directly by DecodeNvList
// carries a meaningful Encoding/Order; nested lists reached through an
// NvDataTypeNvList or NvDataTypeNvListArray value do not.
type NvList struct {
	Encoding NvEncoding
	Order    EndianOrder
	Pairs    []NvPair
}

// Find returns the first pair named name, if any.
func (l *NvList) Find(name string) (*NvPair, bool) {
	for i := range l.Pairs {
		if s, ok := l.Pairs[i].Name.AsString(); ok && s == name {
			return &l.Pairs[i], true
		}
	}
	return nil, false
}

const nvHeaderReservedSize = 2

// DecodeNvList decodes a top-level, self-describing NV list: a 4-byte
// header {encoding, order, 2 reserved zero bytes} followed by a
// zero-terminated sequence of pairs encoded in the order the header
// declares. The header's order byte is read independently of d's own
// order (single-byte reads are order-invariant) and then governs
// every multi-byte field that follows, via a fresh Decoder over the
// remaining bytes — consistent with the rule that a single Decoder's
// order never changes mid-stream.
func DecodeNvList(d *Decoder) (*NvList, error) {
	encRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	encoding, err := NvEncodingFromU8(encRaw)
	if err != nil {
		return nil, err
	}

	orderRaw, err := d.GetU8()
	if err != nil {
		return nil, err
	}
	order, err := nvOrderFromU8(orderRaw)
	if err != nil {
		return nil, err
	}

	if err := d.SkipZeroPadding(nvHeaderReservedSize); err != nil {
		return nil, err
	}

	body, err := d.GetBytes(int(d.Available()))
	if err != nil {
		return nil, err
	}

	inner := NewDecoder(body, order)
	pairs, err := decodeNvListBody(inner)
	if err != nil {
		return nil, fmt.Errorf("nv list: %w", err)
	}

	return &NvList{Encoding: encoding, Order: order, Pairs: pairs}, nil
}

// EncodeNvList encodes list's header followed by its body, the body
// encoded in list.Order regardless of e's own order (mirroring the
// decode side's independent inner Decoder).
func EncodeNvList(e *Encoder, list *NvList) error {
	if err := e.PutU8(uint8(list.Encoding)); err != nil {
		return err
	}
	if err := e.PutU8(nvOrderToU8(list.Order)); err != nil {
		return err
	}
	if err := e.PutZeroPadding(nvHeaderReservedSize); err != nil {
		return err
	}

	bodyLen := 4
	for _, p := range list.Pairs {
		n, err := nvPairEncodedLen(p)
		if err != nil {
			return err
		}
		bodyLen += n
	}

	buf := make([]byte, bodyLen)
	inner := NewEncoder(buf, list.Order)
	if err := encodeNvPairsInto(inner, list.Pairs); err != nil {
		return err
	}
	return e.PutBytes(buf)
}

func decodeNvListBody(d *Decoder) ([]NvPair, error) {
	var pairs []NvPair
	for {
		encodedSize, err := d.GetU32()
		if err != nil {
			return nil, err
		}
		if encodedSize == 0 {
			return pairs, nil
		}

		decodedSize, err := d.GetU32()
		if err != nil {
			return nil, err
		}
		nameLen, err := d.GetU32()
		if err != nil {
			return nil, err
		}
		nameBytes, err := d.GetPaddedBytes(int(nameLen))
		if err != nil {
			return nil, err
		}
		name := FstrFromBytes(nameBytes, nvNameMaxLen)

		typeRaw, err := d.GetU32()
		if err != nil {
			return nil, err
		}
		typ, err := NvDataTypeFromU32(typeRaw)
		if err != nil {
			return nil, err
		}
		count, err := d.GetU32()
		if err != nil {
			return nil, err
		}

		value, err := decodeNvValue(d, typ, count)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", name, err)
		}

		pairs = append(pairs, NvPair{
			EncodedSize: encodedSize,
			DecodedSize: decodedSize,
			Name:        name,
			Value:       value,
		})
	}
}

func encodeNvPairsInto(e *Encoder, pairs []NvPair) error {
	for _, p := range pairs {
		if err := encodeNvPair(e, p); err != nil {
			return err
		}
	}
	return e.PutU32(0)
}

func encodeNvPair(e *Encoder, p NvPair) error {
	encodedSize := p.EncodedSize
	if encodedSize == 0 {
		n, err := nvPairEncodedLen(p)
		if err != nil {
			return err
		}
		encodedSize = uint32(n)
	}
	if err := e.PutU32(encodedSize); err != nil {
		return err
	}
	if err := e.PutU32(p.DecodedSize); err != nil {
		return err
	}

	var nameBytes []byte
	if p.Name != nil {
		nameBytes = p.Name.AsBytes()
	}
	if err := e.PutU32(uint32(len(nameBytes))); err != nil {
		return err
	}
	if err := e.PutPaddedBytes(nameBytes); err != nil {
		return err
	}

	if err := e.PutU32(uint32(p.Value.Type)); err != nil {
		return err
	}
	count, err := nvValueElementCount(p.Value)
	if err != nil {
		return err
	}
	if err := e.PutU32(uint32(count)); err != nil {
		return err
	}

	return encodeNvValue(e, p.Value)
}

func nvValueElementCount(v NvValue) (int, error) {
	switch v.Type {
	case NvDataTypeByteArray:
		return len(v.ByteArray), nil
	case NvDataTypeInt8Array:
		return len(v.Int8Array), nil
	case NvDataTypeUint8Array:
		return len(v.Uint8Array), nil
	case NvDataTypeInt16Array:
		return len(v.Int16Array), nil
	case NvDataTypeUint16Array:
		return len(v.Uint16Array), nil
	case NvDataTypeInt32Array:
		return len(v.Int32Array), nil
	case NvDataTypeUint32Array:
		return len(v.Uint32Array), nil
	case NvDataTypeInt64Array:
		return len(v.Int64Array), nil
	case NvDataTypeUint64Array:
		return len(v.Uint64Array), nil
	case NvDataTypeBooleanArray:
		return len(v.BooleanArray), nil
	case NvDataTypeStringArray:
		return len(v.StringArray), nil
	case NvDataTypeNvListArray:
		return len(v.NvListArray), nil
	default:
		return 1, nil
	}
}

func decodeNvValue(d *Decoder, typ NvDataType, count uint32) (NvValue, error) {
	v := NvValue{Type: typ}

	scalar := func() error {
		if count != 1 {
			return &NvElementCountError{Type: typ, Count: count}
		}
		return nil
	}

	switch typ {
	case NvDataTypeBoolean:
		if err := scalar(); err != nil {
			return v, err
		}
		v.Bool = true

	case NvDataTypeBooleanValue:
		if err := scalar(); err != nil {
			return v, err
		}
		raw, err := d.GetU32()
		if err != nil {
			return v, err
		}
		v.BooleanValue = raw != 0

	case NvDataTypeByte, NvDataTypeUint8:
		if err := scalar(); err != nil {
			return v, err
		}
		b, err := d.GetU8()
		if err != nil {
			return v, err
		}
		if err := d.SkipZeroPadding(3); err != nil {
			return v, err
		}
		v.Uint8 = b

	case NvDataTypeInt8:
		if err := scalar(); err != nil {
			return v, err
		}
		b, err := d.GetI8()
		if err != nil {
			return v, err
		}
		if err := d.SkipZeroPadding(3); err != nil {
			return v, err
		}
		v.Int8 = b

	case NvDataTypeInt16:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetI16()
		if err != nil {
			return v, err
		}
		if err := d.SkipZeroPadding(2); err != nil {
			return v, err
		}
		v.Int16 = n

	case NvDataTypeUint16:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetU16()
		if err != nil {
			return v, err
		}
		if err := d.SkipZeroPadding(2); err != nil {
			return v, err
		}
		v.Uint16 = n

	case NvDataTypeInt32:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetI32()
		if err != nil {
			return v, err
		}
		v.Int32 = n

	case NvDataTypeUint32:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetU32()
		if err != nil {
			return v, err
		}
		v.Uint32 = n

	case NvDataTypeInt64:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetI64()
		if err != nil {
			return v, err
		}
		v.Int64 = n

	case NvDataTypeUint64:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetU64()
		if err != nil {
			return v, err
		}
		v.Uint64 = n

	case NvDataTypeHrTime:
		if err := scalar(); err != nil {
			return v, err
		}
		n, err := d.GetI64()
		if err != nil {
			return v, err
		}
		v.HrTime = n

	case NvDataTypeDouble:
		if err := scalar(); err != nil {
			return v, err
		}
		raw, err := d.GetU64()
		if err != nil {
			return v, err
		}
		v.Double = math.Float64frombits(raw)

	case NvDataTypeString:
		if err := scalar(); err != nil {
			return v, err
		}
		s, err := decodeNvString(d)
		if err != nil {
			return v, err
		}
		v.String = s

	case NvDataTypeByteArray:
		b, err := d.GetPaddedBytes(int(count))
		if err != nil {
			return v, err
		}
		v.ByteArray = append([]byte(nil), b...)

	case NvDataTypeInt8Array:
		b, err := d.GetPaddedBytes(int(count))
		if err != nil {
			return v, err
		}
		arr := make([]int8, count)
		for i, x := range b {
			arr[i] = int8(x)
		}
		v.Int8Array = arr

	case NvDataTypeUint8Array:
		b, err := d.GetPaddedBytes(int(count))
		if err != nil {
			return v, err
		}
		v.Uint8Array = append([]uint8(nil), b...)

	case NvDataTypeInt16Array:
		arr := make([]int16, count)
		for i := range arr {
			n, err := d.GetI16()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		if err := d.SkipZeroPadding(alignUp4(int(count)*2) - int(count)*2); err != nil {
			return v, err
		}
		v.Int16Array = arr

	case NvDataTypeUint16Array:
		arr := make([]uint16, count)
		for i := range arr {
			n, err := d.GetU16()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		if err := d.SkipZeroPadding(alignUp4(int(count)*2) - int(count)*2); err != nil {
			return v, err
		}
		v.Uint16Array = arr

	case NvDataTypeInt32Array:
		arr := make([]int32, count)
		for i := range arr {
			n, err := d.GetI32()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		v.Int32Array = arr

	case NvDataTypeUint32Array:
		arr := make([]uint32, count)
		for i := range arr {
			n, err := d.GetU32()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		v.Uint32Array = arr

	case NvDataTypeInt64Array:
		arr := make([]int64, count)
		for i := range arr {
			n, err := d.GetI64()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		v.Int64Array = arr

	case NvDataTypeUint64Array:
		arr := make([]uint64, count)
		for i := range arr {
			n, err := d.GetU64()
			if err != nil {
				return v, err
			}
			arr[i] = n
		}
		v.Uint64Array = arr

	case NvDataTypeBooleanArray:
		arr := make([]bool, count)
		for i := range arr {
			raw, err := d.GetU32()
			if err != nil {
				return v, err
			}
			arr[i] = raw != 0
		}
		v.BooleanArray = arr

	case NvDataTypeStringArray:
		arr := make([]string, count)
		for i := range arr {
			s, err := decodeNvString(d)
			if err != nil {
				return v, err
			}
			arr[i] = s
		}
		v.StringArray = arr

	case NvDataTypeNvList:
		if err := scalar(); err != nil {
			return v, err
		}
		pairs, err := decodeNvListBody(d)
		if err != nil {
			return v, err
		}
		v.NvList = &NvList{Pairs: pairs}

	case NvDataTypeNvListArray:
		arr := make([]*NvList, count)
		for i := range arr {
			pairs, err := decodeNvListBody(d)
			if err != nil {
				return v, err
			}
			arr[i] = &NvList{Pairs: pairs}
		}
		v.NvListArray = arr

	default:
		return v, &NvDataTypeError{Value: uint32(typ)}
	}

	return v, nil
}

func decodeNvString(d *Decoder) (string, error) {
	n, err := d.GetU32()
	if err != nil {
		return "", err
	}
	b, err := d.GetPaddedBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeNvString(e *Encoder, s string) error {
	b := []byte(s)
	if err := e.PutU32(uint32(len(b))); err != nil {
		return err
	}
	return e.PutPaddedBytes(b)
}

func encodeNvValue(e *Encoder, v NvValue) error {
	switch v.Type {
	case NvDataTypeBoolean:
		return nil

	case NvDataTypeBooleanValue:
		val := uint32(0)
		if v.BooleanValue {
			val = 1
		}
		return e.PutU32(val)

	case NvDataTypeByte, NvDataTypeUint8:
		if err := e.PutU8(v.Uint8); err != nil {
			return err
		}
		return e.PutZeroPadding(3)

	case NvDataTypeInt8:
		if err := e.PutI8(v.Int8); err != nil {
			return err
		}
		return e.PutZeroPadding(3)

	case NvDataTypeInt16:
		if err := e.PutI16(v.Int16); err != nil {
			return err
		}
		return e.PutZeroPadding(2)

	case NvDataTypeUint16:
		if err := e.PutU16(v.Uint16); err != nil {
			return err
		}
		return e.PutZeroPadding(2)

	case NvDataTypeInt32:
		return e.PutI32(v.Int32)

	case NvDataTypeUint32:
		return e.PutU32(v.Uint32)

	case NvDataTypeInt64:
		return e.PutI64(v.Int64)

	case NvDataTypeUint64:
		return e.PutU64(v.Uint64)

	case NvDataTypeHrTime:
		return e.PutI64(v.HrTime)

	case NvDataTypeDouble:
		return e.PutU64(math.Float64bits(v.Double))

	case NvDataTypeString:
		return encodeNvString(e, v.String)

	case NvDataTypeByteArray:
		return e.PutPaddedBytes(v.ByteArray)

	case NvDataTypeInt8Array:
		b := make([]byte, len(v.Int8Array))
		for i, x := range v.Int8Array {
			b[i] = byte(x)
		}
		return e.PutPaddedBytes(b)

	case NvDataTypeUint8Array:
		return e.PutPaddedBytes(v.Uint8Array)

	case NvDataTypeInt16Array:
		for _, x := range v.Int16Array {
			if err := e.PutI16(x); err != nil {
				return err
			}
		}
		return e.PutZeroPadding(alignUp4(len(v.Int16Array)*2) - len(v.Int16Array)*2)

	case NvDataTypeUint16Array:
		for _, x := range v.Uint16Array {
			if err := e.PutU16(x); err != nil {
				return err
			}
		}
		return e.PutZeroPadding(alignUp4(len(v.Uint16Array)*2) - len(v.Uint16Array)*2)

	case NvDataTypeInt32Array:
		for _, x := range v.Int32Array {
			if err := e.PutI32(x); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeUint32Array:
		for _, x := range v.Uint32Array {
			if err := e.PutU32(x); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeInt64Array:
		for _, x := range v.Int64Array {
			if err := e.PutI64(x); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeUint64Array:
		for _, x := range v.Uint64Array {
			if err := e.PutU64(x); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeBooleanArray:
		for _, x := range v.BooleanArray {
			val := uint32(0)
			if x {
				val = 1
			}
			if err := e.PutU32(val); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeStringArray:
		for _, s := range v.StringArray {
			if err := encodeNvString(e, s); err != nil {
				return err
			}
		}
		return nil

	case NvDataTypeNvList:
		return encodeNvPairsInto(e, v.NvList.Pairs)

	case NvDataTypeNvListArray:
		for _, nl := range v.NvListArray {
			if err := encodeNvPairsInto(e, nl.Pairs); err != nil {
				return err
			}
		}
		return nil

	default:
		return &NvDataTypeError{Value: uint32(v.Type)}
	}
}

const nvPairFixedHeaderSize = 20 // encoded_size + decoded_size + name_length + type + count

func nvPairEncodedLen(p NvPair) (int, error) {
	valLen, err := nvValueEncodedLen(p.Value)
	if err != nil {
		return 0, err
	}
	nameLen := 0
	if p.Name != nil {
		nameLen = p.Name.Len()
	}
	return nvPairFixedHeaderSize + alignUp4(nameLen) + valLen, nil
}

func nvListBodyLen(pairs []NvPair) (int, error) {
	total := 4 // terminator
	for _, p := range pairs {
		n, err := nvPairEncodedLen(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func nvValueEncodedLen(v NvValue) (int, error) {
	switch v.Type {
	case NvDataTypeBoolean:
		return 0, nil
	case NvDataTypeBooleanValue,
		NvDataTypeByte, NvDataTypeInt8, NvDataTypeUint8,
		NvDataTypeInt16, NvDataTypeUint16,
		NvDataTypeInt32, NvDataTypeUint32:
		return 4, nil
	case NvDataTypeInt64, NvDataTypeUint64, NvDataTypeHrTime, NvDataTypeDouble:
		return 8, nil
	case NvDataTypeString:
		return 4 + alignUp4(len(v.String)), nil
	case NvDataTypeByteArray:
		return alignUp4(len(v.ByteArray)), nil
	case NvDataTypeInt8Array:
		return alignUp4(len(v.Int8Array)), nil
	case NvDataTypeUint8Array:
		return alignUp4(len(v.Uint8Array)), nil
	case NvDataTypeInt16Array:
		return alignUp4(len(v.Int16Array) * 2), nil
	case NvDataTypeUint16Array:
		return alignUp4(len(v.Uint16Array) * 2), nil
	case NvDataTypeInt32Array:
		return len(v.Int32Array) * 4, nil
	case NvDataTypeUint32Array:
		return len(v.Uint32Array) * 4, nil
	case NvDataTypeInt64Array:
		return len(v.Int64Array) * 8, nil
	case NvDataTypeUint64Array:
		return len(v.Uint64Array) * 8, nil
	case NvDataTypeBooleanArray:
		return len(v.BooleanArray) * 4, nil
	case NvDataTypeStringArray:
		n := 0
		for _, s := range v.StringArray {
			n += 4 + alignUp4(len(s))
		}
		return n, nil
	case NvDataTypeNvList:
		return nvListBodyLen(v.NvList.Pairs)
	case NvDataTypeNvListArray:
		n := 0
		for _, nl := range v.NvListArray {
			sub, err := nvListBodyLen(nl.Pairs)
			if err != nil {
				return 0, err
			}
			n += sub
		}
		return n, nil
	default:
		return 0, &NvDataTypeError{Value: uint32(v.Type)}
	}
}
