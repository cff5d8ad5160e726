package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/zfsphys/internal/phys"
)

// testVectorA is 128 bytes of fixed pseudo-random data used to verify
// the SHA-256 engine at a range of input sizes, including sizes that
// force the vector to be repeated to reach the requested length.
var testVectorA = [128]byte{
	0xbc, 0x4b, 0x4d, 0x58, 0x43, 0xca, 0x34, 0x35, 0xe4, 0xd0, 0x59, 0xe4, 0xd0, 0x2b, 0x08,
	0xe3, 0x2f, 0xe3, 0x78, 0xe1, 0xe6, 0xf6, 0xf1, 0x34, 0x84, 0xdc, 0x1e, 0x0e, 0x12, 0x28,
	0x2e, 0xbe, 0x53, 0xbd, 0x1a, 0xf9, 0x8a, 0x97, 0x6e, 0xab, 0x7c, 0x06, 0xed, 0x50, 0xa8,
	0xc9, 0xe4, 0x1e, 0xb8, 0xaf, 0xb8, 0x8c, 0x94, 0xb5, 0x15, 0xed, 0xa8, 0x3f, 0x9d, 0x99,
	0x9c, 0x26, 0xe8, 0x1d, 0x87, 0x29, 0x1f, 0x60, 0x64, 0xca, 0xd1, 0xe8, 0x48, 0x7e, 0xe4,
	0xf2, 0x56, 0xf3, 0x59, 0x73, 0x04, 0x39, 0xb2, 0x62, 0x56, 0xea, 0xf1, 0x44, 0xf0, 0x06,
	0x28, 0x2e, 0x56, 0x16, 0xd3, 0x80, 0x0d, 0x47, 0x9e, 0x87, 0x3f, 0x52, 0x64, 0x30, 0x63,
	0x6d, 0x64, 0x58, 0xcb, 0x84, 0x4d, 0xf7, 0x1c, 0x6e, 0xc7, 0x07, 0x86, 0x3d, 0x17, 0xec,
	0x51, 0x8f, 0x51, 0x6e, 0x5a, 0x52, 0x64, 0xee,
}

type sha256Checksum struct {
	size     int
	checksum [4]uint64
}

var testVectorAChecksums = []sha256Checksum{
	{0, [4]uint64{0xe3b0c44298fc1c14, 0x9afbf4c8996fb924, 0x27ae41e4649b934c, 0xa495991b7852b855}},
	{4, [4]uint64{0xda019b87bf8be659, 0xf7fa90d87f798019, 0x9c7bffb4d9d444c6, 0x8a47533668a06a90}},
	{8, [4]uint64{0xe99cd08bed3a67a4, 0x5a35c1f646a3f86a, 0x4888b4653a1736f0, 0x040fef5f5da13ddf}},
	{16, [4]uint64{0x4be87f81e1fca9da, 0xf953ba24b2a27c5a, 0xabbcb894af3318ca, 0x32906d4716ae9a13}},
	{32, [4]uint64{0x2f8c0e910326bb24, 0x2290ed41ba68906a, 0x6d10b5ff223d83df, 0xfa1ac3a22ba58fa7}},
	{64, [4]uint64{0x0ca2eeb504c79cb1, 0x650ab12fc6c6edf0, 0xbece423778da778b, 0x175ca34ac9c24394}},
	{128, [4]uint64{0xb5cf520a264dcaad, 0xb33b2e7c4df5707d, 0xaa9e6391019591cb, 0x17c5c99a2e286f5e}},
	{192, [4]uint64{0x664ea09482cea9f1, 0xdc2e94d3f0ef9d51, 0xe4030861b7a7c8b0, 0xe9815db97948f2b7}},
	{256, [4]uint64{0xbb405f88f5d22e6f, 0x9476b31032f22587, 0xf26c9fd634147142, 0x5473a62267c34544}},
	{320, [4]uint64{0x5cc93876edc2b41f, 0x63dbff9c94f48fde, 0x1012d2a836fbec7f, 0x16f367ea91fc3586}},
	{384, [4]uint64{0xdbe0128073612eed, 0x1594bbb754c1e6f6, 0x475152f605ff20e6, 0xdd275962019c7142}},
	{448, [4]uint64{0xd4f5cdeffa8126df, 0x34a0ec5d0f5c382a, 0x25ac0a260f7546ac, 0x633516089f5dab40}},
	{512, [4]uint64{0xaa06ece5c7953723, 0xcac3295602cf526f, 0xff7164b53ee2c05f, 0x3c6be20ca03266cb}},
	{8192, [4]uint64{0x0c75a875bcb35e5f, 0xa4fb74395c534e04, 0x49ed5650ecf7c098, 0x1946cc77b593a752}},
	{16384, [4]uint64{0x009f76e90af5855d, 0xa0a6dd02829f80a7, 0x2274c050a6b0a1ef, 0x467f72641047f79c}},
	{32768, [4]uint64{0x6ea4d00ee61ef695, 0x0415750783a6491a, 0x06b1772f2b198490, 0xa3d770f01bc06b3d}},
	{65536, [4]uint64{0x48435f04bde402d9, 0xf0e3dce47ce5c7b3, 0x21eef153a54ce209, 0xd8feeaf674f5e656}},
	{131072, [4]uint64{0x44ed406c57235711, 0x26139eecf28a980d, 0xd53ccbb3ba6b7231, 0x7c9c728b45736992}},
}

func runSha256TestVector(t *testing.T, h *Sha256, vector []byte) {
	t.Helper()

	for _, tc := range testVectorAChecksums {
		size := tc.size

		if size <= len(vector) {
			h.Reset()
			h.Update(vector[0:size])
			require.Equal(t, tc.checksum, h.Finalize(), "size %d", size)

			h.Reset()
			third := size / 3
			offset := 0
			h.Update(vector[0:third])
			offset += third
			h.Update(vector[offset : offset+third])
			offset += third
			h.Update(vector[offset:size])
			require.Equal(t, tc.checksum, h.Finalize(), "size %d partial", size)
		} else {
			todo := size
			h.Reset()
			for todo > 0 {
				canDo := todo
				if canDo > len(vector) {
					canDo = len(vector)
				}
				h.Update(vector[0:canDo])
				todo -= canDo
			}
			require.Equal(t, tc.checksum, h.Finalize(), "size %d", size)
		}
	}
}

func TestSha256Generic(t *testing.T) {
	vector := testVectorA[:]

	hBig, err := NewSha256(phys.BigEndian, Sha256Generic)
	require.NoError(t, err)
	runSha256TestVector(t, hBig, vector)

	hLittle, err := NewSha256(phys.LittleEndian, Sha256Generic)
	require.NoError(t, err)
	runSha256TestVector(t, hLittle, vector)
}

func TestSha256Implementations(t *testing.T) {
	impls := AllSha256Implementations()
	require.Len(t, impls, 1)
	require.Equal(t, Sha256Generic, impls[0])
	require.True(t, impls[0].IsSupported())
	require.Equal(t, "generic", impls[0].String())
}
