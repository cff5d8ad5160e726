package checksum

import (
	"fmt"

	"github.com/scigolib/zfsphys/internal/phys"
)

const (
	sha256BlockSize = 64
	sha256WordCount = 8
)

// Sha256Implementation selects among the available SHA-256 engine
// backends. Only a portable generic implementation is provided; no
// SIMD variants.
type Sha256Implementation uint8

const (
	Sha256Generic Sha256Implementation = iota
)

func (i Sha256Implementation) String() string {
	switch i {
	case Sha256Generic:
		return "generic"
	default:
		return fmt.Sprintf("Sha256Implementation(%d)", uint8(i))
	}
}

// IsSupported reports whether the implementation is available on this
// build.
func (i Sha256Implementation) IsSupported() bool {
	return i == Sha256Generic
}

// AllSha256Implementations lists every Sha256Implementation this
// build knows about, whether or not each is supported at runtime.
func AllSha256Implementations() []Sha256Implementation {
	return []Sha256Implementation{Sha256Generic}
}

var sha256H = [sha256WordCount]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Sha256 is a streaming SHA-256 (FIPS 180-4) checksum engine, the
// implementation backing phys.ChecksumSha256. The byte order it is
// constructed with has no bearing on the digest itself — it is
// recorded only so construction can be rejected uniformly alongside
// other checksum algorithms that are order-sensitive.
type Sha256 struct {
	order          phys.EndianOrder
	implementation Sha256Implementation

	bytesProcessed uint64
	bufferFill     int
	buffer         [sha256BlockSize]byte
	state          [sha256WordCount]uint32
}

// NewSha256 constructs a Sha256 engine. Returns UnsupportedError if
// implementation is not available.
func NewSha256(order phys.EndianOrder, implementation Sha256Implementation) (*Sha256, error) {
	if !implementation.IsSupported() {
		return nil, &UnsupportedError{
			Checksum:       phys.ChecksumSha256,
			Order:          order,
			Implementation: implementation.String(),
		}
	}
	h := &Sha256{order: order, implementation: implementation}
	h.Reset()
	return h, nil
}

// Reset restores the engine to its initial state.
func (h *Sha256) Reset() {
	h.bytesProcessed = 0
	h.bufferFill = 0
	h.buffer = [sha256BlockSize]byte{}
	h.state = sha256H
}

func sha256UpdateBlocksGeneric(state *[sha256WordCount]uint32, data []byte) {
	for len(data) >= sha256BlockSize {
		block := data[:sha256BlockSize]
		data = data[sha256BlockSize:]

		var w [64]uint32
		for i := 0; i < 16; i++ {
			w[i] = uint32(block[i*4])<<24 | uint32(block[i*4+1])<<16 |
				uint32(block[i*4+2])<<8 | uint32(block[i*4+3])
		}
		for i := 16; i < 64; i++ {
			s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
			s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}

		a, b, c, d := state[0], state[1], state[2], state[3]
		e, f, g, hh := state[4], state[5], state[6], state[7]

		for i := 0; i < 64; i++ {
			s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
			ch := (e & f) ^ (^e & g)
			temp1 := hh + s1 + ch + sha256K[i] + w[i]
			s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
			maj := (a & b) ^ (a & c) ^ (b & c)
			temp2 := s0 + maj

			hh = g
			g = f
			f = e
			e = d + temp1
			d = c
			c = b
			b = a
			a = temp1 + temp2
		}

		state[0] += a
		state[1] += b
		state[2] += c
		state[3] += d
		state[4] += e
		state[5] += f
		state[6] += g
		state[7] += hh
	}
}

func rotr32(v uint32, n uint) uint32 {
	return (v >> n) | (v << (32 - n))
}

// Update feeds data into the running checksum.
func (h *Sha256) Update(data []byte) {
	if h.bufferFill > 0 {
		todo := sha256BlockSize - h.bufferFill
		if todo > len(data) {
			todo = len(data)
		}
		copy(h.buffer[h.bufferFill:h.bufferFill+todo], data[:todo])
		h.bufferFill += todo
		data = data[todo:]

		if h.bufferFill == sha256BlockSize {
			h.bytesProcessed += sha256BlockSize
			sha256UpdateBlocksGeneric(&h.state, h.buffer[:h.bufferFill])
			h.bufferFill = 0
		}
	}

	remainder := len(data) % sha256BlockSize
	fullBlocksData := data[:len(data)-remainder]
	h.bytesProcessed += uint64(len(fullBlocksData))
	sha256UpdateBlocksGeneric(&h.state, fullBlocksData)

	if remainder > 0 {
		copy(h.buffer[0:remainder], data[len(data)-remainder:])
		h.bufferFill = remainder
	}
}

// Finalize pads and processes the final block, returning the 256-bit
// digest as four big-endian-packed u64 words. The engine is left in
// an unusable state until Reset is called again.
func (h *Sha256) Finalize() [4]uint64 {
	byteLength := h.bytesProcessed + uint64(h.bufferFill)
	bitLength := byteLength * 8

	if h.bufferFill > sha256BlockSize-9 {
		for h.bufferFill < sha256BlockSize {
			h.buffer[h.bufferFill] = 0
			h.bufferFill++
		}
		h.bufferFill = 0
		sha256UpdateBlocksGeneric(&h.state, h.buffer[:sha256BlockSize])
	}

	h.buffer[h.bufferFill] = 0x80
	h.bufferFill++

	for h.bufferFill < sha256BlockSize-8 {
		h.buffer[h.bufferFill] = 0
		h.bufferFill++
	}

	for i := 0; i < 8; i++ {
		h.buffer[sha256BlockSize-8+i] = byte(bitLength >> (56 - 8*i))
	}

	sha256UpdateBlocksGeneric(&h.state, h.buffer[:sha256BlockSize])

	return [4]uint64{
		uint64(h.state[0])<<32 | uint64(h.state[1]),
		uint64(h.state[2])<<32 | uint64(h.state[3]),
		uint64(h.state[4])<<32 | uint64(h.state[5]),
		uint64(h.state[6])<<32 | uint64(h.state[7]),
	}
}
