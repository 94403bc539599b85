// Package wire implements the bit-packed repair-trace wire format: the
// MSB-first packing convention spec §4.D/§6 fixes as the interoperability
// contract between encoder and decoder, plus the small binary header used to
// frame a trace on the network. Grounded on the teacher's fecwire.FECHeader
// (same field-by-field binary.LittleEndian marshal style), generalized from
// a fixed-scheme FEC header to the TR repair-trace header.
package wire

import "encoding/binary"

// ChunkSize is the unit striped reads and trace buffers are aligned to,
// mirroring DFSUtilClient.CHUNK_SIZE in the Hadoop original this component
// was distilled from.
const ChunkSize = 64 * 1024

// PackBits packs a slice of 0/1 values MSB-first into bytes: bit a of the
// input lands at bit (7 - a%8) of byte a/8. The caller is responsible for
// only ever packing the bits a given bandwidth actually produces; trailing
// bits in the final byte beyond len(bits) are zero.
func PackBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for a, bit := range bits {
		if bit == 0 {
			continue
		}
		out[a/8] |= 1 << (7 - uint(a%8))
	}
	return out
}

// UnpackBits reverses PackBits, returning exactly count 0/1 values.
func UnpackBits(packed []byte, count int) []byte {
	out := make([]byte, count)
	for a := 0; a < count; a++ {
		byteIdx, bitIdx := a/8, 7-uint(a%8)
		if byteIdx < len(packed) && packed[byteIdx]&(1<<bitIdx) != 0 {
			out[a] = 1
		}
	}
	return out
}

// PackedLen returns ceil(l*bw/8), the number of bytes a repair trace of l
// input bytes at bandwidth bw occupies once packed — the length contract
// from spec §8 property 3.
func PackedLen(l, bw int) int {
	bits := l * bw
	return (bits + 7) / 8
}

// TraceHeader frames one helper's repair trace on the network: which stripe,
// which node is being repaired, which helper sent it, and how many packed
// bytes follow.
type TraceHeader struct {
	Version     uint8
	ErasedIndex uint8
	HelperIndex uint8
	Bandwidth   uint8
	Flags       uint8
	StripeID    uint64
	TraceLen    uint32 // packed payload length in bytes
}

// HeaderLen is the fixed marshaled size of TraceHeader in bytes.
const HeaderLen = 1 + 1 + 1 + 1 + 1 + 8 + 4

// MarshalBinary writes h into b, growing b if it is too small, and returns
// the header-sized prefix.
func (h *TraceHeader) MarshalBinary(b []byte) []byte {
	if len(b) < HeaderLen {
		b = make([]byte, HeaderLen)
	}
	b[0] = h.Version
	b[1] = h.ErasedIndex
	b[2] = h.HelperIndex
	b[3] = h.Bandwidth
	b[4] = h.Flags
	binary.LittleEndian.PutUint64(b[5:13], h.StripeID)
	binary.LittleEndian.PutUint32(b[13:17], h.TraceLen)
	return b[:HeaderLen]
}

// UnmarshalBinary reads h from b. It reports false if b is too short.
func (h *TraceHeader) UnmarshalBinary(b []byte) bool {
	if len(b) < HeaderLen {
		return false
	}
	h.Version = b[0]
	h.ErasedIndex = b[1]
	h.HelperIndex = b[2]
	h.Bandwidth = b[3]
	h.Flags = b[4]
	h.StripeID = binary.LittleEndian.Uint64(b[5:13])
	h.TraceLen = binary.LittleEndian.Uint32(b[13:17])
	return true
}
