package trcode

import (
	"fmt"

	"github.com/tracerepair/tr/codec"
	"github.com/tracerepair/tr/gf"
	"github.com/tracerepair/tr/internal/wire"
	"github.com/tracerepair/tr/tables"
)

// EncodeRequest mirrors the offset/buffer shape TRRawEncoder.doEncode takes
// a ByteBufferEncodingState as — useful when the caller already owns large
// backing arrays and wants to avoid allocating k fresh per-shard slices.
type EncodeRequest struct {
	Inputs             [][]byte
	InputOffsets       []int
	Outputs            [][]byte // parity buffers, length m
	OutputOffsets      []int
	EncodeLength       int
	RequestedNodeIndex *int
	ErasedIndex        int
}

// Encode RS-encodes k data shards into m parity shards and, for every
// non-erased position, emits the bit-packed repair trace targeting
// erasedIndex. traces[erasedIndex] is nil. requestedNode is accepted for
// API symmetry with the Java original's per-request node hint but never
// narrows the computed set — see DESIGN.md's Design Note on this; the
// coordinator, not the encoder, decides which traces it actually needs.
func Encode(cfg codec.Config, dataShards [][]byte, erasedIndex int, requestedNode *int) (parities [][]byte, traces [][]byte, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.ValidateErasedIndex(erasedIndex); err != nil {
		return nil, nil, err
	}
	if requestedNode != nil {
		if err := cfg.ValidateErasedIndex(*requestedNode); err != nil {
			return nil, nil, fmt.Errorf("requestedNode: %w", err)
		}
	}
	if len(dataShards) != cfg.NumDataUnits {
		return nil, nil, fmt.Errorf("%w: got %d data shards, want %d", codec.ErrInvalidArgument, len(dataShards), cfg.NumDataUnits)
	}
	l := len(dataShards[0])
	if err := codec.ValidateEncodeLength(l); err != nil {
		return nil, nil, err
	}
	for i, d := range dataShards {
		if len(d) != l {
			return nil, nil, fmt.Errorf("%w: data shard %d has length %d, want %d", codec.ErrInvalidArgument, i, len(d), l)
		}
	}

	matrix, err := gf.GenCauchyMatrix(cfg.N(), cfg.NumDataUnits)
	if err != nil {
		return nil, nil, err
	}
	gfTables := gf.InitTables(cfg.NumDataUnits, cfg.NumParityUnits, matrix)

	parities = make([][]byte, cfg.NumParityUnits)
	parityOff := make([]int, cfg.NumParityUnits)
	dataOff := make([]int, cfg.NumDataUnits)
	for p := range parities {
		parities[p] = make([]byte, l)
	}
	if err := gf.EncodeData(gfTables, cfg.NumDataUnits, cfg.NumParityUnits, l, dataShards, dataOff, parities, parityOff); err != nil {
		return nil, nil, err
	}

	shards := make([][]byte, cfg.N())
	copy(shards, dataShards)
	copy(shards[cfg.NumDataUnits:], parities)

	traces = make([][]byte, cfg.N())
	for i := 0; i < cfg.N(); i++ {
		if i == erasedIndex {
			continue
		}
		traces[i] = buildTrace(shards[i], i, erasedIndex, l)
	}
	return parities, traces, nil
}

// buildTrace packs helper i's repair trace toward erasedIndex: all a=0 bits
// across byte positions first, then a=1, ... then a=bw-1, MSB-first within
// each output byte.
func buildTrace(shard []byte, helperIndex, erasedIndex, l int) []byte {
	bw := tables.Bandwidth(helperIndex, erasedIndex)
	coeffs := tables.HelperRow(helperIndex, erasedIndex).Coeffs
	bits := make([]byte, 0, l*bw)
	for a := 0; a < bw; a++ {
		for p := 0; p < l; p++ {
			bits = append(bits, parity8(coeffs[a]&shard[p]))
		}
	}
	return wire.PackBits(bits)
}

// EncodeBuffer is the offset/buffer-addressed equivalent of Encode, for
// callers holding pre-allocated backing arrays instead of clean per-shard
// slices — the byte-array-equivalent of the bit-buffer path TRRawEncoder
// left unimplemented (see DESIGN.md Design Note on §4.C).
func EncodeBuffer(cfg codec.Config, req EncodeRequest) (traces [][]byte, err error) {
	if len(req.Inputs) != len(req.InputOffsets) {
		return nil, fmt.Errorf("%w: inputs/inputOffsets length mismatch", codec.ErrInvalidArgument)
	}
	if len(req.Outputs) != len(req.OutputOffsets) {
		return nil, fmt.Errorf("%w: outputs/outputOffsets length mismatch", codec.ErrInvalidArgument)
	}
	dataShards := make([][]byte, len(req.Inputs))
	for i, buf := range req.Inputs {
		off := req.InputOffsets[i]
		dataShards[i] = buf[off : off+req.EncodeLength]
	}
	parities, traces, err := Encode(cfg, dataShards, req.ErasedIndex, req.RequestedNodeIndex)
	if err != nil {
		return nil, err
	}
	if len(req.Outputs) != len(parities) {
		return nil, fmt.Errorf("%w: outputs length %d, want %d parity shards", codec.ErrInvalidArgument, len(req.Outputs), len(parities))
	}
	for p, dst := range req.Outputs {
		off := req.OutputOffsets[p]
		copy(dst[off:off+req.EncodeLength], parities[p])
	}
	return traces, nil
}
