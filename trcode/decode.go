package trcode

import (
	"fmt"

	"github.com/tracerepair/tr/codec"
	"github.com/tracerepair/tr/internal/wire"
	"github.com/tracerepair/tr/tables"
)

// DecodeRequest mirrors the Inputs/ErasedIndexes/Outputs shape the Java
// ByteBufferDecodingState exposes, for callers that already hold backing
// arrays with offsets rather than clean per-helper slices.
type DecodeRequest struct {
	Inputs        [][]byte
	ErasedIndexes []int
	Outputs       [][]byte
	OutputOffsets []int
	DecodeLength  int
}

// Decode reconstructs the erasedIndex shard from the n-1 helper repair
// traces in helperBuffers. helperBuffers must be compacted in increasing
// helper-index order with erasedIndex's slot skipped, matching the
// liveIndices mapping reconstruct.Coordinator uses when dispatching reads.
func Decode(cfg codec.Config, helperBuffers [][]byte, erasedIndex int, l int) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateErasedIndex(erasedIndex); err != nil {
		return nil, err
	}
	if err := codec.ValidateEncodeLength(l); err != nil {
		return nil, err
	}
	if len(helperBuffers) != cfg.N()-1 {
		return nil, fmt.Errorf("%w: got %d helper buffers, want %d", codec.ErrInvalidArgument, len(helperBuffers), cfg.N()-1)
	}

	target := make([][tables.T]byte, l)
	for slot, buf := range helperBuffers {
		helperIndex := slot
		if slot >= erasedIndex {
			helperIndex = slot + 1
		}
		bw := tables.Bandwidth(helperIndex, erasedIndex)
		wantLen := wire.PackedLen(l, bw)
		if len(buf) != wantLen {
			return nil, fmt.Errorf("%w: helper %d buffer length %d, want %d", codec.ErrInvalidArgument, helperIndex, len(buf), wantLen)
		}
		bits := wire.UnpackBits(buf, l*bw)
		if len(bits) != l*bw {
			return nil, ErrCorruptInput
		}
		recovery := tables.RecoveryRow(helperIndex, erasedIndex)
		for p := 0; p < l; p++ {
			for s := 0; s < tables.T; s++ {
				mask := recovery.Masks[s]
				var colBit byte
				for a := 0; a < bw; a++ {
					maskBit := byte((mask >> (bw - 1 - a)) & 1)
					colBit ^= maskBit & bits[a*l+p]
				}
				target[p][s] ^= colBit
			}
		}
	}

	d := tables.DualBasis(erasedIndex)
	recovered := make([]byte, l)
	for p := 0; p < l; p++ {
		var v byte
		for s := 0; s < tables.T; s++ {
			if target[p][s] == 1 {
				v ^= d[s]
			}
		}
		recovered[p] = v
	}
	return recovered, nil
}

// DecodeBuffer is the offset/buffer-addressed equivalent of Decode for a
// single erasure; req.ErasedIndexes must contain exactly one index, per the
// single-erasure non-goal carried from spec.md.
func DecodeBuffer(cfg codec.Config, req DecodeRequest) error {
	if len(req.ErasedIndexes) != 1 {
		return fmt.Errorf("%w: DecodeBuffer supports exactly one erased index, got %d", codec.ErrInvalidArgument, len(req.ErasedIndexes))
	}
	if len(req.Outputs) != 1 || len(req.OutputOffsets) != 1 {
		return fmt.Errorf("%w: DecodeBuffer expects exactly one output buffer", codec.ErrInvalidArgument)
	}
	recovered, err := Decode(cfg, req.Inputs, req.ErasedIndexes[0], req.DecodeLength)
	if err != nil {
		return err
	}
	off := req.OutputOffsets[0]
	copy(req.Outputs[0][off:off+req.DecodeLength], recovered)
	return nil
}
