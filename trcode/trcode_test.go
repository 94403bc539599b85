package trcode_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tracerepair/tr/codec"
	"github.com/tracerepair/tr/trcode"
)

func compactHelperBuffers(traces [][]byte, erasedIndex int) [][]byte {
	out := make([][]byte, 0, len(traces)-1)
	for i, t := range traces {
		if i == erasedIndex {
			continue
		}
		out = append(out, t)
	}
	return out
}

func TestEncodeDecodeRoundTripEveryErasedIndex(t *testing.T) {
	cfg, err := codec.New(false)
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	l := 8
	dataShards := make([][]byte, cfg.NumDataUnits)
	for i := range dataShards {
		dataShards[i] = make([]byte, l)
		for b := range dataShards[i] {
			dataShards[i][b] = byte(i*37 + b*11 + 3)
		}
	}

	for erased := 0; erased < cfg.N(); erased++ {
		parities, traces, err := trcode.Encode(cfg, dataShards, erased, nil)
		if err != nil {
			t.Fatalf("erased=%d: Encode: %v", erased, err)
		}
		shards := make([][]byte, cfg.N())
		copy(shards, dataShards)
		copy(shards[cfg.NumDataUnits:], parities)

		want := shards[erased]
		// erased shard's own trace slot must be empty
		if traces[erased] != nil {
			t.Fatalf("erased=%d: traces[erased] = %v, want nil", erased, traces[erased])
		}

		helperBuffers := compactHelperBuffers(traces, erased)
		got, err := trcode.Decode(cfg, helperBuffers, erased, l)
		if err != nil {
			t.Fatalf("erased=%d: Decode: %v", erased, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("erased=%d: recovered %v, want %v", erased, got, want)
		}
	}
}

func TestEncodeRejectsWrongDataShardCount(t *testing.T) {
	cfg, _ := codec.New(false)
	if _, _, err := trcode.Encode(cfg, make([][]byte, cfg.NumDataUnits-1), 0, nil); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEncodeRejectsNonMultipleOf8Length(t *testing.T) {
	cfg, _ := codec.New(false)
	dataShards := make([][]byte, cfg.NumDataUnits)
	for i := range dataShards {
		dataShards[i] = make([]byte, 5)
	}
	if _, _, err := trcode.Encode(cfg, dataShards, 0, nil); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDecodeRejectsWrongHelperCount(t *testing.T) {
	cfg, _ := codec.New(false)
	if _, err := trcode.Decode(cfg, make([][]byte, cfg.N()-2), 0, 8); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDecodeRejectsBadBufferLength(t *testing.T) {
	cfg, _ := codec.New(false)
	bufs := make([][]byte, cfg.N()-1)
	for i := range bufs {
		bufs[i] = make([]byte, 1) // wrong length for bw=8, l=8 (want 8 bytes)
	}
	if _, err := trcode.Decode(cfg, bufs, 0, 8); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEncodeComputesEveryNonErasedTraceRegardlessOfRequestedNode(t *testing.T) {
	cfg, _ := codec.New(false)
	l := 8
	dataShards := make([][]byte, cfg.NumDataUnits)
	for i := range dataShards {
		dataShards[i] = make([]byte, l)
	}
	requested := 2
	_, traces, err := trcode.Encode(cfg, dataShards, 0, &requested)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 1; i < cfg.N(); i++ {
		if traces[i] == nil {
			t.Fatalf("traces[%d] is nil, want a computed trace regardless of RequestedNodeIndex", i)
		}
	}
}

func TestEncodeBufferDecodeBufferRoundTrip(t *testing.T) {
	cfg, _ := codec.New(false)
	l := 8
	backing := make([][]byte, cfg.NumDataUnits)
	inOff := make([]int, cfg.NumDataUnits)
	for i := range backing {
		backing[i] = make([]byte, l+4)
		inOff[i] = 4
		for b := 0; b < l; b++ {
			backing[i][4+b] = byte(i + b)
		}
	}
	parityBacking := make([][]byte, cfg.NumParityUnits)
	outOff := make([]int, cfg.NumParityUnits)
	for p := range parityBacking {
		parityBacking[p] = make([]byte, l+2)
		outOff[p] = 2
	}
	erased := 0
	traces, err := trcode.EncodeBuffer(cfg, trcode.EncodeRequest{
		Inputs:        backing,
		InputOffsets:  inOff,
		Outputs:       parityBacking,
		OutputOffsets: outOff,
		EncodeLength:  l,
		ErasedIndex:   erased,
	})
	if err != nil {
		t.Fatalf("EncodeBuffer: %v", err)
	}

	dataShards := make([][]byte, cfg.NumDataUnits)
	for i := range backing {
		dataShards[i] = backing[i][inOff[i] : inOff[i]+l]
	}
	shards := make([][]byte, cfg.N())
	copy(shards, dataShards)
	for p := range parityBacking {
		shards[cfg.NumDataUnits+p] = parityBacking[p][outOff[p] : outOff[p]+l]
	}
	want := shards[erased]

	helperBuffers := compactHelperBuffers(traces, erased)
	outBacking := make([]byte, l+6)
	if err := trcode.DecodeBuffer(cfg, trcode.DecodeRequest{
		Inputs:        helperBuffers,
		ErasedIndexes: []int{erased},
		Outputs:       [][]byte{outBacking},
		OutputOffsets: []int{6},
		DecodeLength:  l,
	}); err != nil {
		t.Fatalf("DecodeBuffer: %v", err)
	}
	if !bytes.Equal(outBacking[6:6+l], want) {
		t.Fatalf("recovered %v, want %v", outBacking[6:6+l], want)
	}
}
