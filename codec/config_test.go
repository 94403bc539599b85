package codec_test

import (
	"errors"
	"testing"

	"github.com/tracerepair/tr/codec"
)

func TestNewDefaultProfile(t *testing.T) {
	cfg, err := codec.New(false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.N() != 9 {
		t.Fatalf("N() = %d, want 9", cfg.N())
	}
	if cfg.NumDataUnits != 6 || cfg.NumParityUnits != 3 {
		t.Fatalf("unexpected k/m: %d/%d", cfg.NumDataUnits, cfg.NumParityUnits)
	}
}

func TestValidateRejectsOversizedUnits(t *testing.T) {
	cfg := codec.Config{NumDataUnits: 200, NumParityUnits: 100, CodecName: codec.Name}
	if err := cfg.Validate(); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("Validate() = %v, want ErrInvalidArgument", err)
	}
}

func TestValidateErasedIndexRange(t *testing.T) {
	cfg, _ := codec.New(false)
	if err := cfg.ValidateErasedIndex(-1); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for -1, got %v", err)
	}
	if err := cfg.ValidateErasedIndex(cfg.N()); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for n, got %v", err)
	}
	if err := cfg.ValidateErasedIndex(0); err != nil {
		t.Fatalf("ValidateErasedIndex(0) = %v, want nil", err)
	}
}

func TestValidateEncodeLength(t *testing.T) {
	if err := codec.ValidateEncodeLength(7); !errors.Is(err, codec.ErrInvalidArgument) {
		t.Fatalf("expected error for non-multiple-of-8 length, got %v", err)
	}
	if err := codec.ValidateEncodeLength(8); err != nil {
		t.Fatalf("ValidateEncodeLength(8) = %v, want nil", err)
	}
}
