package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tracerepair/tr/codec"
	"github.com/tracerepair/tr/internal/wire"
	"github.com/tracerepair/tr/metrics"
	"github.com/tracerepair/tr/reconstruct"
	"github.com/tracerepair/tr/tables"
	"github.com/tracerepair/tr/trcode"
)

// helperIndexForLiveSlot mirrors reconstruct's internal mapping (spec.md
// §4.E step 2); the CLI needs it to name trace files by stripe position
// while reconstruct.RepairRequest still speaks in pre-shift live indices.
func helperIndexForLiveSlot(liveIndex, erasedIndex int) int {
	if liveIndex < erasedIndex {
		return liveIndex
	}
	return liveIndex + 1
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "encode":
		err = runEncode(args)
	case "repair":
		err = runRepair(args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd+":", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: trrepair encode|repair [flags]")
}

// runEncode reads k data shard files named shard.0..shard.k-1 from -data,
// computes the m parity shards and every non-erased helper's repair trace
// for -erased, and writes shard.k..shard.n-1 and trace.0..trace.n-1 (minus
// the erased slot) into -out.
func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	dataDir := fs.String("data", ".", "directory holding shard.0..shard.k-1")
	outDir := fs.String("out", ".", "directory to write parity shards and traces into")
	erased := fs.Int("erased", -1, "index to compute traces for as if erased (still encodes all parities)")
	length := fs.Int("length", 0, "shard length in bytes; 0 infers from shard.0's file size")
	stripeID := fs.Uint64("stripe", 0, "stripe id stamped into each trace header")
	fs.Parse(args)

	cfg, err := codec.New(false)
	if err != nil {
		return err
	}

	dataShards := make([][]byte, cfg.NumDataUnits)
	l := *length
	for i := range dataShards {
		b, err := os.ReadFile(filepath.Join(*dataDir, fmt.Sprintf("shard.%d", i)))
		if err != nil {
			return fmt.Errorf("reading shard.%d: %w", i, err)
		}
		if l == 0 {
			l = len(b)
		}
		if len(b) != l {
			return fmt.Errorf("shard.%d has length %d, want %d", i, len(b), l)
		}
		dataShards[i] = b
	}

	j := *erased
	if j < 0 {
		j = cfg.NumDataUnits // arbitrary default: first parity slot
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	parities, traces, err := trcode.Encode(cfg, dataShards, j, nil)
	if err != nil {
		return err
	}
	for p, buf := range parities {
		path := filepath.Join(*outDir, fmt.Sprintf("shard.%d", cfg.NumDataUnits+p))
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return err
		}
	}
	for i, trace := range traces {
		if trace == nil {
			continue
		}
		header := wire.TraceHeader{
			Version:     1,
			ErasedIndex: uint8(j),
			HelperIndex: uint8(i),
			Bandwidth:   uint8(tables.Bandwidth(i, j)),
			StripeID:    *stripeID,
			TraceLen:    uint32(len(trace)),
		}
		framed := append(header.MarshalBinary(nil), trace...)
		path := filepath.Join(*outDir, fmt.Sprintf("trace.%d", i))
		if err := os.WriteFile(path, framed, 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("encoded %d parity shards, %d traces into %s\n", len(parities), cfg.N()-1, *outDir)
	return nil
}

// runRepair drives the coordinator against trace.* files in -dir to
// recover the shard at -erased, writing it to -out.
func runRepair(args []string) error {
	fs := flag.NewFlagSet("repair", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory holding trace.0..trace.n-1 (minus the erased slot)")
	out := fs.String("out", "recovered.bin", "path to write the recovered shard to")
	erased := fs.Int("erased", 0, "index of the erased shard")
	length := fs.Int("length", 8, "shard length in bytes")
	timeout := fs.Duration("timeout", 2*time.Second, "per-wait striped read timeout")
	configPath := fs.String("config", "", "optional JSON config file overriding -timeout and buffer size")
	stripeID := fs.Uint64("stripe", 0, "stripe id expected in each trace header")
	fs.Parse(args)

	cfg, err := codec.New(false)
	if err != nil {
		return err
	}

	fc, err := loadFileConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", *configPath, err)
	}
	rcCfg := reconstruct.Config{
		StripedReadTimeout:    *timeout,
		StripedReadBufferSize: fc.StripedReadBufferSize,
	}
	if t := fc.timeout(); t > 0 {
		rcCfg.StripedReadTimeout = t
	}

	coord := reconstruct.NewCoordinator(rcCfg)
	defer metrics.Shutdown()

	liveIndices := make([]int, cfg.N()-1)
	for i := range liveIndices {
		liveIndices[i] = i
	}
	newSource := func(liveIndex int) reconstruct.RemoteReader {
		h := helperIndexForLiveSlot(liveIndex, *erased)
		return newFileRemoteReader(*dir, h, *erased, *stripeID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	recovered, err := coord.Repair(ctx, cfg, reconstruct.RepairRequest{
		ErasedIndex:  *erased,
		LiveIndices:  liveIndices,
		NewSource:    newSource,
		BlockLength:  int64(*length),
		BlockGroupID: filepath.Base(*dir),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, recovered, 0o644); err != nil {
		return err
	}
	fmt.Printf("recovered shard %d (%d bytes) into %s\n", *erased, len(recovered), *out)
	return nil
}
