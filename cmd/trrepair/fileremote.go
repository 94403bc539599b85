package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tracerepair/tr/internal/wire"
	"github.com/tracerepair/tr/tables"
)

// fileRemoteReader implements reconstruct.RemoteReader over a trace file on
// local disk, standing in for the transport-level helper endpoint spec.md
// §1 places out of scope. Good enough for driving the coordinator end to
// end from the CLI; a real deployment swaps this for a network client.
//
// Each trace.N file on disk is framed with a wire.TraceHeader (the same
// header runEncode stamps on write), so Open rejects a trace file that
// belongs to the wrong stripe or erased index before the coordinator ever
// sees its bytes.
type fileRemoteReader struct {
	dir         string
	helperIndex int
	erasedIndex int
	stripeID    uint64
	f           *os.File
	size        int64
}

func newFileRemoteReader(dir string, helperIndex, erasedIndex int, stripeID uint64) *fileRemoteReader {
	return &fileRemoteReader{dir: dir, helperIndex: helperIndex, erasedIndex: erasedIndex, stripeID: stripeID}
}

func (r *fileRemoteReader) Open(ctx context.Context, sourceIndex int, offset int64) error {
	path := filepath.Join(r.dir, fmt.Sprintf("trace.%d", r.helperIndex))
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	headerBuf := make([]byte, wire.HeaderLen)
	if _, err := f.Read(headerBuf); err != nil {
		f.Close()
		return fmt.Errorf("reading trace header from %s: %w", path, err)
	}
	var h wire.TraceHeader
	if !h.UnmarshalBinary(headerBuf) {
		f.Close()
		return fmt.Errorf("%s: truncated trace header", path)
	}
	if int(h.ErasedIndex) != r.erasedIndex {
		f.Close()
		return fmt.Errorf("%s: header erased index %d, want %d", path, h.ErasedIndex, r.erasedIndex)
	}
	if int(h.HelperIndex) != r.helperIndex {
		f.Close()
		return fmt.Errorf("%s: header helper index %d, want %d", path, h.HelperIndex, r.helperIndex)
	}
	wantBW := tables.Bandwidth(r.helperIndex, r.erasedIndex)
	if int(h.Bandwidth) != wantBW {
		f.Close()
		return fmt.Errorf("%s: header bandwidth %d, want %d", path, h.Bandwidth, wantBW)
	}
	if h.StripeID != r.stripeID {
		f.Close()
		return fmt.Errorf("%s: header stripe id %d, want %d", path, h.StripeID, r.stripeID)
	}

	if _, err := f.Seek(int64(wire.HeaderLen)+offset, 0); err != nil {
		f.Close()
		return err
	}
	r.f = f
	r.size = int64(h.TraceLen)
	return nil
}

func (r *fileRemoteReader) Read(ctx context.Context, p []byte) (int, error) {
	return r.f.Read(p)
}

func (r *fileRemoteReader) BlockLength() int64 { return r.size }

func (r *fileRemoteReader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}
