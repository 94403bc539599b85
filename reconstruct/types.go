// Package reconstruct implements the repair coordinator: the component
// that drives bounded-concurrency reads from a stripe's surviving helper
// shards, reschedules around slow or failed sources, and feeds the
// collected traces to trcode.Decode. Grounded on
// _examples/original_source's StripedReader.java doReadMinimumSources/
// scheduleNewRead protocol, translated into goroutines, channels and
// context.Context the way the teacher's fecquic/rxbuf.go worker pool is
// built: a single driver goroutine, a bounded number of read goroutines,
// and a sync.Pool for read buffers.
package reconstruct

import (
	"context"
	"errors"
)

// RemoteReader is the external collaborator boundary spec.md §1 calls out:
// a transport-level handle onto one helper's on-disk block.
type RemoteReader interface {
	Open(ctx context.Context, sourceIndex int, offset int64) error
	Read(ctx context.Context, p []byte) (int, error)
	BlockLength() int64
	Close() error
}

// SourceFactory builds a fresh RemoteReader for the given RepairRequest
// LiveIndices entry (pre-shift numbering, not the stripe position). Called both at initialization and whenever scheduleNewRead needs to try
// an untried or revisited candidate.
type SourceFactory func(sourceIndex int) RemoteReader

var (
	// ErrInsufficientSources is returned when fewer than n-1 helpers could
	// be read after all rescheduling attempts were exhausted.
	ErrInsufficientSources = errors.New("reconstruct: insufficient sources")

	// ErrCancelled is returned when the caller's context is cancelled
	// before the repair completes.
	ErrCancelled = errors.New("reconstruct: cancelled")

	// errSourceReadFailure is returned by scheduleNewRead when no candidate
	// is left to try. After a timeout the coordinator ignores it; after a
	// failed read it is returned to the caller wrapped together with
	// ErrInsufficientSources.
	errSourceReadFailure = errors.New("reconstruct: source read failure")
)

// RepairRequest describes one repair iteration.
type RepairRequest struct {
	// ErasedIndex is the stripe position being repaired.
	ErasedIndex int
	// LiveIndices lists candidate helper positions in the pre-shift
	// numbering described in spec.md §4.E step 2: liveIndices[s] maps to
	// stripe position liveIndices[s] if liveIndices[s] < ErasedIndex, else
	// liveIndices[s]+1.
	LiveIndices []int
	// NewSource builds a reader for a given LiveIndices entry.
	NewSource SourceFactory
	// BlockLength is the number of bytes to reconstruct for this block.
	BlockLength int64
	// BlockGroupID identifies the block group for error messages and
	// metrics labels.
	BlockGroupID string
}
