package reconstruct_test

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeRemoteReader is a deterministic, hand-rolled RemoteReader used where
// gomock's call-matching would add noise to a concurrency-heavy test: it
// serves bytes from a fixed buffer and can be told to fail Open or Read a
// fixed number of times before succeeding, modelling a helper that comes
// back after a retry.
type fakeRemoteReader struct {
	mu        sync.Mutex
	data      []byte
	pos       int
	failOpenN int
	failReadN int
	permanent bool
	// delayOnce, when set, blocks the first Read call until it elapses
	// (or the context is cancelled) before serving data, modelling a
	// helper that answers late enough to trip the coordinator's
	// per-wait timeout. Subsequent calls on the same reader answer
	// immediately.
	delayOnce time.Duration
	opened    bool
	closed    bool
}

func newFakeRemoteReader(data []byte) *fakeRemoteReader {
	return &fakeRemoteReader{data: data}
}

func (f *fakeRemoteReader) failOpenOnce(n int) *fakeRemoteReader {
	f.failOpenN = n
	return f
}

func (f *fakeRemoteReader) failPermanently() *fakeRemoteReader {
	f.permanent = true
	return f
}

func (f *fakeRemoteReader) delayFirstRead(d time.Duration) *fakeRemoteReader {
	f.delayOnce = d
	return f
}

func (f *fakeRemoteReader) failReadOnce(n int) *fakeRemoteReader {
	f.failReadN = n
	return f
}

func (f *fakeRemoteReader) Open(ctx context.Context, sourceIndex int, offset int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.permanent {
		return errBoomOpen
	}
	if f.failOpenN > 0 {
		f.failOpenN--
		return errBoomOpen
	}
	f.opened = true
	f.pos = int(offset)
	return nil
}

func (f *fakeRemoteReader) Read(ctx context.Context, p []byte) (int, error) {
	f.mu.Lock()
	delay := f.delayOnce
	f.delayOnce = 0
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.permanent {
		return 0, errBoomRead
	}
	if f.failReadN > 0 {
		f.failReadN--
		return 0, errBoomRead
	}
	n := copy(p, f.data[f.pos:])
	f.pos += n
	return n, nil
}

func (f *fakeRemoteReader) BlockLength() int64 {
	return int64(len(f.data))
}

func (f *fakeRemoteReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var (
	errBoomOpen = errors.New("fake: open failed")
	errBoomRead = errors.New("fake: read failed")
)
