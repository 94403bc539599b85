package reconstruct

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tracerepair/tr/codec"
	"github.com/tracerepair/tr/metrics"
	"github.com/tracerepair/tr/trcode"
)

// Coordinator drives one stripe repair at a time. A Coordinator is safe for
// concurrent use by multiple callers; each Repair call gets its own driver
// goroutine and buffer checkouts.
type Coordinator struct {
	cfg  Config
	pool *bufferPool
	sink *metrics.Sink
}

// NewCoordinator builds a Coordinator with cfg's tunables, filling in
// defaults for anything left zero.
func NewCoordinator(cfg Config) *Coordinator {
	cfg.setDefaults()
	return &Coordinator{
		cfg:  cfg,
		pool: newBufferPool(cfg.StripedReadBufferSize),
		sink: metrics.Default(),
	}
}

// Xmits reports the number of helper reads a single repair requires —
// n-1, the minRequired invariant from spec.md §3 — for callers that want
// to account for repair bandwidth without duplicating the constant.
func (c *Coordinator) Xmits(cfg codec.Config) int { return cfg.N() - 1 }

type readOutcome struct {
	slot int
	buf  []byte
	n    int
	err  error
}

// helperIndexForLiveSlot maps a liveIndices entry onto its stripe position
// in the n-slot helper-table addressing, per spec.md §4.E step 2.
func helperIndexForLiveSlot(liveIndex, erasedIndex int) int {
	if liveIndex < erasedIndex {
		return liveIndex
	}
	return liveIndex + 1
}

// Repair runs one full protocol iteration: open readers for the first
// minRequired candidates, dispatch reads, collect outcomes with per-wait
// timeout, reschedule around failures, and decode once minRequired helpers
// have answered.
func (c *Coordinator) Repair(ctx context.Context, cfg codec.Config, req RepairRequest) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateErasedIndex(req.ErasedIndex); err != nil {
		return nil, err
	}
	minRequired := cfg.N() - 1
	label := fmt.Sprintf("repair:%s:erased=%d", req.BlockGroupID, req.ErasedIndex)
	c.sink.Start(label)

	readers := make([]RemoteReader, len(req.LiveIndices))
	usedFlag := make([]bool, len(req.LiveIndices))
	var successList []int
	nextCandidate := 0

	openNext := func() (int, bool) {
		for nextCandidate < len(req.LiveIndices) {
			s := nextCandidate
			nextCandidate++
			r := req.NewSource(req.LiveIndices[s])
			if err := r.Open(ctx, req.LiveIndices[s], 0); err != nil {
				c.sink.HelperReadFailed()
				continue
			}
			readers[s] = r
			usedFlag[s] = true
			return s, true
		}
		return 0, false
	}

	for len(successList) < minRequired {
		s, ok := openNext()
		if !ok {
			c.sink.EndWithError(label, ErrInsufficientSources)
			return nil, fmt.Errorf("repair %s: %w", req.BlockGroupID, ErrInsufficientSources)
		}
		successList = append(successList, s)
	}

	outcomes := make(chan readOutcome, len(req.LiveIndices))
	// A zero-value errgroup.Group stands in for the teacher's bounded
	// decode-worker fan-out (rxbuf.go), used here purely for its Go/Wait
	// pairing: every read goroutine always reports its own outcome on the
	// channel, so there is nothing for errgroup's first-error short-circuit
	// to act on, but it is still the cleaner way to track "all dispatched
	// reads have returned" than a bare sync.WaitGroup.
	var wg errgroup.Group
	inFlightCancel := map[int]context.CancelFunc{}

	// dispatch is only ever called from the driver goroutine (the initial
	// fan-out loop below or scheduleNewRead from inside the select loop),
	// so it is safe to read readers[slot] here; the spawned goroutine gets
	// its own copy r and never touches the shared slice, which a
	// rescheduled reopen of the same slot will go on to mutate.
	dispatch := func(slot int) {
		r := readers[slot]
		toRead := r.BlockLength()
		if toRead > req.BlockLength {
			toRead = req.BlockLength
		}
		rctx, cancel := context.WithCancel(ctx)
		inFlightCancel[slot] = cancel
		wg.Go(func() error {
			if toRead == 0 {
				outcomes <- readOutcome{slot: slot, buf: nil}
				return nil
			}
			buf := c.pool.get()[:toRead]
			n, err := readFull(rctx, r, buf)
			outcomes <- readOutcome{slot: slot, buf: buf, n: n, err: err}
			return nil
		})
	}

	for _, s := range successList {
		dispatch(s)
	}

	inputs := make([][]byte, cfg.N())
	newSuccessCount := 0
	// resolved is a defensive guard against counting a slot twice. A
	// timed-out read is never cancelled (spec.md §4.E step 5 — timeout
	// reschedules, it does not abort), but a slot is only reopened after
	// its previous read has reported an error, so each slot has at most
	// one read in flight. Once a slot has produced a counted outcome, any
	// further outcome for it is dropped and its buffer returned to the pool.
	resolved := make([]bool, len(req.LiveIndices))

	cleanup := func() {
		for _, cancel := range inFlightCancel {
			cancel()
		}
		wg.Wait()
		close(outcomes)
		for leftover := range outcomes {
			if leftover.buf != nil {
				c.pool.put(leftover.buf)
			}
		}
		for _, r := range readers {
			if r != nil {
				_ = r.Close()
			}
		}
	}

	for newSuccessCount < minRequired {
		select {
		case <-ctx.Done():
			cleanup()
			c.sink.EndWithError(label, ErrCancelled)
			return nil, fmt.Errorf("repair %s: %w", req.BlockGroupID, ErrCancelled)

		case outcome := <-outcomes:
			if resolved[outcome.slot] {
				// A second outcome for a slot that has already been counted.
				if outcome.buf != nil {
					c.pool.put(outcome.buf)
				}
				continue
			}
			delete(inFlightCancel, outcome.slot)
			if outcome.err != nil {
				c.sink.HelperReadFailed()
				readers[outcome.slot].Close()
				readers[outcome.slot] = nil
				if err := c.scheduleNewRead(ctx, req, readers, usedFlag, &nextCandidate, dispatch); err != nil {
					cleanup()
					finalErr := fmt.Errorf("repair %s: %w: %w", req.BlockGroupID, ErrInsufficientSources, err)
					c.sink.EndWithError(label, finalErr)
					return nil, finalErr
				}
				continue
			}
			resolved[outcome.slot] = true
			liveIndex := req.LiveIndices[outcome.slot]
			helperIndex := helperIndexForLiveSlot(liveIndex, req.ErasedIndex)
			inputs[helperIndex] = padToLength(outcome.buf[:outcome.n], req.BlockLength)
			newSuccessCount++

		case <-time.After(c.cfg.StripedReadTimeout):
			c.sink.Mark(label + ":timeout")
			_ = c.scheduleNewRead(ctx, req, readers, usedFlag, &nextCandidate, dispatch)
		}
	}

	cleanup()

	for i := range inputs {
		if inputs[i] == nil && i != req.ErasedIndex {
			inputs[i] = make([]byte, req.BlockLength)
		}
	}
	helperBuffers := compactHelperInputs(inputs, req.ErasedIndex)

	recovered, err := trcode.Decode(cfg, helperBuffers, req.ErasedIndex, int(req.BlockLength))
	if err != nil {
		c.sink.EndWithError(label, err)
		return nil, fmt.Errorf("repair %s: %w", req.BlockGroupID, err)
	}
	c.sink.End(label)
	return recovered, nil
}

// scheduleNewRead implements spec.md §4.E step 5: try an untried candidate
// first; if none remain, revisit a previously used source not currently
// in flight. Returns errSourceReadFailure when every option has been
// exhausted.
func (c *Coordinator) scheduleNewRead(ctx context.Context, req RepairRequest, readers []RemoteReader, usedFlag []bool, nextCandidate *int, dispatch func(int)) error {
	for *nextCandidate < len(req.LiveIndices) {
		s := *nextCandidate
		*nextCandidate++
		r := req.NewSource(req.LiveIndices[s])
		if err := r.Open(ctx, req.LiveIndices[s], 0); err != nil {
			c.sink.HelperReadFailed()
			continue
		}
		readers[s] = r
		usedFlag[s] = true
		dispatch(s)
		return nil
	}

	for s, used := range usedFlag {
		if !used || readers[s] != nil {
			continue
		}
		r := req.NewSource(req.LiveIndices[s])
		if err := r.Open(ctx, req.LiveIndices[s], 0); err != nil {
			c.sink.HelperReadFailed()
			continue
		}
		readers[s] = r
		dispatch(s)
		return nil
	}
	return errSourceReadFailure
}

// readFull reads into p until it is full, ctx is cancelled, or the
// underlying RemoteReader returns an error.
func readFull(ctx context.Context, r RemoteReader, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := r.Read(ctx, p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// padToLength right-pads buf with zeros up to length, matching the Java
// original's "buffers are flipped for read, padded with zeros up to
// reconstructLength" step.
func padToLength(buf []byte, length int64) []byte {
	if int64(len(buf)) >= length {
		return buf[:length]
	}
	out := make([]byte, length)
	copy(out, buf)
	return out
}

// compactHelperInputs drops inputs[erasedIndex] and returns the remaining
// n-1 buffers in increasing stripe-index order, the shape trcode.Decode
// expects.
func compactHelperInputs(inputs [][]byte, erasedIndex int) [][]byte {
	out := make([][]byte, 0, len(inputs)-1)
	for i, buf := range inputs {
		if i == erasedIndex {
			continue
		}
		out = append(out, buf)
	}
	return out
}
