package trcode

import "errors"

var (
	// ErrNotImplemented is reserved for the bit-buffer encode variant the
	// original TRRawEncoder never finished; kept as a named sentinel for
	// callers that still probe for it, even though EncodeBuffer in this
	// package never returns it.
	ErrNotImplemented = errors.New("trcode: not implemented")

	// ErrCorruptInput is returned when a helper buffer's bit-unpacking
	// produces an inconsistent length mid-decode.
	ErrCorruptInput = errors.New("trcode: corrupt helper input")
)
