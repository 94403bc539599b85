package codec

import "errors"

// ErrInvalidArgument is returned for malformed codec parameters, bad
// offsets, mismatched buffer sizes, or an out-of-range erasedIndex — the
// InvalidArgument category from spec §7.
var ErrInvalidArgument = errors.New("codec: invalid argument")
