// Package codec holds the codec-wide parameters and validation shared by
// the encoder, decoder and repair coordinator — the immutable-after-
// construction configuration object named in spec §6.
package codec

import "fmt"

// Name identifies the erasure coding scheme. Only "tr" is implemented; the
// field exists because the external placement service that selects a codec
// expects to read it back (spec §1, out of scope for this module).
const Name = "tr"

// Profile is the concrete (n, k, m, t) profile this module implements.
// Non-goals exclude dynamic reconfiguration, so this is the only profile a
// Config can describe.
const (
	NumDataUnits   = 6
	NumParityUnits = 9 - NumDataUnits
	NumAllUnits    = NumDataUnits + NumParityUnits
	SubSymbolCount = 8 // t
)

// Config mirrors the Java ErasureCoderOptions constructor argument shape.
// It is immutable after New returns successfully.
type Config struct {
	NumDataUnits     int
	NumParityUnits   int
	CodecName        string
	AllowVerboseDump bool
}

// New validates and returns a Config for the fixed TR profile. k+m must be
// strictly less than the field size (256); for this profile that is always
// true, but the check is kept because it is the one construction-time
// invariant spec §6 calls out explicitly.
func New(allowVerboseDump bool) (Config, error) {
	cfg := Config{
		NumDataUnits:     NumDataUnits,
		NumParityUnits:   NumParityUnits,
		CodecName:        Name,
		AllowVerboseDump: allowVerboseDump,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the construction-time invariant from spec §6: k+m >= 256
// is rejected.
func (c Config) Validate() error {
	if c.NumDataUnits <= 0 || c.NumParityUnits <= 0 {
		return fmt.Errorf("%w: numDataUnits and numParityUnits must be positive", ErrInvalidArgument)
	}
	if c.NumDataUnits+c.NumParityUnits >= 256 {
		return fmt.Errorf("%w: numDataUnits+numParityUnits=%d exceeds field size", ErrInvalidArgument, c.NumDataUnits+c.NumParityUnits)
	}
	return nil
}

// N returns k+m, the total number of stripe units.
func (c Config) N() int { return c.NumDataUnits + c.NumParityUnits }

// ValidateErasedIndex checks 0 <= j < n.
func (c Config) ValidateErasedIndex(j int) error {
	if j < 0 || j >= c.N() {
		return fmt.Errorf("%w: erasedIndex %d out of range [0,%d)", ErrInvalidArgument, j, c.N())
	}
	return nil
}

// ValidateEncodeLength checks L is a positive multiple of 8, per spec §3.
func ValidateEncodeLength(l int) error {
	if l <= 0 || l%8 != 0 {
		return fmt.Errorf("%w: encode length %d must be a positive multiple of 8", ErrInvalidArgument, l)
	}
	return nil
}
