package reconstruct

import (
	"time"

	"github.com/tracerepair/tr/internal/wire"
)

// Config holds the coordinator's tunables — the same two options
// StripedReader.java reads from its DFSClientConf, renamed to Go
// conventions and given zero-value defaults the way the teacher's
// RXOptions.setDefaults does.
type Config struct {
	// StripedReadTimeout is the per-wait completion timeout. Env/flag:
	// reconstruction.striped-read.timeout.ms.
	StripedReadTimeout time.Duration
	// StripedReadBufferSize is the per-reader read buffer ceiling, chunk-
	// aligned to wire.ChunkSize. Env/flag:
	// reconstruction.striped-read.buffer.size.
	StripedReadBufferSize int
}

// setDefaults fills in zero fields the same way the teacher's
// RXOptions.setDefaults populates BudgetBytes/DDL/Workers/IngressRing.
func (c *Config) setDefaults() {
	if c.StripedReadTimeout <= 0 {
		c.StripedReadTimeout = 2 * time.Second
	}
	if c.StripedReadBufferSize <= 0 {
		c.StripedReadBufferSize = wire.ChunkSize
	}
	c.StripedReadBufferSize = alignUp(c.StripedReadBufferSize, wire.ChunkSize)
}

func alignUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return (n/align + 1) * align
}
