package reconstruct

import "sync"

// bufferPool hands out read buffers sized to the configured striped-read
// buffer ceiling, grounded on rxManager.slabs in the teacher's rxbuf.go.
type bufferPool struct {
	size int
	pool *sync.Pool
}

func newBufferPool(size int) *bufferPool {
	return &bufferPool{
		size: size,
		pool: &sync.Pool{New: func() any { return make([]byte, size) }},
	}
}

func (p *bufferPool) get() []byte {
	buf := p.pool.Get().([]byte)
	if cap(buf) < p.size {
		return make([]byte, p.size)
	}
	return buf[:p.size]
}

func (p *bufferPool) put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	p.pool.Put(buf[:cap(buf)])
}
