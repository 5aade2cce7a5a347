package abi

import "sync"

// Buffer is a variable-length result whose ownership has transferred to the
// caller. Release it with Boundary.FreeBuffer; after that any access is
// undefined behavior.
type Buffer struct {
	data []byte
}

// Bytes returns the buffer contents. The slice aliases the buffer's backing
// storage and dies with it.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Backing storage above this size is not pooled, to keep one huge export
// from pinning memory for the life of the process.
const maxPooledBufferCap = 1 << 20

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{data: make([]byte, 0, 4096)}
	},
}

// newBuffer allocates a Buffer holding a copy of data. Exactly one buffer
// is produced per successful boundary operation; failures allocate nothing.
func newBuffer(data []byte) *Buffer {
	b := bufferPool.Get().(*Buffer)
	if cap(b.data) < len(data) {
		b.data = make([]byte, len(data))
	} else {
		b.data = b.data[:len(data)]
	}
	copy(b.data, data)
	return b
}

// freeBuffer recycles buf's backing storage. Freeing nil is a no-op;
// freeing twice is the caller's documented undefined behavior.
func freeBuffer(buf *Buffer) {
	if buf == nil {
		return
	}
	if cap(buf.data) > maxPooledBufferCap {
		buf.data = nil
	}
	buf.data = buf.data[:0]
	bufferPool.Put(buf)
}
