package internal

import (
	"bytes"
	"sync"
)

// BufferPool pools buffers used to encode payloads.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}
