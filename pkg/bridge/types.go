// Package bridge connects a bench port to external byte transports.
package bridge

// ChunkReader reads chunks of bytes.
type ChunkReader interface {
	ReadChunk() ([]byte, error)
}

// ChunkWriter writes chunks of bytes.
type ChunkWriter interface {
	WriteChunk([]byte) error
}

// ChunkReadWriter reads/writes chunks of bytes.
type ChunkReadWriter interface {
	ChunkReader
	ChunkWriter
}
