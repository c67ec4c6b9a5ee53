// Package stream bridges byte streams such as TCP connections, serial
// ports and pseudo-terminals.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// DefaultChunkSize limits the bytes returned by one ReadChunk.
const DefaultChunkSize = 256

// ReadWriter implements bridge.ChunkReadWriter on a raw byte stream.
type ReadWriter struct {
	io.ReadWriter
	ChunkSize int
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{ReadWriter: s, ChunkSize: DefaultChunkSize}
}

// ReadChunk implements ChunkReader, returning whatever one Read got.
func (p *ReadWriter) ReadChunk() ([]byte, error) {
	buf := make([]byte, p.ChunkSize)
	n, err := p.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, err
}

// WriteChunk implements ChunkWriter.
func (p *ReadWriter) WriteChunk(chunk []byte) error {
	_, err := p.Write(chunk)
	return err
}

// Close implements io.Closer if the stream is closable.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Framed implements bridge.ChunkReadWriter on a stream where each
// chunk is prefixed by 4-byte (little-endian) indicating the length.
type Framed struct {
	io.ReadWriter
	// MaxSize rejects larger chunks, 0 means unlimited.
	MaxSize uint32
}

// NewFramed creates a Framed with io.ReadWriter.
func NewFramed(s io.ReadWriter) *Framed {
	return &Framed{ReadWriter: s, MaxSize: 1 << 16}
}

// ErrChunkTooLarge is returned when a length prefix exceeds MaxSize.
var ErrChunkTooLarge = errors.New("chunk too large")

// ReadChunk implements ChunkReader.
func (p *Framed) ReadChunk() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		return nil, ErrChunkTooLarge
	}
	chunk := make([]byte, size)
	_, err := io.ReadFull(p, chunk)
	return chunk, err
}

// WriteChunk implements ChunkWriter.
func (p *Framed) WriteChunk(chunk []byte) error {
	size := uint32(len(chunk))
	if err := binary.Write(p, binary.LittleEndian, size); err != nil {
		return err
	}
	_, err := p.Write(chunk)
	return err
}

// Close implements io.Closer if the stream is closable.
func (p *Framed) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
