package websocket

import "golang.org/x/net/websocket"

// ReadWriter implements bridge.ChunkReadWriter, one chunk per message.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadChunk implements ChunkReader. Text messages are taken as bytes.
func (p *ReadWriter) ReadChunk() (chunk []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &chunk)
	return
}

// WriteChunk implements ChunkWriter.
func (p *ReadWriter) WriteChunk(chunk []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), chunk)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}
