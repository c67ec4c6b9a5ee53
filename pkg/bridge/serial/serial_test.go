package serial

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type timeoutPort struct {
	reads  []string
	closed bool
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *timeoutPort) Write(b []byte) (int, error) { return len(b), nil }
func (p *timeoutPort) Close() error                { p.closed = true; return nil }

func TestReadTimeoutIsNotEOF(t *testing.T) {
	port := &timeoutPort{reads: []string{"ab"}}
	rw := NewReadWriter(port)
	chunk, err := rw.ReadChunk()
	require.NoError(t, err)
	require.Equal(t, "ab", string(chunk))

	chunk, err = rw.ReadChunk()
	require.NoError(t, err)
	require.Empty(t, chunk)

	require.NoError(t, rw.Close())
	require.True(t, port.closed)
	_, err = rw.ReadChunk()
	require.Equal(t, io.EOF, err)
}

func TestConfig(t *testing.T) {
	conf := NewConfig()
	require.False(t, conf.Enabled())
	require.Equal(t, 115200, conf.Baud)
	conf.Device = "/dev/does-not-exist"
	require.True(t, conf.Enabled())
	_, err := conf.NewPipe("")
	require.Error(t, err)
}
