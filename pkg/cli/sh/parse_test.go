package sh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSendArgs(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		port string
		data string
	}{
		{"text", []string{"hello", "world"}, "", "hello world\n"},
		{"no newline", []string{"-n", "hi"}, "", "hi"},
		{"escapes", []string{"-n", `a\tb\x55`}, "", "a\tbU"},
		{"port", []string{"-p", "peer", "x"}, "peer", "x\n"},
		{"hex", []string{"-x", "55", "0xAA", "0102"}, "", "\x55\xaa\x01\x02"},
		{"dash data", []string{"--", "-n"}, "", "-n\n"},
		{"quotes", []string{"-n", `say "hi"`}, "", `say "hi"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ParseSendArgs(tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.port, res.Port)
			require.Equal(t, tc.data, string(res.Data))
		})
	}
}

func TestParseSendArgsErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"-n"},
		{"-p"},
		{"-q", "x"},
		{"-x", "zz"},
		{`bad\`},
	} {
		_, err := ParseSendArgs(args)
		require.Error(t, err, "%v", args)
	}
}

func TestParseTicks(t *testing.T) {
	n, err := ParseTicks("48", 4)
	require.NoError(t, err)
	require.Equal(t, 48, n)
	n, err = ParseTicks("2f", 4)
	require.NoError(t, err)
	require.Equal(t, 80, n)
	_, err = ParseTicks("0", 4)
	require.Error(t, err)
	_, err = ParseTicks("f", 4)
	require.Error(t, err)
}

func TestParseScript(t *testing.T) {
	lines, err := ParseScript(strings.NewReader(`# warm up
send -n 'hello world'

  recv local 100
break peer "2f"
`))
	require.NoError(t, err)
	require.Equal(t, []ScriptLine{
		{Line: 2, Args: []string{"send", "-n", "hello world"}},
		{Line: 4, Args: []string{"recv", "local", "100"}},
		{Line: 5, Args: []string{"break", "peer", "2f"}},
	}, lines)

	_, err = ParseScript(strings.NewReader("send 'unterminated\n"))
	require.Error(t, err)
}
