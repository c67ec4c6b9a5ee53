package vcd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "1ns")
	rx := w.Var("uart", "rx")
	tx := w.Var("uart", "tx")
	led := w.Var("top", "led")
	w.Set(0, rx, true)
	w.Set(0, tx, true)
	w.Set(0, led, false)
	w.Set(10, rx, true)
	w.Set(20, rx, false)
	w.Set(20, led, true)
	w.Set(30, tx, true)
	require.NoError(t, w.Flush())
	require.Equal(t, `$timescale 1ns $end
$scope module uart $end
$var wire 1 ! rx $end
$var wire 1 " tx $end
$upscope $end
$scope module top $end
$var wire 1 # led $end
$upscope $end
$enddefinitions $end
#0
1!
1"
0#
#20
0!
1#
`, buf.String())
}

func TestIdentifier(t *testing.T) {
	require.Equal(t, "!", identifier(0))
	require.Equal(t, "~", identifier(93))
	require.Equal(t, "!!", identifier(94))
	require.Equal(t, "\"!", identifier(95))
	seen := make(map[string]bool)
	for n := 0; n < 20000; n++ {
		id := identifier(n)
		require.False(t, seen[id], "duplicate %q", id)
		seen[id] = true
	}
}

func TestWriterLateVar(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, "1ns")
	v := w.Var("s", "a")
	w.Set(0, v, true)
	require.Panics(t, func() { w.Var("s", "b") })
}
