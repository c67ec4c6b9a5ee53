// Package vcd writes one-bit signals in Value Change Dump format.
package vcd

import (
	"bufio"
	"fmt"
	"io"
)

// Var is a declared one-bit variable.
type Var struct {
	Scope string
	Name  string

	id    string
	value bool
	known bool
}

// ID is the identifier code of the variable in the dump.
func (v *Var) ID() string {
	return v.id
}

// Writer emits a VCD stream. Variables must be declared before the
// first value is set; only changes are written.
type Writer struct {
	w         *bufio.Writer
	timescale string
	vars      []*Var
	started   bool
	time      int64
	err       error
}

// NewWriter creates a Writer, timescale is e.g. "1ns".
func NewWriter(w io.Writer, timescale string) *Writer {
	return &Writer{w: bufio.NewWriter(w), timescale: timescale, time: -1}
}

// Var declares a variable.
func (w *Writer) Var(scope, name string) *Var {
	if w.started {
		panic("vcd: variable declared after dump started")
	}
	v := &Var{Scope: scope, Name: name, id: identifier(len(w.vars))}
	w.vars = append(w.vars, v)
	return v
}

// identifier encodes n with the printable characters '!' to '~'.
func identifier(n int) string {
	var buf []byte
	for {
		buf = append(buf, byte('!'+n%94))
		n /= 94
		if n == 0 {
			return string(buf)
		}
		n--
	}
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, format, args...)
	}
}

func (w *Writer) header() {
	w.printf("$timescale %s $end\n", w.timescale)
	var scopes []string
	members := make(map[string][]*Var)
	for _, v := range w.vars {
		if _, ok := members[v.Scope]; !ok {
			scopes = append(scopes, v.Scope)
		}
		members[v.Scope] = append(members[v.Scope], v)
	}
	for _, scope := range scopes {
		w.printf("$scope module %s $end\n", scope)
		for _, v := range members[scope] {
			w.printf("$var wire 1 %s %s $end\n", v.id, v.Name)
		}
		w.printf("$upscope $end\n")
	}
	w.printf("$enddefinitions $end\n")
	w.started = true
}

// Set records the value of v at time t. Times must not decrease.
func (w *Writer) Set(t int64, v *Var, value bool) {
	if !w.started {
		w.header()
	}
	if v.known && v.value == value {
		return
	}
	v.value, v.known = value, true
	if t != w.time {
		w.time = t
		w.printf("#%d\n", t)
	}
	bit := '0'
	if value {
		bit = '1'
	}
	w.printf("%c%s\n", bit, v.id)
}

// Flush writes buffered output and reports the first error.
func (w *Writer) Flush() error {
	if !w.started {
		w.header()
	}
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
