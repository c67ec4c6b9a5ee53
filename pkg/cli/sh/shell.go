// Package sh provides the interactive shell controlling a running bench.
package sh

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

// ErrTimeout is returned when the loop doesn't answer a query in time.
var ErrTimeout = errors.New("timeout")

// DefaultTimeout bounds waiting for query replies.
const DefaultTimeout = time.Second

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Script      string
	Timeout     time.Duration

	Shell *ishell.Shell
	// Ctl reaches the loop running the bench.
	Ctl fx.LoopControl
	// UART is used by commands building their own bench, e.g. soak.
	UART *uart.Config

	lastErr error
}

const (
	shellKey = "$shell"
	prompt   = "uart > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	scriptFile string

	// commands
	commands = []*ishell.Cmd{
		&SendCmd,
		&RecvCmd,
		&StatusCmd,
		&ResetCmd,
		&BreakCmd,
		&PauseCmd,
		&ResumeCmd,
		&DivisorCmd,
		&SoakCmd,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&scriptFile, "script", scriptFile, "Run commands from this file.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(ctl fx.LoopControl, conf *uart.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly && scriptFile == "",
		OutputJSON:  outputJSON,
		Script:      scriptFile,
		Timeout:     DefaultTimeout,

		Shell: ishell.New(),
		Ctl:   ctl,
		UART:  conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Fail reports a command error and remembers it for scripts.
func Fail(c *ishell.Context, err error) {
	ShellFrom(c).lastErr = err
	c.Err(err)
}

func (s *Shell) post(msg fx.Message) {
	s.Ctl.PostMessage(msg)
	s.Ctl.TriggerNext()
}

// Send queues bytes on a port.
func (s *Shell) Send(port string, data []byte) {
	s.post(&sim.SendMsg{Port: port, Data: data})
}

// Reset resets a port, or all ports when port is empty.
func (s *Shell) Reset(port string) {
	s.post(&sim.ResetMsg{Port: port})
}

// Break holds the line into port low.
func (s *Shell) Break(port string, ticks int) {
	s.post(&sim.BreakMsg{Port: port, Ticks: ticks})
}

// Pause stalls or resumes the consumer on port.
func (s *Shell) Pause(port string, paused bool) {
	s.post(&sim.PauseMsg{Port: port, Paused: paused})
}

// Status queries the bench status.
func (s *Shell) Status() (*sim.Status, error) {
	msg := &sim.StatusMsg{Result: make(chan *sim.Status, 1)}
	s.post(msg)
	select {
	case st := <-msg.Result:
		return st, nil
	case <-time.After(s.Timeout):
		return nil, ErrTimeout
	}
}

// Recv drains bytes received on port, waiting up to wait for the first
// ones to arrive.
func (s *Shell) Recv(port string, wait time.Duration) ([]byte, error) {
	deadline := time.Now().Add(wait)
	for {
		msg := &sim.RecvMsg{Port: port, Result: make(chan []byte, 1)}
		s.post(msg)
		var data []byte
		select {
		case data = <-msg.Result:
		case <-time.After(s.Timeout):
			return nil, ErrTimeout
		}
		if len(data) > 0 || !time.Now().Before(deadline) {
			return data, nil
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// RunScript runs commands from the script file and stops at the
// first failing one.
func (s *Shell) RunScript(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	lines, err := ParseScript(f)
	if err != nil {
		return fmt.Errorf("%s: %v", fn, err)
	}
	for _, line := range lines {
		if err := s.Process(line.Args...); err != nil {
			return fmt.Errorf("%s:%d: %v", fn, line.Line, err)
		}
	}
	return nil
}

// Process runs a single command.
func (s *Shell) Process(args ...string) error {
	s.lastErr = nil
	if err := s.Shell.Process(args...); err != nil {
		return err
	}
	return s.lastErr
}

// Run runs the shell.
func (s *Shell) Run(args ...string) error {
	switch {
	case s.Script != "":
		return s.RunScript(s.Script)
	case len(args) > 0:
		return s.Process(args...)
	case s.Interactive:
		s.Shell.Run()
		return nil
	}
	return fmt.Errorf("command expected")
}
