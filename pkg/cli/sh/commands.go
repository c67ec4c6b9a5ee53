package sh

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

// portArg returns the optional PORT argument.
func portArg(c *ishell.Context) string {
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	return ""
}

func printJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		Fail(c, err)
		return
	}
	c.Println(string(out))
}

// FormatStatus prints Status into friendly lines for display.
func FormatStatus(st *sim.Status) []string {
	lines := []string{
		fmt.Sprintf("mode %s, %d Hz / %d = %d baud (nominal %d), tick %d",
			st.Mode, st.ClockRate, st.Divisor,
			st.ClockRate/maxU32(st.Divisor, 1), st.SymbolRate, st.Tick),
	}
	for _, p := range st.Ports {
		flags := ""
		if p.Paused {
			flags += " paused"
		}
		if p.Echo {
			flags += " echo"
		}
		lines = append(lines, fmt.Sprintf("%-6s rx=%-5s tx=%-5s queued=%d sent=%d received=%d framing=%d overflow=%d resets=%d%s",
			p.Name, p.RxState, p.TxState, p.Queued, p.BytesSent, p.BytesReceived,
			p.FramingErrors, p.OverflowErrors, p.Resets, flags))
	}
	return lines
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

var (
	// SendCmd sends bytes.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "[-p PORT] [-x] [-n] DATA...",
		Func: func(c *ishell.Context) {
			args, err := ParseSendArgs(c.Args)
			if err != nil {
				Fail(c, err)
				return
			}
			ShellFrom(c).Send(args.Port, args.Data)
		},
	}

	// RecvCmd prints received bytes.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "[PORT] [WAIT(ms)]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var wait time.Duration
			if len(c.Args) > 1 {
				ms, err := strconv.Atoi(c.Args[1])
				if err != nil {
					Fail(c, fmt.Errorf("invalid WAIT: %v", err))
					return
				}
				wait = time.Duration(ms) * time.Millisecond
			}
			port := portArg(c)
			data, err := s.Recv(port, wait)
			if err != nil {
				Fail(c, err)
				return
			}
			if port == "" {
				port = sim.LocalPort
			}
			if s.OutputJSON {
				printJSON(c, map[string]interface{}{"port": port, "data": data})
				return
			}
			c.Printf("%s %q\n", port, data)
		},
	}

	// StatusCmd prints the bench status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st, err := s.Status()
			if err != nil {
				Fail(c, err)
				return
			}
			if s.OutputJSON {
				out, err := st.JSON()
				if err != nil {
					Fail(c, err)
					return
				}
				c.Println(out)
				return
			}
			for _, line := range FormatStatus(st) {
				c.Println(line)
			}
		},
	}

	// ResetCmd resets ports.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Reset(portArg(c))
		},
	}

	// BreakCmd holds a line low.
	BreakCmd = ishell.Cmd{
		Name: "break",
		Help: "[PORT] [TICKS|FRAMESf]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st, err := s.Status()
			if err != nil {
				Fail(c, err)
				return
			}
			duration := "2f"
			if len(c.Args) > 1 {
				duration = c.Args[1]
			}
			ticks, err := ParseTicks(duration, int(st.Divisor))
			if err != nil {
				Fail(c, err)
				return
			}
			s.Break(portArg(c), ticks)
		},
	}

	// PauseCmd stops acknowledging received bytes.
	PauseCmd = ishell.Cmd{
		Name: "pause",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Pause(portArg(c), true)
		},
	}

	// ResumeCmd resumes acknowledging received bytes.
	ResumeCmd = ishell.Cmd{
		Name: "resume",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Pause(portArg(c), false)
		},
	}

	// DivisorCmd computes a divisor.
	DivisorCmd = ishell.Cmd{
		Name: "divisor",
		Help: "[CLOCK(Hz) BAUD [MAX-PPM]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := *s.UART
			if len(c.Args) > 0 {
				if len(c.Args) < 2 {
					Fail(c, fmt.Errorf("CLOCK and BAUD required"))
					return
				}
				nums := make([]int, len(c.Args))
				for n, arg := range c.Args {
					val, err := strconv.Atoi(arg)
					if err != nil {
						Fail(c, fmt.Errorf("invalid number %q", arg))
						return
					}
					nums[n] = val
				}
				conf.ClockRate, conf.SymbolRate = nums[0], nums[1]
				if len(nums) > 2 {
					conf.MaxDeviationPPM = nums[2]
				}
			}
			d, err := conf.Divisor()
			if err != nil {
				Fail(c, err)
				return
			}
			ppm := d.DeviationPPM(conf.ClockRate, conf.SymbolRate)
			if s.OutputJSON {
				printJSON(c, map[string]interface{}{
					"divisor": int(d),
					"rate":    d.Rate(conf.ClockRate),
					"ppm":     ppm,
				})
				return
			}
			c.Printf("divisor %d: %.1f baud, %.0f ppm off %d\n", d, d.Rate(conf.ClockRate), ppm, conf.SymbolRate)
			if d < uart.MinCenteredDivisor {
				c.Printf("warning: divisor below %d\n", uart.MinCenteredDivisor)
			}
		},
	}

	// SoakCmd runs a soak test on a separate bench.
	SoakCmd = ishell.Cmd{
		Name: "soak",
		Help: "[COUNT] [SEED] [loopback|echo]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			count, seed, mode := 1000, int64(1), sim.ModeLoopback
			var err error
			if len(c.Args) > 0 {
				if count, err = strconv.Atoi(c.Args[0]); err != nil || count <= 0 {
					Fail(c, fmt.Errorf("invalid COUNT %q", c.Args[0]))
					return
				}
			}
			if len(c.Args) > 1 {
				if seed, err = strconv.ParseInt(c.Args[1], 0, 64); err != nil {
					Fail(c, fmt.Errorf("invalid SEED %q", c.Args[1]))
					return
				}
			}
			if len(c.Args) > 2 {
				mode = sim.Mode(c.Args[2])
			}
			report, err := sim.Soak(s.UART, mode, count, seed)
			if err != nil {
				Fail(c, err)
			}
			if report == nil {
				return
			}
			if s.OutputJSON {
				printJSON(c, report)
				return
			}
			c.Printf("%d/%d bytes in %d ticks, crc %02x/%02x\n",
				report.Received, report.Bytes, report.Ticks, report.SentCRC, report.ReceivedCRC)
		},
	}
)
