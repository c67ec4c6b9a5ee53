package sh

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/buildkite/shellwords"
)

// SendArgs is the parsed form of "send [-p PORT] [-x] [-n] DATA...".
type SendArgs struct {
	Port string
	Data []byte
}

// ParseSendArgs parses the send command line. Words are joined by
// spaces and Go escapes (\n, \x55) are interpreted; -x takes the words
// as hex bytes instead; a trailing newline is added unless -n or -x.
func ParseSendArgs(args []string) (*SendArgs, error) {
	var (
		res       SendArgs
		hexMode   bool
		noNewline bool
	)
opts:
	for len(args) > 0 && strings.HasPrefix(args[0], "-") && len(args[0]) > 1 {
		switch args[0] {
		case "-p":
			if len(args) < 2 {
				return nil, fmt.Errorf("-p requires PORT")
			}
			res.Port = args[1]
			args = args[1:]
		case "-x":
			hexMode = true
		case "-n":
			noNewline = true
		case "--":
			args = args[1:]
			break opts
		default:
			return nil, fmt.Errorf("unknown option %s", args[0])
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("DATA required")
	}
	if hexMode {
		for _, word := range args {
			b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(word), "0x"))
			if err != nil {
				return nil, fmt.Errorf("invalid hex %q: %v", word, err)
			}
			res.Data = append(res.Data, b...)
		}
		return &res, nil
	}
	text, err := Unescape(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	res.Data = []byte(text)
	if !noNewline {
		res.Data = append(res.Data, '\n')
	}
	return &res, nil
}

// Unescape interprets Go escape sequences in s.
func Unescape(s string) (string, error) {
	unquoted, err := strconv.Unquote(`"` + strings.Replace(s, `"`, `\"`, -1) + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid escape in %q", s)
	}
	return unquoted, nil
}

// ParseTicks parses a duration given in ticks, or in frames with an
// "f" suffix.
func ParseTicks(s string, divisor int) (int, error) {
	frames := strings.HasSuffix(s, "f")
	n, err := strconv.Atoi(strings.TrimSuffix(s, "f"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if frames {
		n *= 10 * divisor
	}
	return n, nil
}

// ScriptLine is a command line of a script.
type ScriptLine struct {
	Line int
	Args []string
}

// ParseScript splits a script into command lines. Blank lines and
// lines starting with # are skipped.
func ParseScript(r io.Reader) ([]ScriptLine, error) {
	var lines []ScriptLine
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		args, err := shellwords.SplitPosix(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", n, err)
		}
		if len(args) > 0 {
			lines = append(lines, ScriptLine{Line: n, Args: args})
		}
	}
	return lines, scanner.Err()
}
