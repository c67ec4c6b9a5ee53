package sim

import (
	"fmt"
	"math/rand"

	"github.com/sigurn/crc8"

	"github.com/robotalks/uart.go/pkg/uart"
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// SoakReport summarizes a soak run.
type SoakReport struct {
	Bytes       int     `json:"bytes"`
	Received    int     `json:"received"`
	Ticks       uint64  `json:"ticks"`
	SentCRC     uint8   `json:"sent-crc"`
	ReceivedCRC uint8   `json:"received-crc"`
	Errors      []error `json:"-"`
}

// Checksum is the CRC-8 used by soak runs.
func Checksum(data []byte) uint8 {
	return crc8.Checksum(data, crcTable)
}

// Soak sends count pseudo-random bytes from the local port through the
// bench wiring and verifies what comes back.
func Soak(conf *uart.Config, mode Mode, count int, seed int64) (*SoakReport, error) {
	b, err := NewBench(conf, mode)
	if err != nil {
		return nil, err
	}
	data := make([]byte, count)
	rand.New(rand.NewSource(seed)).Read(data)
	b.Local().Send(data...)

	frame := 10 * int(b.Divisor())
	limit := (count + 2) * (frame + 1) * len(b.hosts)
	var received []byte
	report := &SoakReport{Bytes: count, SentCRC: Checksum(data)}
	for n := 0; n < limit && len(received) < count; n += frame {
		b.Step(frame)
		got, errs := b.Local().Drain()
		received = append(received, got...)
		report.Errors = append(report.Errors, errs...)
		if len(errs) > 0 {
			break
		}
	}
	report.Ticks = b.Tick()
	report.Received = len(received)
	report.ReceivedCRC = Checksum(received)
	if len(report.Errors) > 0 {
		return report, report.Errors[0]
	}
	if len(received) != count || report.ReceivedCRC != report.SentCRC {
		return report, fmt.Errorf("%w: sent %d bytes crc %02x, received %d bytes crc %02x",
			ErrSoakMismatch, count, report.SentCRC, len(received), report.ReceivedCRC)
	}
	return report, nil
}
