package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/bridge/mqtt"
	"github.com/robotalks/uart.go/pkg/bridge/pty"
	"github.com/robotalks/uart.go/pkg/bridge/serial"
	"github.com/robotalks/uart.go/pkg/bridge/stream"
	"github.com/robotalks/uart.go/pkg/bridge/websocket"
	"github.com/robotalks/uart.go/pkg/cli/sh"
	"github.com/robotalks/uart.go/pkg/env"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

var (
	wsAddr     string
	tcpAddr    string
	tcpFramed  bool
	mqttBridge bool
	headless   bool
)

func init() {
	uart.SetupFlags()
	sim.SetupFlags()
	env.SetupFlags()
	sh.SetupFlags()
	serial.SetupFlags()
	pty.SetupFlags()
	flag.StringVar(&wsAddr, "ws", wsAddr, "Serve websocket clients on this address.")
	flag.StringVar(&tcpAddr, "tcp", tcpAddr, "Serve TCP clients on this address.")
	flag.BoolVar(&tcpFramed, "tcp-framed", tcpFramed, "Length-prefixed chunks for TCP clients.")
	flag.BoolVar(&mqttBridge, "mqtt-bridge", mqttBridge, "Bridge the local port to MQTT.")
	flag.BoolVar(&headless, "headless", headless, "Run without the shell until stopped.")
}

func main() {
	flag.Parse()

	uconf := uart.Default()
	bench, closeTrace, err := sim.Default().NewBench(uconf)
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("%s bench: %d Hz / %d = %.1f baud, %.0f ppm off %d",
		bench.Mode, uconf.ClockRate, bench.Divisor(),
		bench.Divisor().Rate(uconf.ClockRate),
		bench.Divisor().DeviationPPM(uconf.ClockRate, uconf.SymbolRate),
		uconf.SymbolRate)

	loop := fx.NewLoop().Add(bench)
	if wsAddr != "" {
		loop.Add(websocket.NewServer(wsAddr, sim.LocalPort).Subscribe(bench))
	}
	if tcpAddr != "" {
		srv := stream.NewServer(tcpAddr, sim.LocalPort).Subscribe(bench)
		srv.Framed = tcpFramed
		loop.Add(srv)
	}
	if conf := serial.Default(); conf.Enabled() {
		pipe, err := conf.NewPipe(sim.LocalPort)
		if err != nil {
			glog.Fatal(err)
		}
		bench.Subscribe(pipe)
		loop.Add(pipe)
	}
	if conf := pty.Default(); conf.Enable {
		pipe, err := conf.NewPipe(sim.LocalPort)
		if err != nil {
			glog.Fatal(err)
		}
		bench.Subscribe(pipe)
		loop.Add(pipe)
	}
	if mqttBridge {
		econf := env.Default()
		b, err := mqtt.NewBridge(econf.MQTTBrokerURL, econf.ID, mqtt.Meta{
			Port:       sim.LocalPort,
			Mode:       string(bench.Mode),
			ClockRate:  uconf.ClockRate,
			SymbolRate: uconf.SymbolRate,
			Divisor:    int(bench.Divisor()),
		})
		if err != nil {
			glog.Fatal(err)
		}
		bench.Subscribe(b)
		loop.Add(b)
	}

	runner := fx.NewRunner().HandleSignals()
	ctx, cancel := context.WithCancel(runner.Context)
	runner.GoWith(ctx, loop)
	if !headless {
		shellErr := sh.New(loop, uconf).Run(flag.Args()...)
		cancel()
		if shellErr != nil {
			glog.Error(shellErr)
		}
	}
	err = runner.Wait()
	cancel()
	if cerr := closeTrace(); cerr != nil {
		glog.Errorf("trace: %v", cerr)
	}
	if err != nil {
		glog.Fatal(err)
	}
}
