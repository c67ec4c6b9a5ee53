package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"strings"

	"github.com/robotalks/uart.go/pkg/bridge/mqtt"
	"github.com/robotalks/uart.go/pkg/cli/sh"
	"github.com/robotalks/uart.go/pkg/env"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

func init() {
	env.SetupFlags()
}

func handle(topic string, payload []byte) {
	slash := strings.LastIndex(topic, "/")
	if slash < 0 {
		return
	}
	id, kind := topic[:slash], topic[slash+1:]
	switch kind {
	case mqtt.TopicRx:
		log.Printf("%s rx %q", id, payload)
	case mqtt.TopicErr:
		log.Printf("%s error: %s", id, payload)
	case mqtt.TopicMeta:
		if len(payload) == 0 {
			log.Printf("%s gone", id)
			return
		}
		log.Printf("%s meta %s", id, payload)
	case mqtt.TopicStatus:
		st, err := sim.StatusFromJSON(string(payload))
		if err != nil {
			log.Printf("%s bad status: %v", id, err)
			return
		}
		for _, line := range sh.FormatStatus(st) {
			log.Printf("%s %s", id, line)
		}
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(env.Default().MQTTBrokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	for _, kind := range []string{mqtt.TopicRx, mqtt.TopicErr, mqtt.TopicMeta, mqtt.TopicStatus} {
		q.Sub("+/"+kind, handle)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	runner := fx.NewRunner().HandleSignals()
	<-runner.Context.Done()
}
