package mqtt

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// Topics relative to <prefix><id>/.
const (
	TopicTx     = "tx"
	TopicRx     = "rx"
	TopicErr    = "error"
	TopicStatus = "status"
	TopicMeta   = "meta"
)

// Meta describes the bridged instance, published retained on connect
// and cleared by the will.
type Meta struct {
	Port       string `json:"port"`
	Mode       string `json:"mode"`
	ClockRate  int    `json:"clock-rate"`
	SymbolRate int    `json:"symbol-rate"`
	Divisor    int    `json:"divisor"`
}

// Bridge connects a bench port to MQTT: payloads on <id>/tx are sent on
// the port, received bytes are published on <id>/rx and bench status
// on <id>/status.
type Bridge struct {
	Queue *Queue
	ID    string
	Port  string

	metaJSON []byte
	loopCtl  fx.LoopControl
	lock     sync.RWMutex
}

// NewBridge creates a Bridge.
func NewBridge(brokerURL, id string, meta Meta) (*Bridge, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+id+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("uart:" + id)
	}
	b := &Bridge{
		Queue:    NewQueue(opts, topicPrefix),
		ID:       id,
		Port:     meta.Port,
		metaJSON: metaJSON,
	}
	b.Queue.OnConnect = func(*Queue) { b.onConnected() }
	return b, nil
}

// Topic returns the full topic relative to the queue prefix.
func (b *Bridge) Topic(name string) string {
	return b.ID + "/" + name
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(b)
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "mqtt:" + b.ID
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	b.lock.Lock()
	b.loopCtl = fx.LoopCtlFrom(ctx)
	b.lock.Unlock()
	sub := b.Queue.Sub(b.Topic(TopicTx), b.handleTx)
	if token := b.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("mqtt connect: %v", token.Error())
	}
	<-ctx.Done()
	sub.Close()
	b.Queue.PubWith(b.Topic(TopicMeta), nil, 1, true).Wait()
	b.Queue.Close()
	return nil
}

func (b *Bridge) onConnected() {
	b.Queue.PubWith(b.Topic(TopicMeta), b.metaJSON, 1, true)
}

func (b *Bridge) handleTx(_ string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	b.lock.RLock()
	loopCtl := b.loopCtl
	b.lock.RUnlock()
	if loopCtl == nil {
		return
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	loopCtl.PostMessage(&sim.SendMsg{Port: b.Port, Data: data})
	loopCtl.TriggerNext()
}

// BytesReceived implements sim.Listener.
func (b *Bridge) BytesReceived(cc fx.ControlContext, port string, data []byte) {
	if b.accepts(port) {
		b.Queue.Pub(b.Topic(TopicRx), data)
	}
}

// ErrorDetected implements sim.Listener.
func (b *Bridge) ErrorDetected(cc fx.ControlContext, port string, err error) {
	if b.accepts(port) {
		b.Queue.Pub(b.Topic(TopicErr), []byte(err.Error()))
	}
}

// StatusChanged implements sim.StatusListener.
func (b *Bridge) StatusChanged(cc fx.ControlContext, st *sim.Status) {
	encoded, err := st.JSON()
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	b.Queue.PubWith(b.Topic(TopicStatus), []byte(encoded), 0, true)
}

func (b *Bridge) accepts(port string) bool {
	return port == b.Port || (b.Port == "" && port == sim.LocalPort)
}
