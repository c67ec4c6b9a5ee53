package sim

import (
	fx "github.com/robotalks/uart.go/pkg/framework"
)

// Listener receives what the bench ports produced in an iteration.
type Listener interface {
	BytesReceived(cc fx.ControlContext, port string, data []byte)
	ErrorDetected(cc fx.ControlContext, port string, err error)
}

// StatusListener is optionally implemented by a Listener to be told
// about status changes.
type StatusListener interface {
	StatusChanged(cc fx.ControlContext, st *Status)
}

// Subscriber subscribes bench notifications.
type Subscriber interface {
	Subscribe(Listener)
}

// ListenerCaster provides a subscriber and implements
// listener to cast notifications.
type ListenerCaster struct {
	listeners []Listener
}

// Subscribe implements Subscriber.
func (c *ListenerCaster) Subscribe(ln Listener) {
	c.listeners = append(c.listeners, ln)
}

// BytesReceived implements Listener.
func (c *ListenerCaster) BytesReceived(cc fx.ControlContext, port string, data []byte) {
	for _, ln := range c.listeners {
		ln.BytesReceived(cc, port, data)
	}
}

// ErrorDetected implements Listener.
func (c *ListenerCaster) ErrorDetected(cc fx.ControlContext, port string, err error) {
	for _, ln := range c.listeners {
		ln.ErrorDetected(cc, port, err)
	}
}

// StatusChanged implements StatusListener.
func (c *ListenerCaster) StatusChanged(cc fx.ControlContext, st *Status) {
	for _, ln := range c.listeners {
		if sl, ok := ln.(StatusListener); ok {
			sl.StatusChanged(cc, st)
		}
	}
}

func (c *ListenerCaster) wantsStatus() bool {
	for _, ln := range c.listeners {
		if _, ok := ln.(StatusListener); ok {
			return true
		}
	}
	return false
}
