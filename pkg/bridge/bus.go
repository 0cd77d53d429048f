package bridge

import (
	"errors"
	"log"
)

// ErrDropped is returned when a message could not be queued
var ErrDropped = errors.New("message dropped, queue full")

// DefaultQueueSize is the per-direction buffer of a Bus
const DefaultQueueSize = 32

// Bus connects the main and background contexts with one queue per direction
type Bus struct {
	main       *Endpoint
	background *Endpoint
}

func NewBus(size int) *Bus {
	if size <= 0 {
		size = DefaultQueueSize
	}
	toMain := make(chan []byte, size)
	toBackground := make(chan []byte, size)
	return &Bus{
		main:       &Endpoint{name: "main", in: toMain, out: toBackground},
		background: &Endpoint{name: "background", in: toBackground, out: toMain},
	}
}

// Main is the main context's end of the bus
func (b *Bus) Main() *Endpoint { return b.main }

// Background is the background context's end of the bus
func (b *Bus) Background() *Endpoint { return b.background }

// Endpoint is one side of a Bus
type Endpoint struct {
	name string
	in   chan []byte
	out  chan []byte
}

// Send queues m for the other side without blocking
func (e *Endpoint) Send(m Message) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	select {
	case e.out <- data:
		return nil
	default:
		log.Printf("[BRIDGE] %s queue full, dropped %s", e.name, m.Type())
		return ErrDropped
	}
}

// Inbox delivers encoded envelopes sent by the other side
func (e *Endpoint) Inbox() <-chan []byte {
	return e.in
}
