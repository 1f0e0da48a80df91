// Package sse fans finished query cycles out to Server-Sent Events
// subscribers.
package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"sync"
	"time"
)

const heartbeat = 25 * time.Second

/*
Broker maintains a list of subscribers and broadcasts JSON-encoded events to
them. Each event is written as a single-line SSE message of the form:

data: {json}\n\n
*/
type Broker struct {
	mu        sync.RWMutex
	clients   map[chan []byte]struct{}
	closed    bool
	heartbeat time.Duration
}

func NewBroker() *Broker {
	return &Broker{
		clients:   make(map[chan []byte]struct{}),
		heartbeat: heartbeat,
	}
}

/*
NewTestBroker creates a broker with a shorter heartbeat for testing.
*/
func NewTestBroker() *Broker {
	broker := NewBroker()
	broker.heartbeat = 100 * time.Millisecond

	return broker
}

/*
Subscribe registers a new client. The returned channel is closed when the
broker closes or cancel is called; ok is false if the broker is already
closed.
*/
func (broker *Broker) Subscribe() (events <-chan []byte, cancel func(), ok bool) {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	if broker.closed {
		return nil, func() {}, false
	}

	ch := make(chan []byte, 8)
	broker.clients[ch] = struct{}{}

	return ch, func() { broker.remove(ch) }, true
}

/*
Stream writes events for one subscriber until ctx is done, the broker closes
or the writer fails. A comment heartbeat keeps proxies from dropping an idle
connection.
*/
func (broker *Broker) Stream(ctx context.Context, w *bufio.Writer) {
	events, cancel, ok := broker.Subscribe()
	defer cancel()

	if !ok {
		return
	}

	ticker := time.NewTicker(broker.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}

			_, _ = w.WriteString("data: ")
			_, _ = w.Write(msg)
			_, _ = w.WriteString("\n\n")
		case <-ticker.C:
			_, _ = w.WriteString(": heartbeat\n\n")
		}

		// A failed flush means the client went away.
		if err := w.Flush(); err != nil {
			return
		}
	}
}

/*
Broadcast marshals v to JSON and sends it to all connected clients.
*/
func (broker *Broker) Broadcast(v any) error {
	msg, err := json.Marshal(v)

	if err != nil {
		return err
	}

	broker.mu.RLock()
	defer broker.mu.RUnlock()

	if broker.closed {
		return nil
	}

	for ch := range broker.clients {
		select {
		case ch <- msg:
		default:
			// slow client, drop the message rather than block the request.
		}
	}

	return nil
}

/*
Len returns the number of connected subscribers.
*/
func (broker *Broker) Len() int {
	broker.mu.RLock()
	defer broker.mu.RUnlock()

	return len(broker.clients)
}

/*
Close disconnects all clients and prevents further subscriptions.
*/
func (broker *Broker) Close() {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	if broker.closed {
		return
	}

	broker.closed = true

	for ch := range broker.clients {
		close(ch)
	}

	broker.clients = map[chan []byte]struct{}{}
}

func (broker *Broker) remove(ch chan []byte) {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	if _, ok := broker.clients[ch]; ok {
		delete(broker.clients, ch)
		close(ch)
	}
}
