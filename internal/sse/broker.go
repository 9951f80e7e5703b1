// Package sse implements a Server-Sent Events broker that pushes catalog
// changes to connected browsers.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types emitted by the broker.
const (
	TypeMaterialCreated    = "material.created"
	TypeMaterialDeleted    = "material.deleted"
	TypeCategoriesReloaded = "categories.reloaded"
	TypeCatalogChanged     = "catalog.changed"
)

type catalogEventReq struct {
	typ  string
	data any
}

// Broker manages SSE client connections and broadcasts events.
//
// A single internal event loop owns the client set and the catalog.changed
// throttle timestamp. Public methods talk to the loop over channels.
type Broker struct {
	changedMin time.Duration

	subscribeCh    chan chan []byte
	unsubscribeCh  chan chan []byte
	publishCh      chan Event
	catalogEventCh chan catalogEventReq
	countReqCh     chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. catalog.changed is emitted at most once
// per changedThrottle.
func NewBroker(changedThrottle time.Duration) *Broker {
	if changedThrottle <= 0 {
		changedThrottle = 2 * time.Second
	}

	b := &Broker{
		changedMin:     changedThrottle,
		subscribeCh:    make(chan chan []byte),
		unsubscribeCh:  make(chan chan []byte),
		publishCh:      make(chan Event, 256),
		catalogEventCh: make(chan catalogEventReq, 256),
		countReqCh:     make(chan chan int),
		stopCh:         make(chan struct{}),
		stopped:        make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastChanged time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip it.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.catalogEventCh:
			broadcast(Event{Type: req.typ, Data: req.data})

			now := time.Now()
			if now.Sub(lastChanged) >= b.changedMin {
				lastChanged = now
				broadcast(Event{Type: TypeCatalogChanged, Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishMaterialEvent publishes a material change ("created" or "deleted")
// followed by a throttled catalog.changed. Unknown kinds are ignored.
func (b *Broker) PublishMaterialEvent(kind string, id int64) {
	var typ string
	switch kind {
	case "created":
		typ = TypeMaterialCreated
	case "deleted":
		typ = TypeMaterialDeleted
	default:
		return
	}
	b.publishCatalog(catalogEventReq{typ: typ, data: map[string]int64{"id": id}})
}

// PublishCategoriesReloaded announces that the category set changed.
func (b *Broker) PublishCategoriesReloaded() {
	b.publishCatalog(catalogEventReq{typ: TypeCategoriesReloaded, data: map[string]string{}})
}

func (b *Broker) publishCatalog(req catalogEventReq) {
	if b.closed.Load() {
		return
	}
	select {
	case b.catalogEventCh <- req:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
