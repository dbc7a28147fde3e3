package replication

import (
	"log/slog"
	"time"

	"github.com/oomph-ac/traverse/game"
	"github.com/oomph-ac/traverse/metrics"
	"github.com/oomph-ac/traverse/oerror"
	"github.com/oomph-ac/traverse/settings"
	"github.com/oomph-ac/traverse/utils"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
)

// maxFlushRounds bounds how often Flush drains the queue again when handlers send messages
// while it delivers.
const maxFlushRounds = 8

// Message is a payload delivered to a connection.
type Message struct {
	// From is the name of the connection that sent the payload.
	From string
	// ToServer is true for a start request sent to the server, and false for a multicast from
	// the server.
	ToServer bool
	Payload  Payload
}

// Handler handles messages delivered to a connection.
type Handler interface {
	HandleMessage(msg Message)
}

type envelope struct {
	from     string
	to       *Conn
	toServer bool
	data     []byte
}

// Hub connects a server and its clients in process. Payloads are encoded when sent and only
// decoded and delivered when the hub is flushed, the way they would arrive a tick later over a
// real connection.
type Hub struct {
	log *slog.Logger
	cfg settings.Network

	mu     deadlock.Mutex
	server *Conn
	conns  []*Conn
	queue  *utils.CircularQueue[envelope]
}

// NewHub returns a hub buffering at most queueSize undelivered payloads. The oldest payload is
// dropped when the buffer is full.
func NewHub(cfg settings.Network, queueSize int, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Hub{
		log:   log,
		cfg:   cfg,
		queue: utils.NewCircularQueue[envelope](queueSize),
	}
}

// Conn is one end of the hub: the server or one of its clients.
type Conn struct {
	hub     *Hub
	name    string
	server  bool
	handler Handler
	limiter *rate.Limiter
}

// Connect adds a connection named name to the hub. Messages addressed to it are passed to h.
// Connecting a second server replaces the first.
func (h *Hub) Connect(name string, server bool, handler Handler) *Conn {
	c := &Conn{hub: h, name: name, server: server, handler: handler}
	if !server {
		limit := rate.Inf
		if h.cfg.ServerStartRate > 0 {
			limit = rate.Limit(h.cfg.ServerStartRate)
		}
		c.limiter = rate.NewLimiter(limit, max(h.cfg.ServerStartBurst, 1))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if server {
		if h.server != nil {
			h.log.Warn("server connection replaced", "old", h.server.name, "new", name)
		}
		h.server = c
	}
	h.conns = append(h.conns, c)
	return c
}

// Name returns the name of the connection.
func (c *Conn) Name() string {
	return c.name
}

// IsServer returns true if the connection is the server's.
func (c *Conn) IsServer() bool {
	return c.server
}

// SendToServer sends a start request to the server. Requests beyond the server's start rate
// are dropped and reported as a transport error.
func (c *Conn) SendToServer(p Payload) error {
	if c.server {
		return oerror.New("server connection %s cannot send a start request to itself", c.name)
	}
	if !c.limiter.AllowN(time.Now(), 1) {
		metrics.DroppedRequests.WithLabelValues("rate_limit").Inc()
		return oerror.Transport(game.ErrorRateLimited, c.name)
	}

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if c.hub.server == nil {
		return oerror.Transport("no server connected to receive start request from %s", c.name)
	}
	c.hub.enqueue(envelope{from: c.name, to: c.hub.server, toServer: true, data: Encode(p)})
	return nil
}

// Multicast sends a payload from the server to every client.
func (c *Conn) Multicast(p Payload) error {
	if !c.server {
		return oerror.New("client connection %s cannot multicast", c.name)
	}
	data := Encode(p)

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	for _, conn := range c.hub.conns {
		if conn.server {
			continue
		}
		c.hub.enqueue(envelope{from: c.name, to: conn, data: data})
	}
	return nil
}

// enqueue must be called with mu held.
func (h *Hub) enqueue(e envelope) {
	dropped, err := h.queue.Append(e)
	if err != nil {
		h.log.Error("unable to queue payload", "from", e.from, "err", err)
		return
	}
	if dropped {
		metrics.DroppedRequests.WithLabelValues("queue_full").Inc()
		h.log.Warn("replication queue full, dropped oldest payload", "size", h.queue.Cap())
	}
}

// Pending returns the amount of payloads waiting to be delivered.
func (h *Hub) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queue.Len()
}

// Flush delivers every queued payload in the order it was sent and returns the amount
// delivered. Payloads sent by handlers during the flush are delivered as well.
func (h *Hub) Flush() int {
	delivered := 0
	for range maxFlushRounds {
		batch := h.drain()
		if len(batch) == 0 {
			return delivered
		}
		for _, e := range batch {
			p, err := Decode(e.data)
			if err != nil {
				metrics.DroppedRequests.WithLabelValues("decode").Inc()
				h.log.Warn("dropped undecodable payload", "from", e.from, "to", e.to.name, "err", err)
				continue
			}
			if e.to.handler != nil {
				e.to.handler.HandleMessage(Message{From: e.from, ToServer: e.toServer, Payload: p})
			}
			delivered++
		}
	}
	if n := h.Pending(); n > 0 {
		h.log.Warn("payloads left after flush", "pending", n)
	}
	return delivered
}

func (h *Hub) drain() []envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	batch := make([]envelope, 0, h.queue.Len())
	for {
		e, ok := h.queue.Pop()
		if !ok {
			return batch
		}
		batch = append(batch, e)
	}
}
