package chat

import (
	"sync"
)

type Client struct {
	Send      chan []byte
	SessionID string

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

type broadcastMsg struct {
	SessionID string
	Data      []byte
}

// registration pairs a joining client with the transcript replay frame it
// should receive before any live broadcast.
type registration struct {
	client *Client
	replay []byte
}

// Hub fans transcript updates out to every widget client watching a session.
type Hub struct {
	sessions   map[string]map[*Client]bool
	register   chan registration
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan registration),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			c := reg.client
			h.mu.Lock()
			if h.sessions[c.SessionID] == nil {
				h.sessions[c.SessionID] = make(map[*Client]bool)
			}
			h.sessions[c.SessionID][c] = true
			// replay lands before any broadcast processed after this
			// registration; the client's writer must already be draining
			if reg.replay != nil {
				select {
				case c.Send <- reg.replay:
				default:
					c.close()
					delete(h.sessions[c.SessionID], c)
				}
			}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.sessions[c.SessionID]; conns != nil {
				delete(conns, c)
				c.close()
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.sessions[m.SessionID] {
				select {
				case c.Send <- m.Data:
				default:
					c.close()
					delete(h.sessions[m.SessionID], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.sessions {
				for c := range conns {
					c.close()
				}
			}
			h.sessions = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and closes every client channel.
func (h *Hub) Stop() {
	close(h.quit)
}

// Broadcast queues data for every client on the session. Safe to call from
// any goroutine while the hub runs.
func (h *Hub) Broadcast(sessionID string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{SessionID: sessionID, Data: data}:
	case <-h.quit:
	}
}
