package mq

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channel = "mandi-events"

// Event describes a domain action other components may react to.
type Event struct {
	Name       string  `json:"name"`
	EntityType string  `json:"entityType"`
	EntityID   string  `json:"entityId"`
	Actor      string  `json:"actor,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}

type Handler func(Event)

// Emitter fans events out to in-process handlers and, when Redis is
// configured, publishes them for external consumers.
type Emitter struct {
	conn     *redis.Client
	mu       sync.RWMutex
	handlers []Handler
}

// NewEmitter accepts a nil conn; events then stay in-process.
func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

func (e *Emitter) Subscribe(h Handler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()
}

func (e *Emitter) Emit(ctx context.Context, event Event) {
	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}

	if e.conn == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("mq marshal error:", err)
		return
	}
	if err := e.conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Println("mq publish error:", err)
	}
}
