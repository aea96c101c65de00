package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains org slug -> set of connections and broadcasts delivery
// metrics. Uses Redis pub/sub for horizontal scaling: local broadcast plus
// publish to Redis.
type Hub struct {
	orgs     map[string]map[string]*Client
	subs     map[string]func() // cancel Redis subscription per org
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher publishes org events for cross-instance broadcast.
type RedisPublisher interface {
	PublishOrgEvent(orgSlug, event string, payload []byte) error
}

// RedisSubscriber subscribes to an org channel and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeOrg(orgSlug string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		orgs:     make(map[string]map[string]*Client),
		subs:     make(map[string]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to its org room. Starts the Redis subscription when
// the first client of an org connects.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.orgs[c.OrgSlug] == nil {
		h.orgs[c.OrgSlug] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeOrg(c.OrgSlug, func(event string, payload []byte) {
				h.BroadcastToOrg(c.OrgSlug, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.OrgSlug] = cancel
			}
		}
	}
	h.orgs[c.OrgSlug][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined org room", zap.String("client_id", c.ID), zap.String("org", c.OrgSlug))
}

// Unregister removes a client. Cancels the Redis subscription when the last
// client of an org leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.orgs[c.OrgSlug]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.orgs, c.OrgSlug)
			if cancel, ok := h.subs[c.OrgSlug]; ok {
				cancel()
				delete(h.subs, c.OrgSlug)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left org room", zap.String("client_id", c.ID), zap.String("org", c.OrgSlug))
}

// BroadcastToOrg sends a message to all local clients of an org.
func (h *Hub) BroadcastToOrg(orgSlug, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.orgs[orgSlug]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastAndPublish sends to local clients and publishes to Redis for other
// instances.
func (h *Hub) BroadcastAndPublish(orgSlug, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToOrg(orgSlug, event, json.RawMessage(data))
	if h.redis != nil {
		_ = h.redis.PublishOrgEvent(orgSlug, event, data)
	}
}

// ActiveOrgs returns the org slugs with at least one connected client.
func (h *Hub) ActiveOrgs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.orgs))
	for slug := range h.orgs {
		out = append(out, slug)
	}
	return out
}

// ClientCount returns the number of connected clients for an org.
func (h *Hub) ClientCount(orgSlug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orgs[orgSlug])
}
