// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/preview"
)

const (
	RoleBuilder = "builder"
	RolePreview = "preview"

	redisChannelPrefix = "preview:"
)

type Client struct {
	ID      string
	Session string // preview session id, shared by one builder and its previews
	Role    string
	Conn    *WebSocketConn
	Send    chan []byte
}

type room struct {
	state   *preview.Session
	clients map[string]*Client
}

type message struct {
	session string
	data    []byte
}

// Hub relays builder envelopes to the preview clients of the same session.
// One-way, fire-and-forget: no acks, no retry, no persistence. Each room
// keeps the merged config snapshot so a preview joining late gets caught
// up with a single message.
type Hub struct {
	rooms      map[string]*room
	register   chan *Client
	unregister chan *Client
	forward    chan message
	rdb        *redis.Client // nil = single instance, no fan-out
	mu         sync.RWMutex
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		forward:    make(chan message, 256),
		rdb:        rdb,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// Push hands a raw builder message to the session's previews. With redis
// configured the message takes the pub/sub round trip so every instance
// (including this one) delivers it; without redis it goes straight to the
// local loop.
func (h *Hub) Push(session string, data []byte) {
	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), redisChannelPrefix+session, data).Err(); err != nil {
			log.Printf("Redis publish failed, delivering locally: %v", err)
			h.forward <- message{session: session, data: data}
		}
		return
	}
	h.forward <- message{session: session, data: data}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeLoop()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			r, ok := h.rooms[client.Session]
			if !ok {
				r = &room{state: preview.NewSession(), clients: make(map[string]*Client)}
				h.rooms[client.Session] = r
			}
			r.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("Preview client registered: %s (session %s, role %s)", client.ID, client.Session, client.Role)

			// catch a late-joining preview up in one snapshot
			if client.Role == RolePreview {
				if snap, err := json.Marshal(r.state.Snapshot()); err == nil {
					select {
					case client.Send <- snap:
					default:
					}
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if r, ok := h.rooms[client.Session]; ok {
				if old, ok := r.clients[client.ID]; ok {
					delete(r.clients, client.ID)
					close(old.Send)
					log.Printf("Preview client unregistered: %s", client.ID)
				}
				if len(r.clients) == 0 {
					delete(h.rooms, client.Session)
				}
			}
			h.mu.Unlock()

		case msg := <-h.forward:
			h.deliver(msg)
		}
	}
}

// deliver filters, merges and relays one message. Anything that is not an
// UPDATE_CONFIG envelope is dropped: the channel may carry unrelated
// traffic.
func (h *Hub) deliver(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[msg.session]
	if !ok {
		return
	}
	if changed := r.state.ApplyRaw(msg.data); changed == nil {
		return
	}

	for id, client := range r.clients {
		if client.Role != RolePreview {
			continue
		}
		select {
		case client.Send <- msg.data:
		default:
			// slow consumer: drop it rather than block the hub
			close(client.Send)
			delete(r.clients, id)
		}
	}
}

func (h *Hub) subscribeLoop() {
	sub := h.rdb.PSubscribe(context.Background(), redisChannelPrefix+"*")
	defer sub.Close()

	for m := range sub.Channel() {
		session := strings.TrimPrefix(m.Channel, redisChannelPrefix)
		h.forward <- message{session: session, data: []byte(m.Payload)}
	}
}
