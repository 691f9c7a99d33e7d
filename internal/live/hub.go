// Package live provides the best-effort broadcast channel that tells
// connected dashboards to re-pull results. It is not a durable queue: missed
// events are recovered by the next poll or reconnect.
package live

import (
	"encoding/json"
	"net/http"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/incvoting/voting-api/internal/logger"
)

// Notifier is the fire-and-forget publish primitive the voting core calls
// after its transaction commits.
type Notifier interface {
	Publish(event Event)
}

// Event is the single event kind broadcast to observers.
type Event struct {
	Type       string `json:"type"`
	Count      int    `json:"count,omitempty"`
	DelegateID string `json:"delegate_id,omitempty"`
}

// NewVotesEvent builds the "new_votes" notification emitted after a ballot is
// recorded.
func NewVotesEvent(count int, delegateID string) Event {
	return Event{
		Type:       "new_votes",
		Count:      count,
		DelegateID: delegateID,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboards connect from a different origin
	},
}

// Client is one connected dashboard observer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts events to every connected observer. Delivery is best-effort
// and unordered across observers; slow clients are dropped rather than
// blocking the broadcast loop.
type Hub struct {
	clients      map[*Client]bool
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *Client
	log          *charmlog.Logger
}

// NewHub creates a hub; call Run in a goroutine before accepting connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logger.Hub(),
	}
}

// Run owns the client set and pumps broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = true
			h.clientsMutex.Unlock()
			h.log.Debug("observer connected", "observers", h.ClientCount())
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
			h.log.Debug("observer disconnected", "observers", h.ClientCount())
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Publish marshals the event and hands it to the broadcast loop without
// blocking. If the hub is saturated the event is dropped; observers recover
// on their next pull.
func (h *Hub) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", "error", err, "type", event.Type)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("broadcast buffer full, dropping event", "type", event.Type)
	}
}

// ClientCount returns the number of currently connected observers.
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles GET /ws and upgrades the connection.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err, "remote_addr", c.ClientIP())
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection so close frames and pings are processed;
// observers never send application messages.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
