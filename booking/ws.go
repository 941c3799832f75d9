package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Client is one websocket watcher. Send is drained by its own writePump so
// a slow reader never holds up a broadcast.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte

	// set before Send is closed
	closeCode int
	closeText string
}

// Hub fans seat updates out to websocket watchers, keyed by event id.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[*Client]struct{})}
}

// HandleWS upgrades the request and keeps the watcher registered until the
// client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed for event %s: %v", eventID, err)
		return
	}

	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer)}
	h.register(eventID, client)
	go writePump(client)

	defer func() {
		h.unregister(eventID, client, websocket.CloseNormalClosure, "")
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(c.closeCode, c.closeText),
		time.Now().Add(writeWait))
}

func (h *Hub) register(eventID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[eventID] == nil {
		h.subscribers[eventID] = make(map[*Client]struct{})
	}
	h.subscribers[eventID][c] = struct{}{}
}

func (h *Hub) unregister(eventID string, c *Client, code int, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(eventID, c, code, text)
}

// drop must be called with h.mu held. Send is closed exactly once, by
// whoever removes the client from the map.
func (h *Hub) drop(eventID string, c *Client, code int, text string) {
	clients, ok := h.subscribers[eventID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.subscribers, eventID)
	}
	c.closeCode, c.closeText = code, text
	close(c.Send)
}

// Watchers reports how many connections follow eventID.
func (h *Hub) Watchers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[eventID])
}

// Broadcast queues msg as JSON for every watcher of eventID. It never
// blocks; a watcher whose buffer is full is disconnected.
func (h *Hub) Broadcast(eventID string, msg any) {
	val, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] marshal broadcast for event %s: %v", eventID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.subscribers[eventID] {
		select {
		case c.Send <- val:
		default:
			log.Printf("[WS] dropping slow watcher on event %s", eventID)
			h.drop(eventID, c, websocket.ClosePolicyViolation, "too slow")
		}
	}
}

// Close drops every watcher. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for eventID, clients := range h.subscribers {
		for c := range clients {
			h.drop(eventID, c, websocket.CloseGoingAway, "server shutting down")
		}
	}
}
