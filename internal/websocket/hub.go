package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// StatusEvent is the message pushed to connected dashboards whenever a
// document's status changes, so the UI does not have to poll.
type StatusEvent struct {
	Type       string `json:"type"`
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
}

// Hub maintains the set of active dashboard clients and broadcasts
// status events to all of them.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("📡 Dashboard client connected (%d active)", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop the event
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishStatus broadcasts a document status change to every connected
// client. Never blocks the caller.
func (h *Hub) PublishStatus(documentID, status string) {
	msg, err := json.Marshal(StatusEvent{
		Type:       "document_status",
		DocumentID: documentID,
		Status:     status,
	})
	if err != nil {
		log.Printf("Error marshaling status event: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
