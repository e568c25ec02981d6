package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgNextQuestion   MessageType = "next_question"
	MsgProgressUpdate MessageType = "progress_update"
	MsgReportReady    MessageType = "report_ready"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections keyed by session. A session may have
// more than one connection open, such as a phone plus a kiosk screen.
type Hub struct {
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to fan out to one session's connections
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]bool)
			}
			h.conns[conn.SessionID][conn] = true
			log.Printf("Client connected to session %s", conn.SessionID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.conns[conn.SessionID]; ok {
				if clients[conn] {
					delete(clients, conn)
					close(conn.Send)
					log.Printf("Client disconnected from session %s", conn.SessionID)
				}
				if len(clients) == 0 {
					delete(h.conns, conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifySession pushes a message to every connection of a session
// (implements service.Notifier)
func (h *Hub) NotifySession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to encode ws payload for session %s: %v", sessionID, err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
