package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/parsecv/api/internal/model"
)

// TopicNotifications carries global status events; per-document updates use
// the document ID as the topic.
const TopicNotifications = "notifications"

// Client represents a WebSocket client subscribed to one topic
type Client struct {
	Topic string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Hub maintains active WebSocket connections
type Hub struct {
	// Clients grouped by topic
	clients map[string]map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Broadcast messages to topic subscribers
	broadcast chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage represents a message to broadcast
type BroadcastMessage struct {
	Topic   string
	Message []byte
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Topic]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.Topic)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[msg.Topic]; ok {
				for client := range clients {
					select {
					case client.Send <- msg.Message:
					default:
						close(client.Send)
						delete(clients, client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// publish marshals and queues a message without blocking the caller; when the
// broadcast buffer is saturated the message is dropped.
func (h *Hub) publish(topic string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", topic, err)
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{Topic: topic, Message: data}:
	default:
	}
}

// BroadcastProgress sends a progress update to subscribers of a document
func (h *Hub) BroadcastProgress(documentID string, progress float64, status model.DocumentStatus, stage string, etaSeconds int) {
	h.publish(documentID, model.WSProgressMessage{
		Type:       model.WSMessageTypeProgress,
		DocumentID: documentID,
		Progress:   progress,
		Status:     status,
		Stage:      stage,
		ETASeconds: etaSeconds,
	})
}

// BroadcastComplete sends a completion message to subscribers of a document
func (h *Hub) BroadcastComplete(documentID string, result any) {
	h.publish(documentID, model.WSCompleteMessage{
		Type:       model.WSMessageTypeComplete,
		DocumentID: documentID,
		Result:     result,
	})
}

// BroadcastError sends an error message to subscribers of a document
func (h *Hub) BroadcastError(documentID string, code, message string) {
	h.publish(documentID, model.WSErrorMessage{
		Type:       model.WSMessageTypeError,
		DocumentID: documentID,
		Error: model.WSError{
			Code:    code,
			Message: message,
		},
	})
}

// BroadcastNotification sends a status event to the notifications topic
func (h *Hub) BroadcastNotification(title, message string, severity model.Severity) {
	h.publish(TopicNotifications, model.WSNotificationMessage{
		Type:     model.WSMessageTypeNotification,
		Title:    title,
		Message:  message,
		Severity: severity,
	})
}

// HandleConnection handles a WebSocket connection
func (h *Hub) HandleConnection(c *websocket.Conn, topic string) {
	client := &Client{
		Topic: topic,
		Conn:  c,
		Send:  make(chan []byte, 256),
	}

	h.Register(client)
	defer h.Unregister(client)

	// Start writer goroutine
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.Send:
				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				// Send ping for keep-alive
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Handle client messages (ping/pong)
		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			pong := model.WSMessage{Type: model.WSMessageTypePong}
			data, _ := json.Marshal(pong)
			client.Send <- data
		}
	}
}
