// Package websocket keeps one hub of connected clients keyed by user so
// match and message events can be delivered to the two users they concern
// instead of broadcast to everyone.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenValidator turns a bearer token into a user id, or fails.
type TokenValidator func(token string) (primitive.ObjectID, error)

type Manager struct {
	clients    map[*Client]bool
	byUser     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan envelope
	mu         sync.RWMutex
}

type envelope struct {
	userIDs []string // empty means every client
	data    []byte
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan envelope, 64),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			if m.byUser[client.userID] == nil {
				m.byUser[client.userID] = make(map[*Client]bool)
			}
			m.byUser[client.userID][client] = true
			total := len(m.clients)
			m.mu.Unlock()
			log.Printf("WebSocket client registered for user %s. Total clients: %d", client.userID, total)

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				delete(m.byUser[client.userID], client)
				if len(m.byUser[client.userID]) == 0 {
					delete(m.byUser, client.userID)
				}
				close(client.send)
			}
			total := len(m.clients)
			m.mu.Unlock()
			log.Printf("WebSocket client unregistered. Total clients: %d", total)

		case env := <-m.outbound:
			m.mu.RLock()
			targets := make([]*Client, 0, 4)
			if len(env.userIDs) == 0 {
				for client := range m.clients {
					targets = append(targets, client)
				}
			} else {
				for _, uid := range env.userIDs {
					for client := range m.byUser[uid] {
						targets = append(targets, client)
					}
				}
			}
			m.mu.RUnlock()
			for _, client := range targets {
				select {
				case client.send <- env.data:
				default:
					// Slow consumer, drop it; readPump cleanup follows.
					m.unregisterAsync(client)
				}
			}
		}
	}
}

func (m *Manager) unregisterAsync(client *Client) {
	go func() { m.unregister <- client }()
}

func (m *Manager) sendTo(eventType string, payload interface{}, userIDs ...primitive.ObjectID) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Error marshaling WebSocket event %s: %v", eventType, err)
		return
	}
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.Hex()
	}
	m.outbound <- envelope{userIDs: ids, data: data}
}

// NotifyNewMessage delivers a chat message to its recipient in real time.
func (m *Manager) NotifyNewMessage(recipient primitive.ObjectID, message interface{}) {
	m.sendTo("new_message", message, recipient)
}

// NotifyNewMatch tells both users their relation just became a mutual match.
func (m *Manager) NotifyNewMatch(match interface{}, users ...primitive.ObjectID) {
	m.sendTo("new_match", match, users...)
}

// NotifyMatchUpdated reports a pending match changing status.
func (m *Manager) NotifyMatchUpdated(match interface{}, users ...primitive.ObjectID) {
	m.sendTo("match_updated", match, users...)
}

// NotifyMessagesRead tells the sender their messages were seen.
func (m *Manager) NotifyMessagesRead(sender primitive.ObjectID, payload interface{}) {
	m.sendTo("messages_read", payload, sender)
}

func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the connection after validating the token from the query
// string, since browsers cannot set headers on WebSocket requests.
func Handler(manager *Manager, validate TokenValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		userID, err := validate(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  userID.Hex(),
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": client.userID,
				"time":   time.Now().Unix(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}

		switch data["type"] {
		case "typing_start", "typing_end":
			c.relayTyping(data)
		case "ping":
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// relayTyping forwards a typing indicator to the counterpart named in the
// payload. The client tells us who the event is for; the server only checks
// the shape.
func (c *Client) relayTyping(data map[string]interface{}) {
	payload, ok := data["payload"].(map[string]interface{})
	if !ok {
		return
	}
	target, ok := payload["recipientId"].(string)
	if !ok {
		return
	}

	event, err := json.Marshal(map[string]interface{}{
		"type": data["type"],
		"payload": map[string]interface{}{
			"matchId":   payload["matchId"],
			"userId":    c.userID,
			"timestamp": time.Now().Unix(),
		},
	})
	if err != nil {
		return
	}
	c.manager.outbound <- envelope{userIDs: []string{target}, data: event}
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    "pong",
		"payload": map[string]interface{}{"time": time.Now().Unix()},
	})
	if err != nil {
		return
	}
	c.send <- msg
}
