package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// frames queued per spectator before it is considered too slow
	sendBuffer = 32
)

// client owns one spectator socket. Only its writer goroutine writes to conn.
type client struct {
	id   string
	conn *websocket.Conn
	send chan ServerMessage
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[WS] Write to %s failed: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ConnectionManager tracks spectator connections thread-safely
type ConnectionManager struct {
	clients map[string]*client
	mu      sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*client),
	}
}

// AddConnection registers conn under id and starts its writer.
func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	c := &client{id: id, conn: conn, send: make(chan ServerMessage, sendBuffer)}

	cm.mu.Lock()
	if old, exists := cm.clients[id]; exists {
		old.close()
	}
	cm.clients[id] = c
	cm.mu.Unlock()

	go c.writePump()
}

// RemoveConnection stops the writer for id, which closes the socket.
func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if c, exists := cm.clients[id]; exists {
		c.close()
		delete(cm.clients, id)
	}
}

// SendMessage queues message for one spectator. A spectator whose queue is
// full is disconnected.
func (cm *ConnectionManager) SendMessage(id string, message ServerMessage) {
	// queues are only closed under the write lock
	cm.mu.RLock()
	c, exists := cm.clients[id]
	queued := exists && cm.enqueue(c, message)
	cm.mu.RUnlock()

	if exists && !queued {
		log.Printf("[WS] Spectator %s too slow, dropping connection", id)
		cm.RemoveConnection(id)
	}
}

// BroadcastMessage queues message for every spectator, in call order.
func (cm *ConnectionManager) BroadcastMessage(message ServerMessage) {
	var slow []string

	cm.mu.RLock()
	for id, c := range cm.clients {
		if !cm.enqueue(c, message) {
			slow = append(slow, id)
		}
	}
	cm.mu.RUnlock()

	for _, id := range slow {
		log.Printf("[WS] Spectator %s too slow, dropping connection", id)
		cm.RemoveConnection(id)
	}
}

func (cm *ConnectionManager) enqueue(c *client, message ServerMessage) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Count returns the number of connected spectators.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// CloseAll disconnects every spectator.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, c := range cm.clients {
		c.close()
		delete(cm.clients, id)
	}
}
