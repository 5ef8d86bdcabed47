package websocket

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-matrix/pkg/uid"
	"github.com/iamasit07/connect4-matrix/pkg/useragent"
)

// Handler upgrades spectator connections and feeds them from the hub.
type Handler struct {
	Hub      *Hub
	Conns    *ConnectionManager
	Upgrader websocket.Upgrader
}

// NewHandler accepts connections from allowedOrigins, or from anywhere when
// the list is empty.
func NewHandler(hub *Hub, conns *ConnectionManager, allowedOrigins []string) *Handler {
	return &Handler{
		Hub:   hub,
		Conns: conns,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	id, err := uid.NewClientID()
	if err != nil {
		log.Printf("[WS] Client id error: %v", err)
		conn.Close()
		return
	}

	h.Conns.AddConnection(id, conn)
	h.Conns.SendMessage(id, h.Hub.welcome(id))
	log.Printf("[WS] Spectator %s connected: %s (%d watching)", id, useragent.Describe(r), h.Conns.Count())

	h.readLoop(id, conn)
}

// readLoop discards client messages; it exists to process pongs and notice
// disconnects.
func (h *Handler) readLoop(id string, conn *websocket.Conn) {
	defer func() {
		h.Conns.RemoveConnection(id)
		log.Printf("[WS] Spectator %s disconnected", id)
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Spectator %s disconnected unexpectedly: %v", id, err)
			}
			return
		}
	}
}
