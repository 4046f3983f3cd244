package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/internal/logger"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // spectator feed is public; tighten in production
	},
}

// WSHandler handles WebSocket connections for the spectator feed.
type WSHandler struct {
	hub  *Hub
	host *BattleHost
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub, host *BattleHost) *WSHandler {
	return &WSHandler{hub: hub, host: host}
}

// ServeWS handles GET /api/v1/ws — upgrades to WebSocket. The feed is
// unauthenticated; clients pick battles with subscribe messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn: conn,
		id:   logger.NewConnID(),
		send: make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	// Confirm the connection is live and hand the client its id.
	h.hub.SendToConn(client, WSEvent{
		Type: "connected",
		Data: map[string]string{"conn_id": client.id},
	})

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("connId", client.id).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads messages from the WebSocket connection.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("connId", c.id).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connId", c.id).Msg("WebSocket unexpected close")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.BattleID == "" {
			continue
		}

		switch msg.Action {
		case "subscribe":
			h.hub.Subscribe(c, msg.BattleID)
			// Catch the client up: latest board state, and the result if
			// the battle already ended.
			if snap := h.host.Latest(msg.BattleID); snap != nil {
				h.hub.SendToConn(c, WSEvent{Type: EventSnapshot, BattleID: msg.BattleID, Data: json.RawMessage(snap)})
			}
			if st, ok := h.host.Get(msg.BattleID); ok && st.Result != nil {
				h.hub.SendToConn(c, WSEvent{Type: EventBattleFinished, BattleID: msg.BattleID, Data: st.Result})
			}
		case "unsubscribe":
			h.hub.Unsubscribe(c, msg.BattleID)
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same write
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
