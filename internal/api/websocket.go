package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dosinput/internal/network"
	"dosinput/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Frontends run on the same machine or LAN and authenticate in-band
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSManager tracks capture frontends connected over WebSocket
type WSManager struct {
	server    *Server
	clients   map[*WebSocketClient]bool
	clientsMu sync.Mutex
}

// WebSocketClient represents a connected capture frontend
type WebSocketClient struct {
	manager       *WSManager
	conn          *websocket.Conn
	send          chan []byte
	ip            string
	authenticated bool
	sentInput     bool
}

func newWSManager(s *Server) *WSManager {
	return &WSManager{
		server:  s,
		clients: make(map[*WebSocketClient]bool),
	}
}

func (m *WSManager) register(c *WebSocketClient) {
	m.clientsMu.Lock()
	m.clients[c] = true
	total := len(m.clients)
	m.clientsMu.Unlock()
	m.server.logger.Info("frontend connected", zap.String("remote", c.ip), zap.Int("total", total))
}

func (m *WSManager) unregister(c *WebSocketClient) {
	m.clientsMu.Lock()
	delete(m.clients, c)
	total := len(m.clients)
	m.clientsMu.Unlock()
	m.server.logger.Info("frontend disconnected", zap.String("remote", c.ip), zap.Int("total", total))
}

func (m *WSManager) count() int {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	return len(m.clients)
}

// closeAll drops every connection; each read pump then cleans up its client
func (m *WSManager) closeAll() {
	m.clientsMu.Lock()
	clients := make([]*WebSocketClient, 0, len(m.clients))
	for c := range m.clients {
		clients = append(clients, c)
	}
	m.clientsMu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

func (m *WSManager) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.server.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &WebSocketClient{
		manager:       m,
		conn:          conn,
		send:          make(chan []byte, 16),
		ip:            r.RemoteAddr,
		authenticated: m.server.token == "",
	}
	m.register(client)

	go client.writePump()
	go client.readPump()
}

// readPump applies messages from the frontend until the connection drops
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.unregister(c)
		close(c.send)
		c.conn.Close()
		// The frontend can no longer report releases for what it pressed
		if c.sentInput {
			c.manager.server.target.LostFocus()
			if c.manager.server.OnDisconnect != nil {
				c.manager.server.OnDisconnect()
			}
		}
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.manager.server.logger.Debug("read error", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		if !c.handleMessage(message) {
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"),
				time.Now().Add(time.Second))
			return
		}
	}
}

// writePump writes queued replies and keeps the connection alive with pings
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(50 * time.Second)
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// handleMessage applies one frontend message. It returns false when the connection
// must be dropped.
func (c *WebSocketClient) handleMessage(data []byte) bool {
	s := c.manager.server

	switch protocol.MessageTypeOf(data) {
	case protocol.TypeAuth:
		var payload protocol.AuthPayload
		if err := protocol.DecodePayload(data, &payload); err != nil {
			s.logger.Warn("invalid auth payload", zap.Error(err))
			return false
		}
		if s.token != "" && payload.Token != s.token {
			s.logger.Warn("frontend rejected: bad token", zap.String("remote", c.ip), zap.String("client", payload.ClientName))
			return false
		}
		c.authenticated = true
		s.logger.Info("frontend authenticated",
			zap.String("remote", c.ip),
			zap.String("client", payload.ClientName),
			zap.String("version", payload.ClientVersion))

	case protocol.TypeHostInput:
		if !c.authenticated {
			s.logger.Warn("host input before auth", zap.String("remote", c.ip))
			return false
		}
		var payload protocol.HostInputPayload
		if err := protocol.DecodePayload(data, &payload); err != nil {
			s.logger.Warn("invalid host input", zap.Error(err))
			return true
		}
		c.sentInput = true
		if s.Intercept != nil && s.Intercept(payload) {
			return true
		}
		if err := network.Dispatch(s.target, payload); err != nil {
			s.logger.Warn("rejected host input", zap.Error(err))
		}

	case protocol.TypePing:
		reply, _ := json.Marshal(protocol.Message{Type: protocol.TypePing})
		select {
		case c.send <- reply:
		default:
		}

	default:
		s.logger.Debug("ignoring message", zap.ByteString("data", data))
	}
	return true
}
