package network

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dosinput/internal/protocol"
)

// ClientName identifies this program in the auth handshake
const ClientName = "dosinput"

// WSClient receives host input from a capture frontend over WebSocket and reconnects
// when the connection drops.
type WSClient struct {
	addr      string
	token     string
	version   string
	logger    *zap.Logger
	send      chan protocol.Message
	done      chan struct{}
	closeOnce sync.Once

	// OnInput is called for each host input message, on the read goroutine
	OnInput func(p protocol.HostInputPayload)

	// OnDisconnect is called after the connection to the frontend drops
	OnDisconnect func()

	mu          sync.Mutex
	isConnected bool
}

// NewWSClient creates a client for the capture frontend at addr ("host:port")
func NewWSClient(addr, token, version string, logger *zap.Logger) *WSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSClient{
		addr:    addr,
		token:   token,
		version: version,
		logger:  logger.Named("ws-client"),
		send:    make(chan protocol.Message, 100),
		done:    make(chan struct{}),
	}
}

// Start begins the client loop (connect & process)
func (c *WSClient) Start() {
	go c.loop()
}

func (c *WSClient) loop() {
	for {
		c.connect()

		// If connect returns, it means we disconnected. Wait a bit and retry.
		select {
		case <-c.done:
			return
		case <-time.After(5 * time.Second):
			c.logger.Info("attempting reconnection")
		}
	}
}

func (c *WSClient) connect() {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/ws"}
	c.logger.Info("connecting", zap.String("url", u.String()))

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		c.logger.Warn("connection failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c.mu.Lock()
	c.isConnected = true
	c.mu.Unlock()

	c.logger.Info("connected to capture frontend")

	c.send <- protocol.Message{
		Type: protocol.TypeAuth,
		Payload: protocol.AuthPayload{
			Token:         c.token,
			ClientName:    ClientName,
			ClientVersion: c.version,
		},
	}

	connDone := make(chan struct{})
	stopWrite := make(chan struct{})
	go func() {
		defer close(connDone)
		c.writePump(conn, stopWrite)
	}()

	c.readPump(conn)

	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()

	close(stopWrite)
	<-connDone

	if c.OnDisconnect != nil {
		c.OnDisconnect()
	}
}

func (c *WSClient) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.handleMessage(data)
	}
}

func (c *WSClient) writePump(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second) // Ping ticker
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			jsonMsg, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("marshal error", zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, jsonMsg); err != nil {
				c.logger.Warn("write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return
		case <-c.done:
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close() // unblocks readPump
			return
		}
	}
}

func (c *WSClient) handleMessage(data []byte) {
	switch protocol.MessageTypeOf(data) {
	case protocol.TypeHostInput:
		var payload protocol.HostInputPayload
		if err := protocol.DecodePayload(data, &payload); err != nil {
			c.logger.Warn("invalid host input", zap.Error(err))
			return
		}
		if c.OnInput != nil {
			c.OnInput(payload)
		}

	case protocol.TypePing:
		c.send <- protocol.Message{Type: protocol.TypePing}

	default:
		c.logger.Debug("ignoring message", zap.ByteString("data", data))
	}
}

// IsConnected returns true if the client is connected to the frontend
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Close stops the client
func (c *WSClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
