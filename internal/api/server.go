// Package api provides a local HTTP API for driving the input handler and a WebSocket
// endpoint capture frontends can push host input to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dosinput/internal/input"
	"dosinput/internal/network"
	"dosinput/internal/protocol"
)

// Target is the handler the API drives
type Target interface {
	network.HostInputHandler
	MouseActive() bool
	KeyboardLayout() string
}

// Status reports what the emulator currently holds
type Status interface {
	ID() uuid.UUID
	HeldKeys() []input.EmulatedKeyCode
	HeldButtons() []input.MouseButton
}

// Server provides the HTTP API
type Server struct {
	target Target
	status Status
	token  string
	logger *zap.Logger
	wsMgr  *WSManager

	// Intercept, when set, sees every host input message from a frontend first.
	// Messages it returns true for are not dispatched.
	Intercept func(p protocol.HostInputPayload) bool
	// OnDisconnect, when set, runs after a frontend that sent input goes away
	OnDisconnect func()

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a new API server. status may be nil.
func NewServer(target Target, status Status, token string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		target: target,
		status: status,
		token:  token,
		logger: logger.Named("api"),
	}
	s.wsMgr = newWSManager(s)
	return s
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/key", s.handleKey)
	mux.HandleFunc("/api/release", s.handleRelease)
	mux.HandleFunc("/api/mouse", s.handleMouse)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return s.authMiddleware(s.recoverMiddleware(mux))
}

// Start listens on addr and serves until Stop is called. It blocks.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server := &http.Server{Handler: s.Handler()}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Info("API server listening", zap.String("addr", ln.Addr().String()))
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes the listener and every frontend connection
func (s *Server) Stop(ctx context.Context) error {
	s.wsMgr.closeAll()

	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered", zap.Any("panic", err), zap.String("path", r.URL.Path))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the API token if configured. WebSocket frontends authenticate
// in-band with an auth message instead.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))

		if r.URL.Path == "/health" || r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]interface{}{
		"layout":       s.target.KeyboardLayout(),
		"mouse_active": s.target.MouseActive(),
		"frontends":    s.wsMgr.count(),
	}
	if s.status != nil {
		keys := s.status.HeldKeys()
		held := make([]string, len(keys))
		for i, k := range keys {
			held[i] = "0x" + strconv.FormatUint(uint64(k), 16)
		}
		buttons := s.status.HeldButtons()
		heldButtons := make([]string, len(buttons))
		for i, b := range buttons {
			heldButtons[i] = b.String()
		}
		resp["session"] = s.status.ID().String()
		resp["held_keys"] = held
		resp["held_buttons"] = heldButtons
	}
	writeJSON(w, resp)
}

// handleKey handles POST /api/key?name=<key>, sending one canned keystroke
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing name parameter", http.StatusBadRequest)
		return
	}
	if !s.target.SendNamedKey(name) {
		http.Error(w, "Unknown key: "+name, http.StatusNotFound)
		return
	}

	s.logger.Info("sent key", zap.String("name", name), zap.String("remote", r.RemoteAddr))
	writeJSON(w, map[string]string{"status": "ok", "key": name})
}

// handleRelease handles POST /api/release, releasing every held key and button
func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.target.LostFocus()
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleMouse handles POST /api/mouse?active=<bool>
func (s *Server) handleMouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	active, err := strconv.ParseBool(r.URL.Query().Get("active"))
	if err != nil {
		http.Error(w, "Invalid active parameter", http.StatusBadRequest)
		return
	}
	s.target.SetMouseActive(active)
	writeJSON(w, map[string]interface{}{"status": "ok", "mouse_active": active})
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
