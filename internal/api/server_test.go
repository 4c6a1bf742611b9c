package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"dosinput/internal/emulator"
	"dosinput/internal/input"
	"dosinput/internal/protocol"
)

func newTestServer(t *testing.T, token string) (*Server, *input.Handler, *emulator.Recorder, *httptest.Server) {
	t.Helper()
	rec := emulator.NewRecorder(0)
	session := emulator.NewSession(nil, rec)
	h := input.NewHandler(input.Options{MouseActive: true})
	h.SetEmulator(session)

	s := NewServer(h, session, token, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, h, rec, ts
}

func do(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestAuth(t *testing.T) {
	_, _, _, ts := newTestServer(t, "secret")

	if resp := do(t, http.MethodGet, ts.URL+"/health", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected /health without token to be 200, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/status", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/status", "wrong"); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong token, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/status", "secret"); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	_, h, _, ts := newTestServer(t, "")
	h.SendKeyEvent(input.HostKeyA, true, 0)
	h.MouseButtonPressed(input.MouseLeft, 0)

	resp := do(t, http.MethodGet, ts.URL+"/api/status", "")
	var status struct {
		Layout      string   `json:"layout"`
		MouseActive bool     `json:"mouse_active"`
		Session     string   `json:"session"`
		HeldKeys    []string `json:"held_keys"`
		HeldButtons []string `json:"held_buttons"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}

	if status.Layout != input.DefaultKeyboardLayout {
		t.Errorf("Expected layout %q, got %q", input.DefaultKeyboardLayout, status.Layout)
	}
	if !status.MouseActive {
		t.Error("Expected mouse to be active")
	}
	if status.Session == "" {
		t.Error("Expected a session id")
	}
	if len(status.HeldKeys) != 1 || status.HeldKeys[0] != "0x1e" {
		t.Errorf("Expected held key 0x1e, got %v", status.HeldKeys)
	}
	if len(status.HeldButtons) != 1 {
		t.Errorf("Expected one held button, got %v", status.HeldButtons)
	}
}

func TestKeyEndpoint(t *testing.T) {
	_, _, rec, ts := newTestServer(t, "")

	if resp := do(t, http.MethodGet, ts.URL+"/api/key?name=tab", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/key", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without name, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/key?name=f13", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown key, got %d", resp.StatusCode)
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("Expected no events from rejected requests, got %d", len(rec.Events()))
	}

	if resp := do(t, http.MethodPost, ts.URL+"/api/key?name=tab", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("Expected press and release, got %d events", len(events))
	}
	if events[0].Key.Code != input.ScanTab || !events[0].Key.Pressed || events[1].Key.Pressed {
		t.Errorf("Expected tab press then release, got %+v", events)
	}
}

func TestReleaseAndMouseEndpoints(t *testing.T) {
	_, h, rec, ts := newTestServer(t, "")
	h.SendKeyEvent(input.HostKeyA, true, 0)

	if resp := do(t, http.MethodPost, ts.URL+"/api/release", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	events := rec.Events()
	if last := events[len(events)-1]; last.Kind != emulator.KindReleaseAll {
		t.Errorf("Expected release_all last, got %s", last.Kind)
	}

	if resp := do(t, http.MethodPost, ts.URL+"/api/mouse?active=maybe", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad active value, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/mouse?active=false", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if h.MouseActive() {
		t.Error("Expected mouse to be inactive")
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg protocol.Message) {
	t.Helper()
	data, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

func TestWebSocketFrontend(t *testing.T) {
	s, _, rec, ts := newTestServer(t, "secret")
	s.Intercept = func(p protocol.HostInputPayload) bool {
		return p.Kind == protocol.InputNamedKey
	}
	var disconnected atomic.Bool
	s.OnDisconnect = func() { disconnected.Store(true) }

	conn := dial(t, ts)
	send(t, conn, protocol.Message{Type: protocol.TypeAuth, Payload: protocol.AuthPayload{Token: "secret", ClientName: "test"}})
	send(t, conn, protocol.Message{Type: protocol.TypeHostInput, Payload: protocol.HostInputPayload{Kind: protocol.InputNamedKey, Name: "f1"}})
	send(t, conn, protocol.Message{Type: protocol.TypeHostInput, Payload: protocol.HostInputPayload{
		Kind: protocol.InputKey, KeyCode: uint16(input.HostKeyA), Pressed: true, HasModifiers: true,
	}})

	waitFor(t, "key press", func() bool { return len(rec.Events()) == 1 })
	if ev := rec.Events()[0]; ev.Kind != emulator.KindKey || ev.Key.Code != input.ScanA {
		t.Errorf("Expected A press only, got %+v", ev)
	}
	if s.wsMgr.count() != 1 {
		t.Errorf("Expected 1 frontend, got %d", s.wsMgr.count())
	}

	conn.Close()
	waitFor(t, "release on disconnect", func() bool {
		events := rec.Events()
		return len(events) > 0 && events[len(events)-1].Kind == emulator.KindReleaseAll
	})
	waitFor(t, "unregister", func() bool { return s.wsMgr.count() == 0 })
	waitFor(t, "disconnect hook", disconnected.Load)
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	_, _, rec, ts := newTestServer(t, "secret")

	conn := dial(t, ts)
	defer conn.Close()
	send(t, conn, protocol.Message{Type: protocol.TypeAuth, Payload: protocol.AuthPayload{Token: "wrong"}})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Errorf("Expected policy violation close, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("Expected no events, got %d", len(rec.Events()))
	}
}
