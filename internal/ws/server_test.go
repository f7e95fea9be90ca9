package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/session-sentry/sentry/internal/config"
	"github.com/session-sentry/sentry/internal/session"
	"github.com/session-sentry/sentry/internal/sysinfo"
	"github.com/session-sentry/sentry/internal/wts"
)

func newTestServer(cfg config.ServerConfig) (*Server, *session.Store) {
	store := session.NewStore(16)
	b := NewBroadcaster(store, 0)
	return NewServer(cfg, store, b), store
}

func TestHandleEvents(t *testing.T) {
	s, store := newTestServer(config.ServerConfig{})
	store.Record(wts.Logon, time.Now())
	store.Record(wts.Lock, time.Now())

	rec := httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var events []session.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != wts.Logon || events[1].Event != wts.Lock {
		t.Errorf("events = [%v, %v], want [logon, lock]", events[0].Event, events[1].Event)
	}
}

func TestHandleStatus(t *testing.T) {
	s, store := newTestServer(config.ServerConfig{})
	s.SetHostInfo(func() (sysinfo.Host, error) {
		return sysinfo.Host{Hostname: "workstation-7"}, nil
	})
	store.Record(wts.Lock, time.Now())

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Session.Locked {
		t.Error("status does not report session locked")
	}
	if resp.Host == nil || resp.Host.Hostname != "workstation-7" {
		t.Errorf("host = %+v, want workstation-7", resp.Host)
	}
}

func TestAuthorization(t *testing.T) {
	s, _ := newTestServer(config.ServerConfig{AuthToken: "sekrit"})

	rec := httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/events?token=sekrit", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("query token: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	s.handleEvents(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("bearer token: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	s.handleEvents(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}
}

func TestCheckOriginDefaults(t *testing.T) {
	s, _ := newTestServer(config.ServerConfig{})

	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "example.com", true}, // non-browser client
		{"http://localhost:3000", "example.com", true},
		{"http://127.0.0.1:8091", "example.com", true},
		{"http://example.com", "example.com", true},
		{"http://evil.test", "example.com", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Host = tt.host
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := s.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(origin=%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestCheckOriginAllowlist(t *testing.T) {
	s, _ := newTestServer(config.ServerConfig{
		AllowedOrigins: []string{"https://dash.internal"},
	})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://dash.internal")
	if !s.checkOrigin(req) {
		t.Error("allowlisted origin rejected")
	}

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	if s.checkOrigin(req) {
		t.Error("non-allowlisted origin accepted when allowlist is set")
	}
}
