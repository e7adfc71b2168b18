package handlers_test

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"testing"
)

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

func TestFailedLoginEmitsSecurityLog(t *testing.T) {
	app, _ := newTestApp(t)
	tok := csrfToken(t, app)

	entries := captureLogs(t, func() {
		postForm(t, app, "/login", "", tok, map[string]string{
			"email": "amina@odapap.test", "password": "totally-wrong",
		})
	})
	if !hasAction(entries, "auth.login.fail") {
		t.Fatalf("expected auth.login.fail entry, got %+v", entries)
	}
}

func TestOrderPlacementEmitsAuditLog(t *testing.T) {
	app, _ := newTestApp(t)
	tok := csrfToken(t, app)

	postForm(t, app, "/cart", "sid-log", tok, map[string]string{"listingId": "lst-socks", "qty": "5"})
	entries := captureLogs(t, func() {
		postForm(t, app, "/orders", "sid-log", tok, map[string]string{
			"name": "Amina", "email": "amina@odapap.test", "address": "Moi+Ave", "fulfillment": "delivery",
		})
	})
	if !hasAction(entries, "order.place") {
		t.Fatalf("expected order.place audit entry, got %+v", entries)
	}
}
