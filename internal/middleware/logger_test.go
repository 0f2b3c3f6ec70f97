package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := LoggerWith(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("secret-output"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"password":"hunter2"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	id := rec.Header().Get(RequestIDHeader)
	if len(id) != requestIDLength {
		t.Fatalf("expected %d character request id, got %q", requestIDLength, id)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != id {
		t.Errorf("logged request_id = %v, want %q", entry["request_id"], id)
	}
	if entry["status"] != float64(http.StatusCreated) {
		t.Errorf("logged status = %v, want %d", entry["status"], http.StatusCreated)
	}
	if entry["path"] != "/api/v1/generate" {
		t.Errorf("logged path = %v", entry["path"])
	}
	if strings.Contains(buf.String(), "hunter2") || strings.Contains(buf.String(), "secret-output") {
		t.Errorf("log line leaks request or response body: %s", buf.String())
	}
}

func TestLogger_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := LoggerWith(slog.New(slog.NewTextHandler(&buf, nil)))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
	if !strings.Contains(buf.String(), "request_id=abc123") {
		t.Errorf("expected request id in log line: %s", buf.String())
	}
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := LoggerWith(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Errorf("expected ERROR level for 5xx: %s", buf.String())
	}
}
