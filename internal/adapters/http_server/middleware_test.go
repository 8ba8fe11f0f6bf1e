package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	server "store_reviews/internal/adapters/http_server"
)

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLogger_RequestFields(t *testing.T) {
	h, logs := newServer(t, &source{}, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/v1/apps/com.path/reviews?source=ignored", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	entry := lastLogLine(t, logs)
	if entry["message"] != "http_request" {
		t.Fatalf("expected http_request entry, got %v", entry)
	}
	if entry["route"] != "/v1/apps/{id}/reviews" || entry["method"] != "GET" || entry["status"] != float64(200) {
		t.Fatalf("unexpected route/method/status: %v", entry)
	}
	if entry["remote"] != "203.0.113.9" {
		t.Fatalf("expected client ip from X-Forwarded-For, got %v", entry["remote"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Fatalf("missing request id: %v", entry)
	}
	if n, _ := entry["bytes"].(float64); int(n) != rr.Body.Len() {
		t.Fatalf("bytes = %v, body was %d", entry["bytes"], rr.Body.Len())
	}
}

func TestLogger_StatusWithoutExplicitHeader(t *testing.T) {
	var logs bytes.Buffer
	srv := server.New(zerolog.New(&logs), time.Second)
	srv.Mount("/silent", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Mount("/gone", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusGone) }))

	for path, want := range map[string]float64{"/silent": 200, "/gone": 410} {
		logs.Reset()
		srv.Mux().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if got := lastLogLine(t, &logs)["status"]; got != want {
			t.Fatalf("%s: status logged %v, want %v", path, got, want)
		}
	}
}

func TestTimeout_SlowHandler(t *testing.T) {
	srv := server.New(zerolog.Nop(), 30*time.Millisecond)
	srv.Mount("/slow", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rr := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rr.Code)
	}
}
