package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kaleidemoskop/demodash/internal/logging"
	"github.com/kaleidemoskop/demodash/internal/ratelimit"
	"github.com/kaleidemoskop/demodash/internal/selection"
)

// startServer runs srv until the test ends.
func startServer(t *testing.T, srv *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	waitForServer(t, srv, 2*time.Second)
}

// waitForServer polls the server until it's ready or the timeout is reached.
func waitForServer(t *testing.T, srv *Server, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if srv.Addr() == "" {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		resp, err := http.Get(srv.URL() + "/health")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server did not start within timeout")
}

func postEvent(t *testing.T, srv *Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL()+"/api/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/events: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_ServesHTML(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{Version: "1.0"})
	startServer(t, srv)

	resp, err := http.Get(srv.URL() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{Title, "Jahr: 2022 (Simulation)", "Version 1.0", "/static/dashboard.js"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestServer_EventLifecycle(t *testing.T) {
	store := newTestStore()
	srv := NewServer(setupTestTables(t), store, Options{})
	startServer(t, srv)

	resp := postEvent(t, srv, `{"type":"set_year","year":2024}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set_year status = %d, want 200", resp.StatusCode)
	}
	var got apiView
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.View.State.Year != 2024 || got.View.Slider.Year != 2024 {
		t.Errorf("year = %d/%d, want 2024", got.View.State.Year, got.View.Slider.Year)
	}
	if store.Get().Year != 2024 {
		t.Errorf("store year = %d, want 2024", store.Get().Year)
	}

	// Repeating the same event changes nothing.
	resp = postEvent(t, srv, `{"type":"set_year","year":2024}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("repeated set_year status = %d, want 204", resp.StatusCode)
	}

	resp = postEvent(t, srv, `{"type":"tick"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("tick while paused status = %d, want 204", resp.StatusCode)
	}
}

func TestServer_BadEvents(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	startServer(t, srv)

	for _, body := range []string{`{"type":"rewind"}`, `not json`, `{"type":"set_history"}`} {
		resp := postEvent(t, srv, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s status = %d, want 400", body, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL() + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/events status = %d, want 405", resp.StatusCode)
	}
}

func TestServer_APIView(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	startServer(t, srv)

	postEvent(t, srv, `{"type":"set_history","on":true}`)
	postEvent(t, srv, `{"type":"set_year","year":1960}`)

	resp, err := http.Get(srv.URL() + "/api/view")
	if err != nil {
		t.Fatalf("GET /api/view: %v", err)
	}
	defer resp.Body.Close()

	var got apiView
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.View.Caption != "Jahr: 1960 (Historisch)" {
		t.Errorf("Caption = %q", got.View.Caption)
	}
	if got.View.Slider.Min != 1950 {
		t.Errorf("Slider.Min = %d, want 1950", got.View.Slider.Min)
	}
	if len(got.Note.Items) == 0 {
		t.Error("expected methodology note")
	}
}

func TestServer_Pyramid(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	startServer(t, srv)

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
		wantPrefix []byte
	}{
		{"/pyramid.png", http.StatusOK, "image/png", []byte("\x89PNG")},
		{"/pyramid.png?scenario=G1L1W1&year=2023&benchmark=true", http.StatusOK, "image/png", []byte("\x89PNG")},
		{"/pyramid.svg?history=true&year=1960", http.StatusOK, "image/svg+xml", []byte("<svg")},
		{"/pyramid.png?scenario=X", http.StatusBadRequest, "", nil},
		{"/pyramid.png?year=soon", http.StatusBadRequest, "", nil},
		{"/pyramid.gif", http.StatusNotFound, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL() + tt.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantType == "" {
				return
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !bytes.Contains(body[:min(len(body), 256)], tt.wantPrefix) {
				t.Errorf("body does not start with %q", tt.wantPrefix)
			}
		})
	}
}

func TestServer_StaticAndHealth(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	startServer(t, srv)

	for _, path := range []string{"/static/dashboard.js", "/static/dashboard.css", "/health", "/view"} {
		resp, err := http.Get(srv.URL() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestServer_HealthReportsDataset(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	startServer(t, srv)

	resp, err := http.Get(srv.URL() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status    string `json:"status"`
		StartYear int    `json:"start_year"`
		Scenarios int    `json:"scenarios"`
		Years     int    `json:"years"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" || health.StartYear != testStartYear {
		t.Errorf("health = %+v", health)
	}
	if health.Scenarios != 1 {
		t.Errorf("scenarios = %d, want 1", health.Scenarios)
	}
	if want := 2025 - testStartYear + 1; health.Years != want {
		t.Errorf("years = %d, want %d", health.Years, want)
	}
}

func TestServer_PlayerAdvances(t *testing.T) {
	store := newTestStore()
	srv := NewServer(setupTestTables(t), store, Options{TickInterval: 10 * time.Millisecond})
	startServer(t, srv)

	postEvent(t, srv, `{"type":"play"}`)

	deadline := time.Now().Add(2 * time.Second)
	for store.Get().Year == testStartYear && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.Get().Year == testStartYear {
		t.Fatal("year did not advance while playing")
	}

	postEvent(t, srv, `{"type":"pause"}`)
	paused := store.Get().Year
	time.Sleep(50 * time.Millisecond)
	if got := store.Get().Year; got != paused {
		t.Errorf("year moved from %d to %d after pause", paused, got)
	}
}

func TestServer_EventRateLimit(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{EventLimiter: ratelimit.NewLimiter(0.001, 1)})
	startServer(t, srv)

	if resp := postEvent(t, srv, `{"type":"play"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("first event status = %d", resp.StatusCode)
	}
	if resp := postEvent(t, srv, `{"type":"pause"}`); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second event status = %d, want 429", resp.StatusCode)
	}
}

type bufferCloser struct{ bytes.Buffer }

func (*bufferCloser) Close() error { return nil }

// lockedBuffer is written by the server goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_LogsTransitionsAndAccess(t *testing.T) {
	var access lockedBuffer
	var trace bufferCloser
	srv := NewServer(setupTestTables(t), newTestStore(), Options{
		AccessLog:   &access,
		Transitions: logging.NewTransitionLogger(&trace),
	})

	// Dispatching straight to the store is logged as well.
	srv.store.Dispatch(selection.SetBenchmark{On: true})
	if !strings.Contains(trace.String(), `"event":"set_benchmark"`) {
		t.Errorf("transition not recorded: %q", trace.String())
	}

	startServer(t, srv)
	resp, err := http.Get(srv.URL() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	deadline := time.Now().Add(time.Second)
	for !strings.Contains(access.String(), "GET /health") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(access.String(), "GET /health") {
		t.Errorf("access log = %q", access.String())
	}
}

func TestServer_CleanShutdown(t *testing.T) {
	srv := NewServer(setupTestTables(t), newTestStore(), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	waitForServer(t, srv, 2*time.Second)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error on shutdown: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down within 3 seconds")
	}
}
