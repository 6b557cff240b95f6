package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxflow/pkg/cache"
	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/observability"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

const toolbar = `
name = "toolbar"

[canvas]
width = 800
height = 600

[[root.children]]
tag = "bar"
anchor = ["fill-row", "top"]
expand = "both"

[[root.children.children]]
tag = "icon"
width = { fixed = 100 }
height = { fixed = 50 }

[[root.children.children]]
tag = "label"
anchor = ["fill"]
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(io.Discard)
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, logger), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/toml", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, r io.Reader, v any) {
	t.Helper()
	if err := json.NewDecoder(r).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeJSON(t, resp.Body, &body)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"valid id is kept", "0b5d4c8e-2f0a-4f5e-9a55-5d3c8f1e2a77", true},
		{"malformed id is replaced", "not-a-uuid", false},
		{"missing id is generated", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			resp.Body.Close()
			got := resp.Header.Get(RequestIDHeader)
			if tt.keep && got != tt.header {
				t.Errorf("id = %q, want %q", got, tt.header)
			}
			if !tt.keep && (got == "" || got == tt.header) {
				t.Errorf("id = %q, want a fresh uuid", got)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv.URL+"/v1/layout", toolbar)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}
	var snap snapshot.Snapshot
	decodeJSON(t, resp.Body, &snap)
	label, ok := snap.Lookup("label")
	if !ok || label.Rect != (snapshot.Rect{Left: 100, Width: 700, Height: 50}) {
		t.Errorf("label = %+v (found %v)", label, ok)
	}

	again := post(t, srv.URL+"/v1/layout", toolbar)
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", again.Header.Get("X-Cache"))
	}
}

func TestLayoutCanvasAndFormat(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv.URL+"/v1/layout?width=400&format=wireframe", toolbar)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `viewBox="0 0 400.0 600.0"`) {
		t.Errorf("wireframe not sized to canvas override:\n%s", body)
	}
}

func TestLayoutErrors(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name     string
		query    string
		body     string
		status   int
		wantCode string
	}{
		{"malformed toml", "", "[[root.children", http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", "", "colour = 'red'", http.StatusBadRequest, "INVALID_FIXTURE"},
		{"bad width", "?width=wide", toolbar, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "?format=pdf", toolbar, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/layout"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorResponse
			decodeJSON(t, resp.Body, &body)
			if string(body.Code) != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" || body.RequestID == "" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name    string
		query   string
		wantHit bool
		wantTag string
	}{
		{"icon", "?x=10&y=10", true, "icon"},
		{"label", "?x=500&y=20", true, "label"},
		{"miss", "?x=1000&y=1000", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/hittest"+tt.query, toolbar)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var body HitResponse
			decodeJSON(t, resp.Body, &body)
			if body.Hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", body.Hit, tt.wantHit)
			}
			if tt.wantHit && body.Box.Tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", body.Box.Tag, tt.wantTag)
			}
		})
	}

	resp := post(t, srv.URL+"/v1/hittest?x=1", toolbar)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing y: status = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/v1/layout")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/layout status = %d, want 405", resp.StatusCode)
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks

	mu        sync.Mutex
	requests  []string
	responses []int
	errors    int
}

func (h *httpRecorder) OnRequest(_ context.Context, method, path, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *httpRecorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func (h *httpRecorder) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	h := &httpRecorder{}
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	handler := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), nil).Handler()
	for _, body := range []string{toolbar, "nonsense ="} {
		req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if strings.Join(h.requests, ",") != "POST /v1/layout,POST /v1/layout" {
		t.Errorf("requests = %v", h.requests)
	}
	if len(h.responses) != 2 || h.responses[0] != 200 || h.responses[1] != 400 {
		t.Errorf("responses = %v", h.responses)
	}
	if h.errors != 1 {
		t.Errorf("errors = %d, want 1", h.errors)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidFixture, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFixtureNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeCapacityExceeded, "x"), http.StatusUnprocessableEntity},
		{errors.Wrap(errors.ErrCodeInvalidFormat, &http.MaxBytesError{Limit: 1}, "decode"), http.StatusRequestEntityTooLarge},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
