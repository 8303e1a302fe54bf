package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/mdmanual/internal/enhance"
	"github.com/ziadkadry99/mdmanual/internal/site"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	return New(cfg, nil)
}

func writePage(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPagesAPI(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/pages", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty listing = %q, want []", w.Body.String())
	}

	srv.SetPages([]site.SearchEntry{
		{Path: "guide.html", Title: "Guide", TOC: []enhance.Entry{{Level: 2, Tag: "h2", ID: "intro", Text: "Intro"}}},
		{Path: "usage.html", Title: "Usage"},
	})

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/pages", nil))
	var pages []site.SearchEntry
	if err := json.Unmarshal(w.Body.Bytes(), &pages); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/pages/guide", nil))
	var page site.SearchEntry
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Title != "Guide" || len(page.TOC) != 1 {
		t.Errorf("page = %+v", page)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/pages/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing page status = %d, want 404", w.Code)
	}
}

func TestStaticInjectsLiveReload(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true})
	writePage(t, srv.cfg.Dir, "index.html", "<html><body><p>home</p></body></html>")
	writePage(t, srv.cfg.Dir, "notes.txt", "plain </body>")

	for _, path := range []string{"/", "/index.html"} {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "/livereload") || !strings.HasSuffix(body, "</script>\n</body></html>") {
			t.Errorf("GET %s body = %q", path, body)
		}
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/notes.txt", nil))
	if w.Body.String() != "plain </body>" {
		t.Errorf("non-HTML file was modified: %q", w.Body.String())
	}
}

func TestStaticWithoutLiveReload(t *testing.T) {
	srv := newTestServer(t, Config{})
	writePage(t, srv.cfg.Dir, "guide.html", "<html><body>guide</body></html>")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/guide.html", nil))
	if w.Body.String() != "<html><body>guide</body></html>" {
		t.Errorf("body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/livereload", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("/livereload status = %d, want 404", w.Code)
	}
}

func TestInjectLiveReloadWithoutBody(t *testing.T) {
	got := string(injectLiveReload([]byte("<p>fragment</p>")))
	if !strings.HasPrefix(got, "<p>fragment</p><script>") {
		t.Errorf("got %q", got)
	}
}

func TestLiveReloadBroadcast(t *testing.T) {
	srv := newTestServer(t, Config{LiveReload: true})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/livereload"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Reload()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg reloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "reload" {
		t.Errorf("type = %q, want reload", msg.Type)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after Shutdown")
	}
}

func TestServeAndShutdown(t *testing.T) {
	srv := newTestServer(t, Config{})
	writePage(t, srv.cfg.Dir, "index.html", "<html><body>ok</body></html>")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/index.html")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; err != http.ErrServerClosed {
		t.Errorf("Serve returned %v, want ErrServerClosed", err)
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	var rebuilds atomic.Int32
	w := &Watcher{
		Dir:      dir,
		Debounce: 100 * time.Millisecond,
		Rebuild:  func(context.Context) { rebuilds.Add(1) },
		ready:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never became ready")
	}

	writePage(t, dir, "a.md", "# A")
	writePage(t, dir, "b.md", "# B")
	writePage(t, dir, ".hidden.md", "ignored")

	deadline := time.Now().Add(3 * time.Second)
	for rebuilds.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("rebuild never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	if n := rebuilds.Load(); n != 1 {
		t.Errorf("rebuilds = %d, want 1", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := &Watcher{Dir: filepath.Join(t.TempDir(), "missing"), Rebuild: func(context.Context) {}}
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for a missing directory")
	}
}
