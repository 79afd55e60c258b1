package live

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/morph"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

func newTestServer(t *testing.T) (*Server, *shadow.Registry, *dom.Node) {
	t.Helper()
	d, err := dom.ParseHTML(strings.NewReader(
		`<html><head></head><body><div id="app">hello</div></body></html>`), nil)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	reg := shadow.New(d, morph.New())
	app, _ := d.Query("#app")
	cfg := &Config{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return NewServer(reg, cfg), reg, app
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTreeSnapshot(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/tree")
	if err != nil {
		t.Fatalf("GET /tree: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `<div id="app">hello</div>`) {
		t.Errorf("tree = %q, missing app div", body)
	}
}

func TestIndexServesViewer(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}

func TestNoMetricsRouteWithoutHandler(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketGreetsAndPushesPatches(t *testing.T) {
	s, reg, app := newTestServer(t)
	s.Watch(app)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Greeting carries the current document.
	var greet snapshot
	if err := readSnapshot(conn, &greet); err != nil {
		t.Fatalf("greeting: %v", err)
	}
	if !strings.Contains(greet.HTML, "hello") {
		t.Errorf("greeting html = %q", greet.HTML)
	}

	// Mutate the shadow and advance a frame; a new snapshot arrives.
	var sh *dom.Node
	s.Do(func() {
		sh, err = reg.Acquire(shadow.ByNode(app))
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.Do(func() {
		sh.FirstChild().SetText("goodbye")
	})
	s.Frame()

	var patch snapshot
	if err := readSnapshot(conn, &patch); err != nil {
		t.Fatalf("patch snapshot: %v", err)
	}
	if patch.Seq != greet.Seq+1 {
		t.Errorf("seq = %d, want %d", patch.Seq, greet.Seq+1)
	}
	if !strings.Contains(patch.HTML, "goodbye") {
		t.Errorf("patch html = %q, missing mutation", patch.HTML)
	}

	// No patch, no message.
	s.Frame()
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received a snapshot for an idle frame")
	}
}

func TestWatchUnsubscribe(t *testing.T) {
	s, reg, app := newTestServer(t)
	stop := s.Watch(app)
	stop()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var greet snapshot
	if err := readSnapshot(conn, &greet); err != nil {
		t.Fatalf("greeting: %v", err)
	}

	var sh *dom.Node
	s.Do(func() {
		sh, err = reg.Acquire(shadow.ByNode(app))
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.Do(func() { sh.SetAttr("x", "1") })
	s.Frame()

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received a snapshot after unsubscribe")
	}
}

func TestStopWatchesRemovesListeners(t *testing.T) {
	s, reg, app := newTestServer(t)
	s.Watch(app)

	var sh *dom.Node
	var err error
	s.Do(func() {
		sh, err = reg.Acquire(shadow.ByNode(app))
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	s.Do(func() { sh.SetAttr("x", "1") })
	s.Frame()
	if got := s.seq.Load(); got != 1 {
		t.Fatalf("seq = %d after patch, want 1", got)
	}

	s.stopWatches()

	s.Do(func() { sh.SetAttr("x", "2") })
	s.Frame()
	if got := s.seq.Load(); got != 1 {
		t.Errorf("seq = %d after stopWatches, want 1 (no further pushes)", got)
	}
	if s.unwatch != nil {
		t.Error("unwatch funcs retained after stopWatches")
	}
}

func readSnapshot(conn *websocket.Conn, into *snapshot) error {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, into)
}
