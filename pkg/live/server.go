package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

// Server exposes a reconciled document over HTTP and WebSocket.
type Server struct {
	cfg    *Config
	reg    *shadow.Registry
	doc    *dom.Document
	logger *slog.Logger

	upgrader websocket.Upgrader
	hub      *hub
	seq      atomic.Uint64

	// mu serializes all tree access: frames, HTTP reads, Do.
	mu sync.Mutex

	unwatch []func()
}

// snapshot is the message pushed to WebSocket clients after each patch.
type snapshot struct {
	Seq  uint64 `json:"seq"`
	HTML string `json:"html"`
}

// NewServer creates a live server over the registry's document.
func NewServer(reg *shadow.Registry, cfg *Config) *Server {
	if reg == nil {
		panic("live: NewServer with nil registry")
	}
	cfg = cfg.withDefaults()
	logger := slog.Default().With("component", "live")

	s := &Server{
		cfg:    cfg,
		reg:    reg,
		doc:    reg.Document(),
		logger: logger,
		hub:    newHub(logger, cfg.SendBuffer),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     cfg.CheckOrigin,
	}
	return s
}

// Watch subscribes to patch events on the given live node and pushes a
// fresh snapshot to connected clients after each one. The patch event
// does not bubble, so each tracked node of interest is watched
// explicitly. Returns a function that stops watching.
func (s *Server) Watch(live *dom.Node) func() {
	remove := live.AddEventListener(shadow.EventPatch, func(*dom.Event) {
		// Fires during a frame, under mu.
		s.push()
	})
	s.unwatch = append(s.unwatch, remove)
	return remove
}

// stopWatches removes every listener Watch installed.
func (s *Server) stopWatches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stop := range s.unwatch {
		stop()
	}
	s.unwatch = nil
}

// push queues one snapshot of the whole document for broadcast.
func (s *Server) push() {
	msg := snapshot{
		Seq:  s.seq.Add(1),
		HTML: s.doc.HTML(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("snapshot encode failed", "error", err)
		return
	}
	s.hub.broadcast(payload)
}

// Do runs fn with exclusive access to the tree. All shadow mutations
// made while the server is running must go through here.
func (s *Server) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Frame advances the document's scheduler by one frame.
func (s *Server) Frame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Scheduler().Frame()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/tree", s.handleTree)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	html := s.doc.HTML()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := s.hub.add(conn, s.cfg.WriteTimeout)

	// Greet with the current state so clients render without waiting
	// for the first patch.
	s.mu.Lock()
	first, err := json.Marshal(snapshot{Seq: s.seq.Load(), HTML: s.doc.HTML()})
	s.mu.Unlock()
	if err == nil {
		c.trySend(first)
	}

	s.logger.Info("websocket client connected", "clients", s.hub.count())
	go c.writeLoop()
	c.readLoop() // blocks until the client goes away
	s.hub.remove(c)
	s.logger.Info("websocket client disconnected", "clients", s.hub.count())
}

// Run serves HTTP and drives the frame loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	frameCtx, stopFrames := context.WithCancel(ctx)
	defer stopFrames()
	go s.frameLoop(frameCtx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "error", err)
		}
		s.hub.close()
	}()

	s.logger.Info("live server listening", "addr", s.cfg.Addr)
	err := httpSrv.ListenAndServe()
	s.stopWatches()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) frameLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Frame()
			return
		case <-ticker.C:
			s.Frame()
		}
	}
}
