// Package inspect serves a read-only view of a running game over HTTP: the
// latest snapshot as JSON and a websocket stream of frames.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nathoo/overworld/engine"
	"github.com/nathoo/overworld/engine/events"
)

// Message is what the websocket stream carries.
type Message struct {
	Type     string          `json:"type"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Events   []events.Event  `json:"events,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local debugging tool; any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server publishes frames to HTTP clients. The game loop calls Publish; the
// server never touches engine state.
type Server struct {
	router *gin.Engine
	hub    *hub
	latest atomic.Pointer[Message]
	logger *log.Logger
}

// New builds a server and its routes.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router: gin.New(),
		hub:    newHub(logger),
		logger: logger,
	}
	s.router.Use(gin.Recovery(), s.logRequests())
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/snapshot", s.handleSnapshot)
	s.router.GET("/ws", s.handleWS)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Publish records a frame and streams it to subscribers. It never blocks.
func (s *Server) Publish(snap engine.Snapshot, evs []events.Event) {
	msg := &Message{Type: "frame", Snapshot: snap, Events: evs}
	s.latest.Store(msg)
	if s.hub.len() == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encoding frame", "err", err)
		return
	}
	s.hub.broadcast(data)
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("inspector listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": s.hub.len()})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	msg := s.latest.Load()
	if msg == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame yet"})
		return
	}
	c.JSON(http.StatusOK, msg.Snapshot)
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.add(cl)

	// New subscribers start from the latest frame.
	if msg := s.latest.Load(); msg != nil {
		hello := *msg
		hello.Type = "hello"
		if data, err := json.Marshal(hello); err == nil {
			cl.send <- data
		}
	}

	go s.hub.writePump(cl)
	go s.hub.readPump(cl)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "took", time.Since(start))
	}
}
