// Package server streams simulation state to websocket clients and accepts
// run controls (pause, resume, step, reset) from them.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/game"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Client is one websocket connection. Writes are serialized.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes v as a JSON message.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Options configures a Server.
type Options struct {
	Config       *config.Config
	Seed         int64
	TickInterval time.Duration
	Paused       bool // start without ticking
}

// Server owns one Game and fans its state out to connected clients.
type Server struct {
	mu       sync.Mutex // guards game, cfg, seed, paused
	game     *game.Game
	cfg      *config.Config
	seed     int64
	paused   bool
	interval time.Duration

	clientsMu sync.Mutex
	clients   map[*Client]struct{}
}

// New creates a server and its initial game.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	g, err := game.NewGame(game.Options{Config: cfg, Seed: opts.Seed})
	if err != nil {
		return nil, err
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Server.TickIntervalMS) * time.Millisecond
	}
	return &Server{
		game:     g,
		cfg:      g.Config(),
		seed:     opts.Seed,
		paused:   opts.Paused,
		interval: interval,
		clients:  make(map[*Client]struct{}),
	}, nil
}

// Handler returns the HTTP handler serving the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Run ticks the game at the configured interval and broadcasts each frame
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.game.Close()
			s.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			if frame, ok := s.advance(false); ok {
				s.broadcast(frame)
			}
		}
	}
}

// advance steps the game unless paused (force overrides). Both mobile
// breeds dying out pauses the run.
func (s *Server) advance(force bool) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused && !force {
		return Frame{}, false
	}
	s.game.Step()
	if s.game.Extinct() && !s.paused {
		s.paused = true
		slog.Info("all mobile agents extinct, pausing", "tick", s.game.Tick())
	}
	return newFrame(s.game), true
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &Client{conn: conn}

	s.mu.Lock()
	hello := newHello(s.game, s.paused)
	frame := newFrame(s.game)
	s.mu.Unlock()

	if err := client.Send(hello); err != nil {
		conn.Close()
		return
	}
	if err := client.Send(frame); err != nil {
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	n := len(s.clients)
	s.clientsMu.Unlock()
	slog.Info("client connected", "remote", r.RemoteAddr, "clients", n)

	for {
		var msg Control
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		s.handleControl(client, msg)
	}

	s.clientsMu.Lock()
	delete(s.clients, client)
	s.clientsMu.Unlock()
	conn.Close()
	slog.Info("client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) handleControl(from *Client, msg Control) {
	switch msg.Type {
	case ControlPause, ControlResume:
		s.mu.Lock()
		s.paused = msg.Type == ControlPause
		status := Status{Type: TypeStatus, Paused: s.paused, Tick: s.game.Tick()}
		s.mu.Unlock()
		s.broadcast(status)

	case ControlStep:
		if frame, ok := s.advance(true); ok {
			s.broadcast(frame)
		}

	case ControlReset:
		hello, frame, err := s.reset(msg)
		if err != nil {
			_ = from.Send(ErrorMessage{Type: TypeError, Message: err.Error()})
			return
		}
		s.broadcast(hello)
		s.broadcast(frame)

	default:
		_ = from.Send(ErrorMessage{Type: TypeError, Message: "unknown control " + msg.Type})
	}
}

// reset rebuilds the game from the current config with msg's overrides.
// The run stays paused after a reset.
func (s *Server) reset(msg Control) (Hello, Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := applyControl(s.cfg, msg)
	if err != nil {
		return Hello{}, Frame{}, err
	}
	seed := s.seed
	if msg.Seed != nil {
		seed = *msg.Seed
	}
	g, err := game.NewGame(game.Options{Config: cfg, Seed: seed})
	if err != nil {
		return Hello{}, Frame{}, err
	}

	s.game.Close()
	s.game, s.cfg, s.seed = g, g.Config(), seed
	s.paused = true
	slog.Info("simulation reset", "seed", seed)
	return newHello(g, s.paused), newFrame(g), nil
}

// broadcast sends v to every client, dropping those that fail.
func (s *Server) broadcast(v any) {
	s.clientsMu.Lock()
	list := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		list = append(list, c)
	}
	s.clientsMu.Unlock()

	for _, c := range list {
		if err := c.Send(v); err != nil {
			slog.Warn("client send failed", "error", err)
			s.clientsMu.Lock()
			delete(s.clients, c)
			s.clientsMu.Unlock()
			c.conn.Close()
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}
