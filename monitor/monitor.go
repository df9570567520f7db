// Package monitor streams the gamepad control state to websocket clients so the gauge can be watched from another
// machine. A Monitor is a padcontrol.Display and padcontrol.AxisBars
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/calvinmclean/vescpad"
)

// State is the gauge and axis bar state sent to clients
type State struct {
	Axes     [vescpad.NumAxes]float64 `json:"axes"`
	Name     string                   `json:"name"`
	Unit     string                   `json:"unit"`
	Range    float64                  `json:"range"`
	Value    float64                  `json:"value"`
	Decimals int                      `json:"decimals"`
}

// Message is the websocket message envelope
type Message struct {
	Type      string `json:"type"`
	Seq       int64  `json:"seq"`
	Timestamp int64  `json:"timestamp"`
	Data      State  `json:"data"`
}

// Monitor collects state updates and broadcasts them to clients
type Monitor struct {
	mu    sync.Mutex
	state State
	dirty bool
	seq   int64

	hub      *hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a Monitor. Run must be called for clients to receive updates
func New(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		hub: newHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (m *Monitor) update(f func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(&m.state)
	m.dirty = true
}

func (m *Monitor) SetRange(v float64) { m.update(func(s *State) { s.Range = v }) }
func (m *Monitor) SetUnit(v string)   { m.update(func(s *State) { s.Unit = v }) }
func (m *Monitor) SetName(v string)   { m.update(func(s *State) { s.Name = v }) }
func (m *Monitor) SetDecimals(v int)  { m.update(func(s *State) { s.Decimals = v }) }
func (m *Monitor) SetVal(v float64)   { m.update(func(s *State) { s.Value = v }) }

// SetAxis records an axis bar value
func (m *Monitor) SetAxis(axis vescpad.Axis, value float64) {
	if !axis.Valid() {
		return
	}
	m.update(func(s *State) { s.Axes[axis] = value })
}

// State returns the current state
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// message builds the next message, or returns nil when onlyDirty is set and nothing changed
func (m *Monitor) message(onlyDirty bool) []byte {
	m.mu.Lock()
	if onlyDirty && !m.dirty {
		m.mu.Unlock()
		return nil
	}
	if onlyDirty {
		m.dirty = false
	}
	m.seq++
	msg := Message{
		Type:      "state",
		Seq:       m.seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      m.state,
	}
	m.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error("error marshaling monitor state", "error", err)
		return nil
	}
	return data
}

// flush broadcasts the state if it changed since the last flush
func (m *Monitor) flush() {
	if data := m.message(true); data != nil {
		m.hub.broadcast(data)
	}
}

// Run broadcasts changed state every interval until ctx is done
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	go m.hub.run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.flush()
		}
	}
}

// Handler serves the websocket endpoint at /ws
func (m *Monitor) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := m.upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		c := newClient(m.hub, conn)
		if data := m.message(false); data != nil {
			c.send <- data
		}

		select {
		case m.hub.register <- c:
		case <-ctx.Done():
			conn.Close()
			return
		}

		go c.writePump()
		go c.readPump(ctx)
	})
	return mux
}

// ListenAndServe runs Run and an HTTP server on addr until ctx is done
func (m *Monitor) ListenAndServe(ctx context.Context, addr string, interval time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go m.Run(ctx, interval)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	m.logger.Info("monitor listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
