package control

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/borgmon/fast-alarm/pkg/planner"
	"github.com/borgmon/fast-alarm/pkg/scheduler"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
)

const codeReplanFailed = jrpc2.Code(-32010)

// Engine is what the control socket drives
type Engine interface {
	Snapshot() scheduler.Snapshot
	Plan(ctx context.Context) error
	Sweep(ctx context.Context) int
}

// AlarmStatus is one planned alarm in a status reply
type AlarmStatus struct {
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Instant   time.Time `json:"instant"`
	Triggered bool      `json:"triggered"`
	State     string    `json:"state"`
}

// StatusResult is the response for alarm.status
type StatusResult struct {
	Enabled      bool          `json:"enabled"`
	SaharMinutes int           `json:"saharMinutes"`
	IftarMinutes int           `json:"iftarMinutes"`
	Date         string        `json:"date,omitempty"`
	CalendarID   string        `json:"calendarId,omitempty"`
	Armed        int           `json:"armed"`
	Alarms       []AlarmStatus `json:"alarms"`
}

// CheckResult is the response for alarm.check
type CheckResult struct {
	Delivered int `json:"delivered"`
}

// Server accepts JSON-RPC connections on a unix socket
type Server struct {
	engine  Engine
	ln      net.Listener
	methods handler.Map

	mu      sync.Mutex
	servers map[*jrpc2.Server]struct{}
	wg      sync.WaitGroup
}

// Listen binds the socket at path, replacing a stale one left by a crashed run
func Listen(path string, engine Engine) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	s := &Server{
		engine:  engine,
		ln:      ln,
		servers: make(map[*jrpc2.Server]struct{}),
	}
	s.methods = handler.Map{
		"alarm.status": handler.New(s.alarmStatus),
		"alarm.replan": handler.New(s.alarmReplan),
		"alarm.check":  handler.New(s.alarmCheck),
	}
	return s, nil
}

// Addr returns the socket path
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve accepts connections until ctx is done or Close is called
func (s *Server) Serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	log.Printf("[CONTROL] Listening on %s", s.Addr())
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Printf("[CONTROL] Accept failed: %v", err)
			}
			return
		}

		srv := jrpc2.NewServer(s.methods, nil).Start(channel.Line(conn, conn))
		s.mu.Lock()
		s.servers[srv] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			srv.Wait()
			s.mu.Lock()
			delete(s.servers, srv)
			s.mu.Unlock()
		}()
	}
}

// Close stops accepting, ends open sessions and removes the socket
func (s *Server) Close() error {
	err := s.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	s.mu.Lock()
	for srv := range s.servers {
		srv.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}

func (s *Server) alarmStatus(_ context.Context) (*StatusResult, error) {
	return statusFrom(s.engine.Snapshot()), nil
}

func (s *Server) alarmReplan(ctx context.Context) (*StatusResult, error) {
	if err := s.engine.Plan(ctx); err != nil {
		return nil, &jrpc2.Error{Code: codeReplanFailed, Message: err.Error()}
	}
	return statusFrom(s.engine.Snapshot()), nil
}

func (s *Server) alarmCheck(ctx context.Context) (*CheckResult, error) {
	return &CheckResult{Delivered: s.engine.Sweep(ctx)}, nil
}

func statusFrom(snap scheduler.Snapshot) *StatusResult {
	res := &StatusResult{
		Enabled:      snap.Settings.Enabled,
		SaharMinutes: snap.Settings.SaharMinutes,
		IftarMinutes: snap.Settings.IftarMinutes,
		Date:         snap.Date,
		CalendarID:   snap.CalendarID,
		Armed:        snap.Armed,
		Alarms:       make([]AlarmStatus, 0, len(snap.Alarms)),
	}
	for _, a := range snap.Alarms {
		res.Alarms = append(res.Alarms, AlarmStatus{
			Kind:      string(a.Kind),
			Label:     planner.Label(a.Kind),
			Instant:   a.Instant,
			Triggered: a.Triggered,
			State:     string(a.State()),
		})
	}
	return res
}
