package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/charmbracelet/log"
)

// Runner carries out a tiling action.
type Runner interface {
	Run(tiling.Action) (tiling.Result, error)
}

// ViewportReader is the part of a backend GET_VIEWPORTS needs.
type ViewportReader interface {
	ActiveWindow() (platform.Window, error)
	Viewports(active geom.Rect) ([]geom.Rect, int, error)
}

// Server handles IPC requests from clients. It is also a Runner, so hotkey
// actions routed through it show up in the daemon status.
type Server struct {
	socketPath string
	listener   net.Listener
	runner     Runner
	viewports  ViewportReader
	bindings   int
	logger     *log.Logger
	startTime  time.Time

	statsMu    sync.Mutex
	actionsRun int
	lastAction string
	lastError  string

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath. bindings is only reported in
// the status.
func NewServer(socketPath string, runner Runner, viewports ViewportReader, bindings int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		socketPath: socketPath,
		runner:     runner,
		viewports:  viewports,
		bindings:   bindings,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// The daemon lock is held, so a leftover socket is stale.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Debug("ipc listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("ipc accept", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	// Requests are a single JSON line.
	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.write(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}
	s.write(conn, s.handleCommand(req))
}

func (s *Server) write(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("ipc marshal", "err", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("ipc write", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetViewports:
		return s.handleGetViewports()
	case CommandRun:
		return s.handleRun(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	s.statsMu.Lock()
	status := StatusData{
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Bindings:      s.bindings,
		ActionsRun:    s.actionsRun,
		LastAction:    s.lastAction,
		LastError:     s.lastError,
	}
	s.statsMu.Unlock()

	return okOrError(status)
}

func (s *Server) handleGetViewports() *Response {
	var active geom.Rect
	if win, err := s.viewports.ActiveWindow(); err == nil {
		active = win.Bounds
	}

	rects, cur, err := s.viewports.Viewports(active)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read viewports: %v", err))
	}

	data := ViewportsData{Viewports: make([]ViewportInfo, len(rects))}
	for i, r := range rects {
		data.Viewports[i] = ViewportInfo{
			Index:  i,
			Active: i == cur,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		}
	}
	return okOrError(data)
}

func (s *Server) handleRun(payload json.RawMessage) *Response {
	var p RunPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid run payload: %v", err))
	}

	res, err := s.Run(tiling.Action{Kind: p.Action, Target: p.Target})
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	data := RunData{
		WindowID:  uint32(res.Window.ID),
		Title:     res.Window.Title,
		Changed:   res.Changed,
		Maximized: res.Maximized,
	}
	if !res.Plan.Target.Empty() {
		data.State = res.Plan.Next.String()
		data.Target = res.Plan.Target.String()
	}
	return okOrError(data)
}

// Run runs action and records it in the status.
func (s *Server) Run(action tiling.Action) (tiling.Result, error) {
	res, err := s.runner.Run(action)

	s.statsMu.Lock()
	s.actionsRun++
	s.lastAction = action.String()
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.statsMu.Unlock()

	return res, err
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func okOrError(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
