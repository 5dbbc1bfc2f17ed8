package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/notiman/internal/model"
)

// readTimeout bounds how long a client may take to send its request.
const readTimeout = 5 * time.Second

// Handler serves IPC requests. Methods are called from connection goroutines.
type Handler interface {
	Notify(req model.NotificationRequest) (string, error)
	Status() (*StatusData, error)
	Clear() (int, error)
	Stop()
}

// Server accepts IPC connections on a Unix socket.
type Server struct {
	socketPath string
	handler    Handler
	logger     *slog.Logger

	listener net.Listener
	wg       sync.WaitGroup

	mu           sync.Mutex
	shuttingDown bool
}

// NewServer creates a new IPC server.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
	}
}

// Start begins listening for connections. A stale socket file is removed
// first; callers should check for a live host before starting.
func (s *Server) Start() error {
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for open connections and removes the socket.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		return
	}
	s.shuttingDown = true
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
	s.logger.Info("IPC server stopped")
}

func (s *Server) isShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuttingDown
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse("", "invalid request: %v", err)
	} else {
		resp = s.handleRequest(req)
	}

	out, err := marshalLine(resp)
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "error", err)
		return
	}
	if _, err := conn.Write(out); err != nil {
		s.logger.Debug("failed to send IPC response", "error", err)
	}
}

func (s *Server) handleRequest(req *Request) *Response {
	if req.Version > ProtocolVersion {
		return NewErrorResponse(req.Type, "unsupported protocol version %d", req.Version)
	}

	switch req.Type {
	case MessageNotify:
		if len(req.Notify) == 0 {
			return NewErrorResponse(req.Type, "notify payload is required")
		}
		n, err := model.DecodeRequest(req.Notify)
		if err != nil {
			return NewErrorResponse(req.Type, "%v", err)
		}
		id, err := s.handler.Notify(n)
		if err != nil {
			return NewErrorResponse(req.Type, "%v", err)
		}
		return &Response{Type: req.Type, OK: true, ID: id}

	case MessagePing:
		status, err := s.handler.Status()
		if err != nil {
			return NewErrorResponse(req.Type, "%v", err)
		}
		return &Response{Type: req.Type, OK: true, Status: status}

	case MessageClear:
		count, err := s.handler.Clear()
		if err != nil {
			return NewErrorResponse(req.Type, "%v", err)
		}
		return &Response{Type: req.Type, OK: true, Count: count}

	case MessageStop:
		// Reply first; the handler shuts the host down asynchronously
		go s.handler.Stop()
		return &Response{Type: req.Type, OK: true}

	default:
		return NewErrorResponse(req.Type, "unknown request type: %s", req.Type)
	}
}
