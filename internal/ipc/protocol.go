// Package ipc is the local transport between the notiman CLI and the
// notimand host: newline-delimited JSON over a Unix socket, one request and
// one response per connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProtocolVersion is sent with every request.
const ProtocolVersion = 1

// MessageType represents the different IPC request types.
type MessageType string

const (
	MessageNotify MessageType = "notify"
	MessagePing   MessageType = "ping"
	MessageClear  MessageType = "clear"
	MessageStop   MessageType = "stop"
)

// ErrHostNotRunning is returned by the client when nothing is listening on
// the socket.
var ErrHostNotRunning = errors.New("notimand is not running")

// Request is sent from client to host.
type Request struct {
	Type    MessageType     `json:"type"`
	Version int             `json:"version"`
	Notify  json.RawMessage `json:"notify,omitempty"`
}

// Response is sent from host to client.
type Response struct {
	Type   MessageType `json:"type"`
	OK     bool        `json:"ok"`
	ID     string      `json:"id,omitempty"`
	Count  int         `json:"count,omitempty"`
	Error  string      `json:"error,omitempty"`
	Status *StatusData `json:"status,omitempty"`
}

// StatusData is returned by ping.
type StatusData struct {
	Version       string        `json:"version"`
	PID           int           `json:"pid"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	Active        int           `json:"active"`
	Queued        int           `json:"queued"`
	Animating     bool          `json:"animating"`
	Toasts        []ToastStatus `json:"toasts,omitempty"`
}

// ToastStatus describes one toast on screen.
type ToastStatus struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	State string `json:"state"`
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(t MessageType, format string, args ...any) *Response {
	return &Response{Type: t, Error: fmt.Sprintf(format, args...)}
}

// ParseRequest parses a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Type == "" {
		return nil, errors.New("request type is required")
	}
	return &req, nil
}

// marshalLine encodes v as one newline-terminated JSON line.
func marshalLine(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
