package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/jmylchreest/notiman/internal/model"
)

// DefaultTimeout is the dial and round-trip timeout.
const DefaultTimeout = 2 * time.Second

// Client talks to a running host.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the socket at socketPath.
func NewClient(socketPath string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{socketPath: socketPath, timeout: timeout}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Notify sends a toast request and returns its ID.
func (c *Client) Notify(req model.NotificationRequest) (string, error) {
	payload, err := model.EncodeRequest(req)
	if err != nil {
		return "", err
	}
	resp, err := c.send(&Request{Type: MessageNotify, Notify: payload})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Ping retrieves host status.
func (c *Client) Ping() (*StatusData, error) {
	resp, err := c.send(&Request{Type: MessagePing})
	if err != nil {
		return nil, err
	}
	if resp.Status == nil {
		return nil, errors.New("ping response carried no status")
	}
	return resp.Status, nil
}

// Clear dismisses every toast and returns how many were affected.
func (c *Client) Clear() (int, error) {
	resp, err := c.send(&Request{Type: MessageClear})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Stop asks the host to shut down.
func (c *Client) Stop() error {
	_, err := c.send(&Request{Type: MessageStop})
	return err
}

// IsRunning reports whether a host answers on the socket.
func (c *Client) IsRunning() bool {
	_, err := c.Ping()
	return err == nil
}

func (c *Client) send(req *Request) (*Response, error) {
	req.Version = ProtocolVersion

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isNotRunning(err) {
			return nil, fmt.Errorf("%w (socket %s)", ErrHostNotRunning, c.socketPath)
		}
		return nil, fmt.Errorf("failed to connect to notimand: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := marshalLine(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("notimand error: %s", resp.Error)
	}
	return &resp, nil
}

func isNotRunning(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
