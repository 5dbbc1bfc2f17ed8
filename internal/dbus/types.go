package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notiman/internal/model"
	"github.com/jmylchreest/notiman/internal/toast"
)

// Hints understood beyond the freedesktop set.
const (
	HintCode = "x-notiman-code"
	HintIcon = "x-notiman-icon"
)

// Urgency levels matching freedesktop spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the spec.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// ReasonFor maps a toast dismissal onto the freedesktop close reason.
func ReasonFor(r toast.DismissReason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonClicked, toast.ReasonCleared:
		return CloseReasonDismissed
	case toast.ReasonClosed:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// Code extracts the code snippet hint.
func (n *DBusNotification) Code() string {
	return n.stringHint(HintCode)
}

// Icon resolves the toast icon from the icon hint, falling back to urgency.
func (n *DBusNotification) Icon() model.IconKind {
	if name := n.stringHint(HintIcon); name != "" {
		if kind, err := model.ParseIconKind(name); err == nil {
			return kind
		}
	}
	if n.Urgency() == UrgencyCritical {
		return model.IconError
	}
	return model.IconInfo
}

// Request converts the call into a toast request with the given ID.
// Only a positive expire timeout overrides the configured duration; the server
// default (-1) and never-expire (0) both use the configured value.
func (n *DBusNotification) Request(id string) model.NotificationRequest {
	req := model.NotificationRequest{
		ID:      id,
		Title:   n.Summary,
		Body:    n.Body,
		Code:    n.Code(),
		Project: n.AppName,
		Icon:    n.Icon(),
	}
	if n.ExpireTimeout > 0 {
		req.Duration = int(n.ExpireTimeout)
	}
	return req
}

func (n *DBusNotification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// ServerCapabilities lists the capabilities advertised by notimand.
var ServerCapabilities = []string{
	"body",        // Support body text
	"icon-static", // Support static icons
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "notimand"
	Vendor      string // "notiman"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "notimand",
		Vendor:      "notiman",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}
