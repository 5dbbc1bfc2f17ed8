// Package model defines the core data structures for notiman.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/oklog/ulid/v2"
)

// NotificationRequest is a single toast to display. It is immutable once
// handed to the toast engine.
type NotificationRequest struct {
	// ID is assigned on receipt if the sender did not provide one.
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Body    string   `json:"body,omitempty"`
	Code    string   `json:"code,omitempty"`
	Project string   `json:"project,omitempty"`
	Icon    IconKind `json:"icon"`
	// Duration overrides the configured auto-dismiss delay in milliseconds.
	// Zero or less means use the configured default.
	Duration int `json:"duration,omitempty"`
}

// NewRequestID returns a new ULID string.
func NewRequestID() string {
	return ulid.Make().String()
}

// EffectiveDuration returns the auto-dismiss delay in milliseconds,
// using defaultMs when the request carries no positive override.
func (r NotificationRequest) EffectiveDuration(defaultMs int) int {
	if r.Duration > 0 {
		return r.Duration
	}
	return defaultMs
}

// DecodeRequest parses a JSON payload leniently. Fields with the wrong type
// are ignored rather than rejected, an unknown icon becomes info, and
// duration is only honoured when it is an integer.
func DecodeRequest(data []byte) (NotificationRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return NotificationRequest{}, fmt.Errorf("failed to parse request: %w", err)
	}

	var req NotificationRequest
	req.ID = stringField(raw, "id")
	req.Title = stringField(raw, "title")
	req.Body = stringField(raw, "body")
	req.Code = stringField(raw, "code")
	req.Project = stringField(raw, "project")
	_ = req.Icon.UnmarshalText([]byte(stringField(raw, "icon")))

	if v, ok := raw["duration"]; ok {
		req.Duration = intField(v)
	}

	return req, nil
}

// EncodeRequest serializes a request to its JSON payload.
func EncodeRequest(req NotificationRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return data, nil
}

// intField returns v as an int when it is a JSON integer, else 0.
func intField(v json.RawMessage) int {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return 0
	}
	n, ok := value.(json.Number)
	if !ok {
		return 0
	}
	d, err := n.Int64()
	if err != nil || d > math.MaxInt32 || d < math.MinInt32 {
		return 0
	}
	return int(d)
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}
