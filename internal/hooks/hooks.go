// Package hooks maps coding-agent hook payloads to toast requests.
//
// Hook payloads are JSON objects carrying a hook_event_name. Both the
// PascalCase event names (PostToolUse, SubagentStop) and the lowerCamelCase
// names some editors send (afterShellExecution, stop) are accepted. Fields
// with an unexpected type are treated as absent.
package hooks

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/jmylchreest/notiman/internal/model"
)

// DefaultIgnoredTools are tools whose completion is too frequent to be worth a toast.
var DefaultIgnoredTools = []string{"Glob", "Grep", "Read", "ReadFile"}

// HookData is a decoded hook payload.
type HookData struct {
	EventName string
	CWD       string
	fields    fields
}

// fields holds the raw top-level payload keys.
type fields map[string]json.RawMessage

// Decode parses data as a hook payload. It returns false when data is not a
// JSON object with a string hook_event_name.
func Decode(data []byte) (*HookData, bool) {
	var raw fields
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	name := raw.str("hook_event_name")
	if name == "" {
		return nil, false
	}
	return &HookData{
		EventName: name,
		CWD:       raw.str("cwd"),
		fields:    raw,
	}, true
}

// Parse decodes data and maps it to a request. It returns false when data is
// not a hook payload, the event is unknown or the tool is ignored.
func Parse(data []byte, ignoredTools []string) (model.NotificationRequest, bool) {
	hook, ok := Decode(data)
	if !ok {
		return model.NotificationRequest{}, false
	}
	return hook.Request(ignoredTools)
}

// Request maps the hook to a toast request. The project label is taken from
// the last element of the working directory.
func (h *HookData) Request(ignoredTools []string) (model.NotificationRequest, bool) {
	var (
		req model.NotificationRequest
		ok  bool
	)

	switch normalizeEventName(h.EventName) {
	case "notification":
		req, ok = h.notification(), true
	case "posttooluse":
		req, ok = h.postToolUse(ignoredTools)
	case "posttoolusefailure":
		req, ok = h.postToolUseFailure(ignoredTools)
	case "aftershellexecution":
		req, ok = h.afterShellExecution()
	case "aftermcpexecution":
		req, ok = h.afterMCPExecution(ignoredTools)
	case "afterfileedit":
		req, ok = h.afterFileEdit()
	case "stop":
		req, ok = h.stop(), true
	case "subagentstop":
		req, ok = h.subagentStop(), true
	case "sessionstart":
		req, ok = h.sessionStart(), true
	}
	if !ok {
		return model.NotificationRequest{}, false
	}

	if project := projectName(h.CWD); project != "" {
		req.Project = project
	}
	return req, true
}

func (h *HookData) notification() model.NotificationRequest {
	req := model.NotificationRequest{
		Title: "Notification",
		Body:  h.fields.str("message"),
		Icon:  model.IconInfo,
	}
	switch h.fields.str("notification_type") {
	case "permission_prompt":
		req.Title, req.Icon = "Permission Needed", model.IconWarning
	case "idle_prompt":
		req.Title = "Claude is Idle"
	case "auth_success":
		req.Title, req.Icon = "Auth Success", model.IconSuccess
	case "elicitation_dialog":
		req.Title = "Input Needed"
	}
	return req
}

func (h *HookData) postToolUse(ignoredTools []string) (model.NotificationRequest, bool) {
	tool := h.fields.first("tool_name", "tool")
	if isIgnored(tool, ignoredTools) {
		return model.NotificationRequest{}, false
	}
	if tool == "" {
		tool = "Unknown"
	}
	return model.NotificationRequest{
		Title: "Tool Complete: " + tool,
		Code:  h.toolSummary(tool),
		Icon:  model.IconSuccess,
	}, true
}

func (h *HookData) postToolUseFailure(ignoredTools []string) (model.NotificationRequest, bool) {
	tool := h.fields.first("tool_name", "tool")
	if isIgnored(tool, ignoredTools) {
		return model.NotificationRequest{}, false
	}
	if tool == "" {
		tool = "Unknown"
	}
	return model.NotificationRequest{
		Title: "Tool Failed: " + tool,
		Code:  h.fields.first("error", "error_message"),
		Icon:  model.IconError,
	}, true
}

func (h *HookData) afterShellExecution() (model.NotificationRequest, bool) {
	command := h.fields.str("command")
	if command == "" {
		return model.NotificationRequest{}, false
	}
	return model.NotificationRequest{
		Title: "Shell Complete",
		Code:  command,
		Icon:  model.IconSuccess,
	}, true
}

func (h *HookData) afterMCPExecution(ignoredTools []string) (model.NotificationRequest, bool) {
	tool := h.fields.str("tool_name")
	if isIgnored(tool, ignoredTools) {
		return model.NotificationRequest{}, false
	}
	if tool == "" {
		tool = "Unknown"
	}

	// tool_input is either a string or an object
	summary := h.fields.str("tool_input")
	if summary == "" {
		summary = h.fields.object("tool_input").first("command", "file_path", "path")
	}

	return model.NotificationRequest{
		Title: "MCP Complete: " + tool,
		Code:  summary,
		Icon:  model.IconSuccess,
	}, true
}

func (h *HookData) afterFileEdit() (model.NotificationRequest, bool) {
	path := h.fields.str("file_path")
	if path == "" {
		return model.NotificationRequest{}, false
	}
	return model.NotificationRequest{
		Title: "File Edited",
		Code:  stripCWD(path, h.CWD),
		Icon:  model.IconInfo,
	}, true
}

func (h *HookData) stop() model.NotificationRequest {
	title := "Claude Finished"
	if isLowerCamel(h.EventName) {
		title = "Cursor Finished"
	}
	return model.NotificationRequest{Title: title, Icon: model.IconSuccess}
}

func (h *HookData) subagentStop() model.NotificationRequest {
	title := "Agent Done"
	if agent := h.fields.first("agent_type", "subagent_type"); agent != "" {
		title += ": " + agent
	}
	return model.NotificationRequest{Title: title, Icon: model.IconSuccess}
}

func (h *HookData) sessionStart() model.NotificationRequest {
	source := h.fields.first("source", "composer_mode")
	title := "Session Started"
	if source != "" {
		title = "Session Resumed"
	}
	return model.NotificationRequest{Title: title, Body: source, Icon: model.IconInfo}
}

// toolSummary returns the command or file a tool acted on, or "".
func (h *HookData) toolSummary(tool string) string {
	input := h.fields.object("tool_input")
	if input == nil {
		return ""
	}

	switch strings.ToLower(tool) {
	case "bash", "shell":
		return input.str("command")
	case "write", "edit", "read", "readfile", "delete":
		return stripCWD(input.first("file_path", "path"), h.CWD)
	case "editnotebook":
		return stripCWD(input.str("target_notebook"), h.CWD)
	}
	return ""
}

// str returns the string value of key, or "" if it is missing or not a string.
func (f fields) str(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// first returns the first non-empty string among keys.
func (f fields) first(keys ...string) string {
	for _, key := range keys {
		if s := f.str(key); s != "" {
			return s
		}
	}
	return ""
}

// object returns the object value of key, or nil.
func (f fields) object(key string) fields {
	v, ok := f[key]
	if !ok {
		return nil
	}
	var obj fields
	if err := json.Unmarshal(v, &obj); err != nil {
		return nil
	}
	return obj
}

// normalizeEventName lowercases name and drops everything but letters and digits.
func normalizeEventName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isLowerCamel(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

func isIgnored(tool string, ignoredTools []string) bool {
	if tool == "" {
		return false
	}
	for _, ignored := range ignoredTools {
		if strings.EqualFold(tool, strings.TrimSpace(ignored)) {
			return true
		}
	}
	return false
}

// projectName returns the last element of cwd, accepting either separator.
func projectName(cwd string) string {
	trimmed := strings.TrimRight(cwd, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// stripCWD makes path relative to cwd when it lies beneath it. The prefix
// match ignores case.
func stripCWD(path, cwd string) string {
	if path == "" || cwd == "" {
		return path
	}
	base := strings.TrimRight(cwd, `/\`)
	for _, sep := range []string{`\`, "/"} {
		prefix := base + sep
		if len(path) >= len(prefix) && strings.EqualFold(path[:len(prefix)], prefix) {
			return path[len(prefix):]
		}
	}
	return path
}
