package hooks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiman/internal/model"
)

func buildHookJSON(t *testing.T, data map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	return b
}

func TestParse_EventMappings(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want model.NotificationRequest
	}{
		{
			name: "notification permission prompt",
			data: map[string]any{"hook_event_name": "Notification", "notification_type": "permission_prompt", "message": "Allow Bash?"},
			want: model.NotificationRequest{Title: "Permission Needed", Body: "Allow Bash?", Icon: model.IconWarning},
		},
		{
			name: "notification idle prompt",
			data: map[string]any{"hook_event_name": "Notification", "notification_type": "idle_prompt"},
			want: model.NotificationRequest{Title: "Claude is Idle", Icon: model.IconInfo},
		},
		{
			name: "notification auth success",
			data: map[string]any{"hook_event_name": "Notification", "notification_type": "auth_success"},
			want: model.NotificationRequest{Title: "Auth Success", Icon: model.IconSuccess},
		},
		{
			name: "notification elicitation dialog",
			data: map[string]any{"hook_event_name": "Notification", "notification_type": "elicitation_dialog"},
			want: model.NotificationRequest{Title: "Input Needed", Icon: model.IconInfo},
		},
		{
			name: "notification unknown type",
			data: map[string]any{"hook_event_name": "Notification", "message": "hello"},
			want: model.NotificationRequest{Title: "Notification", Body: "hello", Icon: model.IconInfo},
		},
		{
			name: "post tool use bash",
			data: map[string]any{"hook_event_name": "PostToolUse", "tool_name": "Bash", "tool_input": map[string]any{"command": "go test ./..."}},
			want: model.NotificationRequest{Title: "Tool Complete: Bash", Code: "go test ./...", Icon: model.IconSuccess},
		},
		{
			name: "post tool use write strips cwd",
			data: map[string]any{"hook_event_name": "PostToolUse", "tool_name": "Write", "cwd": "/home/me/notiman", "tool_input": map[string]any{"file_path": "/home/me/notiman/internal/toast/layout.go"}},
			want: model.NotificationRequest{Title: "Tool Complete: Write", Code: "internal/toast/layout.go", Project: "notiman", Icon: model.IconSuccess},
		},
		{
			name: "post tool use edit notebook",
			data: map[string]any{"hook_event_name": "PostToolUse", "tool": "EditNotebook", "tool_input": map[string]any{"target_notebook": "analysis.ipynb"}},
			want: model.NotificationRequest{Title: "Tool Complete: EditNotebook", Code: "analysis.ipynb", Icon: model.IconSuccess},
		},
		{
			name: "post tool use unknown tool",
			data: map[string]any{"hook_event_name": "PostToolUse"},
			want: model.NotificationRequest{Title: "Tool Complete: Unknown", Icon: model.IconSuccess},
		},
		{
			name: "post tool use failure",
			data: map[string]any{"hook_event_name": "PostToolUseFailure", "tool_name": "Bash", "error_message": "exit status 1"},
			want: model.NotificationRequest{Title: "Tool Failed: Bash", Code: "exit status 1", Icon: model.IconError},
		},
		{
			name: "stop",
			data: map[string]any{"hook_event_name": "Stop"},
			want: model.NotificationRequest{Title: "Claude Finished", Icon: model.IconSuccess},
		},
		{
			name: "stop lower camel",
			data: map[string]any{"hook_event_name": "stop"},
			want: model.NotificationRequest{Title: "Cursor Finished", Icon: model.IconSuccess},
		},
		{
			name: "subagent stop with type",
			data: map[string]any{"hook_event_name": "SubagentStop", "subagent_type": "reviewer"},
			want: model.NotificationRequest{Title: "Agent Done: reviewer", Icon: model.IconSuccess},
		},
		{
			name: "subagent stop without type",
			data: map[string]any{"hook_event_name": "SubagentStop"},
			want: model.NotificationRequest{Title: "Agent Done", Icon: model.IconSuccess},
		},
		{
			name: "session start",
			data: map[string]any{"hook_event_name": "SessionStart"},
			want: model.NotificationRequest{Title: "Session Started", Icon: model.IconInfo},
		},
		{
			name: "session resumed",
			data: map[string]any{"hook_event_name": "SessionStart", "source": "resume"},
			want: model.NotificationRequest{Title: "Session Resumed", Body: "resume", Icon: model.IconInfo},
		},
		{
			name: "after shell execution",
			data: map[string]any{"hook_event_name": "afterShellExecution", "command": "make build"},
			want: model.NotificationRequest{Title: "Shell Complete", Code: "make build", Icon: model.IconSuccess},
		},
		{
			name: "after mcp execution string input",
			data: map[string]any{"hook_event_name": "afterMCPExecution", "tool_name": "search", "tool_input": "toast layout"},
			want: model.NotificationRequest{Title: "MCP Complete: search", Code: "toast layout", Icon: model.IconSuccess},
		},
		{
			name: "after mcp execution object input",
			data: map[string]any{"hook_event_name": "afterMCPExecution", "tool_name": "fs", "tool_input": map[string]any{"path": "/tmp/x"}},
			want: model.NotificationRequest{Title: "MCP Complete: fs", Code: "/tmp/x", Icon: model.IconSuccess},
		},
		{
			name: "after file edit",
			data: map[string]any{"hook_event_name": "afterFileEdit", "cwd": `C:\src\notiman\`, "file_path": `c:\SRC\notiman\main.go`},
			want: model.NotificationRequest{Title: "File Edited", Code: "main.go", Project: "notiman", Icon: model.IconInfo},
		},
		{
			name: "event name separators ignored",
			data: map[string]any{"hook_event_name": "post_tool_use", "tool_name": "Bash"},
			want: model.NotificationRequest{Title: "Tool Complete: Bash", Icon: model.IconSuccess},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(buildHookJSON(t, tt.data), DefaultIgnoredTools)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unmapped(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "build finished"},
		{name: "json array", data: `[1, 2]`},
		{name: "missing event name", data: `{"cwd": "/tmp"}`},
		{name: "event name not a string", data: `{"hook_event_name": 7}`},
		{name: "unknown event", data: `{"hook_event_name": "PreCompact"}`},
		{name: "shell without command", data: `{"hook_event_name": "afterShellExecution"}`},
		{name: "file edit without path", data: `{"hook_event_name": "afterFileEdit"}`},
		{name: "ignored tool", data: `{"hook_event_name": "PostToolUse", "tool_name": "grep"}`},
		{name: "ignored failed tool", data: `{"hook_event_name": "PostToolUseFailure", "tool_name": "Read"}`},
		{name: "ignored mcp tool", data: `{"hook_event_name": "afterMCPExecution", "tool_name": "Glob"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse([]byte(tt.data), DefaultIgnoredTools)
			assert.False(t, ok)
		})
	}
}

func TestParse_CustomIgnoredTools(t *testing.T) {
	data := []byte(`{"hook_event_name": "PostToolUse", "tool_name": "Read"}`)

	req, ok := Parse(data, nil)
	require.True(t, ok)
	assert.Equal(t, "Tool Complete: Read", req.Title)

	_, ok = Parse([]byte(`{"hook_event_name": "PostToolUse", "tool_name": "Bash"}`), []string{" bash "})
	assert.False(t, ok)
}

func TestParse_WrongFieldTypesAreIgnored(t *testing.T) {
	data := []byte(`{"hook_event_name": "PostToolUse", "tool_name": ["Bash"], "tool": "Edit", "cwd": 3, "tool_input": {"file_path": 12, "path": "a.go"}}`)

	req, ok := Parse(data, nil)
	require.True(t, ok)
	assert.Equal(t, "Tool Complete: Edit", req.Title)
	assert.Equal(t, "a.go", req.Code)
	assert.Empty(t, req.Project)
}

func TestDecode(t *testing.T) {
	hook, ok := Decode([]byte(`{"hook_event_name": "Stop", "cwd": "/work/app/"}`))
	require.True(t, ok)
	assert.Equal(t, "Stop", hook.EventName)
	assert.Equal(t, "/work/app/", hook.CWD)

	_, ok = Decode([]byte(`{"hook_event_name": ""}`))
	assert.False(t, ok)
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "notiman", projectName("/home/me/notiman"))
	assert.Equal(t, "notiman", projectName("/home/me/notiman//"))
	assert.Equal(t, "app", projectName(`C:\work\app`))
	assert.Equal(t, "app", projectName("app"))
	assert.Empty(t, projectName("/"))
	assert.Empty(t, projectName(""))
}

func TestStripCWD(t *testing.T) {
	assert.Equal(t, "x/y.go", stripCWD("/src/p/x/y.go", "/src/p"))
	assert.Equal(t, "y.go", stripCWD("/SRC/P/y.go", "/src/p/"))
	assert.Equal(t, "/other/y.go", stripCWD("/other/y.go", "/src/p"))
	assert.Equal(t, "/src/pp/y.go", stripCWD("/src/pp/y.go", "/src/p"))
	assert.Equal(t, "y.go", stripCWD("y.go", ""))
}
