package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/hooks"
	"github.com/jmylchreest/notiman/internal/model"
)

const (
	// maxStdinInput caps how much of stdin is read. Hook payloads can carry
	// large tool responses.
	maxStdinInput = 4 << 20
	// maxStdinBody caps how much of a piped body is kept.
	maxStdinBody = 64 * 1024
)

type sendOptions struct {
	title        string
	body         string
	code         string
	project      string
	icon         string
	duration     string
	id           string
	quiet        bool
	ignoredTools []string
}

var sendOpts sendOptions

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Show a toast",
	Long: `Show a toast on the running notimand host.

When --body is omitted and stdin is a pipe, the body is read from stdin.

When neither --title nor --body is given and stdin holds a coding-agent hook
payload (a JSON object with hook_event_name), the toast is built from the
hook event. Events that do not map to a toast, or come from an ignored tool,
are skipped without error.

Examples:
  # Simple toast
  notiman send --title "Build finished"

  # Error toast with a code snippet shown for 30 seconds
  notiman send --title "Tests failed" --icon error --code "FAIL ./internal/toast" --duration 30s

  # Body from a pipe
  git log -1 --format=%s | notiman send --title "Pushed" --project notiman

  # As an agent hook command
  notiman send --ignore-tool Glob,Grep`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.title, "title", "t", "",
		"Toast title (required unless stdin holds a hook payload)")
	sendCmd.Flags().StringVarP(&sendOpts.body, "body", "b", "",
		"Toast body (read from stdin when piped and empty)")
	sendCmd.Flags().StringVar(&sendOpts.code, "code", "",
		"Monospace code snippet")
	sendCmd.Flags().StringVarP(&sendOpts.project, "project", "p", "",
		"Project label")
	sendCmd.Flags().StringVarP(&sendOpts.icon, "icon", "i", "info",
		"Icon kind: info, success, warning, error")
	sendCmd.Flags().StringVarP(&sendOpts.duration, "duration", "d", "",
		"Auto-dismiss delay, e.g. 4s or 4000 (default from host config)")
	sendCmd.Flags().StringVar(&sendOpts.id, "id", "",
		"Request ID (generated when empty)")
	sendCmd.Flags().BoolVarP(&sendOpts.quiet, "quiet", "q", false,
		"Do not print the toast ID")
	sendCmd.Flags().StringSliceVar(&sendOpts.ignoredTools, "ignore-tool", hooks.DefaultIgnoredTools,
		"Tools to skip in hook mode (repeatable or comma-separated)")
}

func runSend(cmd *cobra.Command, args []string) error {
	var stdin []byte
	if sendOpts.body == "" && stdinIsPipe() {
		data, err := readStdin(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		stdin = data
	}

	req, ok, err := resolveRequest(sendOpts, stdin)
	if err != nil || !ok {
		return err
	}

	id, err := newClient().Notify(req)
	if err != nil {
		return err
	}

	if !sendOpts.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

// resolveRequest builds the request from flags and piped stdin. Without a
// title, a hook payload on stdin is mapped instead; ok is false when the hook
// event is skipped.
func resolveRequest(opts sendOptions, stdin []byte) (req model.NotificationRequest, ok bool, err error) {
	if hook, isHook := hooks.Decode(stdin); isHook && opts.title == "" && opts.body == "" {
		logger.Debug("hook payload detected", "event", hook.EventName)
		req, ok = hook.Request(opts.ignoredTools)
		if !ok {
			logger.Debug("hook event skipped", "event", hook.EventName)
			return model.NotificationRequest{}, false, nil
		}
		if err := applyOverrides(&req, opts.project, opts.duration); err != nil {
			return model.NotificationRequest{}, false, err
		}
		req.ID = opts.id
		return req, true, nil
	}

	if opts.title == "" {
		return model.NotificationRequest{}, false, errors.New("--title is required")
	}
	body := opts.body
	if body == "" {
		body = stdinBody(stdin)
	}
	req, err = buildRequest(opts.title, body, opts.code, opts.project, opts.icon, opts.duration)
	if err != nil {
		return model.NotificationRequest{}, false, err
	}
	req.ID = opts.id
	return req, true, nil
}

// buildRequest validates CLI input and assembles a request.
func buildRequest(title, body, code, project, icon, duration string) (model.NotificationRequest, error) {
	if strings.TrimSpace(title) == "" {
		return model.NotificationRequest{}, errors.New("title must not be empty")
	}

	kind, err := model.ParseIconKind(icon)
	if err != nil {
		return model.NotificationRequest{}, err
	}

	req := model.NotificationRequest{
		Title:   title,
		Body:    body,
		Code:    code,
		Project: project,
		Icon:    kind,
	}

	ms, err := parseDuration(duration)
	if err != nil {
		return model.NotificationRequest{}, err
	}
	req.Duration = ms

	return req, nil
}

// applyOverrides sets the project and duration flags on a hook request.
func applyOverrides(req *model.NotificationRequest, project, duration string) error {
	if project != "" {
		req.Project = project
	}
	ms, err := parseDuration(duration)
	if err != nil {
		return err
	}
	req.Duration = ms
	return nil
}

// parseDuration converts a --duration value to milliseconds. Empty means the
// host default.
func parseDuration(duration string) (int, error) {
	if duration == "" {
		return 0, nil
	}
	var d config.Duration
	if err := d.UnmarshalText([]byte(duration)); err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", duration)
	}
	// Zero means the host default on the wire, so "never" is not expressible
	return d.Milliseconds(), nil
}

// stdinIsPipe reports whether stdin is not a terminal.
func stdinIsPipe() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// readStdin reads up to maxStdinInput bytes.
func readStdin(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxStdinInput))
}

// stdinBody keeps the first maxStdinBody bytes and trims the trailing newline.
func stdinBody(data []byte) string {
	if len(data) > maxStdinBody {
		data = data[:maxStdinBody]
	}
	return strings.TrimRight(string(data), "\r\n")
}

