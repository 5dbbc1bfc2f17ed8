package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notiman/internal/ipc"
)

// statusTitleWidth is the column width for toast titles.
const statusTitleWidth = 40

var statusOpts struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the host status and visible toasts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output raw JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := newClient().Ping()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statusOpts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprint(out, formatStatus(status, time.Now()))
	return nil
}

// formatStatus renders status for a terminal.
func formatStatus(status *ipc.StatusData, now time.Time) string {
	started := now.Add(-time.Duration(status.UptimeSeconds) * time.Second)

	s := fmt.Sprintf("notimand %s (pid %d), started %s\n", status.Version, status.PID, humanize.RelTime(started, now, "ago", "from now"))
	s += fmt.Sprintf("active: %d  queued: %d", status.Active, status.Queued)
	if status.Animating {
		s += "  (removal in progress)"
	}
	s += "\n"

	for _, t := range status.Toasts {
		title := runewidth.FillRight(runewidth.Truncate(t.Title, statusTitleWidth, "…"), statusTitleWidth)
		s += fmt.Sprintf("  %s  %s  %s\n", t.ID, title, t.State)
	}
	return s
}
