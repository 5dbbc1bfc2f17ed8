package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/ipc"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.NotimanConfig
	globalOpts struct {
		verbose    bool
		socketPath string
		configPath string
		timeout    time.Duration
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "notiman",
	Short: "Send toast notifications to notimand",
	Long: `notiman sends toast notifications to a running notimand host and
inspects or controls it.

Toasts stack in a screen corner, fade in and out, and dismiss themselves
after a configurable delay, on hover pause or on click.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			// The host may still be reachable on the default socket
			logger.Warn("failed to load config, using defaults", "error", err)
			cfg = config.DefaultConfig()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.socketPath, "socket", "",
		"Path to the notimand socket (default: $XDG_RUNTIME_DIR/notiman.sock)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/notiman/config.toml)")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.timeout, "timeout", ipc.DefaultTimeout,
		"Timeout for talking to notimand")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newClient returns a client for the socket chosen by flag, then config.
func newClient() *ipc.Client {
	override := globalOpts.socketPath
	if override == "" && cfg != nil {
		override = cfg.Socket
	}
	path := ipc.SocketPath(override)
	logger.Debug("using notimand socket", "path", path)
	return ipc.NewClient(path, globalOpts.timeout)
}
