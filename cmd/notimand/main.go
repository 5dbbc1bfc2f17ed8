// Package main is the entry point for the notimand toast host.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/daemon"
	"github.com/jmylchreest/notiman/internal/dbus"
	"github.com/jmylchreest/notiman/internal/display"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/ipc"
	"github.com/jmylchreest/notiman/internal/model"
	"github.com/jmylchreest/notiman/internal/toast"
)

const (
	appID   = "io.github.jmylchreest.notimand"
	appName = "notimand"
)

var (
	// Build-time variables
	version = "dev"
)

// Virtual screen used when running without a display.
const (
	headlessWidth  = 1920
	headlessHeight = 1080
)

type options struct {
	configPath string
	headless   bool
	noDBus     bool
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/notiman/config.toml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	headless := flag.Bool("headless", false, "Run without a display; toasts are only logged")
	noDBus := flag.Bool("no-dbus", false, "Do not claim org.freedesktop.Notifications")
	flag.Parse()

	if *showVersion {
		fmt.Println("notimand version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	opts := options{configPath: *configPath, headless: *headless, noDBus: *noDBus}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	socketPath := ipc.SocketPath(cfg.Socket)
	if ipc.NewClient(socketPath, 500*time.Millisecond).IsRunning() {
		logger.Error("notimand is already running", "socket", socketPath)
		os.Exit(1)
	}

	if opts.headless {
		runHeadless(cfg, opts, socketPath, logger)
		return
	}
	runDisplay(cfg, opts, socketPath, logger)
}

// services are the parts of the host shared by both run modes.
type services struct {
	host          *daemon.Host
	dbusServer    *dbus.NotificationServer
	ipcServer     *ipc.Server
	configWatcher *daemon.ConfigWatcher
	notifier      *daemon.InternalNotifier
}

// startServices wires D-Bus, IPC and config reload to the orchestrator.
// Call it before the event loop dispatches, or on the loop itself.
func startServices(
	ctx context.Context,
	cfg *config.NotimanConfig,
	opts options,
	socketPath string,
	sched eventloop.Scheduler,
	toasts *toast.Orchestrator,
	onReload func(*config.NotimanConfig),
	onStop func(),
	logger *slog.Logger,
) (*services, error) {
	s := &services{}
	s.host = daemon.NewHost(daemon.HostOptions{
		Version:   version,
		Scheduler: sched,
		Toasts:    toasts,
		Logger:    logger,
		OnStop:    onStop,
		OnReload:  onReload,
	})

	s.notifier = daemon.NewInternalNotifier(logger)
	s.notifier.SetShowHandler(s.host.Show)

	if !opts.noDBus {
		s.dbusServer = dbus.NewNotificationServer(logger)
		s.dbusServer.SetServerInfo(dbus.ServerInfo{
			Name:        appName,
			Vendor:      "notiman",
			Version:     version,
			SpecVersion: "1.2",
		})
		s.dbusServer.SetNotifyHandler(func(req model.NotificationRequest, _ uint32) {
			s.host.Show(req)
		})
		s.dbusServer.SetCloseHandler(s.host.Dismiss)
		if err := s.dbusServer.Start(); err != nil {
			// IPC still works without the bus
			logger.Warn("D-Bus notification service unavailable", "error", err)
			s.dbusServer = nil
		}
	}

	toasts.SetCloseCallback(func(id string, reason toast.DismissReason) {
		if s.dbusServer != nil {
			s.dbusServer.Closed(id, dbus.ReasonFor(reason))
		}
	})

	s.ipcServer = ipc.NewServer(socketPath, s.host, logger)
	if err := s.ipcServer.Start(); err != nil {
		s.stop()
		return nil, err
	}

	configFile := opts.configPath
	if configFile == "" {
		var err error
		configFile, err = config.ConfigPath()
		if err != nil {
			logger.Warn("config hot-reload disabled", "error", err)
		}
	}
	if configFile != "" {
		s.configWatcher = daemon.NewConfigWatcher(configFile, logger)
		s.configWatcher.SetReloadCallback(func(newConfig *config.NotimanConfig) {
			s.host.Reload(newConfig)
			s.notifier.NotifyConfigReloaded()
		})
		s.configWatcher.SetErrorCallback(s.notifier.NotifyConfigError)
		if err := s.configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "path", configFile, "error", err)
			s.configWatcher = nil
		}
	}

	return s, nil
}

// stop shuts the services down in reverse order of start.
func (s *services) stop() {
	if s.configWatcher != nil {
		s.configWatcher.Stop()
	}
	if s.ipcServer != nil {
		s.ipcServer.Stop()
	}
	if s.dbusServer != nil {
		_ = s.dbusServer.Stop()
	}
}

// runHeadless runs the toast engine on a plain Go event loop.
func runHeadless(cfg *config.NotimanConfig, opts options, socketPath string, logger *slog.Logger) {
	logger.Info("starting notimand in headless mode", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loop := eventloop.NewLoop(logger)
	backend := &toast.HeadlessBackend{Width: headlessWidth, Height: headlessHeight, Logger: logger}
	toasts := toast.NewOrchestrator(cfg, backend, loop, logger)

	svc, err := startServices(ctx, cfg, opts, socketPath, loop, toasts, nil, cancel, logger)
	if err != nil {
		logger.Error("failed to start services", "error", err)
		os.Exit(1)
	}

	logger.Info("notimand ready", "socket", socketPath)
	_ = loop.Run(ctx)

	svc.stop()
	toasts.Close()
	logger.Info("notimand stopped")
}

// runDisplay runs notimand as a GTK application drawing layer-shell popups.
func runDisplay(cfg *config.NotimanConfig, opts options, socketPath string, logger *slog.Logger) {
	logger.Info("starting notimand", "version", version)

	app := adw.NewApplication(appID, 0)

	var (
		svc     *services
		toasts  *toast.Orchestrator
		running atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := func() {
		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		quit()
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		backend := display.NewBackend(&app.Application, cfg, logger)
		if err := backend.Start(); err != nil {
			logger.Error("failed to start display backend", "error", err)
			app.Quit()
			return
		}

		sched := display.NewScheduler()
		toasts = toast.NewOrchestrator(cfg, backend, sched, logger)

		// Restack against the new screen size
		backend.WatchMonitors(func() { toasts.UpdateConfig(toasts.Config()) })

		var err error
		svc, err = startServices(ctx, cfg, opts, socketPath, sched, toasts, backend.UpdateConfig, quit, logger)
		if err != nil {
			logger.Error("failed to start services", "error", err)
			app.Quit()
			return
		}

		logger.Info("notimand ready", "socket", socketPath, "dbus_interface", dbus.DBusInterface)

		// GTK apps quit when all windows are closed
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if svc != nil {
			svc.stop()
		}
		if toasts != nil {
			toasts.Close()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("notimand stopped")
}
