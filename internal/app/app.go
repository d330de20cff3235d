package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/dshills/hlsync/internal/bridge"
	"github.com/dshills/hlsync/internal/config"
	"github.com/dshills/hlsync/internal/highlight"
	"github.com/dshills/hlsync/internal/rpc"
	"github.com/dshills/hlsync/internal/ui"
)

// ErrNotStarted indicates Run was called before Start.
var ErrNotStarted = errors.New("app not started")

// Options configures the application from the command line.
type Options struct {
	// ConfigPath locates the TOML configuration file.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Debug forces debug logging.
	Debug bool
}

// App owns the process lifecycle: configuration, the command channel to the
// backend, the highlight synchronizer and the modal surface gate.
type App struct {
	opts Options
	cfg  *config.Config
	log  *Logger

	transport *rpc.Transport
	client    *bridge.Client
	sync      *bridge.Synchronizer
	surfaces  *ui.Surfaces
	watcher   *config.Watcher

	mu       sync.Mutex
	started  bool
	done     chan struct{}
	stopOnce sync.Once
}

// New loads configuration and prepares the application.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := ParseLogLevel(cfg.Log.Level)
	if opts.LogLevel != "" {
		level = ParseLogLevel(opts.LogLevel)
	}
	if opts.Debug {
		level = LogLevelDebug
	}

	return &App{
		opts: opts,
		cfg:  cfg,
		log:  NewLogger(level, os.Stderr),
		done: make(chan struct{}),
	}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.log
}

// Synchronizer returns the highlight synchronizer. Valid after Start.
func (a *App) Synchronizer() *bridge.Synchronizer {
	return a.sync
}

// SetPrompter installs the modal surface presenter. All surfaces are
// serialized through one gate regardless of caller.
func (a *App) SetPrompter(p ui.Prompter) {
	a.surfaces = ui.NewSurfaces(p)
}

// Surfaces returns the serialized surface front end, or nil when no
// prompter is installed.
func (a *App) Surfaces() *ui.Surfaces {
	return a.surfaces
}

// Start connects to the backend and brings up the synchronizer. source may
// be nil; backend-initiated refresh notifications are then ignored.
func (a *App) Start(ctx context.Context, source bridge.SpanSource) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return errors.New("app already started")
	}

	r, w, c, err := a.dial()
	if err != nil {
		return fmt.Errorf("connecting to backend: %w", err)
	}

	a.transport = rpc.NewTransport(r, w, c, a.log.WithComponent("rpc"))
	a.transport.Start(ctx)

	a.client = bridge.NewClient(transportChannel{a.transport}, a.log.WithComponent("bridge"))

	markerCapable := true
	if a.cfg.Backend.MarkerCapable != nil {
		markerCapable = *a.cfg.Backend.MarkerCapable
	}
	a.sync = bridge.NewSynchronizer(a.client, bridge.Options{
		MarkerCapable: markerCapable,
		Priority:      a.cfg.Highlight.Priority,
		Debounce:      a.cfg.Debounce(),
		Source:        source,
		Log:           a.log.WithComponent("sync"),
	})

	a.transport.OnNotification("hl/refresh", a.handleRefresh)

	if a.opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(a.opts.ConfigPath, a.handleReload)
		if err != nil {
			a.log.Warn("config watcher unavailable: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	a.started = true
	a.log.Info("connected to backend via %s, session %s", a.cfg.Backend.Transport, a.client.Session())
	return nil
}

// Run blocks until Shutdown is called or the context ends.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	select {
	case <-ctx.Done():
		a.Shutdown()
		return ctx.Err()
	case <-a.done:
		return nil
	}
}

// Shutdown stops the application. Safe to call more than once.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.sync != nil {
			a.sync.Close()
		}
		if a.transport != nil {
			_ = a.transport.Close()
		}
		close(a.done)
		a.log.Info("shut down")
	})
}

// dial opens the configured connection to the backend.
func (a *App) dial() (io.Reader, io.Writer, io.Closer, error) {
	switch a.cfg.Backend.Transport {
	case "tcp":
		conn, err := net.Dial("tcp", a.cfg.Backend.Address)
		if err != nil {
			return nil, nil, nil, err
		}
		return conn, conn, conn, nil
	default: // stdio: the backend spawned us with the channel on our pipes
		return os.Stdin, os.Stdout, nil, nil
	}
}

// refreshParams is the payload of a backend-initiated refresh notification.
type refreshParams struct {
	Doc       string `json:"doc"`
	Namespace string `json:"ns"`
}

func (a *App) handleRefresh(_ string, params json.RawMessage) {
	var p refreshParams
	if err := json.Unmarshal(params, &p); err != nil {
		a.log.Warn("malformed refresh notification: %v", err)
		return
	}
	a.sync.Refresh(highlight.Target{Doc: p.Doc, Namespace: p.Namespace})
}

// handleReload applies a changed config file. Only the log level takes
// effect live; channel and synchronizer settings need a restart.
func (a *App) handleReload(cfg *config.Config, err error) {
	if err != nil {
		a.log.Warn("config reload failed, keeping previous: %v", err)
		return
	}
	a.log.SetLevel(ParseLogLevel(cfg.Log.Level))
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.log.Info("configuration reloaded")
}

// transportChannel adapts *rpc.Transport to the bridge.Channel surface.
type transportChannel struct {
	t *rpc.Transport
}

func (c transportChannel) Call(ctx context.Context, method string, params any, result any) error {
	return c.t.Call(ctx, method, params, result)
}

func (c transportChannel) NewBatch() bridge.CommandBatch {
	return c.t.NewBatch()
}
