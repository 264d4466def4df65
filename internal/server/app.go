package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/pagefold/mdserve/internal/config"
	"github.com/pagefold/mdserve/internal/render"
	"github.com/pagefold/mdserve/internal/style"
)

// App is the startup result: the two negotiated port leases, the bound
// listeners, and the assembled handler. It is constructed once by Start and
// passed by reference; the port fields are written exactly once during
// startup and read-only afterwards.
type App struct {
	Config     *config.Config
	Root       string
	HTTPPort   int
	ReloadPort int

	handler  http.Handler
	hub      *ReloadHub
	watcher  *Watcher
	httpLn   net.Listener
	reloadLn net.Listener
}

// Start walks the one-way startup sequence: resolve the live-reload port,
// assemble the pipeline, resolve the HTTP port (skipped when pinned), bind
// both listeners, and start the file watcher. Failure at any step halts
// startup; no listener accepts connections until Serve.
func Start(cfg *config.Config) (*App, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving serve root: %w", err)
	}

	host := cfg.Server.Host
	verbose := cfg.Server.Verbose

	// Idle -> LiveReloadPortResolved. The two probes are sequential so
	// one cannot race the other's candidate port.
	reloadPort, err := FindFreePort(host, cfg.Server.ReloadPortLow, cfg.Server.ReloadPortHigh)
	if err != nil {
		return nil, fmt.Errorf("resolving live-reload port: %w", err)
	}

	// LiveReloadPortResolved -> AppAssembled
	styles, err := style.NewBuilder()
	if err != nil {
		return nil, err
	}

	composer := render.NewComposer(root, render.NewConverter(), styles)
	composer.StylesheetPath = cfg.Styling.Stylesheet
	composer.HeaderPath = cfg.Fragments.Header
	composer.FooterPath = cfg.Fragments.Footer
	composer.NavigationPath = cfg.Fragments.Navigation
	composer.ReloadHost = host
	composer.ReloadPort = reloadPort

	indexer := render.NewIndexer(root, styles)
	indexer.StylesheetPath = cfg.Styling.Stylesheet
	indexer.ReloadHost = host
	indexer.ReloadPort = reloadPort

	handler := New(root, cfg, composer, indexer)
	hub := NewReloadHub(verbose)

	// AppAssembled -> HttpPortResolved. A pinned port is trusted as-is,
	// without a freeness probe.
	// The reload port is leased but not yet bound, so an overlapping range
	// must not hand it out again.
	httpPort := cfg.Server.Port
	if !cfg.IsPortPinned() {
		httpPort, err = FindFreePort(host, cfg.Server.PortLow, cfg.Server.PortHigh, reloadPort)
		if err != nil {
			return nil, fmt.Errorf("resolving HTTP port: %w", err)
		}
	}

	// HttpPortResolved -> HttpListening
	httpLn, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(httpPort)))
	if err != nil {
		return nil, fmt.Errorf("binding HTTP listener: %w", err)
	}

	reloadLn, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(reloadPort)))
	if err != nil {
		httpLn.Close()
		return nil, fmt.Errorf("binding live-reload listener: %w", err)
	}

	// HttpListening -> LiveReloadWatching
	watcher, err := NewWatcher(root, cfg.Watch.Extensions, func(filePath string) {
		hub.BroadcastReload(filePath)
	}, verbose)
	if err != nil {
		httpLn.Close()
		reloadLn.Close()
		return nil, fmt.Errorf("starting watcher: %w", err)
	}
	watcher.Start()

	if verbose {
		log.Printf("[Serve] Watching %s, reload channel on port %d", root, reloadPort)
	}

	return &App{
		Config:     cfg,
		Root:       root,
		HTTPPort:   httpPort,
		ReloadPort: reloadPort,
		handler:    WithCompression(handler),
		hub:        hub,
		watcher:    watcher,
		httpLn:     httpLn,
		reloadLn:   reloadLn,
	}, nil
}

// URL returns the browser-facing address of the HTTP listener.
func (a *App) URL() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.HTTPPort)))
}

// Hub returns the live-reload hub.
func (a *App) Hub() *ReloadHub {
	return a.hub
}

// Serve starts accepting connections on both listeners and blocks until the
// HTTP listener stops. LiveReloadWatching -> Ready happens here: nothing is
// served before this call.
func (a *App) Serve() error {
	go func() {
		if err := http.Serve(a.reloadLn, a.hub); err != nil {
			log.Printf("[WS] Reload listener stopped: %v", err)
		}
	}()

	return http.Serve(a.httpLn, a.handler)
}

// Shutdown stops the watcher and closes both listeners.
func (a *App) Shutdown() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.reloadLn != nil {
		a.reloadLn.Close()
	}
	if a.httpLn != nil {
		return a.httpLn.Close()
	}
	return nil
}
