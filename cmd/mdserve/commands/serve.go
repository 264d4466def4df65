package commands

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/pagefold/mdserve/internal/config"
	"github.com/pagefold/mdserve/internal/server"
)

// ServeCommand implements the serve command.
func ServeCommand(args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	port := flags.IntP("port", "p", 0, "pin the HTTP port (default: auto-discover)")
	host := flags.String("host", "", "bind address")
	header := flags.String("header", "", "header Markdown file")
	footer := flags.String("footer", "", "footer Markdown file")
	navigation := flags.String("navigation", "", "navigation Markdown file")
	stylesheet := flags.StringP("stylesheet", "s", "", "custom theme stylesheet")
	noOpen := flags.Bool("no-open", false, "do not open a browser window")
	verbose := flags.BoolP("verbose", "v", false, "verbose logging")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	dir := "."
	if rest := flags.Args(); len(rest) > 0 {
		dir = rest[0]
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cfg, err := config.LoadFromDir(absDir)
	if err != nil {
		return err
	}
	cfg.Root = absDir

	// CLI flags override the config file
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *header != "" {
		cfg.Fragments.Header = *header
	}
	if *footer != "" {
		cfg.Fragments.Footer = *footer
	}
	if *navigation != "" {
		cfg.Fragments.Navigation = *navigation
	}
	if *stylesheet != "" {
		cfg.Styling.Stylesheet = *stylesheet
	}
	if *noOpen {
		cfg.Server.NoOpen = true
	}
	if *verbose {
		cfg.Server.Verbose = true
	}

	fmt.Printf("mdserve\n\n")
	fmt.Printf("Serving: %s\n", absDir)

	app, err := server.Start(cfg)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	fmt.Printf("Server running at %s\n", app.URL())
	fmt.Printf("Live reload on port %d\n", app.ReloadPort)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	if !cfg.Server.NoOpen {
		if err := browser.OpenURL(app.URL()); err != nil {
			log.Printf("[Serve] Could not open browser: %v", err)
		}
	}

	if err := app.Serve(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(0) // Remove timestamp from logs
}
