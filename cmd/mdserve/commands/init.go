package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagefold/mdserve/internal/config"
)

// InitCommand writes a default mdserve.yaml into the given directory.
func InitCommand(args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", dir)
	}

	configPath := filepath.Join(dir, "mdserve.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
