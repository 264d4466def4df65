package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the serve root for file changes and triggers reload.
type Watcher struct {
	watcher    *fsnotify.Watcher
	rootDir    string
	extensions map[string]bool
	onChange   func(filePath string)
	done       chan bool
	debug      bool
}

// NewWatcher creates a file watcher over rootDir. Only changes to files
// whose extension is in extensions trigger onChange.
func NewWatcher(rootDir string, extensions []string, onChange func(string), debug bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}

	w := &Watcher{
		watcher:    fsWatcher,
		rootDir:    rootDir,
		extensions: exts,
		onChange:   onChange,
		done:       make(chan bool),
		debug:      debug,
	}

	if err := w.addDirectoryRecursive(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// addDirectoryRecursive adds a directory and all its subdirectories to the
// watcher, skipping hidden directories.
func (w *Watcher) addDirectoryRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}

			if err := w.watcher.Add(path); err != nil {
				return err
			}

			if w.debug {
				log.Printf("[Watch] Added directory: %s", path)
			}
		}

		return nil
	})
}

// Start begins watching for file changes.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}

				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					// New subdirectories need to be watched too
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := w.watcher.Add(event.Name); err != nil && w.debug {
							log.Printf("[Watch] Failed to watch %s: %v", event.Name, err)
						}
						continue
					}

					if !w.extensions[filepath.Ext(event.Name)] {
						continue
					}

					relPath, err := filepath.Rel(w.rootDir, event.Name)
					if err != nil {
						relPath = event.Name
					}

					if w.debug {
						log.Printf("[Watch] File changed: %s", relPath)
					}

					w.onChange(relPath)
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Watch] Error: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
