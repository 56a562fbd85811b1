package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/tinypub/internal/logfields"
)

// Watcher turns file system events below the content directory, and on the
// configuration file, into debounced rebuild triggers.
type Watcher struct {
	configPath   string
	contentDir   string
	watcher      *fsnotify.Watcher
	trigger      func(reason string)
	debounceTime time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewWatcher creates a Watcher. trigger is called once per quiet period of
// length debounce after relevant changes.
func NewWatcher(configPath, contentDir string, debounce time.Duration, trigger func(reason string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:      watcher,
		trigger:      trigger,
		debounceTime: debounce,
		stopChan:     make(chan struct{}),
	}
	if configPath != "" {
		if w.configPath, err = filepath.Abs(configPath); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}
	if contentDir != "" {
		if w.contentDir, err = filepath.Abs(contentDir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve content directory: %w", err)
		}
	}
	return w, nil
}

// Start registers the watched directories and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory containing the config file (more reliable than watching the file directly)
	if w.configPath != "" {
		if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
			return fmt.Errorf("failed to watch config directory: %w", err)
		}
	}
	if w.contentDir != "" {
		if err := w.addTree(w.contentDir); err != nil {
			return err
		}
	}

	slog.Info("Starting file watcher", logfields.Path(w.contentDir), slog.String("config_path", w.configPath))
	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if event.Op&fsnotify.Chmod == event.Op {
		return
	}

	if w.configPath != "" && path == w.configPath {
		slog.Debug("Config file change detected", logfields.Path(path))
		w.schedule("config_changed")
		return
	}
	if w.contentDir == "" || !within(w.contentDir, path) {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		// New directories must be watched explicitly.
		if err := w.addTree(path); err == nil {
			slog.Debug("Watching new directory", logfields.Path(path))
		}
	}
	if strings.HasPrefix(filepath.Base(path), ".") || !isContentFile(path) {
		return
	}
	slog.Debug("Content change detected", logfields.Path(path), slog.String("op", event.Op.String()))
	w.schedule("content_changed")
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceTime, func() {
		select {
		case <-w.stopChan:
		default:
			w.trigger(reason)
		}
	})
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isContentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
