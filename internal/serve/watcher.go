package serve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

const defaultDebounce = 250 * time.Millisecond

// ErrNoWatchPaths indicates a watcher started with nothing to watch.
var ErrNoWatchPaths = errors.New("serve: no watch paths configured")

// WatcherConfig configures filesystem watching.
type WatcherConfig struct {
	// Paths are the directories to watch recursively.
	Paths []string
	// Debounce coalesces rapid change bursts into one notification.
	Debounce time.Duration
}

// Watcher observes content, layout, and static directories and invokes a
// callback after changes settle.
type Watcher struct {
	cfg     WatcherConfig
	logger  interfaces.Logger
	watcher *fsnotify.Watcher
	onBatch func([]string)
}

// NewWatcher builds a Watcher that calls onBatch with the changed paths after
// each debounced burst.
func NewWatcher(cfg WatcherConfig, logger interfaces.Logger, onBatch func([]string)) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, ErrNoWatchPaths
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	if onBatch == nil {
		onBatch = func([]string) {}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("serve: create watcher: %w", err)
	}

	w := &Watcher{
		cfg:     cfg,
		logger:  logger,
		watcher: fsWatcher,
		onBatch: onBatch,
	}

	for _, root := range cfg.Paths {
		if err := w.addRecursive(root); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				// Watch roots may appear later (e.g. static/ is optional).
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("serve: watch %s: %w", p, err)
		}
		return nil
	})
}

// Run blocks until the context is cancelled, delivering debounced change
// batches to the callback.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		pending = map[string]struct{}{}
		w.logger.Debug("change batch", "files", len(batch))
		w.onBatch(batch)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories join the watch set so nested creates are seen.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}

		case <-timerC:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
