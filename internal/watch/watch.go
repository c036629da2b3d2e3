// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// Watcher watches files through their parent directories, so editors that
// replace a file on save still trigger a change.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for paths. Empty paths are ignored. A debounce of
// zero uses DefaultDebounce.
func New(paths []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Watcher{
		files:    make(map[string]struct{}),
		debounce: debounce,
		logger:   logger,
	}
	seenDirs := make(map[string]struct{})
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	return w, nil
}

// Run calls onChange after each burst of changes until ctx is done. Errors
// from onChange are logged and do not stop the watcher. ready, if not nil,
// is closed once the watches are installed.
func (w *Watcher) Run(ctx context.Context, onChange func() error, ready chan<- struct{}) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", "files", len(w.files), "debounce", w.debounce)
	if ready != nil {
		close(ready)
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timerC:
			timerC = nil
			if err := onChange(); err != nil {
				w.logger.Error("reload failed", "err", err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.shouldTrigger(evt) {
				w.logger.Debug("file changed", "path", evt.Name, "op", evt.Op.String())
				resetTimer()
			}
		}
	}
}

func (w *Watcher) shouldTrigger(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	abs, err := filepath.Abs(evt.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
