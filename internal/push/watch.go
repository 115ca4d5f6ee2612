package push

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/internal/markdown"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// DefaultDebounce is the quiet period awaited before a pass is triggered.
const DefaultDebounce = 500 * time.Millisecond

// PassFunc runs one full sync pass.
type PassFunc func(ctx context.Context) error

// Watcher reruns a pass whenever markdown files under the source tree change.
type Watcher struct {
	source   string
	debounce time.Duration
	logger   interfaces.Logger
}

// NewWatcher watches source, waiting debounce after the last change.
func NewWatcher(source string, debounce time.Duration, logger interfaces.Logger) *Watcher {
	if source == "" {
		source = DefaultSource
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{source: source, debounce: debounce, logger: logging.Ensure(logger)}
}

// Watch blocks until ctx is cancelled or a pass fails with an authentication
// error. Other pass failures are logged and the watch continues.
func (w *Watcher) Watch(ctx context.Context, pass PassFunc) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("push watch: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.source); err != nil {
		return sourceError(w.source, err)
	}
	w.logger.Info("push.watch.start", "source", w.source, "debounce", w.debounce.String())

	return w.loop(ctx, fsw.Events, fsw.Errors, pass, func(dir string) {
		if err := w.addTree(fsw, dir); err != nil {
			w.logger.Warn("push.watch.add_failed", "path", dir, "error", err)
		}
	})
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(p)
	})
}

// loop debounces events and runs pass synchronously. Events that arrive while
// a pass runs are queued and collapse into a single follow-up pass.
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, pass PassFunc, onDir func(string)) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Stop()
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("push.watch.stop")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && onDir != nil {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					onDir(event.Name)
					schedule()
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("push.watch.changed", "path", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("push.watch.error", "error", err)

		case <-fire:
			fire = nil
			if err := pass(ctx); err != nil {
				if goerrors.IsAuth(err) {
					return err
				}
				w.logger.Error("push.watch.pass_failed", "error", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !markdown.IsMarkdownName(event.Name) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
