// Package watch reports changes to Go package directories and schema files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a change.
const DefaultDebounce = 200 * time.Millisecond

// ErrNoPaths is returned by Run when there is nothing to watch.
var ErrNoPaths = errors.New("no paths to watch")

// ChangeFunc is called with the changed files after each burst of events.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches directories for Go source changes and individual files
// for any change.
type Watcher struct {
	dirs     map[string]bool
	files    map[string]bool
	debounce time.Duration
	log      logrus.FieldLogger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) { w.log = l }
}

// New creates a Watcher for paths, which may be directories or files.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
		debounce: DefaultDebounce,
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}

		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
		}
	}

	return w, nil
}

// Run watches until ctx is done, calling fn after each debounced burst of
// relevant events. Errors from fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	if len(w.dirs) == 0 && len(w.files) == 0 {
		return ErrNoPaths
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	// Files are watched through their directory so that editors replacing
	// the file do not end the watch.
	for _, dir := range w.watchDirs() {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}

		w.log.WithField("dir", dir).Debug("watching")
	}

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			pending[event.Name] = true

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			w.log.WithError(err).Warn("watch error")

		case <-fire:
			fire = nil

			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}

			sort.Strings(changed)
			clear(pending)

			w.log.WithField("files", strings.Join(changed, ", ")).Info("change detected")

			if err := fn(ctx, changed); err != nil {
				w.log.WithError(err).Error("regeneration failed")
			}
		}
	}
}

func (w *Watcher) watchDirs() []string {
	seen := make(map[string]bool, len(w.dirs)+len(w.files))
	for d := range w.dirs {
		seen[d] = true
	}

	for f := range w.files {
		seen[filepath.Dir(f)] = true
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}

	sort.Strings(out)

	return out
}

// relevant reports whether an event changes a watched input.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}

	return w.dirs[filepath.Dir(name)] && isGoSource(name)
}

func isGoSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
