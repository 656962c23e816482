// Package filesystem watches an inbox directory for contract files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/clauseguard/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is reported.
const DefaultSettle = 300 * time.Millisecond

// ErrWatcherClosed is returned when Watch is called after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// ChangeType classifies an inbox event.
type ChangeType string

// Inbox change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// Change is a file that appeared or was rewritten in the inbox.
type Change struct {
	Type     ChangeType
	Path     string
	MIMEType string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions limits reported files to the given extensions (".pdf").
// Without it every visible file is reported.
func WithExtensions(exts []string) Option {
	return func(w *Watcher) {
		w.extensions = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.extensions[strings.ToLower(e)] = true
		}
	}
}

// WithSettle sets the quiet period before a change is reported.
// Zero reports every event immediately.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.settle = d
		}
	}
}

// Watcher reports new and rewritten files under a root directory.
type Watcher struct {
	rootPath   string
	extensions map[string]bool
	settle     time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a watcher for rootPath.
func New(rootPath string, opts ...Option) *Watcher {
	w := &Watcher{rootPath: rootPath, settle: DefaultSettle}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RootPath returns the watched directory.
func (w *Watcher) RootPath() string {
	return w.rootPath
}

// Validate checks the root is an accessible directory.
func (w *Watcher) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(w.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", w.rootPath)
	}
	return nil
}

// Scan returns the files already present in the inbox, sorted by path.
func (w *Watcher) Scan(ctx context.Context) ([]Change, error) {
	if err := w.Validate(ctx); err != nil {
		return nil, err
	}

	var changes []Change
	err := filepath.WalkDir(w.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("inbox scan: %s: %v", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != w.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !w.accepts(path) {
			return nil
		}
		changes = append(changes, Change{Type: ChangeCreated, Path: path, MIMEType: detectMIMEType(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Watch reports changes until ctx is cancelled or the watcher is closed.
// The returned channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	w.mu.Unlock()

	if err := w.Validate(ctx); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.addDirs(fsw); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = fsw.Close()
		return nil, ErrWatcherClosed
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
	w.watcher = fsw
	w.mu.Unlock()

	out := make(chan Change, 16)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// loop drains fsnotify and delivers settled changes.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)
	defer fsw.Close()

	pending := make(map[string]Change)
	var timer *time.Timer
	var tick <-chan time.Time

	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			select {
			case out <- pending[p]:
			case <-ctx.Done():
				return false
			}
			delete(pending, p)
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				w.watchNewDir(fsw, event.Name)
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			if prev, seen := pending[change.Path]; seen && prev.Type == ChangeCreated {
				change.Type = ChangeCreated
			}
			pending[change.Path] = *change
			if w.settle == 0 {
				if !flush() {
					return
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.settle)
			}
			tick = timer.C
		case <-tick:
			tick = nil
			if !flush() {
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)
		}
	}
}

// addDirs registers the root and every visible subdirectory.
func (w *Watcher) addDirs(fsw *fsnotify.Watcher) error {
	return filepath.WalkDir(w.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.rootPath && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) watchNewDir(fsw *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.hiddenRel(path) {
		return
	}
	if err := fsw.Add(path); err != nil {
		logger.Warn("inbox watcher: add %s: %v", path, err)
	}
}

// handleFsEvent converts an fsnotify event into a Change, or nil when the
// event is not a new or rewritten contract file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if w.hiddenRel(event.Name) {
		return nil
	}

	var typ ChangeType
	switch {
	case event.Has(fsnotify.Create):
		typ = ChangeCreated
	case event.Has(fsnotify.Write):
		typ = ChangeUpdated
	default:
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return nil
	}
	if !w.accepts(event.Name) {
		return nil
	}
	return &Change{Type: typ, Path: event.Name, MIMEType: detectMIMEType(event.Name)}
}

// hiddenRel applies isHidden to the part of path below the root, so an
// inbox inside a dot directory still reports its files.
func (w *Watcher) hiddenRel(path string) bool {
	rel, err := filepath.Rel(w.rootPath, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

func (w *Watcher) accepts(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// Close stops any active watch. It is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		err := w.watcher.Close()
		w.watcher = nil
		return err
	}
	return nil
}

// fallbackMIMETypes covers extensions the platform mime table may lack.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":      "application/pdf",
	".htm":      "text/html",
	".html":     "text/html",
	".eml":      "message/rfc822",
}

// detectMIMEType guesses a MIME type from the file extension, without parameters.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if m, ok := fallbackMIMETypes[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if i := strings.Index(m, ";"); i >= 0 {
			m = strings.TrimSpace(m[:i])
		}
		return m
	}
	return "application/octet-stream"
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == filepath.Separator }) {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
