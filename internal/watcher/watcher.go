// Package watcher watches content directories for changes and triggers
// sitemap regeneration with debouncing, so editor save bursts collapse
// into one rebuild.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a path is worth reacting to
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of file change events
type ChangeHandler func(events []ChangeEvent) error

// FileWatcher watches for file changes with debouncing. Rapid change
// bursts are grouped: the handler fires once per quiet period with the
// deduplicated set of changed paths.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    logging.Logger
	delay     time.Duration
	filters   []FileFilter
	handlers  []ChangeHandler
	mutex     sync.RWMutex

	pendingMu sync.Mutex
	pending   map[string]ChangeEvent
	timer     *time.Timer
}

// NewFileWatcher creates a new file watcher with the given debounce delay.
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: w,
		logger:  logger.WithComponent("watcher"),
		delay:   debounceDelay,
		pending: make(map[string]ChangeEvent),
	}, nil
}

// AddFilter adds a file filter. All filters must pass for an event to be
// delivered.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive adds a directory and all subdirectories to the watch set.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// Start begins delivering debounced change batches until ctx is canceled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.watchLoop(ctx)
}

// Stop stops the watcher and releases its resources.
func (fw *FileWatcher) Stop() error {
	fw.pendingMu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.pendingMu.Unlock()

	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "file watcher error, continuing")
		}
	}
}

func (fw *FileWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{
		Type: eventTypeFor(event.Op),
		Path: event.Name,
	}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}

	fw.enqueue(ctx, change)
}

func eventTypeFor(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

// enqueue records the change, keyed by path so a burst of writes to one
// file collapses to a single event, and (re)arms the debounce timer.
func (fw *FileWatcher) enqueue(ctx context.Context, change ChangeEvent) {
	fw.pendingMu.Lock()
	defer fw.pendingMu.Unlock()

	fw.pending[change.Path] = change

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, func() {
		fw.flush(ctx)
	})
}

func (fw *FileWatcher) flush(ctx context.Context) {
	fw.pendingMu.Lock()
	if len(fw.pending) == 0 {
		fw.pendingMu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(fw.pending))
	for _, event := range fw.pending {
		events = append(events, event)
	}
	fw.pending = make(map[string]ChangeEvent)
	fw.pendingMu.Unlock()

	fw.mutex.RLock()
	handlers := fw.handlers
	fw.mutex.RUnlock()

	for _, handler := range handlers {
		if err := handler(events); err != nil {
			fw.logger.Warn(ctx, err, "change handler failed, continuing", "events", len(events))
		}
	}
}

// Common file filters

// HTMLFilter passes HTML output files.
func HTMLFilter(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// ContentFilter passes typical site content sources.
func ContentFilter(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".md", ".markdown", ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// NoHiddenFilter rejects dotfiles and dot-directories.
func NoHiddenFilter(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(segment, ".") && segment != "." && segment != ".." {
			return false
		}
	}
	return true
}

// NoOutputFilter rejects paths under the given output directory, so a
// regeneration cannot retrigger itself.
func NoOutputFilter(outputDir string) FileFilter {
	clean := filepath.Clean(outputDir)
	return func(path string) bool {
		rel, err := filepath.Rel(clean, path)
		if err != nil {
			return true
		}
		return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
}
