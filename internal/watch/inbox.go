// Package watch feeds resumes dropped into a folder into an upload queue.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/types"
)

// DefaultSettle is how long a file must stay unchanged before it is read.
const DefaultSettle = 500 * time.Millisecond

// minTick bounds how often settled files are checked.
const minTick = time.Millisecond

// Enqueuer accepts dropped files. Both the job session and the chat
// composer satisfy it.
type Enqueuer interface {
	Enqueue(files []types.FilePayload) intake.Partition
}

// Event reports one file handed to the Enqueuer.
type Event struct {
	Path      string
	Partition intake.Partition
	Err       error
}

// Inbox watches one directory. Each file is enqueued once, after writes to
// it have settled.
type Inbox struct {
	dir     string
	target  Enqueuer
	settle  time.Duration
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
	seen    map[string]struct{}
}

// NewInbox starts watching dir. settle <= 0 uses DefaultSettle.
func NewInbox(dir string, target Enqueuer, settle time.Duration) (*Inbox, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Inbox{
		dir:     dir,
		target:  target,
		settle:  settle,
		watcher: w,
		pending: map[string]time.Time{},
		seen:    map[string]struct{}{},
	}, nil
}

// Close stops watching.
func (in *Inbox) Close() error {
	return in.watcher.Close()
}

// Run processes filesystem events until ctx is done or the watcher is
// closed. Files that settle in the same tick are enqueued together and
// onBatch, if set, is called once with all of their events.
func (in *Inbox) Run(ctx context.Context, onBatch func([]Event)) error {
	ticker := time.NewTicker(max(in.settle/2, minTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-in.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || ignored(event.Name) {
				continue
			}
			in.mu.Lock()
			if _, done := in.seen[event.Name]; !done {
				in.pending[event.Name] = time.Now()
			}
			in.mu.Unlock()
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[watch] %s: %v", in.dir, err)
		case now := <-ticker.C:
			if events := in.flush(now); len(events) > 0 && onBatch != nil {
				onBatch(events)
			}
		}
	}
}

// flush enqueues every settled path.
func (in *Inbox) flush(now time.Time) []Event {
	paths := in.settled(now)
	sort.Strings(paths)
	events := make([]Event, 0, len(paths))
	for _, path := range paths {
		events = append(events, in.enqueue(path))
	}
	return events
}

// settled removes and returns paths quiet for at least the settle period.
func (in *Inbox) settled(now time.Time) []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	var ready []string
	for path, last := range in.pending {
		if now.Sub(last) >= in.settle {
			ready = append(ready, path)
			delete(in.pending, path)
			in.seen[path] = struct{}{}
		}
	}
	return ready
}

func (in *Inbox) enqueue(path string) Event {
	ev := Event{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		ev.Err = err
		return ev
	}
	if info.IsDir() {
		return ev
	}

	// Rejected files are passed by name only so the filter can report them
	// without reading their content.
	files := []types.FilePayload{{Name: filepath.Base(path), Size: info.Size()}}
	if intake.Allowed(path) {
		files, err = intake.LoadFiles([]string{path})
		if err != nil {
			ev.Err = err
			return ev
		}
	}

	ev.Partition = in.target.Enqueue(files)
	if len(ev.Partition.Accepted) > 0 {
		log.Printf("[watch] queued %s", filepath.Base(path))
	}
	return ev
}

// ignored skips editor swap files and hidden files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") || strings.HasSuffix(base, "~")
}
