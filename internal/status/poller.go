package status

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a workspace whose status file changed. Removed events carry
// an Unknown status.
type Event struct {
	Workspace string
	Status    Status
	Tool      string
	Updated   time.Time
	Removed   bool
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

func (s fileStamp) equal(o fileStamp) bool {
	return s.modTime.Equal(o.modTime) && s.size == o.size
}

// Poller scans a status directory and reports files that changed since the
// previous scan. It is not safe for concurrent use.
type Poller struct {
	dir      string
	interval time.Duration
	seen     map[string]fileStamp
}

// NewPoller creates a Poller for dir. A non-positive interval means 2s.
func NewPoller(dir string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{dir: dir, interval: interval, seen: make(map[string]fileStamp)}
}

// Scan returns one event per status file that appeared, changed, or
// disappeared since the last Scan, ordered by workspace. A missing directory
// yields no events.
func (p *Poller) Scan() ([]Event, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p.removeMissing(nil), nil
		}
		return nil, err
	}

	present := make(map[string]bool)
	var events []Event
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		workspace := strings.TrimSuffix(name, ".json")
		present[workspace] = true

		info, err := e.Info()
		if err != nil {
			continue
		}
		stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}
		if prev, ok := p.seen[workspace]; ok && prev.equal(stamp) {
			continue
		}

		sig, err := ReadSignal(filepath.Join(p.dir, name))
		if err != nil {
			// Hooks rewrite files in place; a torn read is retried next scan.
			log.Printf("[status] %v", err)
			continue
		}
		p.seen[workspace] = stamp
		events = append(events, Event{
			Workspace: workspace,
			Status:    sig.Status,
			Tool:      sig.CurrentTool,
			Updated:   sig.Updated(),
		})
	}

	events = append(events, p.removeMissing(present)...)
	sort.Slice(events, func(i, j int) bool { return events[i].Workspace < events[j].Workspace })
	return events, nil
}

func (p *Poller) removeMissing(present map[string]bool) []Event {
	var events []Event
	for workspace := range p.seen {
		if present[workspace] {
			continue
		}
		delete(p.seen, workspace)
		events = append(events, Event{Workspace: workspace, Removed: true})
	}
	return events
}

// Run sends the directory's current state and then follows changes until
// ctx is cancelled. Changes are picked up from fsnotify as they happen. The
// interval rescan catches what the watcher misses (network filesystems,
// dropped events) and is the only source when no watch can be set.
func (p *Poller) Run(ctx context.Context, events chan<- Event) error {
	var (
		fsEvents <-chan fsnotify.Event
		fsErrors <-chan error
	)
	if w, err := p.watch(); err != nil {
		log.Printf("[status] watch %s: %v; polling every %s", p.dir, err, p.interval)
	} else {
		defer w.Close()
		fsEvents, fsErrors = w.Events, w.Errors
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		found, err := p.Scan()
		if err != nil {
			log.Printf("[status] scan %s: %v", p.dir, err)
		}
		for _, ev := range found {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case events <- ev:
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
			} else {
				log.Printf("[status] watcher: %v", err)
			}
		case <-ticker.C:
		}
	}
}

// watch starts an fsnotify watch on the status directory, creating it so
// hooks that run later are seen.
func (p *Poller) watch() (*fsnotify.Watcher, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(p.dir); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
