package publish

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
)

// Watcher republishes the source directory whenever its contents change.
// Rapid event bursts (a frontend build writing many files) are debounced so
// one publish runs per build, not per file.
type Watcher struct {
	src          string
	dst          string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	publishChan  chan struct{}

	// OnPublish is invoked after every successful publish (optional).
	OnPublish func(*Result)
	// Recorder receives publish durations (optional).
	Recorder metrics.Recorder
}

// NewWatcher creates a watcher for src that republishes into dst.
func NewWatcher(src, dst string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	return &Watcher{
		src:          absSrc,
		dst:          dst,
		watcher:      w,
		debounceTime: 500 * time.Millisecond,
		publishChan:  make(chan struct{}, 1),
	}, nil
}

// Run watches until the context is canceled. The initial publish runs before
// watching begins so the destination is always populated.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	start := time.Now()
	res, err := Publish(w.src, w.dst)
	w.observe(time.Since(start), err == nil)
	if err != nil {
		return err
	}
	w.notify(res)

	if err := w.addRecursive(w.src); err != nil {
		return fmt.Errorf("failed to watch source tree: %w", err)
	}

	go w.publishLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("source change detected", logfields.Path(event.Name))
				// New subdirectories need their own watches.
				if event.Op&fsnotify.Create != 0 {
					_ = w.addRecursive(event.Name)
				}
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", logfields.Error(err))
		}
	}
}

// trigger requests a publish without blocking; a pending request is enough.
func (w *Watcher) trigger() {
	select {
	case w.publishChan <- struct{}{}:
	default:
	}
}

// publishLoop debounces triggers and runs the publish.
func (w *Watcher) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.publishChan:
			timer := time.NewTimer(w.debounceTime)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			start := time.Now()
			res, err := Publish(w.src, w.dst)
			elapsed := time.Since(start)
			w.observe(elapsed, err == nil)
			if err != nil {
				slog.Error("republish failed", logfields.Error(err))
				continue
			}
			slog.Info("republished after source change",
				logfields.Source(res.Source), logfields.Dest(res.Dest),
				logfields.DurationMS(float64(elapsed.Milliseconds())))
			w.notify(res)
		}
	}
}

func (w *Watcher) notify(res *Result) {
	if w.OnPublish != nil {
		w.OnPublish(res)
	}
}

func (w *Watcher) observe(d time.Duration, success bool) {
	if w.Recorder != nil {
		w.Recorder.ObservePublishDuration(d, success)
	}
}

// addRecursive adds watches for path and every directory below it. Non-directory
// paths are ignored.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}
