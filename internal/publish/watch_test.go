package publish

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
)

type publishRecorder struct {
	metrics.NoopRecorder

	mu      sync.Mutex
	results []bool
}

func (r *publishRecorder) ObservePublishDuration(_ time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, success)
}

func (r *publishRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.results...)
}

func waitForPublish(t *testing.T, ch <-chan *Result) *Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for publish")
		return nil
	}
}

func TestWatcherRepublishesOnSourceChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frontend", "dist")
	dst := filepath.Join(dir, "dist")
	writeTree(t, src, map[string]string{"index.html": "<html>v1</html>"})

	w, err := NewWatcher(src, dst)
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond

	rec := &publishRecorder{}
	w.Recorder = rec
	published := make(chan *Result, 4)
	w.OnPublish = func(res *Result) { published <- res }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Initial publish runs before watching begins.
	res := waitForPublish(t, published)
	assert.Equal(t, src, res.Source)
	assert.Equal(t, "<html>v1</html>", readTree(t, dst)["index.html"])

	writeTree(t, src, map[string]string{
		"index.html":    "<html>v2</html>",
		"assets/app.js": "console.log(2)",
	})

	waitForPublish(t, published)
	// A build burst may land as more than one debounced publish; wait until
	// the destination has settled on the final tree.
	require.Eventually(t, func() bool {
		got := readTree(t, dst)
		return got["index.html"] == "<html>v2</html>" && got["assets/app.js"] == "console.log(2)"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	results := rec.snapshot()
	require.GreaterOrEqual(t, len(results), 2)
	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestWatcherMissingSourceFailsFast(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frontend", "dist")
	dst := filepath.Join(dir, "dist")

	w, err := NewWatcher(src, dst)
	require.NoError(t, err)
	rec := &publishRecorder{}
	w.Recorder = rec

	err = w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryPublish))
	assert.Equal(t, []bool{false}, rec.snapshot())

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}
