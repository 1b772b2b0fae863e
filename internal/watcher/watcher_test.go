package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters(t *testing.T) {
	t.Run("extension filter", func(t *testing.T) {
		filter := ExtFilter(".stl")
		assert.True(t, filter("models/cube.stl"))
		assert.True(t, filter("models/CUBE.STL"))
		assert.False(t, filter("models/cube.png"))
		assert.False(t, filter("models/render.log"))
	})

	t.Run("hidden files rejected", func(t *testing.T) {
		assert.False(t, NotHidden("models/.cube.png.tmp-123"))
		assert.False(t, NotHidden(".meshfolio.yml"))
		assert.True(t, NotHidden("models/cube.stl"))
	})
}

func TestDirWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var batches [][]ChangeEvent
	w.AddFilter(ExtFilter(".stl"))
	w.AddFilter(NotHidden)
	w.SetHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	require.NoError(t, w.Watch(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// A burst of writes to one model should collapse into a single batch.
	path := filepath.Join(dir, "cube.stl")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, batches, 1, "rapid writes should be debounced into one batch")
	assert.Equal(t, path, batches[0][0].Path)
}

func TestDirWatcher_IgnoresFilteredPaths(t *testing.T) {
	dir := t.TempDir()

	w, err := New(30 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	fired := 0
	w.AddFilter(ExtFilter(".stl"))
	w.AddFilter(NotHidden)
	w.SetHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		fired++
		return nil
	})

	require.NoError(t, w.Watch(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Preview writes and the render log must not retrigger the batch.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.png"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "render.log"), []byte("log"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cube.png.tmp-1"), []byte("tmp"), 0o644))

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, fired)
}
