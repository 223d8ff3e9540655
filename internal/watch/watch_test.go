package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0644))

	var runs atomic.Int32
	w, err := New(file, 20*time.Millisecond, func(ctx context.Context, path string) error {
		assert.Equal(t, absPath(file), path)
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, int32(1), runs.Load())

	require.NoError(t, os.WriteFile(file, []byte("SELECT 2;"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.sql")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	var runs atomic.Int32
	w, err := New(file, 20*time.Millisecond, func(context.Context, string) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sql"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	require.NoError(t, w.Stop())
}

func TestWatcherInitialFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed.sql")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	boom := errors.New("boom")
	w, err := New(file, 0, func(context.Context, string) error { return boom })
	require.NoError(t, err)

	err = w.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	w.Wait()
}

func TestWatcherStopsWithContext(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed.sql")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	w, err := New(file, 0, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	defer w.watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not exit")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "seed.sql"), 0, nil)
	assert.Error(t, err)
}

func absPath(file string) string {
	abs, _ := filepath.Abs(file)
	return abs
}
