package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
)

type countingInvalidator struct {
	n atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWatcherInvalidatesOnLedgerWrite(t *testing.T) {
	dir := t.TempDir()
	target := &countingInvalidator{}

	w, err := New(config.DataConfig{Dir: dir}, target, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, config.LedgerFile)
	require.NoError(t, os.WriteFile(path, []byte("15-01-2024,Run,45,Exercise,abc\n"), 0600))

	waitFor(t, func() bool { return target.n.Load() >= 1 })
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := &countingInvalidator{}

	w, err := New(config.DataConfig{Dir: dir}, target, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, config.LedgerFile)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("15-01-2024,Run,45,Exercise,abc\n"), 0600))
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, func() bool { return target.n.Load() >= 1 })
	time.Sleep(2 * debounceDelay)
	assert.LessOrEqual(t, target.n.Load(), int32(2), "burst collapses into at most a couple of invalidations")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := &countingInvalidator{}

	w, err := New(config.DataConfig{Dir: dir}, target, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.json"), []byte("[]"), 0600))

	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(0), target.n.Load())
}
