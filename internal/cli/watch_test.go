package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/immense/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	path := writeFile(t, "tile.yaml", tileYAML)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.NewNop(), func() error {
			if runs.Add(1) == 2 {
				return errors.New("failing runs do not stop the watch")
			}
			return nil
		})
	}()

	// 1. Initial run
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// 2. Edits trigger new runs, even after a failing one
	require.NoError(t, os.WriteFile(path, []byte(tileYAML+"\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(tileYAML), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 3 }, 2*time.Second, 10*time.Millisecond)

	// 3. Cancel stops the watch
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRender_Watch(t *testing.T) {
	in := writeFile(t, "tile.yaml", tileYAML)
	out := in + ".obj"
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Render(ctx, RenderOptions{Path: in, Output: out, Watch: true, Stdout: io.Discard, Stderr: io.Discard}, logging.NewNop())
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
