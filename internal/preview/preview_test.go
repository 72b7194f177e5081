package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sys27/garden/internal/metrics"
	"github.com/sys27/garden/internal/site"
)

func TestRunRebuildsOnContentChange(t *testing.T) {
	contentDir := t.TempDir()
	b := &fakeBuilder{}
	p := New(b, Options{
		Addr:       "127.0.0.1:0",
		ContentDir: contentDir,
		OutputDir:  filepath.Join(contentDir, "public"),
		Watch:      true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return b.builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "note.md"), []byte("# hi"), 0o600))
	assert.Eventually(t, func() bool { return b.builds.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresOutputDirectory(t *testing.T) {
	contentDir := t.TempDir()
	out := filepath.Join(contentDir, "public")
	require.NoError(t, os.MkdirAll(out, 0o750))
	b := &fakeBuilder{}
	p := New(b, Options{Addr: "127.0.0.1:0", ContentDir: contentDir, OutputDir: out, Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return b.builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("x"), 0o600))
	time.Sleep(DebounceDelay + 300*time.Millisecond)
	assert.Equal(t, int32(1), b.builds.Load())
}

func TestRunPeriodicRebuild(t *testing.T) {
	b := &fakeBuilder{}
	p := New(b, Options{Addr: "127.0.0.1:0", ContentDir: t.TempDir(), OutputDir: t.TempDir(), RebuildEvery: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	assert.Eventually(t, func() bool { return b.builds.Load() >= 3 }, 5*time.Second, 20*time.Millisecond)
}

func TestRunRequiresContentDir(t *testing.T) {
	p := New(&fakeBuilder{}, Options{Addr: "127.0.0.1:0", ContentDir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, p.Run(context.Background()))
}

type gatedBuilder struct {
	builds  atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedBuilder) Build(ctx context.Context) (*site.Report, error) {
	g.builds.Add(1)
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return &site.Report{Outcome: metrics.BuildOutcomeSuccess}, nil
}

func TestRebuildWorkerCollapsesRequestsDuringBuild(t *testing.T) {
	b := &gatedBuilder{started: make(chan struct{}, 4), release: make(chan struct{})}
	p := New(b, Options{Addr: "127.0.0.1:0", ContentDir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := make(chan struct{}, 1)
	p.startRebuildWorker(ctx, req)

	req <- struct{}{}
	<-b.started
	for i := 0; i < 5; i++ {
		select {
		case req <- struct{}{}:
		default:
		}
	}
	close(b.release)

	<-b.started
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), b.builds.Load())
}
