package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/retry"
)

type fakeConn struct {
	subject  string
	calls    int
	failures int // Publish fails this many times before succeeding
	data     []byte
	pubErr   error
	flushErr error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection reset")
	}
	return f.pubErr
}
func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestNATSPublisher_BuildCompleted(t *testing.T) {
	fc := &fakeConn{}
	p := &NATSPublisher{conn: fc, subject: "garden.build.completed"}

	ev := BuildEvent{
		BuildID:     "b-1",
		StartedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DurationMS:  1200,
		Pages:       12,
		Changed:     2,
		Status:      "success",
		BrokenLinks: []BrokenLink{{Source: "notes/a", Target: "missing"}},
	}
	require.NoError(t, p.BuildCompleted(t.Context(), ev))
	require.Equal(t, "garden.build.completed", fc.subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &got))
	require.Equal(t, "b-1", got["build_id"])
	require.Equal(t, "2026-01-02T03:04:05Z", got["started_at"])
	require.InDelta(t, 12, got["pages"], 0)
	require.NotContains(t, got, "error")

	require.NoError(t, p.Close())
	require.True(t, fc.closed)
}

func TestNATSPublisher_ErrorsAreClassified(t *testing.T) {
	p := &NATSPublisher{conn: &fakeConn{pubErr: errors.New("no responders")}, subject: "s"}
	err := p.BuildCompleted(t.Context(), BuildEvent{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))

	p = &NATSPublisher{conn: &fakeConn{flushErr: context.DeadlineExceeded}, subject: "s"}
	err = p.BuildCompleted(t.Context(), BuildEvent{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNATSPublisher_RetriesTransientFailures(t *testing.T) {
	fc := &fakeConn{failures: 2}
	p := &NATSPublisher{conn: fc, subject: "s", retry: retry.NewPolicy(retry.ModeFixed, time.Millisecond, time.Millisecond, 2)}
	require.NoError(t, p.BuildCompleted(t.Context(), BuildEvent{BuildID: "b"}))
	require.Equal(t, 3, fc.calls)

	fc = &fakeConn{failures: 5}
	p = &NATSPublisher{conn: fc, subject: "s", retry: retry.NewPolicy(retry.ModeFixed, time.Millisecond, time.Millisecond, 1)}
	err := p.BuildCompleted(t.Context(), BuildEvent{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
	require.Equal(t, 2, fc.calls)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "s")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	require.NoError(t, n.BuildCompleted(t.Context(), BuildEvent{}))
	require.NoError(t, n.Close())
}
