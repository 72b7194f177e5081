package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	results := Map(t.Context(), items, 3, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	require.Len(t, results, len(items))
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, items[i]*10, r.Value)
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var active, peak int32
	items := make([]int, 20)
	Map(t.Context(), items, 2, func(context.Context, int) (struct{}, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&active, -1)
		return struct{}{}, nil
	})
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestMap_ErrorsStayWithTheirItem(t *testing.T) {
	boom := errors.New("boom")
	results := Map(t.Context(), []string{"ok", "bad", "ok"}, 2, func(_ context.Context, s string) (string, error) {
		if s == "bad" {
			return "", boom
		}
		return s, nil
	})
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
	require.Equal(t, "ok", results[2].Value)
}

func TestMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	var calls int32
	results := Map(ctx, []int{1, 2, 3}, 1, func(context.Context, int) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, nil
	})
	for _, r := range results {
		require.ErrorIs(t, r.Err, context.Canceled)
	}
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestMap_Empty(t *testing.T) {
	require.Nil(t, Map(t.Context(), []int(nil), 4, func(context.Context, int) (int, error) { return 0, nil }))
}

func TestConcurrency(t *testing.T) {
	require.Equal(t, 3, Concurrency(3))
	require.Positive(t, Concurrency(0))
}
