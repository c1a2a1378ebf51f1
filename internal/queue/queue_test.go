package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/famomatic/livehls/internal/types"
)

type resolverFunc func(ctx context.Context, videoID string) types.ResolutionResult

func (f resolverFunc) Resolve(ctx context.Context, videoID string) types.ResolutionResult {
	return f(ctx, videoID)
}

func TestSubmit_PairsResultsToIdentifiers(t *testing.T) {
	var inFlight atomic.Int32
	var maxInFlight atomic.Int32

	res := resolverFunc(func(_ context.Context, videoID string) types.ResolutionResult {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return types.ResolutionResult{
			Status:    types.StatusResolved,
			MasterURL: "https://m.example/hls_variant/" + videoID,
		}
	})

	q := New(res, Options{Ceiling: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	const n = 32
	var wg sync.WaitGroup
	results := make([]types.ResolutionResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = q.Submit(context.Background(), fmt.Sprintf("video-%02d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, types.StatusResolved, results[i].Status)
		require.Equal(t, fmt.Sprintf("https://m.example/hls_variant/video-%02d", i), results[i].MasterURL,
			"result %d paired to wrong identifier", i)
	}
	require.Equal(t, int32(1), maxInFlight.Load(), "resolver must never run concurrently")
}

func TestSubmit_CeilingBreachYieldsTransientAndQueueProgresses(t *testing.T) {
	calls := make(chan string, 2)
	res := resolverFunc(func(ctx context.Context, videoID string) types.ResolutionResult {
		calls <- videoID
		if videoID == "wedged" {
			// Ignores cancellation, simulating a runaway interaction.
			time.Sleep(250 * time.Millisecond)
		}
		return types.ResolutionResult{Status: types.StatusResolved, MasterURL: "https://m.example/" + videoID}
	})

	q := New(res, Options{Ceiling: 30 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	got, err := q.Submit(context.Background(), "wedged")
	require.NoError(t, err)
	require.Equal(t, types.StatusTransientFailure, got.Status)

	got, err = q.Submit(context.Background(), "healthy")
	require.NoError(t, err)
	require.Equal(t, types.StatusResolved, got.Status)
	require.Equal(t, "https://m.example/healthy", got.MasterURL)
}

func TestSubmit_PanicConvertedToTransient(t *testing.T) {
	first := true
	res := resolverFunc(func(_ context.Context, videoID string) types.ResolutionResult {
		if first {
			first = false
			panic("boom")
		}
		return types.ResolutionResult{Status: types.StatusResolved, MasterURL: "https://m.example/" + videoID}
	})

	q := New(res, Options{Ceiling: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	got, err := q.Submit(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, types.StatusTransientFailure, got.Status)

	// One bad ticket must not starve the queue.
	got, err = q.Submit(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, types.StatusResolved, got.Status)
}

func TestSubmit_CancelledBeforeAccept(t *testing.T) {
	res := resolverFunc(func(context.Context, string) types.ResolutionResult {
		return types.ResolutionResult{Status: types.StatusResolved}
	})
	q := New(res, Options{})
	// Consumer intentionally not started: submission can never be accepted.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Submit(ctx, "never")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSubmit_AfterStop(t *testing.T) {
	res := resolverFunc(func(context.Context, string) types.ResolutionResult {
		return types.ResolutionResult{Status: types.StatusResolved}
	})
	q := New(res, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		_, err := q.Submit(context.Background(), "late")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
