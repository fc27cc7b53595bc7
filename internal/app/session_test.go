package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusqa/internal/metrics"
)

func TestSession_GetOrBuildRunsOnce(t *testing.T) {
	sess := NewSession("s1", time.Now())
	assert.Equal(t, StateUninitialized, sess.State())

	var calls int32
	build := func(context.Context) (*BuiltIndex, error) {
		atomic.AddInt32(&calls, 1)
		return &BuiltIndex{Chunks: 3}, nil
	}

	b1, reused, err := sess.GetOrBuild(context.Background(), build)
	require.NoError(t, err)
	assert.False(t, reused)
	b2, reused, err := sess.GetOrBuild(context.Background(), build)
	require.NoError(t, err)
	assert.True(t, reused)

	assert.Same(t, b1, b2)
	assert.EqualValues(t, 1, calls)
	assert.Equal(t, StateReady, sess.State())
}

func TestSession_ConcurrentBuildsRunOnce(t *testing.T) {
	sess := NewSession("s1", time.Now())
	var calls int32
	build := func(context.Context) (*BuiltIndex, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return &BuiltIndex{}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := sess.GetOrBuild(context.Background(), build)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, calls)
}

func TestSession_FailedBuildStaysUninitialized(t *testing.T) {
	sess := NewSession("s1", time.Now())
	_, _, err := sess.GetOrBuild(context.Background(), func(context.Context) (*BuiltIndex, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, StateUninitialized, sess.State())
	_, ok := sess.Index()
	assert.False(t, ok)

	_, reused, err := sess.GetOrBuild(context.Background(), func(context.Context) (*BuiltIndex, error) {
		return &BuiltIndex{}, nil
	})
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, StateReady, sess.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "UNINITIALIZED", StateUninitialized.String())
	assert.Equal(t, "READY", StateReady.String())
}

func TestSessionStore_GetCreatesAndReuses(t *testing.T) {
	store := NewSessionStore(time.Hour, zerolog.Nop(), metrics.New())

	a := store.Get("a")
	assert.Same(t, a, store.Get("a"))
	assert.NotSame(t, a, store.Get("b"))
	assert.Equal(t, 2, store.Len())
}

func TestSessionStore_SweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(30*time.Minute, zerolog.Nop(), nil)
	store.now = func() time.Time { return now }

	old := store.Get("old")
	store.Get("fresh")

	now = now.Add(20 * time.Minute)
	store.Get("fresh")

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	assert.NotSame(t, old, store.Get("old"), "a swept session starts over")
}

func TestSessionStore_NoTimeoutNeverSweeps(t *testing.T) {
	store := NewSessionStore(0, zerolog.Nop(), nil)
	store.Get("a")
	assert.Zero(t, store.Sweep())
	assert.Equal(t, 1, store.Len())
}
