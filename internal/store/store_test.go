// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// stepClock advances a fixed interval on every reading.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func TestTracerRecordsSuccessfulSpans(t *testing.T) {
	s := newTestStore(t)
	s.now = stepClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), 250*time.Millisecond)
	tracer := s.Tracer()

	sp := tracer.StartSpan("run-1", "research", "memory caches")
	sp.End(nil)
	sp = tracer.StartSpan("run-1", "curate", "memory caches")
	sp.End(nil)

	spans, err := s.ListSpans(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, spans, 2)

	assert.Equal(t, "research", spans[0].Stage)
	assert.Equal(t, "curate", spans[1].Stage)
	assert.Equal(t, "ok", spans[0].Status)
	assert.Equal(t, 250*time.Millisecond, spans[0].Duration)
	assert.True(t, spans[1].StartedAt.After(spans[0].StartedAt))
}

func TestTracerRecordsFailedSpan(t *testing.T) {
	s := newTestStore(t)
	tracer := s.Tracer()

	sp := tracer.StartSpan("run-2", "research", "memory caches")
	sp.End(nil)
	sp = tracer.StartSpan("run-2", "curate", "memory caches")
	sp.EndError(errors.New("no results above threshold"))

	spans, err := s.ListSpans(context.Background(), "run-2")
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "error", spans[1].Status)
	assert.Equal(t, "no results above threshold", spans[1].Error)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "error", runs[0].Status)
	assert.Equal(t, "no results above threshold", runs[0].Error)
	assert.Equal(t, 2, runs[0].Stages)
}

func TestListRunsMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	s.now = stepClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), time.Second)
	tracer := s.Tracer()

	for _, runID := range []string{"run-a", "run-b", "run-c"} {
		sp := tracer.StartSpan(runID, "research", "topic "+runID)
		sp.End(nil)
	}

	runs, err := s.ListRuns(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
	assert.Equal(t, "ok", runs[0].Status)
	assert.Equal(t, "topic run-c", runs[0].Topic)
}

func TestStoreReopensExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{Dir: dir}

	s, err := NewStore(cfg)
	require.NoError(t, err)
	sp := s.Tracer().StartSpan("run-1", "research", "memory caches")
	sp.End(nil)
	require.NoError(t, s.Close())

	s2, err := NewStore(cfg)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}

func TestListSpansUnknownRun(t *testing.T) {
	s := newTestStore(t)
	spans, err := s.ListSpans(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, spans)
}
