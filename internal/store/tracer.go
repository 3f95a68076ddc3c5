// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"time"

	"github.com/pdiddy/content-engine/internal/pipeline"
)

// Tracer returns a pipeline.Tracer that records every span in the store.
func (s *Store) Tracer() pipeline.Tracer {
	return &storeTracer{store: s}
}

type storeTracer struct {
	store *Store
}

func (t *storeTracer) StartSpan(runID, stage, topic string) pipeline.Span {
	started := t.store.now()
	// Insert failures surface as a panic so the runner's span shielding
	// drops this tracer without aborting the run.
	if err := t.store.startRun(runID, topic, started); err != nil {
		panic(err)
	}
	return &storeSpan{store: t.store, runID: runID, stage: stage, started: started}
}

type storeSpan struct {
	store   *Store
	runID   string
	stage   string
	started time.Time
}

func (sp *storeSpan) End(any) {
	if err := sp.store.recordSpan(sp.runID, sp.stage, sp.started, sp.store.now(), nil); err != nil {
		panic(err)
	}
}

func (sp *storeSpan) EndError(stageErr error) {
	if err := sp.store.recordSpan(sp.runID, sp.stage, sp.started, sp.store.now(), stageErr); err != nil {
		panic(err)
	}
}
