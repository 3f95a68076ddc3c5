// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs an ordered list of content stages against a topic.
// Implements: prd001-pipeline (R1, R3);
//
//	docs/ARCHITECTURE § Pipeline Interface.
//
// Execution is strictly sequential and fail-fast: each stage receives the
// previous stage's record, the first failure aborts the run, and no partial
// output is ever treated as usable. Each stage execution is wrapped in a
// telemetry span; telemetry failures never abort the run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Stage is one ordered unit of the content pipeline. Execute receives the
// prior stage's output record (the topic string for the first stage) and
// returns its own record. Stages hold only fixed configuration; they are
// reusable across runs.
type Stage interface {
	Name() string
	Execute(ctx context.Context, in any) (any, error)
}

// Span observes one stage execution. Exactly one of End or EndError is
// called when the stage finishes.
type Span interface {
	End(output any)
	EndError(err error)
}

// Tracer opens spans for stage executions. Implementations must tolerate
// being called for every run; their errors and panics are swallowed by the
// runner (R3.4).
type Tracer interface {
	StartSpan(runID, stage, topic string) Span
}

// Runner executes stages in declared order. It holds no state between runs.
type Runner struct {
	stages []Stage
	tracer Tracer
	w      io.Writer
}

// NewRunner builds a Runner over stages. tracer may be nil; w receives
// progress output and must not be nil.
func NewRunner(stages []Stage, tracer Tracer, w io.Writer) *Runner {
	return &Runner{stages: stages, tracer: tracer, w: w}
}

// Run threads topic through every stage in order and returns the final
// record. On the first stage failure it returns an error naming the stage
// and topic, with the cause wrapped; remaining stages are skipped (R1.3).
func (r *Runner) Run(ctx context.Context, topic string) (any, error) {
	if len(r.stages) == 0 {
		return nil, fmt.Errorf("pipeline has no stages")
	}

	runID := uuid.New().String()
	fmt.Fprintf(r.w, "run %s: %d stages, topic %q\n", runID, len(r.stages), topic)

	var record any = topic
	for i, st := range r.stages {
		fmt.Fprintf(r.w, "[%d/%d] %s\n", i+1, len(r.stages), st.Name())

		span := r.startSpan(runID, st.Name(), topic)
		out, err := st.Execute(ctx, record)
		if err != nil {
			wrapped := fmt.Errorf("stage %s (topic %q): %w", st.Name(), topic, err)
			endSpanError(span, wrapped)
			return nil, wrapped
		}
		endSpan(span, out)
		record = out
	}

	fmt.Fprintf(r.w, "run %s: complete\n", runID)
	return record, nil
}

// startSpan opens a span, shielding the run from tracer panics.
func (r *Runner) startSpan(runID, stage, topic string) (span Span) {
	if r.tracer == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			span = nil
		}
	}()
	return r.tracer.StartSpan(runID, stage, topic)
}

func endSpan(span Span, output any) {
	if span == nil {
		return
	}
	defer func() { _ = recover() }()
	span.End(output)
}

func endSpanError(span Span, err error) {
	if span == nil {
		return
	}
	defer func() { _ = recover() }()
	span.EndError(err)
}

// MultiTracer fans spans out to several tracers.
type MultiTracer []Tracer

func (m MultiTracer) StartSpan(runID, stage, topic string) Span {
	spans := make(multiSpan, 0, len(m))
	for _, t := range m {
		if t == nil {
			continue
		}
		spans = append(spans, t.StartSpan(runID, stage, topic))
	}
	return spans
}

type multiSpan []Span

func (m multiSpan) End(output any) {
	for _, s := range m {
		endSpan(s, output)
	}
}

func (m multiSpan) EndError(err error) {
	for _, s := range m {
		endSpanError(s, err)
	}
}
