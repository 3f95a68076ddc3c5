// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"time"
)

// LogTracer writes one line per span event to W. It is the default tracer
// for interactive runs; the store tracer persists the same spans.
type LogTracer struct {
	W io.Writer
}

func (l LogTracer) StartSpan(runID, stage, topic string) Span {
	fmt.Fprintf(l.W, "%s start   %s run=%s\n", timestamp(), stage, shortID(runID))
	return &logSpan{w: l.W, stage: stage, started: time.Now()}
}

type logSpan struct {
	w       io.Writer
	stage   string
	started time.Time
}

func (s *logSpan) End(output any) {
	fmt.Fprintf(s.w, "%s ok      %s (%s) -> %T\n", timestamp(), s.stage, elapsed(s.started), output)
}

func (s *logSpan) EndError(err error) {
	fmt.Fprintf(s.w, "%s failed  %s (%s): %v\n", timestamp(), s.stage, elapsed(s.started), err)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func elapsed(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
