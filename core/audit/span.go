// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"time"

	"github.com/rs/zerolog/log"
)

// Span represents one module compilation in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Module   string
	Locales  int
	Keys     int
	Errors   int
	Warnings int
	Output   string // path of the generated source file
	Error    error
}

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "compile."+span.Module)

	return ctx
}

func (span *Span) End() {
	// only log once
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()
		span.task = nil
	}
}

func (span Span) Log() {
	event := log.Debug()

	event.Str("sys", "compile")
	event.Str("module", span.Module)
	event.Int("locales", span.Locales)
	event.Int("keys", span.Keys)
	event.Dur("dur", span.duration)

	if span.Errors > 0 {
		event.Int("errors", span.Errors)
	}

	if span.Warnings > 0 {
		event.Int("warnings", span.Warnings)
	}

	if span.Output != "" {
		event.Str("output", span.Output)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

// HumanizeSize renders a byte count for log output.
func HumanizeSize(x int) string {
	if x < bytesInKB {
		return fmt.Sprintf("%d", x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
}
