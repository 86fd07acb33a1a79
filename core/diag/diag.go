// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package diag defines the structured diagnostics surfaced to the caller
// after each module's generation run. The caller decides exit-code policy.
package diag

import (
	"github.com/rs/zerolog"
)

// Severity of a diagnostic record.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic kinds, one per failure class in the generation pipeline.
const (
	KindSyntax                 = "syntax"
	KindDuplicateKey           = "duplicate-key"
	KindUnknownSpecifier       = "unknown-specifier"
	KindPositionTypeConflict   = "position-type-conflict"
	KindPositionGap            = "position-gap"
	KindParameterMismatch      = "parameter-mismatch"
	KindParameterCountMismatch = "parameter-count-mismatch"
	KindMissingInCanonical     = "missing-in-canonical-locale"
	KindInvalidKey             = "invalid-key"
	KindUntranslated           = "untranslated"
	KindNamespaceConflict      = "namespace-conflict"
	KindIdentifierCollision    = "identifier-collision"
)

// Diagnostic is one structured error or warning record. Every failure
// carries enough context to point at the offending resource-file line.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"`
	Module   string   `json:"module,omitempty"`
	Key      string   `json:"key,omitempty"`
	Locale   string   `json:"locale,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Log writes the diagnostic through the given logger at its severity.
func (d Diagnostic) Log(logger *zerolog.Logger) {
	ev := logger.Warn()
	if d.Severity == SeverityError {
		ev = logger.Error()
	}

	ev = ev.Str("kind", d.Kind)

	if d.Key != "" {
		ev = ev.Str("key", d.Key)
	}

	if d.Locale != "" {
		ev = ev.Str("locale", d.Locale)
	}

	if d.Line > 0 {
		ev = ev.Int("line", d.Line)
	}

	ev.Msg(d.Message)
}

// List collects diagnostics for one module run.
type List struct {
	Module string

	ds []Diagnostic
}

// Add records one diagnostic, stamping the module name.
func (l *List) Add(d Diagnostic) {
	d.Module = l.Module
	l.ds = append(l.ds, d)
}

// All returns the collected diagnostics in order of addition.
func (l *List) All() []Diagnostic {
	return l.ds
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *List) HasErrors() bool {
	for _, d := range l.ds {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Counts returns the number of errors and warnings collected.
func (l *List) Counts() (errors, warnings int) {
	for _, d := range l.ds {
		if d.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	return errors, warnings
}
