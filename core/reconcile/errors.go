// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reconcile

import (
	"fmt"

	"codeberg.org/stringc/stringc/core/format"
)

// ParameterCountMismatchError reports a locale whose template declares a
// different number of parameters than the canonical signature.
type ParameterCountMismatchError struct {
	Key      string
	Locale   string
	Expected int
	Actual   int
}

func (e *ParameterCountMismatchError) Error() string {
	return fmt.Sprintf("key %q: locale %s has %d parameters, canonical signature has %d",
		e.Key, e.Locale, e.Actual, e.Expected)
}

// ParameterMismatchError reports a locale whose parameter at some position
// has a different type class than the canonical signature.
type ParameterMismatchError struct {
	Key      string
	Locale   string
	Position int
	Expected format.TypeClass
	Actual   format.TypeClass
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("key %q: locale %s parameter %d is %s, canonical signature has %s",
		e.Key, e.Locale, e.Position, e.Actual, e.Expected)
}

// PositionGapError reports a template whose explicit positions leave a gap,
// e.g. positions 1 and 3 present but 2 absent.
type PositionGapError struct {
	Key             string
	Locale          string
	MissingPosition int
}

func (e *PositionGapError) Error() string {
	return fmt.Sprintf("key %q: locale %s is missing parameter position %d",
		e.Key, e.Locale, e.MissingPosition)
}
