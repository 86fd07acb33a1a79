// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package reconcile merges per-locale placeholder analyses for a key into one
locale-independent parameter signature.

The designated base locale is canonical: its slot list defines the signature
that every other locale must match in length and per-position type class.
When a key is absent from the base locale, the first defining locale in
canonical tag order acts as the fallback canonical source, which keeps
reconciliation independent of processing order.
*/
package reconcile

import (
	"sort"

	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/format"
)

// Signature is the locale-independent parameter signature of one key.
// Params[i] is the type class of the 1-based position i+1.
type Signature struct {
	Key    string
	Params []format.TypeClass
}

// Variant is one locale's template for a key, together with the argument
// order side table recorded during placeholder analysis. ArgOrder[i] is
// the canonical position consumed by the i-th placeholder as it appears
// in Raw, which may differ from 1..N ordering between locales.
type Variant struct {
	Locale   string // canonical BCP 47 tag
	Raw      string
	ArgOrder []int
}

// Resolved couples a canonical signature with every locale's variant.
type Resolved struct {
	Signature Signature
	Variants  []Variant // sorted by locale tag

	// Canonical is the locale whose slot list defined the signature.
	Canonical string
}

// Input is one locale's analyzed template for a key.
type Input struct {
	Locale   language.Tag
	Raw      string
	Analysis format.Analysis
}

// Key reconciles the per-locale analyses for a single key. The result is
// identical for any permutation of inputs.
func Key(key string, base language.Tag, inputs []Input) (*Resolved, error) {
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Locale.String() < sorted[j].Locale.String()
	})

	canonical := sorted[0]

	for _, in := range sorted {
		if in.Locale == base {
			canonical = in
			break
		}
	}

	if err := checkGaps(key, canonical); err != nil {
		return nil, err
	}

	sig := Signature{
		Key:    key,
		Params: make([]format.TypeClass, len(canonical.Analysis.Slots)),
	}

	for i, slot := range canonical.Analysis.Slots {
		sig.Params[i] = slot.Type
	}

	res := &Resolved{
		Signature: sig,
		Canonical: canonical.Locale.String(),
		Variants:  make([]Variant, 0, len(sorted)),
	}

	for _, in := range sorted {
		if in.Locale != canonical.Locale {
			if err := checkGaps(key, in); err != nil {
				return nil, err
			}

			if err := checkAgainst(key, sig, in); err != nil {
				return nil, err
			}
		}

		res.Variants = append(res.Variants, Variant{
			Locale:   in.Locale.String(),
			Raw:      in.Raw,
			ArgOrder: in.Analysis.Order,
		})
	}

	return res, nil
}

// checkGaps verifies that slot positions are exactly 1..N with no gaps.
// Slots arrive sorted by position from the analyzer.
func checkGaps(key string, in Input) error {
	for i, slot := range in.Analysis.Slots {
		if slot.Position != i+1 {
			return &PositionGapError{
				Key:             key,
				Locale:          in.Locale.String(),
				MissingPosition: i + 1,
			}
		}
	}

	return nil
}

// checkAgainst validates one non-canonical locale against the signature.
func checkAgainst(key string, sig Signature, in Input) error {
	if len(in.Analysis.Slots) != len(sig.Params) {
		return &ParameterCountMismatchError{
			Key:      key,
			Locale:   in.Locale.String(),
			Expected: len(sig.Params),
			Actual:   len(in.Analysis.Slots),
		}
	}

	for i, slot := range in.Analysis.Slots {
		if slot.Type != sig.Params[i] {
			return &ParameterMismatchError{
				Key:      key,
				Locale:   in.Locale.String(),
				Position: i + 1,
				Expected: sig.Params[i],
				Actual:   slot.Type,
			}
		}
	}

	return nil
}
