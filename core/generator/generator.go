// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package generator runs the per-module compilation pipeline: locale tables
are parsed concurrently, reconciled into canonical signatures, arranged
into the namespace tree, and emitted as a generated module.

Key-scoped failures are collected as diagnostics and exclude only the
offending key. Structural failures (namespace conflicts, identifier
collisions) abort the module before anything is emitted.
*/
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/diag"
	"codeberg.org/stringc/stringc/core/emit"
	"codeberg.org/stringc/stringc/core/format"
	"codeberg.org/stringc/stringc/core/keytree"
	"codeberg.org/stringc/stringc/core/loader"
	"codeberg.org/stringc/stringc/core/reconcile"
	"codeberg.org/stringc/stringc/core/strtable"
)

// Logger is the logger used by package generator.
var Logger = log.With().Str("sys", "generator").Logger()

// ErrNoUsableLocales is returned when every locale file of a module
// failed to parse.
var ErrNoUsableLocales = errors.New("no usable locale tables")

// Options configures one module's generation run.
type Options struct {
	// BaseLocale designates the canonical locale. When a key is absent
	// from it, the first defining locale in canonical tag order acts as
	// the fallback canonical source.
	BaseLocale language.Tag

	// Delimiter splits keys into namespace segments. Defaults to ".".
	Delimiter string

	// AllowPartialCoverage keeps keys that are missing from the base
	// locale, demoting the condition to a warning. When false such keys
	// are excluded and reported as errors.
	AllowPartialCoverage bool

	// FailOnUntranslated escalates untranslated values from warnings
	// to errors. The keys are still emitted either way.
	FailOnUntranslated bool
}

// Result is one module's outcome. Module is nil when the run failed
// structurally; Diags is always populated.
type Result struct {
	Module *emit.Module
	Diags  *diag.List
	Report *Report
}

// Process compiles one resource module. The returned error marks
// module-scoped failures with zero partial output; key-scoped problems
// are reported through Result.Diags instead.
func Process(ctx context.Context, src *loader.ModuleSource, opts Options) (*Result, error) {
	if opts.Delimiter == "" {
		opts.Delimiter = "."
	}

	res := &Result{Diags: &diag.List{Module: src.Name}}

	tables, err := parseLocales(ctx, src, res.Diags)
	if err != nil {
		return res, err
	}

	if len(tables) == 0 {
		return res, fmt.Errorf("%s: %w", src.Name, ErrNoUsableLocales)
	}

	canonical := canonicalTag(tables, opts.BaseLocale)

	resolved := reconcileKeys(tables, canonical, opts, res.Diags)

	tree := keytree.NewBuilder(opts.Delimiter)

	for _, r := range resolved {
		if err := tree.Insert(r); err != nil {
			var invalid *keytree.InvalidKeyError
			if errors.As(err, &invalid) {
				// Malformed key shape is key-scoped: skip the key, keep
				// the module.
				res.Diags.Add(diag.Diagnostic{
					Severity: diag.SeverityError,
					Kind:     diag.KindInvalidKey,
					Key:      r.Signature.Key,
					Message:  invalid.Error(),
				})

				continue
			}

			var conflict *keytree.NamespaceConflictError
			if errors.As(err, &conflict) {
				res.Diags.Add(diag.Diagnostic{
					Severity: diag.SeverityError,
					Kind:     diag.KindNamespaceConflict,
					Key:      r.Signature.Key,
					Message:  conflict.Error(),
				})
			}

			return res, fmt.Errorf("%s: %w", src.Name, err)
		}
	}

	module, err := emit.Build(src.Name, canonical.String(), tree.Root())
	if err != nil {
		var collision *emit.IdentifierCollisionError
		if errors.As(err, &collision) {
			res.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindIdentifierCollision,
				Message:  collision.Error(),
			})
		}

		return res, fmt.Errorf("%s: %w", src.Name, err)
	}

	res.Module = module
	res.Report = buildReport(src.Name, canonical, tables)

	return res, nil
}

// parseLocales reads and parses every locale file of the module
// concurrently. Files with syntax errors or duplicate keys contribute no
// table; the diagnostics carry the details. I/O failures are fatal to
// the module.
func parseLocales(ctx context.Context, src *loader.ModuleSource, diags *diag.List) (map[string]*strtable.Table, error) {
	var mu sync.Mutex

	tables := make(map[string]*strtable.Table, len(src.Locales))

	g, _ := errgroup.WithContext(ctx)

	for _, lf := range src.Locales {
		g.Go(func() error {
			text, err := lf.ReadText()
			if err != nil {
				return err
			}

			entries, err := strtable.Parse(text)
			if err != nil {
				var syntaxErrs strtable.ParseErrors
				if !errors.As(err, &syntaxErrs) {
					return err
				}

				mu.Lock()
				for _, se := range syntaxErrs {
					diags.Add(diag.Diagnostic{
						Severity: diag.SeverityError,
						Kind:     diag.KindSyntax,
						Locale:   lf.Tag.String(),
						Line:     se.Line,
						Message:  se.Reason,
					})
				}
				mu.Unlock()

				return nil
			}

			table, err := strtable.NewTable(lf.Tag, entries)
			if err != nil {
				var dup *strtable.DuplicateKeyError
				if !errors.As(err, &dup) {
					return err
				}

				mu.Lock()
				diags.Add(diag.Diagnostic{
					Severity: diag.SeverityError,
					Kind:     diag.KindDuplicateKey,
					Key:      dup.Key,
					Locale:   lf.Tag.String(),
					Line:     dup.Line,
					Message:  dup.Error(),
				})
				mu.Unlock()

				return nil
			}

			mu.Lock()
			tables[lf.Tag.String()] = table
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tables, nil
}

// canonicalTag picks the module's canonical locale: the configured base
// locale when its table parsed, otherwise the first locale in canonical
// tag order.
func canonicalTag(tables map[string]*strtable.Table, base language.Tag) language.Tag {
	if _, ok := tables[base.String()]; ok {
		return base
	}

	keys := sortedTags(tables)

	return tables[keys[0]].Locale
}

// reconcileKeys walks every key in first-seen order and reconciles its
// per-locale templates. Keys from the canonical locale come first in
// file order; keys defined only elsewhere follow, grouped by locale in
// tag order, each group in file order.
func reconcileKeys(
	tables map[string]*strtable.Table,
	canonical language.Tag,
	opts Options,
	diags *diag.List,
) []*reconcile.Resolved {
	var out []*reconcile.Resolved

	for _, key := range orderedKeys(tables, canonical) {
		inputs, ok := analyzeKey(tables, key, diags)
		if !ok {
			continue
		}

		if _, inCanonical := tables[canonical.String()].Get(key); !inCanonical {
			severity := diag.SeverityWarning
			if !opts.AllowPartialCoverage {
				severity = diag.SeverityError
			}

			diags.Add(diag.Diagnostic{
				Severity: severity,
				Kind:     diag.KindMissingInCanonical,
				Key:      key,
				Locale:   canonical.String(),
				Message:  fmt.Sprintf("key %q is not defined in canonical locale %s", key, canonical),
			})

			if !opts.AllowPartialCoverage {
				continue
			}
		}

		res, err := reconcile.Key(key, opts.BaseLocale, inputs)
		if err != nil {
			addReconcileDiag(diags, err)
			continue
		}

		markUntranslated(res, opts, diags)

		out = append(out, res)
	}

	return out
}

// analyzeKey scans the key's template in every locale that defines it.
// Scan failures are fatal to the key only.
func analyzeKey(tables map[string]*strtable.Table, key string, diags *diag.List) ([]reconcile.Input, bool) {
	var inputs []reconcile.Input

	for _, tag := range sortedTags(tables) {
		table := tables[tag]

		entry, ok := table.Get(key)
		if !ok {
			continue
		}

		analysis, err := format.Scan(entry.Value)
		if err != nil {
			kind := diag.KindUnknownSpecifier

			var conflict *format.PositionTypeConflictError
			if errors.As(err, &conflict) {
				kind = diag.KindPositionTypeConflict
			}

			diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     kind,
				Key:      key,
				Locale:   tag,
				Line:     entry.Line,
				Message:  err.Error(),
			})

			return nil, false
		}

		inputs = append(inputs, reconcile.Input{
			Locale:   table.Locale,
			Raw:      entry.Value,
			Analysis: analysis,
		})
	}

	return inputs, len(inputs) > 0
}

func addReconcileDiag(diags *diag.List, err error) {
	var (
		gap      *reconcile.PositionGapError
		count    *reconcile.ParameterCountMismatchError
		mismatch *reconcile.ParameterMismatchError
	)

	switch {
	case errors.As(err, &gap):
		diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindPositionGap,
			Key:      gap.Key,
			Locale:   gap.Locale,
			Message:  gap.Error(),
		})
	case errors.As(err, &count):
		diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindParameterCountMismatch,
			Key:      count.Key,
			Locale:   count.Locale,
			Message:  count.Error(),
		})
	case errors.As(err, &mismatch):
		diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindParameterMismatch,
			Key:      mismatch.Key,
			Locale:   mismatch.Locale,
			Message:  mismatch.Error(),
		})
	}
}

// markUntranslated flags variants whose text is byte-identical to the
// canonical source, the usual sign of a copied-through placeholder value.
func markUntranslated(res *reconcile.Resolved, opts Options, diags *diag.List) {
	var (
		canonicalRaw string
		found        bool
	)

	for _, v := range res.Variants {
		if v.Locale == res.Canonical {
			canonicalRaw = v.Raw
			found = true

			break
		}
	}

	if !found || canonicalRaw == "" {
		return
	}

	severity := diag.SeverityWarning
	if opts.FailOnUntranslated {
		severity = diag.SeverityError
	}

	for _, v := range res.Variants {
		if v.Locale == res.Canonical || v.Raw != canonicalRaw {
			continue
		}

		diags.Add(diag.Diagnostic{
			Severity: severity,
			Kind:     diag.KindUntranslated,
			Key:      res.Signature.Key,
			Locale:   v.Locale,
			Message:  fmt.Sprintf("key %q in locale %s matches the %s text verbatim", res.Signature.Key, v.Locale, res.Canonical),
		})
	}
}

// orderedKeys returns every key across all tables in first-seen order:
// canonical file order first, then remaining locales in tag order.
func orderedKeys(tables map[string]*strtable.Table, canonical language.Tag) []string {
	var keys []string

	seen := make(map[string]bool)

	appendTable := func(t *strtable.Table) {
		for _, e := range t.Entries {
			if !seen[e.Key] {
				seen[e.Key] = true
				keys = append(keys, e.Key)
			}
		}
	}

	appendTable(tables[canonical.String()])

	for _, tag := range sortedTags(tables) {
		if tag == canonical.String() {
			continue
		}

		appendTable(tables[tag])
	}

	return keys
}

func sortedTags(tables map[string]*strtable.Table) []string {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}
