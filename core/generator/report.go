// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/strtable"
)

// LocaleCoverage summarises one locale's translation state against the
// canonical locale.
type LocaleCoverage struct {
	TotalKeys    int      `json:"total_keys"`
	MissingCount int      `json:"missing_count"`
	ExtraCount   int      `json:"extra_count"`
	MissingKeys  []string `json:"missing_keys,omitempty"`
	ExtraKeys    []string `json:"extra_keys,omitempty"`
	Untranslated []string `json:"untranslated,omitempty"`

	// CompletionPct is the share of canonical keys present, in percent
	// rounded to one decimal.
	CompletionPct float64 `json:"completion_percentage"`
}

// Report is one module's coverage report.
type Report struct {
	Module          string                    `json:"module"`
	CanonicalLocale string                    `json:"canonical_locale"`
	Languages       []string                  `json:"languages"`
	TotalKeys       int                       `json:"total_keys"`
	Locales         map[string]LocaleCoverage `json:"locales"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

// buildReport computes per-locale coverage from the parsed tables.
func buildReport(module string, canonical language.Tag, tables map[string]*strtable.Table) *Report {
	canonicalTable := tables[canonical.String()]

	r := &Report{
		Module:          module,
		CanonicalLocale: canonical.String(),
		Languages:       sortedTags(tables),
		TotalKeys:       canonicalTable.Len(),
		Locales:         make(map[string]LocaleCoverage, len(tables)-1),
		GeneratedAt:     time.Now().UTC(),
	}

	for tag, table := range tables {
		if tag == canonical.String() {
			continue
		}

		cov := LocaleCoverage{TotalKeys: table.Len()}

		shared := 0

		for _, e := range canonicalTable.Entries {
			translated, ok := table.Get(e.Key)

			switch {
			case !ok:
				cov.MissingKeys = append(cov.MissingKeys, e.Key)
			case translated.Value == e.Value && e.Value != "":
				shared++

				cov.Untranslated = append(cov.Untranslated, e.Key)
			default:
				shared++
			}
		}

		for _, e := range table.Entries {
			if !canonicalTable.Has(e.Key) {
				cov.ExtraKeys = append(cov.ExtraKeys, e.Key)
			}
		}

		sort.Strings(cov.MissingKeys)
		sort.Strings(cov.ExtraKeys)
		sort.Strings(cov.Untranslated)

		cov.MissingCount = len(cov.MissingKeys)
		cov.ExtraCount = len(cov.ExtraKeys)

		if canonicalTable.Len() > 0 {
			cov.CompletionPct = math.Round(float64(shared)/float64(canonicalTable.Len())*1000) / 10
		} else {
			cov.CompletionPct = 100
		}

		r.Locales[tag] = cov
	}

	return r
}

// WriteReports writes the coverage reports of one run as indented JSON.
func WriteReports(path string, reports []*Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal coverage report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write coverage report: %w", err)
	}

	return nil
}
