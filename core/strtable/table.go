// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package strtable

import (
	"fmt"

	"golang.org/x/text/language"
)

// DuplicateKeyError reports a key defined twice within one locale's table.
type DuplicateKeyError struct {
	Locale    string
	Key       string
	Line      int // line of the second definition
	FirstLine int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicate key %q on line %d (first defined on line %d)",
		e.Locale, e.Key, e.Line, e.FirstLine)
}

// Table is one locale's resource table. Entries keep file order; keys are
// unique within the table.
type Table struct {
	Locale  language.Tag
	Entries []Entry

	index map[string]int
}

// NewTable builds a locale table from parsed entries. A repeated key is
// fatal to the table and returns a DuplicateKeyError.
func NewTable(locale language.Tag, entries []Entry) (*Table, error) {
	t := &Table{
		Locale:  locale,
		Entries: entries,
		index:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if prev, ok := t.index[e.Key]; ok {
			return nil, &DuplicateKeyError{
				Locale:    locale.String(),
				Key:       e.Key,
				Line:      e.Line,
				FirstLine: entries[prev].Line,
			}
		}

		t.index[e.Key] = i
	}

	return t, nil
}

// Get returns the entry for key, if present.
func (t *Table) Get(key string) (Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return Entry{}, false
	}

	return t.Entries[i], true
}

// Has reports whether key is defined in this table.
func (t *Table) Has(key string) bool {
	_, ok := t.index[key]

	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.Entries)
}
