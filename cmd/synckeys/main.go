// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

// synckeys copies keys missing from a module's non-base locale tables
// into them as base-language placeholders, so translators work from a
// complete file. With -n it only reports what would be added.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/loader"
	"codeberg.org/stringc/stringc/core/render"
	"codeberg.org/stringc/stringc/core/strtable"
)

func main() {
	table := flag.String("table", "Localizable", "strings table name")
	base := flag.String("base", "en", "locale to copy placeholder values from")
	dry := flag.Bool("n", false, "report missing keys without writing")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: synckeys [flags] <module>...")
	}

	tag, err := language.Parse(*base)
	if err != nil {
		log.Fatalf("invalid base locale %q: %v", *base, err)
	}

	missing := 0

	for _, path := range flag.Args() {
		src, err := loader.Discover(path, *table)
		if err != nil {
			log.Fatalf("failed to discover module: %v", err)
		}

		n, err := syncModule(src, tag, !*dry)
		if err != nil {
			log.Fatalf("failed to sync module: %v", err)
		}

		missing += n
	}

	if *dry && missing > 0 {
		os.Exit(1)
	}
}

// syncModule appends base-language placeholders for keys each non-base
// locale lacks, returning how many keys were missing in total. When
// write is false nothing is modified.
func syncModule(src *loader.ModuleSource, base language.Tag, write bool) (int, error) {
	var baseFile *loader.LocaleFile

	for i := range src.Locales {
		if src.Locales[i].Tag == base {
			baseFile = &src.Locales[i]
			break
		}
	}

	if baseFile == nil {
		return 0, fmt.Errorf("%s: no %s table to copy placeholders from", src.Name, base)
	}

	baseText, err := baseFile.ReadText()
	if err != nil {
		return 0, err
	}

	baseEntries, err := strtable.Parse(baseText)
	if err != nil {
		return 0, fmt.Errorf("%s table: %w", base, err)
	}

	total := 0

	for _, lf := range src.Locales {
		if lf.Tag == base {
			continue
		}

		text, err := lf.ReadText()
		if err != nil {
			return total, err
		}

		entries, err := strtable.Parse(text)
		if err != nil {
			return total, fmt.Errorf("%s table: %w", lf.Tag, err)
		}

		have := make(map[string]bool, len(entries))
		for _, e := range entries {
			have[e.Key] = true
		}

		var missing []strtable.Entry

		for _, e := range baseEntries {
			if !have[e.Key] {
				missing = append(missing, e)
			}
		}

		if len(missing) == 0 {
			continue
		}

		sort.Slice(missing, func(i, j int) bool {
			return missing[i].Key < missing[j].Key
		})

		total += len(missing)

		if !write {
			fmt.Printf("%s: %s is missing %d keys\n", src.Name, lf.Tag, len(missing))
			continue
		}

		synced := appendPlaceholders(text, base.String(), missing)

		if err := render.WriteFile(lf.Path, []byte(synced)); err != nil {
			return total, err
		}

		fmt.Printf("%s: added %d keys to %s\n", src.Name, len(missing), lf.Path)
	}

	return total, nil
}

// appendPlaceholders appends the missing entries at the end of a locale
// file's text, each marked for translation. Keys and values are
// re-quoted, so decoded escapes survive the round trip.
func appendPlaceholders(content, baseTag string, missing []strtable.Entry) string {
	var b strings.Builder

	b.WriteString(strings.TrimRight(content, " \t\r\n"))
	b.WriteString("\n")

	for _, e := range missing {
		fmt.Fprintf(&b, "\n/* TODO: translate from %s */\n%s = %s;\n",
			baseTag, strtable.Quote(e.Key), strtable.Quote(e.Value))
	}

	return b.String()
}
