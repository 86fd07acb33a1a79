// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/loader"
	"codeberg.org/stringc/stringc/core/strtable"
)

// writeModule lays out a module fixture with one .strings file per locale.
func writeModule(t *testing.T, locales map[string]string) *loader.ModuleSource {
	t.Helper()

	dir := t.TempDir()

	for locale, content := range locales {
		lproj := filepath.Join(dir, "Resources", locale+".lproj")
		if err := os.MkdirAll(lproj, 0o755); err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(lproj, "Localizable.strings")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := loader.Discover(dir, "Localizable")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	return src
}

func localeFile(t *testing.T, src *loader.ModuleSource, tag language.Tag) loader.LocaleFile {
	t.Helper()

	for _, lf := range src.Locales {
		if lf.Tag == tag {
			return lf
		}
	}

	t.Fatalf("no %s locale in fixture", tag)

	return loader.LocaleFile{}
}

func TestSyncModuleAppendsMissingKeys(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"title\" = \"Settings\";\n\"farewell\" = \"Bye \\\"friend\\\"\";\n\"greeting\" = \"Hello\";\n",
		"ja": "\"title\" = \"設定\";\n",
	})

	n, err := syncModule(src, language.English, true)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if n != 2 {
		t.Fatalf("got %d missing keys, want 2", n)
	}

	text, err := localeFile(t, src, language.Japanese).ReadText()
	if err != nil {
		t.Fatalf("read synced file: %v", err)
	}

	entries, err := strtable.Parse(text)
	if err != nil {
		t.Fatalf("synced file does not parse: %v", err)
	}

	got := make(map[string]string, len(entries))
	for _, e := range entries {
		got[e.Key] = e.Value
	}

	if got["title"] != "設定" {
		t.Errorf("existing entry changed: %q", got["title"])
	}

	// Placeholders carry the base-language value, escapes intact.
	if got["greeting"] != "Hello" || got["farewell"] != `Bye "friend"` {
		t.Errorf("placeholder values wrong: %v", got)
	}
}

func TestSyncModuleDryRun(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a\" = \"1\";\n\"b\" = \"2\";\n",
		"de": "\"a\" = \"eins\";\n",
	})

	before, err := localeFile(t, src, language.German).ReadText()
	if err != nil {
		t.Fatal(err)
	}

	n, err := syncModule(src, language.English, false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if n != 1 {
		t.Fatalf("got %d missing keys, want 1", n)
	}

	after, err := localeFile(t, src, language.German).ReadText()
	if err != nil {
		t.Fatal(err)
	}

	if before != after {
		t.Error("dry run modified the locale file")
	}
}

func TestSyncModuleCompleteLocaleUntouched(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a\" = \"1\";\n",
		"fr": "\"a\" = \"un\";\n",
	})

	before, err := localeFile(t, src, language.French).ReadText()
	if err != nil {
		t.Fatal(err)
	}

	n, err := syncModule(src, language.English, true)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if n != 0 {
		t.Fatalf("got %d missing keys, want 0", n)
	}

	after, err := localeFile(t, src, language.French).ReadText()
	if err != nil {
		t.Fatal(err)
	}

	if before != after {
		t.Error("complete locale file was rewritten")
	}
}

func TestSyncModuleRequiresBaseLocale(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"ja": "\"a\" = \"一\";\n",
	})

	if _, err := syncModule(src, language.English, true); err == nil {
		t.Fatal("expected an error for a module without the base locale")
	}
}
