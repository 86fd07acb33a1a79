// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func writeLocale(t *testing.T, module, locale, table, content string) {
	t.Helper()

	dir := filepath.Join(module, "Resources", locale+".lproj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, table+".strings"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	module := t.TempDir()
	writeLocale(t, module, "en", "Localizable", `"a" = "b";`)
	writeLocale(t, module, "ja", "Localizable", `"a" = "c";`)
	writeLocale(t, module, "pt_BR", "Localizable", `"a" = "d";`)

	// A non-locale directory must be ignored.
	if err := os.MkdirAll(filepath.Join(module, "Resources", "Assets.xcassets"), 0o755); err != nil {
		t.Fatal(err)
	}

	src, err := Discover(module, "Localizable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.Locales) != 3 {
		t.Fatalf("got %d locales, want 3", len(src.Locales))
	}

	// Sorted by canonical tag; pt_BR normalises to pt-BR.
	want := []string{"en", "ja", "pt-BR"}
	for i, lf := range src.Locales {
		if lf.Tag.String() != want[i] {
			t.Errorf("locale %d: got %s, want %s", i, lf.Tag, want[i])
		}
	}
}

func TestDiscoverTopLevelLproj(t *testing.T) {
	t.Parallel()

	module := t.TempDir()

	dir := filepath.Join(module, "en.lproj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "Localizable.strings"), []byte(`"a" = "b";`), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Discover(module, "Localizable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.Locales) != 1 || src.Locales[0].Tag.String() != "en" {
		t.Fatalf("unexpected locales: %+v", src.Locales)
	}
}

func TestDiscoverNoLocales(t *testing.T) {
	t.Parallel()

	_, err := Discover(t.TempDir(), "Localizable")
	if !errors.Is(err, ErrNoLocales) {
		t.Fatalf("got %v, want ErrNoLocales", err)
	}
}

func TestReadTextUTF16(t *testing.T) {
	t.Parallel()

	module := t.TempDir()

	// Encode a table as UTF-16 little endian with a BOM, the encoding
	// Xcode historically wrote for .strings files.
	content := "\"msg\" = \"héllo\";\n"

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	encoded, err := encoder.Bytes([]byte(content))
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(module, "Resources", "fr.lproj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "Localizable.strings")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Discover(module, "Localizable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := src.Locales[0].ReadText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != content {
		t.Errorf("got %q, want %q", text, content)
	}
}
