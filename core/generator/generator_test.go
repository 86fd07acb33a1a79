// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"codeberg.org/stringc/stringc/core/diag"
	"codeberg.org/stringc/stringc/core/loader"
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

func defaultOpts() Options {
	return Options{
		BaseLocale:           language.English,
		AllowPartialCoverage: true,
	}
}

func kinds(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Kind)
	}

	return out
}

func TestProcess(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"settings.title\" = \"Settings\";\n\"settings.greeting\" = \"%@ sent %d\";\n",
		"ja": "\"settings.title\" = \"設定\";\n\"settings.greeting\" = \"%2$d 件を %1$@ が送信\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Module == nil {
		t.Fatal("expected a generated module")
	}

	if got := len(res.Diags.All()); got != 0 {
		t.Fatalf("expected no diagnostics, got %v", res.Diags.All())
	}

	if res.Module.Base != "en" {
		t.Errorf("base: got %s, want en", res.Module.Base)
	}

	if len(res.Module.Root.Scopes) != 1 || res.Module.Root.Scopes[0].Ident != "Settings" {
		t.Fatalf("unexpected scopes: %+v", res.Module.Root.Scopes)
	}

	accs := res.Module.Root.Scopes[0].Accessors
	if len(accs) != 2 {
		t.Fatalf("got %d accessors, want 2", len(accs))
	}

	greeting := accs[1]
	if len(greeting.Params) != 2 {
		t.Fatalf("greeting: got %d params, want 2", len(greeting.Params))
	}

	// The Japanese variant must carry its reversed argument order.
	for _, v := range greeting.Variants {
		if v.Locale == "ja" {
			if len(v.ArgOrder) != 2 || v.ArgOrder[0] != 2 || v.ArgOrder[1] != 1 {
				t.Errorf("ja ArgOrder: got %v, want [2 1]", v.ArgOrder)
			}
		}
	}
}

func TestProcessKeyOrderFollowsCanonicalFile(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"zebra\" = \"z\";\n\"apple\" = \"a\";\n",
		"de": "\"apple\" = \"A\";\n\"zebra\" = \"Z\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accs := res.Module.Root.Accessors
	if len(accs) != 2 || accs[0].Key != "zebra" || accs[1].Key != "apple" {
		t.Fatalf("unexpected accessor order: %+v", accs)
	}
}

func TestProcessCountMismatchExcludesKey(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"msg\" = \"%@ sent %d\";\n\"ok\" = \"fine\";\n",
		"ja": "\"msg\" = \"%d sent\";\n\"ok\" = \"OK\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := kinds(res.Diags.All())
	if len(got) != 1 || got[0] != diag.KindParameterCountMismatch {
		t.Fatalf("got kinds %v, want [parameter-count-mismatch]", got)
	}

	// The healthy key survives; the mismatched one is excluded.
	accs := res.Module.Root.Accessors
	if len(accs) != 1 || accs[0].Key != "ok" {
		t.Fatalf("unexpected accessors: %+v", accs)
	}
}

func TestProcessMissingInCanonical(t *testing.T) {
	t.Parallel()

	locales := map[string]string{
		"en": "\"shared\" = \"hi\";\n",
		"de": "\"shared\" = \"hallo\";\n\"extra\" = \"nur deutsch\";\n",
	}

	t.Run("partial coverage allowed", func(t *testing.T) {
		t.Parallel()

		res, err := Process(context.Background(), writeModule(t, locales), defaultOpts())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ds := res.Diags.All()
		if len(ds) != 1 || ds[0].Kind != diag.KindMissingInCanonical || ds[0].Severity != diag.SeverityWarning {
			t.Fatalf("unexpected diagnostics: %+v", ds)
		}

		// The key falls back to the first defining locale and is
		// appended after the canonical keys.
		accs := res.Module.Root.Accessors
		if len(accs) != 2 || accs[0].Key != "shared" || accs[1].Key != "extra" {
			t.Fatalf("unexpected accessors: %+v", accs)
		}

		if accs[1].Canonical != "de" {
			t.Errorf("extra canonical: got %s, want de", accs[1].Canonical)
		}
	})

	t.Run("partial coverage disallowed", func(t *testing.T) {
		t.Parallel()

		opts := defaultOpts()
		opts.AllowPartialCoverage = false

		res, err := Process(context.Background(), writeModule(t, locales), opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ds := res.Diags.All()
		if len(ds) != 1 || ds[0].Severity != diag.SeverityError {
			t.Fatalf("unexpected diagnostics: %+v", ds)
		}

		accs := res.Module.Root.Accessors
		if len(accs) != 1 || accs[0].Key != "shared" {
			t.Fatalf("unexpected accessors: %+v", accs)
		}
	})
}

func TestProcessSyntaxErrorsDropLocale(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a\" = \"one\";\n",
		"fr": "not an entry\nanother bad line\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errs, _ := res.Diags.Counts()
	if errs != 2 {
		t.Fatalf("got %d errors, want 2: %+v", errs, res.Diags.All())
	}

	// Generation continues with the remaining locale.
	if res.Module == nil || len(res.Module.Locales) != 1 || res.Module.Locales[0] != "en" {
		t.Fatalf("unexpected module locales: %+v", res.Module)
	}
}

func TestProcessDuplicateKeyDropsLocale(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a\" = \"one\";\n",
		"de": "\"a\" = \"eins\";\n\"a\" = \"doppelt\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := kinds(res.Diags.All())
	if len(got) != 1 || got[0] != diag.KindDuplicateKey {
		t.Fatalf("got kinds %v, want [duplicate-key]", got)
	}

	if len(res.Module.Locales) != 1 || res.Module.Locales[0] != "en" {
		t.Fatalf("unexpected module locales: %v", res.Module.Locales)
	}
}

func TestProcessMalformedKeySkipped(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a..b\" = \"bad\";\n\"ok\" = \"good\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := kinds(res.Diags.All())
	if len(got) != 1 || got[0] != diag.KindInvalidKey {
		t.Fatalf("got kinds %v, want [invalid-key]", got)
	}

	if res.Module == nil || len(res.Module.Root.Accessors) != 1 {
		t.Fatal("expected the well-formed key to survive")
	}
}

func TestProcessNamespaceConflictIsFatal(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"a.b\" = \"x\";\n\"a.b.c\" = \"y\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err == nil {
		t.Fatal("expected a module-scoped error")
	}

	if res.Module != nil {
		t.Error("expected no module output on structural failure")
	}

	got := kinds(res.Diags.All())
	if len(got) != 1 || got[0] != diag.KindNamespaceConflict {
		t.Fatalf("got kinds %v, want [namespace-conflict]", got)
	}
}

func TestProcessIdentifierCollisionIsFatal(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"menu.open_file\" = \"x\";\n\"menu.open-file\" = \"y\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err == nil {
		t.Fatal("expected a module-scoped error")
	}

	if res.Module != nil {
		t.Error("expected no module output on structural failure")
	}
}

func TestProcessUntranslatedWarning(t *testing.T) {
	t.Parallel()

	src := writeModule(t, map[string]string{
		"en": "\"msg\" = \"Hello\";\n",
		"de": "\"msg\" = \"Hello\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds := res.Diags.All()
	if len(ds) != 1 || ds[0].Kind != diag.KindUntranslated || ds[0].Severity != diag.SeverityWarning {
		t.Fatalf("unexpected diagnostics: %+v", ds)
	}

	// Untranslated keys are still emitted.
	if len(res.Module.Root.Accessors) != 1 {
		t.Fatal("expected the key to survive")
	}

	t.Run("escalated", func(t *testing.T) {
		t.Parallel()

		opts := defaultOpts()
		opts.FailOnUntranslated = true

		res, err := Process(context.Background(), src, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !res.Diags.HasErrors() {
			t.Error("expected an error-severity diagnostic")
		}
	})
}

func TestProcessFallbackCanonicalLocale(t *testing.T) {
	t.Parallel()

	// No English at all: the lexicographically first locale becomes
	// the module's canonical locale.
	src := writeModule(t, map[string]string{
		"ja": "\"msg\" = \"こんにちは\";\n",
		"de": "\"msg\" = \"hallo\";\n",
	})

	res, err := Process(context.Background(), src, defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Module.Base != "de" {
		t.Errorf("base: got %s, want de", res.Module.Base)
	}
}
