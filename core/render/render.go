// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package render turns the structural description of a generated module into
concrete Go source. It is one renderer collaborator for the emitter; the
core pipeline does not depend on it.

Each namespace becomes a scope type with one nested scope per child, in
tree order. Zero-parameter leaves render as argument-less accessors;
parameterized leaves take typed arguments in canonical position order and
format them through explicit-index format strings, so each locale's
template places arguments in its own order.
*/
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/stringc/stringc/core/emit"
	"codeberg.org/stringc/stringc/core/format"
)

// Options configures Go source rendering.
type Options struct {
	// Package is the package name of the generated file.
	Package string
}

// GoSource renders m into a self-contained Go source file.
func GoSource(m *emit.Module, opts Options) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by stringc from module %q. DO NOT EDIT.\n\n", m.Name)
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)

	if hasParams(m.Root) {
		fmt.Fprintf(&b, "import \"fmt\"\n\n")
	}

	writeRuntime(&b, m)

	if err := writeScopeTypes(&b, m.Root, nil); err != nil {
		return nil, err
	}

	if err := writeTables(&b, m); err != nil {
		return nil, err
	}

	writeFallbacks(&b, m)

	return []byte(b.String()), nil
}

// WriteFile writes data to path atomically: the file appears complete or
// not at all, never partially written.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stringc-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to set output permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

// writeRuntime emits the locale selection and lookup helpers.
func writeRuntime(b *strings.Builder, m *emit.Module) {
	fmt.Fprintf(b, "const baseLocale = %q\n\n", m.Base)
	fmt.Fprintf(b, "var currentLocale = baseLocale\n\n")

	fmt.Fprintf(b, "// SetLocale selects the locale used by all accessors. Keys missing from\n")
	fmt.Fprintf(b, "// the selected locale fall back to the base locale %q; keys absent\n", m.Base)
	fmt.Fprintf(b, "// from the base locale fall back to the locale that defines them.\n")
	fmt.Fprintf(b, "func SetLocale(tag string) {\n")
	fmt.Fprintf(b, "\tcurrentLocale = tag\n")
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "func lookup(key string) string {\n")
	fmt.Fprintf(b, "\tif table, ok := tables[currentLocale]; ok {\n")
	fmt.Fprintf(b, "\t\tif s, ok := table[key]; ok {\n")
	fmt.Fprintf(b, "\t\t\treturn s\n")
	fmt.Fprintf(b, "\t\t}\n")
	fmt.Fprintf(b, "\t}\n\n")
	fmt.Fprintf(b, "\tif s, ok := tables[baseLocale][key]; ok {\n")
	fmt.Fprintf(b, "\t\treturn s\n")
	fmt.Fprintf(b, "\t}\n\n")
	fmt.Fprintf(b, "\treturn tables[fallbackLocale[key]][key]\n")
	fmt.Fprintf(b, "}\n\n")
}

// writeScopeTypes emits scope vars, scope types, and accessor methods for
// scope and its descendants, in tree order. idents is the identifier path
// of scope; nil for the root.
func writeScopeTypes(b *strings.Builder, scope *emit.Scope, idents []string) error {
	if len(idents) > 0 {
		typeName := scopeTypeName(idents)

		if len(idents) == 1 {
			fmt.Fprintf(b, "// %s holds accessors for keys under %q.\n", idents[0], scope.Name)
			fmt.Fprintf(b, "var %s %s\n\n", idents[0], typeName)
		}

		fmt.Fprintf(b, "type %s struct {\n", typeName)

		for _, nested := range scope.Scopes {
			fmt.Fprintf(b, "\t%s %s\n", nested.Ident, scopeTypeName(append(idents, nested.Ident)))
		}

		fmt.Fprintf(b, "}\n\n")
	}

	for _, acc := range scope.Accessors {
		if err := writeAccessor(b, acc, idents); err != nil {
			return err
		}
	}

	for _, nested := range scope.Scopes {
		if err := writeScopeTypes(b, nested, append(idents, nested.Ident)); err != nil {
			return err
		}
	}

	return nil
}

// writeAccessor emits one accessor. Top-level accessors are package-level
// functions; nested ones are methods on their scope type.
func writeAccessor(b *strings.Builder, acc emit.Accessor, idents []string) error {
	recv := ""
	if len(idents) > 0 {
		recv = fmt.Sprintf("(%s) ", scopeTypeName(idents))
	}

	params := make([]string, len(acc.Params))
	args := make([]string, len(acc.Params))

	for i, p := range acc.Params {
		params[i] = fmt.Sprintf("a%d %s", i+1, p.GoType())
		args[i] = fmt.Sprintf("a%d", i+1)
	}

	fmt.Fprintf(b, "// %s returns the text for key %q.\n", acc.Ident, acc.Key)
	fmt.Fprintf(b, "func %s%s(%s) string {\n", recv, acc.Ident, strings.Join(params, ", "))

	if len(acc.Params) == 0 {
		fmt.Fprintf(b, "\treturn lookup(%q)\n", acc.Key)
	} else {
		fmt.Fprintf(b, "\treturn fmt.Sprintf(lookup(%q), %s)\n", acc.Key, strings.Join(args, ", "))
	}

	fmt.Fprintf(b, "}\n\n")

	return nil
}

// writeTables emits the per-locale string tables. Parameterized values are
// rewritten into explicit-index format strings; literal values have their
// %% escapes collapsed since they bypass formatting.
func writeTables(b *strings.Builder, m *emit.Module) error {
	keys, byKey := collectAccessors(m.Root)

	fmt.Fprintf(b, "var tables = map[string]map[string]string{\n")

	for _, locale := range m.Locales {
		fmt.Fprintf(b, "\t%q: {\n", locale)

		for _, key := range keys {
			acc := byKey[key]

			raw, ok := variantRaw(acc, locale)
			if !ok {
				continue
			}

			var value string

			if len(acc.Params) == 0 {
				value = strings.ReplaceAll(raw, "%%", "%")
			} else {
				rewritten, err := format.Rewrite(raw)
				if err != nil {
					return fmt.Errorf("key %q locale %s: %w", key, locale, err)
				}

				value = rewritten
			}

			fmt.Fprintf(b, "\t\t%q: %s,\n", key, strconv.Quote(value))
		}

		fmt.Fprintf(b, "\t},\n")
	}

	fmt.Fprintf(b, "}\n")

	return nil
}

// writeFallbacks emits the per-key fallback table consulted by lookup
// when the base locale's table misses. Only keys whose signature was
// defined by a non-base locale appear in it.
func writeFallbacks(b *strings.Builder, m *emit.Module) {
	keys, byKey := collectAccessors(m.Root)

	fmt.Fprintf(b, "\nvar fallbackLocale = map[string]string{\n")

	for _, key := range keys {
		if acc := byKey[key]; acc.Canonical != m.Base {
			fmt.Fprintf(b, "\t%q: %q,\n", key, acc.Canonical)
		}
	}

	fmt.Fprintf(b, "}\n")
}

// collectAccessors returns all accessor keys in tree order.
func collectAccessors(scope *emit.Scope) ([]string, map[string]emit.Accessor) {
	var keys []string

	byKey := make(map[string]emit.Accessor)

	var walk func(s *emit.Scope)

	walk = func(s *emit.Scope) {
		for _, acc := range s.Accessors {
			keys = append(keys, acc.Key)
			byKey[acc.Key] = acc
		}

		for _, nested := range s.Scopes {
			walk(nested)
		}
	}

	walk(scope)

	return keys, byKey
}

func variantRaw(acc emit.Accessor, locale string) (string, bool) {
	for _, v := range acc.Variants {
		if v.Locale == locale {
			return v.Raw, true
		}
	}

	return "", false
}

// scopeTypeName derives the unexported scope type name from the
// identifier path, e.g. [Settings Advanced] -> settingsAdvancedScope.
func scopeTypeName(idents []string) string {
	joined := strings.Join(idents, "")
	r, size := utf8.DecodeRuneInString(joined)

	return string(unicode.ToLower(r)) + joined[size:] + "Scope"
}

func hasParams(scope *emit.Scope) bool {
	for _, acc := range scope.Accessors {
		if len(acc.Params) > 0 {
			return true
		}
	}

	for _, nested := range scope.Scopes {
		if hasParams(nested) {
			return true
		}
	}

	return false
}
