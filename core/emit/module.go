// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package emit turns a finished key tree into the structural description of a
generated module: a tree of named scopes with typed leaf accessors. The
concrete target-language syntax is a renderer concern; see core/render for
the Go renderer.
*/
package emit

import (
	"fmt"
	"sort"
	"strings"

	"codeberg.org/stringc/stringc/core/format"
	"codeberg.org/stringc/stringc/core/keytree"
	"codeberg.org/stringc/stringc/core/reconcile"
)

// Accessor is one generated leaf: a named accessor for a resource key.
// Zero-parameter accessors are constant-like; parameterized ones take
// arguments in canonical position order 1..N.
type Accessor struct {
	Name  string // last key segment
	Ident string
	Key   string // full dot-delimited key

	Params []format.TypeClass

	// Variants carries every locale's template and its argument order
	// side table, so the formatting collaborator can place canonical
	// arguments in the locale's own placeholder order.
	Variants []reconcile.Variant

	// Canonical is the locale whose slot list defined Params.
	Canonical string
}

// Scope is one generated namespace. Scopes and Accessors keep tree order.
type Scope struct {
	Name  string
	Ident string

	Scopes    []*Scope
	Accessors []Accessor
}

// Module is the emitter's output artifact for one resource module.
type Module struct {
	Name string
	Base string // base locale tag

	Root *Scope

	// Locales is the sorted union of locales across all accessors.
	Locales []string
}

// IdentifierCollisionError reports two sibling segments rendering to the
// same identifier. Fatal to the whole module.
type IdentifierCollisionError struct {
	Scope      string
	Identifier string
}

func (e *IdentifierCollisionError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "top level"
	}

	return fmt.Sprintf("identifier %q generated twice in scope %s", e.Identifier, scope)
}

// Build walks the finished key tree and produces the generated module
// structure, validating identifier uniqueness per scope.
func Build(name, base string, root *keytree.Node) (*Module, error) {
	m := &Module{Name: name, Base: base}

	locales := make(map[string]bool)

	scope, err := buildScope(root, nil, locales)
	if err != nil {
		return nil, err
	}

	m.Root = scope

	for l := range locales {
		m.Locales = append(m.Locales, l)
	}

	sort.Strings(m.Locales)

	return m, nil
}

func buildScope(node *keytree.Node, path []string, locales map[string]bool) (*Scope, error) {
	scope := &Scope{Name: node.Name, Ident: identOf(node)}

	seen := make(map[string]string, len(node.Children))

	for _, child := range node.Children {
		ident := Identifier(child.Name)

		if prev, ok := seen[ident]; ok && prev != child.Name {
			return nil, &IdentifierCollisionError{
				Scope:      strings.Join(path, "."),
				Identifier: ident,
			}
		}

		seen[ident] = child.Name

		if child.IsLeaf() {
			scope.Accessors = append(scope.Accessors, buildAccessor(child, ident, locales))
			continue
		}

		nested, err := buildScope(child, append(path, child.Name), locales)
		if err != nil {
			return nil, err
		}

		scope.Scopes = append(scope.Scopes, nested)
	}

	return scope, nil
}

func buildAccessor(node *keytree.Node, ident string, locales map[string]bool) Accessor {
	res := node.Leaf

	for _, v := range res.Variants {
		locales[v.Locale] = true
	}

	return Accessor{
		Name:      node.Name,
		Ident:     ident,
		Key:       res.Signature.Key,
		Params:    res.Signature.Params,
		Variants:  res.Variants,
		Canonical: res.Canonical,
	}
}

func identOf(node *keytree.Node) string {
	if node.Name == "" {
		return ""
	}

	return Identifier(node.Name)
}
