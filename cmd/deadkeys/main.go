// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

// deadkeys reports generated string accessors that the consuming codebase
// never references. Run it from the root of the module that contains the
// stringc output files.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

const generatedSuffix = "_strings.gen.go"

// accessor is one generated leaf the consuming code may call.
type accessor struct {
	obj  types.Object
	name string // qualified for reporting, e.g. strings.Settings.Title
	file string
	line int
}

func main() {
	pattern := flag.String("p", "./...", "package pattern to scan")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, *pattern)
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	accessors := collectAccessors(pkgs, wd)
	if len(accessors) == 0 {
		log.Fatalf("no %s files found under %s", generatedSuffix, *pattern)
	}

	used := findUses(pkgs, accessors)

	var dead []accessor

	for _, a := range accessors {
		if !used[a.obj] {
			dead = append(dead, a)
		}
	}

	sort.Slice(dead, func(i, j int) bool {
		if dead[i].file != dead[j].file {
			return dead[i].file < dead[j].file
		}

		return dead[i].line < dead[j].line
	})

	for _, a := range dead {
		fmt.Printf("%s:%d: %s is never used\n", a.file, a.line, a.name)
	}

	if len(dead) > 0 {
		os.Exit(1)
	}
}

// isGenerated reports whether pos lies in a stringc output file.
func isGenerated(fset *token.FileSet, pos token.Pos) bool {
	return strings.HasSuffix(fset.Position(pos).Filename, generatedSuffix)
}

// collectAccessors gathers every exported function and method declared in a
// generated file. Scope variables themselves are skipped: referencing a
// scope without calling an accessor resolves nothing.
func collectAccessors(pkgs []*packages.Package, projectRoot string) []accessor {
	var out []accessor

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		for ident, obj := range p.TypesInfo.Defs {
			if obj == nil || !isGenerated(p.Fset, obj.Pos()) {
				continue
			}

			fn, ok := obj.(*types.Func)
			if !ok || !fn.Exported() {
				continue
			}

			// Skip the generated runtime surface.
			if fn.Name() == "SetLocale" {
				continue
			}

			pos := p.Fset.Position(ident.Pos())

			file := pos.Filename
			if rel, err := filepath.Rel(projectRoot, file); err == nil {
				file = rel
			}

			out = append(out, accessor{
				obj:  obj,
				name: qualifiedName(p, fn),
				file: file,
				line: pos.Line,
			})
		}
	}

	return out
}

// qualifiedName renders pkg.Receiver.Func or pkg.Func for reporting.
func qualifiedName(p *packages.Package, fn *types.Func) string {
	sig, ok := fn.Type().(*types.Signature)
	if ok && sig.Recv() != nil {
		recv := sig.Recv().Type()
		if ptr, isPtr := recv.(*types.Pointer); isPtr {
			recv = ptr.Elem()
		}

		if named, isNamed := recv.(*types.Named); isNamed {
			return p.Name + "." + named.Obj().Name() + "." + fn.Name()
		}
	}

	return p.Name + "." + fn.Name()
}

// findUses marks every accessor referenced from outside the generated files.
func findUses(pkgs []*packages.Package, accessors []accessor) map[types.Object]bool {
	wanted := make(map[types.Object]bool, len(accessors))
	for _, a := range accessors {
		wanted[a.obj] = false
	}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				ident, ok := n.(*ast.Ident)
				if !ok {
					return true
				}

				obj := p.TypesInfo.Uses[ident]
				if obj == nil {
					return true
				}

				if _, tracked := wanted[obj]; tracked && !isGenerated(p.Fset, ident.Pos()) {
					wanted[obj] = true
				}

				return true
			})
		}
	}

	return wanted
}
