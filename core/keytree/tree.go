// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package keytree builds the hierarchical namespace tree from dot-delimited
resource keys. Children keep first-insertion order; the emitter reproduces
that order, never an alphabetical one.
*/
package keytree

import (
	"fmt"
	"strings"

	"codeberg.org/stringc/stringc/core/reconcile"
)

// Node is one tree node: a namespace when Leaf is nil, a leaf otherwise.
// The root is always a namespace with an empty name.
type Node struct {
	Name     string
	Children []*Node // first-insertion order
	Leaf     *reconcile.Resolved

	byName map[string]*Node
}

// NamespaceConflictError reports a key path required to be both a leaf
// value and a namespace prefix of another key. This is structural and
// fatal to the whole module.
type NamespaceConflictError struct {
	Path string
}

func (e *NamespaceConflictError) Error() string {
	return fmt.Sprintf("key path %q is both a value and a namespace", e.Path)
}

// DuplicateLeafError reports the same full key path inserted twice.
// Reconciled keys are unique per module, so the pipeline never hits
// this; it guards direct Builder use.
type DuplicateLeafError struct {
	Path string
}

func (e *DuplicateLeafError) Error() string {
	return fmt.Sprintf("key %q inserted twice", e.Path)
}

// InvalidKeyError reports a key with an empty path segment, such as a
// leading, trailing, or doubled delimiter.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("key %q has an empty path segment", e.Key)
}

// Builder inserts canonical keys into a namespace tree.
type Builder struct {
	root  *Node
	delim string
}

// NewBuilder returns a Builder splitting keys on the given delimiter.
func NewBuilder(delimiter string) *Builder {
	return &Builder{
		root:  &Node{byName: make(map[string]*Node)},
		delim: delimiter,
	}
}

// Insert adds one resolved key to the tree. Keys must be inserted in
// first-seen order; that order is preserved in Children.
func (b *Builder) Insert(res *reconcile.Resolved) error {
	segments := strings.Split(res.Signature.Key, b.delim)

	node := b.root

	for i, seg := range segments {
		if seg == "" {
			return &InvalidKeyError{Key: res.Signature.Key}
		}

		last := i == len(segments)-1
		path := strings.Join(segments[:i+1], b.delim)

		child, ok := node.byName[seg]
		if !ok {
			child = &Node{Name: seg}
			if !last {
				child.byName = make(map[string]*Node)
			}

			node.byName[seg] = child
			node.Children = append(node.Children, child)
		}

		switch {
		case last && child.Leaf != nil:
			return &DuplicateLeafError{Path: path}
		case last && len(child.Children) > 0:
			// Inserting a leaf where a namespace already exists.
			return &NamespaceConflictError{Path: path}
		case !last && child.Leaf != nil:
			// Continuing through a path that already terminates in a leaf.
			return &NamespaceConflictError{Path: path}
		}

		if last {
			child.Leaf = res
		} else if child.byName == nil {
			child.byName = make(map[string]*Node)
		}

		node = child
	}

	return nil
}

// Root returns the finished tree.
func (b *Builder) Root() *Node {
	return b.root
}

// IsLeaf reports whether n terminates a key.
func (n *Node) IsLeaf() bool {
	return n.Leaf != nil
}
