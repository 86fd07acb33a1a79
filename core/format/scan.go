// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package format

import (
	"fmt"
	"sort"
	"strings"
)

// Slot is one parameter slot extracted from a raw template.
type Slot struct {
	// Position is the 1-based argument position. For placeholders without an
	// explicit %n$ index it is the next sequential position after the highest
	// position seen so far in the template.
	Position int

	// Type is the semantic class inferred from the specifier character.
	Type TypeClass

	// Explicit reports whether the position was given as %n$.
	Explicit bool
}

// UnknownSpecifierError reports a specifier character outside the fixed
// specifier table. An empty Spec means the template ended inside a placeholder.
type UnknownSpecifierError struct {
	Spec string
}

func (e *UnknownSpecifierError) Error() string {
	if e.Spec == "" {
		return "unterminated format specifier"
	}

	return fmt.Sprintf("unknown format specifier %q", e.Spec)
}

// PositionTypeConflictError reports two slots claiming the same explicit
// position with differing type classes within one template.
type PositionTypeConflictError struct {
	Position int
	First    TypeClass
	Second   TypeClass
}

func (e *PositionTypeConflictError) Error() string {
	return fmt.Sprintf("position %d claimed as both %s and %s", e.Position, e.First, e.Second)
}

// token is one parsed placeholder with its byte span in the template.
type token struct {
	slot  Slot
	start int // index of '%'
	end   int // index just past the conversion character
	mods  string
}

// Scanner walks a raw template left to right exactly once, yielding
// parameter slots in the order their placeholders appear. A Scanner is
// single-use and not restartable; after Next returns false, check Err.
type Scanner struct {
	s      string
	i      int
	maxPos int
	seen   map[int]TypeClass
	err    error
}

// NewScanner returns a Scanner over one raw template.
func NewScanner(template string) *Scanner {
	return &Scanner{s: template, seen: make(map[int]TypeClass)}
}

// Next returns the next slot in scan order. It returns false when the
// template is exhausted or a scan error occurred.
func (sc *Scanner) Next() (Slot, bool) {
	tok, ok := sc.next()

	return tok.slot, ok
}

// Err returns the first error encountered while scanning, if any.
func (sc *Scanner) Err() error {
	return sc.err
}

func (sc *Scanner) next() (token, bool) {
	if sc.err != nil {
		return token{}, false
	}

	for sc.i < len(sc.s) {
		if sc.s[sc.i] != '%' {
			sc.i++
			continue
		}

		start := sc.i
		sc.i++

		// %% is a literal percent and contributes no slot.
		if sc.i < len(sc.s) && sc.s[sc.i] == '%' {
			sc.i++
			continue
		}

		tok, err := sc.parseSpec(start)
		if err != nil {
			sc.err = err

			return token{}, false
		}

		return tok, true
	}

	return token{}, false
}

// parseSpec parses one placeholder body. sc.i points just past the '%'.
// Accepted shape: [n$] [flags] [width] [.precision] [l|ll] conversion.
func (sc *Scanner) parseSpec(start int) (token, error) {
	s := sc.s

	// Optional explicit 1-based position: a digit run followed by '$'.
	pos := 0
	explicit := false

	if j := sc.i + digitRun(s[sc.i:]); j > sc.i && j < len(s) && s[j] == '$' {
		for k := sc.i; k < j; k++ {
			pos = pos*10 + int(s[k]-'0')
		}

		if pos < 1 {
			return token{}, &UnknownSpecifierError{Spec: s[sc.i : j+1]}
		}

		explicit = true
		sc.i = j + 1
	}

	// Flags, width, and precision are accepted but do not affect typing.
	modsStart := sc.i

	for sc.i < len(s) && strings.IndexByte("-+0 #", s[sc.i]) >= 0 {
		sc.i++
	}

	sc.i += digitRun(s[sc.i:])

	if sc.i < len(s) && s[sc.i] == '.' {
		sc.i++
		sc.i += digitRun(s[sc.i:])
	}

	mods := s[modsStart:sc.i]

	// Length prefix: l or ll, valid only before d and i.
	longs := 0
	for longs < 2 && sc.i < len(s) && s[sc.i] == 'l' {
		longs++
		sc.i++
	}

	if sc.i >= len(s) {
		return token{}, &UnknownSpecifierError{}
	}

	conv := s[sc.i]
	sc.i++

	var class TypeClass

	switch {
	case longs == 0 && (conv == '@' || conv == 's'):
		class = TextLike
	case conv == 'd' || conv == 'i':
		class = Integer
	case longs == 0 && conv == 'f':
		class = FloatingPoint
	default:
		return token{}, &UnknownSpecifierError{Spec: strings.Repeat("l", longs) + string(conv)}
	}

	if !explicit {
		pos = sc.maxPos + 1
	}

	if prev, ok := sc.seen[pos]; ok && prev != class {
		return token{}, &PositionTypeConflictError{Position: pos, First: prev, Second: class}
	}

	sc.seen[pos] = class

	if pos > sc.maxPos {
		sc.maxPos = pos
	}

	slot := Slot{Position: pos, Type: class, Explicit: explicit}

	return token{slot: slot, start: start, end: sc.i, mods: mods}, nil
}

// Analysis is the result of draining a Scanner over one template.
type Analysis struct {
	// Slots holds one slot per distinct position, sorted by position.
	Slots []Slot

	// Order holds the resolved position of every placeholder in textual
	// scan order, including repeated explicit positions. This is the
	// side table that lets an emitter reorder arguments per locale.
	Order []int
}

// Scan extracts all parameter slots from template, sorted by position.
func Scan(template string) (Analysis, error) {
	sc := NewScanner(template)

	var a Analysis

	seen := make(map[int]bool)

	for {
		slot, ok := sc.Next()
		if !ok {
			break
		}

		a.Order = append(a.Order, slot.Position)

		if !seen[slot.Position] {
			seen[slot.Position] = true
			a.Slots = append(a.Slots, slot)
		}
	}

	if err := sc.Err(); err != nil {
		return Analysis{}, err
	}

	sort.Slice(a.Slots, func(i, j int) bool { return a.Slots[i].Position < a.Slots[j].Position })

	return a, nil
}

// Rewrite converts template into a Go fmt format string with explicit
// argument indexes, so arguments supplied in canonical position order are
// formatted according to the locale's own placeholder order.
func Rewrite(template string) (string, error) {
	sc := NewScanner(template)

	var b strings.Builder

	last := 0

	for {
		tok, ok := sc.next()
		if !ok {
			break
		}

		b.WriteString(template[last:tok.start])
		fmt.Fprintf(&b, "%%%s[%d]%c", tok.mods, tok.slot.Position, tok.slot.Type.verb())

		last = tok.end
	}

	if err := sc.Err(); err != nil {
		return "", err
	}

	b.WriteString(template[last:])

	return b.String(), nil
}

// digitRun returns the length of the leading decimal digit run in s.
func digitRun(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}

	return n
}
