// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package format

// TypeClass is the semantic type of a format placeholder, resolved entirely
// at generation time from the specifier character.
type TypeClass int

const (
	// TextLike covers %@ and %s.
	TextLike TypeClass = iota

	// Integer covers %d, %i and their l/ll length-prefixed variants.
	Integer

	// FloatingPoint covers %f.
	FloatingPoint
)

// String returns a stable name for the type class, used in diagnostics.
func (t TypeClass) String() string {
	switch t {
	case TextLike:
		return "text"
	case Integer:
		return "integer"
	case FloatingPoint:
		return "float"
	default:
		return "unknown"
	}
}

// GoType returns the Go parameter type rendered for this class.
func (t TypeClass) GoType() string {
	switch t {
	case Integer:
		return "int64"
	case FloatingPoint:
		return "float64"
	default:
		return "string"
	}
}

// verb returns the Go fmt conversion character used when rewriting a
// template into an explicit-index format string.
func (t TypeClass) verb() byte {
	switch t {
	case Integer:
		return 'd'
	case FloatingPoint:
		return 'f'
	default:
		return 's'
	}
}
