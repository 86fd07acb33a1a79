// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package strtable parses Apple-style .strings resource tables.

Each non-blank, non-comment line holds one entry of the form

	"key" = "value";

with C-style escapes inside the quoted parts. Both // line comments and
block comments are recognized outside of quoted strings.
*/
package strtable

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one key/value pair from a locale's .strings file, in file order.
type Entry struct {
	Key   string
	Value string
	Line  int // 1-based source line
}

// SyntaxError reports one malformed line.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseErrors is the complete list of syntax errors found in one file.
type ParseErrors []*SyntaxError

func (e ParseErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	return fmt.Sprintf("%s (and %d more syntax errors)", e[0], len(e)-1)
}

// Parse turns the text of one locale's .strings file into its entries,
// preserving file order. A single bad line does not abort the file: all
// line-level syntax errors are collected and returned together as a
// ParseErrors value, in which case no entries are returned.
func Parse(text string) ([]Entry, error) {
	var (
		entries []Entry
		errs    ParseErrors
	)

	for lineNo, line := range strings.Split(stripComments(text), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseEntry(line, lineNo+1)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return entries, nil
}

// parseEntry parses one `"key" = "value";` line.
func parseEntry(line string, lineNo int) (Entry, *SyntaxError) {
	i := skipSpace(line, 0)

	key, i, ok := parseQuoted(line, i)
	if !ok {
		return Entry{}, &SyntaxError{Line: lineNo, Reason: "expected quoted key"}
	}

	i = skipSpace(line, i)
	if i >= len(line) || line[i] != '=' {
		return Entry{}, &SyntaxError{Line: lineNo, Reason: "expected '=' after key"}
	}

	i = skipSpace(line, i+1)

	value, i, ok := parseQuoted(line, i)
	if !ok {
		return Entry{}, &SyntaxError{Line: lineNo, Reason: "expected quoted value"}
	}

	i = skipSpace(line, i)
	if i >= len(line) || line[i] != ';' {
		return Entry{}, &SyntaxError{Line: lineNo, Reason: "expected ';' after value"}
	}

	if rest := strings.TrimSpace(line[i+1:]); rest != "" {
		return Entry{}, &SyntaxError{Line: lineNo, Reason: "unexpected trailing characters"}
	}

	return Entry{Key: key, Value: value, Line: lineNo}, nil
}

// parseQuoted parses a double-quoted string starting at i, decoding escape
// sequences. It returns the decoded text and the index just past the
// closing quote.
func parseQuoted(s string, i int) (string, int, bool) {
	if i >= len(s) || s[i] != '"' {
		return "", i, false
	}

	var b strings.Builder

	i++
	for i < len(s) {
		switch c := s[i]; c {
		case '"':
			return b.String(), i + 1, true
		case '\\':
			if i+1 >= len(s) {
				return "", i, false
			}

			decoded, width := decodeEscape(s[i+1:])
			b.WriteString(decoded)

			i += 1 + width
		default:
			b.WriteByte(c)
			i++
		}
	}

	// Unterminated string literal.
	return "", i, false
}

// decodeEscape decodes the escape sequence following a backslash and
// returns the decoded text plus the number of input bytes consumed.
// Unknown escapes are preserved verbatim, matching how .strings files
// are commonly handled in the wild.
func decodeEscape(s string) (string, int) {
	switch s[0] {
	case '"':
		return `"`, 1
	case '\\':
		return `\`, 1
	case 'n':
		return "\n", 1
	case 't':
		return "\t", 1
	case 'r':
		return "\r", 1
	case 'U', 'u':
		// Apple-style \Uxxxx escape with four hex digits.
		if len(s) >= 5 {
			if code, err := strconv.ParseUint(s[1:5], 16, 32); err == nil {
				return string(rune(code)), 5
			}
		}
	}

	return `\` + string(s[0]), 1
}

// stripComments blanks out // and /* */ comments outside quoted strings.
// Newlines are preserved so line numbers keep pointing at the source.
func stripComments(text string) string {
	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	out := []byte(text)
	state := stateCode

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch state {
		case stateCode:
			switch {
			case c == '"':
				state = stateString
			case c == '/' && i+1 < len(text) && text[i+1] == '/':
				state = stateLineComment
				out[i] = ' '
			case c == '/' && i+1 < len(text) && text[i+1] == '*':
				state = stateBlockComment
				out[i] = ' '
			}
		case stateString:
			if c == '\\' && i+1 < len(text) {
				i++
			} else if c == '"' {
				state = stateCode
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}
		case stateBlockComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = stateCode
			} else if c != '\n' {
				out[i] = ' '
			}
		}
	}

	return string(out)
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	return i
}
