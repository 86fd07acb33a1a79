// Copyright 2024 - 2026, the stringc contributors
// SPDX-License-Identifier: AGPL-3.0-only

package emit

import (
	"strings"
	"unicode"
)

// Identifier maps a key segment to an exported Go identifier. The mapping
// is pure and deterministic: segments are split on any non-alphanumeric
// run, each part is capitalized, and a leading digit is prefixed with "N"
// so the result is a valid identifier. Interior casing is preserved, so
// "subTitle" becomes "SubTitle" rather than "Subtitle".
func Identifier(segment string) string {
	var b strings.Builder

	startOfPart := true

	for _, r := range segment {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			startOfPart = true
			continue
		}

		if startOfPart {
			if b.Len() == 0 && unicode.IsDigit(r) {
				b.WriteByte('N')
			}

			b.WriteRune(unicode.ToUpper(r))

			startOfPart = false

			continue
		}

		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return "X"
	}

	return b.String()
}
