/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"strconv"
	"strings"
)

// DefaultMaxNumberDigits bounds how many digits a numeric token may carry
// before it is rejected as a mis-captured identifier (protocol numbers,
// phone numbers) rather than a result value.
const DefaultMaxNumberDigits = 7

// NormalizeNumber converts a locale-ambiguous numeric token into a float64
// using DefaultMaxNumberDigits. See NormalizeNumberLimit for the rules.
func NormalizeNumber(token string) (float64, error) {
	return NormalizeNumberLimit(token, DefaultMaxNumberDigits)
}

// NormalizeNumberLimit converts a numeric token containing digits and `.`
// or `,` separators into a float64.
//
// When both separator kinds appear, the one occurring last is the decimal
// separator and every earlier separator is dropped as a thousands mark
// ("1.234,56" -> 1234.56). A token with a single separator kind treats its
// last occurrence as decimal. That reading misinterprets thousands-only
// tokens: "1,200" parses as 1.2, not 1200. The ambiguity is deliberate and
// must not be "fixed" silently — historical extractions depend on it.
func NormalizeNumberLimit(token string, maxDigits int) (float64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrNotANumber
	}

	digits := 0
	for _, r := range token {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits == 0 || digits > maxDigits {
		return 0, ErrNotANumber
	}

	if i := strings.LastIndexAny(token, ".,"); i >= 0 {
		head := strings.Map(func(r rune) rune {
			if r == '.' || r == ',' {
				return -1
			}
			return r
		}, token[:i])
		token = head + "." + token[i+1:]
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return v, nil
}
