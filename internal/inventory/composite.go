// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

import "strings"

// Metadata values may encode a list of group names as a bracketed,
// comma-separated, quoted-token list, e.g. `["env", "prod"]`. The grammar is
// deliberately small: a value is composite iff its trimmed form is enclosed
// in brackets, and tokens are maximal runs of ASCII letters and underscores;
// quotes, commas, digits and whitespace only separate tokens.

// Reports whether the value uses the bracketed list encoding.
func isCompositeValue(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= 2 && trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']'
}

// Extract the group tokens from a composite value.
func compositeTokens(value string) []string {
	trimmed := strings.TrimSpace(value)
	inner := trimmed[1 : len(trimmed)-1]
	tokens := []string{}
	start := -1
	for i := range len(inner) {
		if isTokenByte(inner[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, inner[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, inner[start:])
	}
	return tokens
}

func isTokenByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Resolve a metadata value into the group names it contributes. Composite
// values yield one group per token, plain values yield themselves. The root
// group is never contributed again.
func groupNames(value, rootGroup string) []string {
	if !isCompositeValue(value) {
		if value == rootGroup || value == "" {
			return nil
		}
		return []string{value}
	}
	names := []string{}
	for _, token := range compositeTokens(value) {
		if token == rootGroup {
			continue
		}
		names = append(names, token)
	}
	return names
}
