// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wildcard

// Match reports whether name matches pattern. '%' matches zero or more
// bytes, '_' matches exactly one byte, and every other pattern byte
// must equal the corresponding name byte under ASCII case folding.
// An empty pattern matches only the empty name; callers that treat
// "no pattern" as match-everything must check for that before calling.
func Match(name, pattern string) bool {
	// Two-pointer scan with single-level backtracking: remember the
	// position of the most recent '%' and the name position it was
	// tried at, and on mismatch resume from the '%' with the name
	// advanced by one byte.
	nameIndex, patternIndex := 0, 0
	starPattern, starName := -1, 0

	for nameIndex < len(name) {
		if patternIndex < len(pattern) {
			switch pattern[patternIndex] {
			case '%':
				starPattern = patternIndex
				starName = nameIndex
				patternIndex++
				continue
			case '_':
				nameIndex++
				patternIndex++
				continue
			default:
				if fold(pattern[patternIndex]) == fold(name[nameIndex]) {
					nameIndex++
					patternIndex++
					continue
				}
			}
		}

		if starPattern < 0 {
			return false
		}
		starName++
		nameIndex = starName
		patternIndex = starPattern + 1
	}

	// Name exhausted: any remaining pattern bytes must all be '%'.
	for patternIndex < len(pattern) {
		if pattern[patternIndex] != '%' {
			return false
		}
		patternIndex++
	}
	return true
}

// fold lowercases a single ASCII byte. Bytes outside 'A'..'Z' pass
// through unchanged, so non-ASCII bytes compare verbatim.
func fold(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
