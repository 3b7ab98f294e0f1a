// Package view implements the order collection view-model: the filtered,
// sorted, type-partitioned projection of the live order set that the table,
// the exporters and the summary request all read from.
package view

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a collator ordering Arabic script correctly.
// Collators carry internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Arabic)
}

// compareRefs orders reference codes with numeric awareness: runs of digits
// compare by value, so "INV-2" sorts before "INV-10". Non-digit segments
// compare case-insensitively. Missing refs are passed in as "" and sort first.
func compareRefs(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		if isASCIIDigit(a[0]) && isASCIIDigit(b[0]) {
			aRun, aRest := splitDigitRun(a)
			bRun, bRest := splitDigitRun(b)

			if c := compareDigitRuns(aRun, bRun); c != 0 {
				return c
			}

			a, b = aRest, bRest

			continue
		}

		ar, aSize := utf8.DecodeRuneInString(a)
		br, bSize := utf8.DecodeRuneInString(b)

		if lr, lb := unicode.ToLower(ar), unicode.ToLower(br); lr != lb {
			if lr < lb {
				return -1
			}

			return 1
		}

		a, b = a[aSize:], b[bSize:]
	}

	switch {
	case len(a) == len(b):
		return 0
	case len(a) == 0:
		return -1
	default:
		return 1
	}
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func splitDigitRun(s string) (run, rest string) {
	i := 0
	for i < len(s) && isASCIIDigit(s[i]) {
		i++
	}

	return s[:i], s[i:]
}

// compareDigitRuns compares two digit strings by numeric value without
// parsing, so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return strings.Compare(a, b)
}
