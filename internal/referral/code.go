// Package referral generates the shareable codes used to attribute
// signups. Codes are always 8 characters; neither generator guarantees
// uniqueness on its own — callers must check against the registry.
package referral

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CodeLength is the fixed length of every referral code.
const CodeLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FromName derives a friendly code from a user's name: the first four
// letters (diacritics stripped, uppercased, padded with 'X') followed
// by four random digits in 1000–9999.
func FromName(name string) string {
	normalized, _, err := transform.String(stripMarks, name)
	if err != nil {
		normalized = name
	}

	var letters strings.Builder
	for _, r := range strings.ToUpper(normalized) {
		if r >= 'A' && r <= 'Z' {
			letters.WriteRune(r)
			if letters.Len() == 4 {
				break
			}
		}
	}

	prefix := letters.String()
	for len(prefix) < 4 {
		prefix += "X"
	}

	return prefix + strconv.Itoa(1000+rand.IntN(9000))
}

// Random produces a code drawn uniformly from [A-Z0-9], independent of
// any name. Used as fallback when name-based codes keep colliding.
func Random() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// Normalize prepares a user-supplied code for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
