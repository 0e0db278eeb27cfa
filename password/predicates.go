// Package password classifies password strings with composable strength
// rules and aggregates collections of passwords by the rules they satisfy
// and by where their special characters sit.
package password

import (
	"strings"

	"github.com/zoobzio/lensz"
)

// Specials is the special character set: space and ASCII punctuation,
// backslash excluded.
const Specials = " !\"#$%&'()*+,-./:;<=>?@[]^_`{|}~"

// Rule names.
const (
	NotBlankName       lensz.Name = "not-blank"
	HasUppercaseName   lensz.Name = "has-uppercase"
	HasLowercaseName   lensz.Name = "has-lowercase"
	HasDigitName       lensz.Name = "has-digit"
	HasSpecialName     lensz.Name = "has-special"
	LongEnoughName     lensz.Name = "long-enough"
	NotTooLongName     lensz.Name = "not-too-long"
	NoTripleRepeatName lensz.Name = "no-triple-repeat"
	StrongName         lensz.Name = "strong"
)

func containsBetween(lo, hi rune) func(string) bool {
	return func(s string) bool {
		return strings.ContainsFunc(s, func(r rune) bool {
			return r >= lo && r <= hi
		})
	}
}

// Atomic rules.
var (
	NotBlank     = lensz.NewRule(NotBlankName, func(s string) bool { return len(s) > 0 })
	HasUppercase = lensz.NewRule(HasUppercaseName, containsBetween('A', 'Z'))
	HasLowercase = lensz.NewRule(HasLowercaseName, containsBetween('a', 'z'))
	HasDigit     = lensz.NewRule(HasDigitName, containsBetween('0', '9'))
	HasSpecial   = lensz.NewRule(HasSpecialName, func(s string) bool {
		return strings.ContainsAny(s, Specials)
	})
)

// Length and repetition rules under DefaultPolicy.
var (
	LongEnough     = DefaultPolicy.Rules()[5]
	NotTooLong     = DefaultPolicy.Rules()[6]
	NoTripleRepeat = DefaultPolicy.Rules()[7]
)

// Strong is the composite strength predicate under DefaultPolicy.
var Strong = DefaultPolicy.Strong()

// IsStrong reports whether s satisfies every rule of DefaultPolicy.
func IsStrong(s string) bool {
	return Strong(s)
}

// IsSpecial reports whether r belongs to Specials.
func IsSpecial(r rune) bool {
	return strings.ContainsRune(Specials, r)
}

// SpecialCharPositions returns the zero-based rune positions of every
// special character in s, in ascending order. It returns nil when s has
// none.
func SpecialCharPositions(s string) []int {
	var positions []int
	i := 0
	for _, r := range s {
		if IsSpecial(r) {
			positions = append(positions, i)
		}
		i++
	}
	return positions
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	longest, run := 0, 0
	var prev rune
	for i, r := range []rune(s) {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = r
	}
	return longest
}
