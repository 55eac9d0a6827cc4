// Package tokenizer turns raw text into normalised terms. Words are split on
// whitespace, lower-cased, and stripped of every rune that is not alphabetic
// or numeric in the Unicode sense. Words that end up empty are dropped.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize returns the terms of text in their original order, duplicates
// included. It never fails; empty input yields an empty slice.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if term := Normalize(word); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// Normalize lower-cases word and removes runes that are neither alphabetic
// nor numeric. A capital sigma ending a word becomes the final form ς.
func Normalize(word string) string {
	runes := []rune(word)
	var b strings.Builder
	b.Grow(len(word))
	for i, r := range runes {
		if r == 'Σ' && isFinalSigma(runes, i) {
			r = 'ς'
		} else {
			r = unicode.ToLower(r)
		}
		if isTermRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isTermRune covers letters, numbers and the combining marks (Indic vowel
// signs and the like) that count as alphabetic.
func isTermRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}

// isFinalSigma reports whether the sigma at i follows a cased letter and is
// not followed by one, ignoring case-ignorable runes in between.
func isFinalSigma(runes []rune, i int) bool {
	before := false
	for j := i - 1; j >= 0; j-- {
		if isCaseIgnorable(runes[j]) {
			continue
		}
		before = isCased(runes[j])
		break
	}
	if !before {
		return false
	}
	for j := i + 1; j < len(runes); j++ {
		if isCaseIgnorable(runes[j]) {
			continue
		}
		return !isCased(runes[j])
	}
	return true
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) ||
		unicode.Is(unicode.Other_Lowercase, r) || unicode.Is(unicode.Other_Uppercase, r)
}

// apostrophes, periods, colons and middle dots
var wordInnerPunct = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0027, Hi: 0x0027, Stride: 1},
		{Lo: 0x002e, Hi: 0x002e, Stride: 1},
		{Lo: 0x003a, Hi: 0x003a, Stride: 1},
		{Lo: 0x00b7, Hi: 0x00b7, Stride: 1},
		{Lo: 0x0387, Hi: 0x0387, Stride: 1},
		{Lo: 0x05f4, Hi: 0x05f4, Stride: 1},
		{Lo: 0x2018, Hi: 0x2019, Stride: 1},
		{Lo: 0x2024, Hi: 0x2024, Stride: 1},
		{Lo: 0x2027, Hi: 0x2027, Stride: 1},
		{Lo: 0xfe13, Hi: 0xfe13, Stride: 1},
		{Lo: 0xfe52, Hi: 0xfe52, Stride: 1},
		{Lo: 0xfe55, Hi: 0xfe55, Stride: 1},
		{Lo: 0xff07, Hi: 0xff07, Stride: 1},
		{Lo: 0xff0e, Hi: 0xff0e, Stride: 1},
		{Lo: 0xff1a, Hi: 0xff1a, Stride: 1},
	},
}

func isCaseIgnorable(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf, unicode.Lm, unicode.Sk, wordInnerPunct)
}
