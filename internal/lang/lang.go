// Package lang detects the language of caller utterances so replies can
// be phrased in the same language. Only English and Hindi are supported.
package lang

import (
	"regexp"
	"strings"
)

const (
	English = "en"
	Hindi   = "hi"
)

var devanagari = regexp.MustCompile(`[\x{0900}-\x{097F}]`)

// Romanized Hindi words that show up in delivery calls. A single hit is
// enough to flip detection because these words are rare in English speech.
var romanizedHindi = []string{
	"namaste", "namaskar", "kripya", "dhanyavad", "shukriya",
	"bhaiya", "didi", "sahab", "madam ji",
	"kaun", "kahan", "kaise", "kitna", "kyun",
	"chahiye", "batao", "bataiye", "boliye", "suniye",
	"haan ji", "nahi", "theek hai", "accha",
	"parcel hai", "delivery hai", "ghar par",
}

// Supported reports whether code names a language replies can be
// composed in. The empty string is allowed and means "detect".
func Supported(code string) bool {
	return code == "" || code == English || code == Hindi
}

// Detect returns the language code for a caller utterance. Devanagari
// script always wins; otherwise romanized Hindi markers are checked.
// Unrecognized or empty text defaults to English.
func Detect(text string) string {
	if devanagari.MatchString(text) {
		return Hindi
	}
	lower := strings.ToLower(text)
	for _, word := range romanizedHindi {
		if containsWord(lower, word) {
			return Hindi
		}
	}
	return English
}

// containsWord matches whole words only, so "accha" does not fire on
// "saccharine".
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(text[start-1])
		afterOK := end == len(text) || !isAlnum(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
