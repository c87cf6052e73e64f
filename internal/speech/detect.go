package speech

import (
	"strings"
	"unicode"
)

// scriptLang pairs a Unicode script with the speech language it implies.
// Order matters where scripts are shared (Devanagari covers both Hindi
// and Marathi; Hindi wins as the more common case).
var scriptLangs = []struct {
	script *unicode.RangeTable
	lang   string
}{
	{unicode.Devanagari, "hi-IN"},
	{unicode.Telugu, "te-IN"},
	{unicode.Tamil, "ta-IN"},
	{unicode.Kannada, "kn-IN"},
	{unicode.Malayalam, "ml-IN"},
	{unicode.Gujarati, "gu-IN"},
	{unicode.Bengali, "bn-IN"},
	{unicode.Gurmukhi, "pa-IN"},
	{unicode.Oriya, "or-IN"},
	{unicode.Arabic, "ar-SA"},
	{unicode.Han, "zh-CN"},
	{unicode.Hiragana, "ja-JP"},
	{unicode.Katakana, "ja-JP"},
	{unicode.Hangul, "ko-KR"},
	{unicode.Cyrillic, "ru-RU"},
	{unicode.Thai, "th-TH"},
}

// Common English function words plus domain vocabulary; used to tip
// borderline inputs toward English.
var englishWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {}, "a": {}, "in": {},
	"that": {}, "have": {}, "i": {}, "it": {}, "for": {}, "not": {}, "on": {},
	"with": {}, "he": {}, "as": {}, "you": {}, "do": {}, "at": {}, "this": {},
	"but": {}, "his": {}, "by": {}, "from": {}, "they": {}, "we": {}, "say": {},
	"her": {}, "she": {}, "or": {}, "an": {}, "will": {}, "my": {}, "one": {},
	"all": {}, "would": {}, "there": {}, "their": {}, "what": {}, "are": {},
	"can": {}, "how": {}, "when": {}, "where": {}, "why": {}, "who": {},
	"which": {}, "about": {}, "explain": {},
	"tax": {}, "holidays": {}, "budget": {}, "union": {}, "finance": {},
}

// DetectLanguage guesses the speech language of text so answers can be
// read aloud with the right voice. It counts characters per Unicode
// script and picks the dominant one; mostly-ASCII text is treated as
// English. Returns DefaultLanguage when nothing matches.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultLanguage
	}

	runes := []rune(text)
	total := len(runes)

	nonASCII := 0
	for _, r := range runes {
		if r > unicode.MaxASCII {
			nonASCII++
		}
	}
	if float64(nonASCII)/float64(total) < 0.1 {
		return DefaultLanguage
	}

	bestLang := ""
	bestRatio := 0.0
	for _, sl := range scriptLangs {
		count := 0
		for _, r := range runes {
			if unicode.Is(sl.script, r) {
				count++
			}
		}
		ratio := float64(count) / float64(total)
		if ratio > bestRatio {
			bestLang = sl.lang
			bestRatio = ratio
		}
	}

	if bestRatio > 0.15 {
		return bestLang
	}

	// Weak script signal; check for predominantly English words.
	words := strings.Fields(strings.ToLower(text))
	englishCount := 0
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		if _, ok := englishWords[w]; ok {
			englishCount++
		}
	}
	if len(words) > 0 && float64(englishCount)/float64(len(words)) > 0.3 {
		return DefaultLanguage
	}

	// Heavily non-ASCII text keeps even a weak script match.
	if bestLang != "" && float64(nonASCII)/float64(total) > 0.3 {
		return bestLang
	}

	return DefaultLanguage
}
