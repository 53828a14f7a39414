// Package langdetect classifies article text as Slovak, Czech or other using
// diacritic character sets and a few distinguishing lexical markers. It is a
// coarse heuristic: anything it cannot place is treated as foreign and sent
// through the translation chain.
package langdetect

import "strings"

const (
	LangSlovak = "sk"
	LangCzech  = "cs"
	LangOther  = "en"
)

const sampleRunes = 1000

// Characters that occur in exactly one of the two languages.
const (
	slovakOnlyChars = "ľĺŕôä"
	czechOnlyChars  = "řůě"
)

// Broader diacritic sets; they overlap heavily, so a hit in both falls
// through to the lexical markers.
const (
	slovakChars = "žýáíéúäôňčťďľšĺŕó"
	czechChars  = "žýáíéúůěščřňťďó"
)

// Detect returns the language code for the given text. The decision uses the
// first 1000 runes for character checks and the whole text for markers.
func Detect(text string) string {
	lower := strings.ToLower(text)
	sample := lower
	if runes := []rune(sample); len(runes) > sampleRunes {
		sample = string(runes[:sampleRunes])
	}

	if strings.ContainsAny(sample, slovakOnlyChars) {
		return LangSlovak
	}
	if strings.ContainsAny(sample, czechOnlyChars) {
		return LangCzech
	}

	hasSlovak := strings.ContainsAny(sample, slovakChars)
	hasCzech := strings.ContainsAny(sample, czechChars)

	switch {
	case hasSlovak && hasCzech:
		if strings.Contains(lower, "nie je") || strings.Contains(lower, "môže") {
			return LangSlovak
		}
		if strings.Contains(lower, "není") || strings.Contains(lower, "může") {
			return LangCzech
		}
		return LangSlovak
	case hasSlovak:
		return LangSlovak
	case hasCzech:
		return LangCzech
	}

	return LangOther
}
