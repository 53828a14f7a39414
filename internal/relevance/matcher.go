package relevance

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Matcher finds domain keywords in free text. Matching is case-insensitive
// and whole-word: a keyword inside a longer word does not count. Word
// boundaries are letter/digit based so diacritics are handled correctly,
// which ASCII \b would get wrong.
type Matcher struct {
	keywords []string
	patterns map[string]*regexp.Regexp
}

// NewMatcher compiles one pattern per keyword, preserving keyword order so
// reported matches are deterministic.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{
		keywords: append([]string(nil), keywords...),
		patterns: make(map[string]*regexp.Regexp, len(keywords)),
	}
	for _, kw := range m.keywords {
		expr := `(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(kw) + `(?:[^\p{L}\p{N}]|$)`
		m.patterns[kw] = regexp.MustCompile(expr)
	}
	return m
}

// Find returns the distinct keywords present in text, in vocabulary order.
func (m *Matcher) Find(text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	for _, kw := range m.keywords {
		if m.patterns[kw].MatchString(text) {
			found = append(found, kw)
		}
	}
	return found
}

// StripHTML reduces a downloaded page to its visible text so keyword
// matching does not trip over tags and attributes.
func StripHTML(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}
