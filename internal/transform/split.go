package transform

import (
	"regexp"
	"strings"
)

// Label patterns for the educational appendix, in priority order. Generated
// text varies between markdown-bold labels, plain labels and bare "Dovetok",
// so matching tolerates asterisks, case and surrounding whitespace.
var appendixLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\n\s*\*{0,2}\s*Edukačný\s+dovetok\s*\*{0,2}\s*:?\s*`),
	regexp.MustCompile(`(?is)\n\s*\*{0,2}\s*Dovetok\s*\*{0,2}\s*:\s*`),
}

// SplitSummaryAppendix separates a generated text into the news summary and
// the educational appendix. Resolution is three-tier: an explicit label wins;
// without one the last blank-line paragraph becomes the appendix; a text with
// no paragraph break is all summary with an empty appendix.
func SplitSummaryAppendix(text string) (summary, appendix string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ""
	}

	for _, label := range appendixLabels {
		if loc := label.FindStringIndex("\n" + trimmed); loc != nil {
			// The leading \n added above shifts indices by one.
			start, end := loc[0], loc[1]
			summary = strings.TrimSpace(trimmed[:max(start-1, 0)])
			appendix = strings.TrimSpace(trimmed[end-1:])
			if summary != "" && appendix != "" {
				return summary, appendix
			}
		}
	}

	if idx := strings.LastIndex(trimmed, "\n\n"); idx > 0 {
		summary = strings.TrimSpace(trimmed[:idx])
		appendix = strings.TrimSpace(trimmed[idx:])
		if summary != "" && appendix != "" {
			return summary, appendix
		}
	}

	return trimmed, ""
}
