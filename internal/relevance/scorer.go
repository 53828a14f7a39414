// Package relevance decides whether sources and articles are worth
// processing. Sources pass a deliberately permissive gate (keywords OR an
// affirmative AI verdict) so that partially failed scrapes do not discard a
// valid source; articles get an additive integer score combining both
// signals.
package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
)

// Scoring weights. Title keywords outweigh body keywords; an affirmative AI
// verdict outweighs both.
const (
	titleKeywordPoints = 2
	bodyKeywordPoints  = 1
	aiVerdictPoints    = 5
	relevantThreshold  = 1
)

// Config carries the tunable scorer settings.
type Config struct {
	Keywords []string
	// MinKeywords is the source-gate threshold on distinct matched keywords.
	MinKeywords int
	// FailOpen names the policy for classifier errors: when true an
	// unreachable or failing classifier counts as an affirmative verdict so
	// that partial failure never blocks the pipeline. This mirrors the
	// historical behavior; set to false to make classifier errors count as
	// non-affirmative instead.
	FailOpen bool
	// MaxClassifierChars bounds the body prefix sent to the classifier.
	MaxClassifierChars int
}

// SourceResult is the outcome of the source-level relevance gate.
type SourceResult struct {
	Name          string
	URL           string
	Relevant      bool
	FoundKeywords []string
	AIVerdict     bool
	AIReason      string
	Err           error
}

// Scorer combines keyword matching with an external classifier.
type Scorer struct {
	matcher     *Matcher
	minKeywords int
	failOpen    bool
	maxChars    int
	classifier  ports.Classifier
	pages       ports.PageFetcher
	logger      *slog.Logger
}

// NewScorer builds a scorer; classifier and pages may be nil (the classifier
// signal then follows the FailOpen policy, and ScoreSource reports an error).
func NewScorer(cfg Config, classifier ports.Classifier, pages ports.PageFetcher, logger *slog.Logger) *Scorer {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	minKeywords := cfg.MinKeywords
	if minKeywords <= 0 {
		minKeywords = 1
	}
	maxChars := cfg.MaxClassifierChars
	if maxChars <= 0 {
		maxChars = 2000
	}

	return &Scorer{
		matcher:     NewMatcher(keywords),
		minKeywords: minKeywords,
		failOpen:    cfg.FailOpen,
		maxChars:    maxChars,
		classifier:  classifier,
		pages:       pages,
		logger:      logger,
	}
}

// ScoreSource downloads the source page and applies the gate: enough
// distinct keywords OR an affirmative AI verdict. Either signal alone is
// sufficient.
func (s *Scorer) ScoreSource(ctx context.Context, src domain.Source) SourceResult {
	result := SourceResult{Name: src.Name, URL: src.URL}

	if s.pages == nil {
		result.Err = fmt.Errorf("no page fetcher configured")
		return result
	}

	content, err := s.pages.Download(ctx, src.URL)
	if err != nil {
		result.Err = fmt.Errorf("download source %s: %w", src.Name, err)
		return result
	}

	text := StripHTML(content)
	result.FoundKeywords = s.matcher.Find(text)
	result.AIVerdict, result.AIReason = s.classify(ctx, src.Name, text)
	result.Relevant = len(result.FoundKeywords) >= s.minKeywords || result.AIVerdict

	s.log("source scored",
		"source", src.Name,
		"keywords", len(result.FoundKeywords),
		"ai_verdict", result.AIVerdict,
		"relevant", result.Relevant)
	return result
}

// ScoreArticle enriches the record in place with score, verdict and
// human-readable reasons. The verdict derives from the same threshold as the
// score: relevant iff score >= 1.
func (s *Scorer) ScoreArticle(ctx context.Context, rec *domain.ArticleRecord) {
	score := 0
	var reasons []string

	titleKeywords := s.matcher.Find(rec.Title)
	if len(titleKeywords) > 0 {
		score += titleKeywordPoints * len(titleKeywords)
		reasons = append(reasons, "názov obsahuje kľúčové slová: "+strings.Join(titleKeywords, ", "))
	}

	bodyKeywords := s.matcher.Find(rec.Text)
	if len(bodyKeywords) > 0 {
		score += bodyKeywordPoints * len(bodyKeywords)
		reasons = append(reasons, "text obsahuje kľúčové slová: "+strings.Join(bodyKeywords, ", "))
	}

	if strings.TrimSpace(rec.Text) != "" {
		verdict, reason := s.classify(ctx, rec.Title, rec.Text)
		if verdict {
			score += aiVerdictPoints
			reasons = append(reasons, "AI označilo článok ako relevantný: "+reason)
		} else {
			reasons = append(reasons, "AI označilo článok ako nerelevantný: "+reason)
		}
	}

	rec.Score = score
	rec.Relevant = score >= relevantThreshold
	rec.Reasons = reasons
}

// classify wraps the external call with the named fail-open policy so a
// broken classifier can never silently drop a keyword-relevant article.
func (s *Scorer) classify(ctx context.Context, title, body string) (bool, string) {
	if s.classifier == nil || !s.classifier.Configured() {
		if s.failOpen {
			return true, "AI kontrola nedostupná, predpokladám relevanciu"
		}
		return false, "AI kontrola nedostupná"
	}

	verdict, reason, err := s.classifier.Classify(ctx, title, boundedPrefix(body, s.maxChars))
	if err != nil {
		s.log("classifier call failed", "error", err, "fail_open", s.failOpen)
		if s.failOpen {
			return true, "chyba AI kontroly, predpokladám relevanciu: " + err.Error()
		}
		return false, "chyba AI kontroly: " + err.Error()
	}

	return verdict, reason
}

func (s *Scorer) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

// boundedPrefix truncates rune-safe, appending an ellipsis when cut.
func boundedPrefix(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
