package relevance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"HealthNewsRelay/internal/domain"
)

type stubClassifier struct {
	configured bool
	verdict    bool
	reason     string
	err        error
	calls      int
}

func (s *stubClassifier) Configured() bool { return s.configured }

func (s *stubClassifier) Classify(_ context.Context, _, _ string) (bool, string, error) {
	s.calls++
	return s.verdict, s.reason, s.err
}

type stubPages struct {
	content string
	err     error
}

func (s *stubPages) Download(_ context.Context, _ string) (string, error) {
	return s.content, s.err
}

func TestMatcherWholeWord(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"virus", "věda"})

	if got := m.Find("Nový VIRUS se šíří Evropou"); len(got) != 1 || got[0] != "virus" {
		t.Fatalf("case-insensitive whole-word match failed: %v", got)
	}
	if got := m.Find("antivirusový program"); len(got) != 0 {
		t.Fatalf("substring of a longer word must not match: %v", got)
	}
	if got := m.Find("pravěda je jiné slovo"); len(got) != 0 {
		t.Fatalf("keyword preceded by a letter must not match: %v", got)
	}
	if got := m.Find("věda, nebo ne?"); len(got) != 1 || got[0] != "věda" {
		t.Fatalf("punctuation must act as a word boundary: %v", got)
	}
}

func TestScoreArticleWeights(t *testing.T) {
	t.Parallel()

	cls := &stubClassifier{configured: true, verdict: true, reason: "zdravotná téma"}
	scorer := NewScorer(Config{Keywords: []string{"virus", "srdce"}, FailOpen: true}, cls, nil, nil)

	rec := domain.ArticleRecord{
		Title: "Virus zasáhl nemocnice",
		Text:  "Pacienti se srdcem v ohrožení, virus se šíří.",
	}
	scorer.ScoreArticle(context.Background(), &rec)

	// 2 (title virus) + 1 (body virus) + 1 (body srdce) + 5 (AI) = 9
	if rec.Score != 9 {
		t.Fatalf("expected score 9, got %d (reasons: %v)", rec.Score, rec.Reasons)
	}
	if !rec.Relevant {
		t.Fatalf("score %d must imply relevance", rec.Score)
	}
	if len(rec.Reasons) != 3 {
		t.Fatalf("expected 3 reasons, got %v", rec.Reasons)
	}
}

func TestScoreVerdictConsistency(t *testing.T) {
	t.Parallel()

	cls := &stubClassifier{configured: true, verdict: false, reason: "mimo tému"}
	scorer := NewScorer(Config{Keywords: []string{"virus"}}, cls, nil, nil)

	irrelevant := domain.ArticleRecord{Title: "Fotbalový zápas", Text: "Výsledky ligy."}
	scorer.ScoreArticle(context.Background(), &irrelevant)
	if irrelevant.Score != 0 || irrelevant.Relevant {
		t.Fatalf("expected score 0 and not relevant, got %d/%v", irrelevant.Score, irrelevant.Relevant)
	}

	barely := domain.ArticleRecord{Title: "Zprávy", Text: "Objeven nový virus."}
	scorer.ScoreArticle(context.Background(), &barely)
	if barely.Score != 1 || !barely.Relevant {
		t.Fatalf("score 1 must imply relevance, got %d/%v", barely.Score, barely.Relevant)
	}
}

func TestClassifierFailOpen(t *testing.T) {
	t.Parallel()

	cls := &stubClassifier{configured: true, err: errors.New("timeout")}
	scorer := NewScorer(Config{Keywords: []string{"virus"}, FailOpen: true}, cls, nil, nil)

	rec := domain.ArticleRecord{Title: "Bez klíčových slov", Text: "obyčejný text"}
	scorer.ScoreArticle(context.Background(), &rec)

	if rec.Score != 5 || !rec.Relevant {
		t.Fatalf("fail-open classifier error must count as affirmative, got %d/%v", rec.Score, rec.Relevant)
	}

	closed := NewScorer(Config{Keywords: []string{"virus"}, FailOpen: false}, cls, nil, nil)
	rec2 := domain.ArticleRecord{Title: "Bez klíčových slov", Text: "obyčejný text"}
	closed.ScoreArticle(context.Background(), &rec2)

	if rec2.Score != 0 || rec2.Relevant {
		t.Fatalf("fail-closed classifier error must not add points, got %d/%v", rec2.Score, rec2.Relevant)
	}
}

func TestScoreSourceGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Keywords alone pass the gate even with a negative AI verdict.
	cls := &stubClassifier{configured: true, verdict: false, reason: "nie"}
	pages := &stubPages{content: "<html><body><p>Nová studie o viru.</p></body></html>"}
	scorer := NewScorer(Config{Keywords: []string{"studie"}, MinKeywords: 1}, cls, pages, nil)

	res := scorer.ScoreSource(ctx, domain.Source{Name: "test", URL: "http://example.org"})
	if !res.Relevant {
		t.Fatalf("keyword hit must pass the gate: %+v", res)
	}

	// AI alone passes the gate with zero keywords.
	cls2 := &stubClassifier{configured: true, verdict: true, reason: "áno"}
	pages2 := &stubPages{content: "<html><body>nothing topical here</body></html>"}
	scorer2 := NewScorer(Config{Keywords: []string{"studie"}, MinKeywords: 1}, cls2, pages2, nil)

	res2 := scorer2.ScoreSource(ctx, domain.Source{Name: "test2", URL: "http://example.org"})
	if !res2.Relevant || len(res2.FoundKeywords) != 0 {
		t.Fatalf("AI verdict alone must pass the gate: %+v", res2)
	}

	// Download failure is reported, not relevant.
	scorer3 := NewScorer(Config{}, cls2, &stubPages{err: errors.New("conn refused")}, nil)
	res3 := scorer3.ScoreSource(ctx, domain.Source{Name: "down", URL: "http://example.org"})
	if res3.Err == nil || res3.Relevant {
		t.Fatalf("download failure must surface an error: %+v", res3)
	}
}

func TestSelectTop(t *testing.T) {
	t.Parallel()

	records := func(scores ...int) []domain.ArticleRecord {
		out := make([]domain.ArticleRecord, len(scores))
		for i, s := range scores {
			out[i] = domain.ArticleRecord{URL: fmt.Sprintf("u%d", i), Score: s}
		}
		return out
	}

	// Under the cap: everything retained in insertion order.
	under := SelectTop(records(3, 1, 2), 5)
	if len(under) != 3 || under[0].URL != "u0" || under[2].URL != "u2" {
		t.Fatalf("under-cap selection must keep all in order: %v", under)
	}

	// Over the cap: top-N by score, stable ties.
	over := SelectTop(records(2, 5, 2, 7, 2), 3)
	if len(over) != 3 {
		t.Fatalf("expected 3 records, got %d", len(over))
	}
	if over[0].Score != 7 || over[1].Score != 5 {
		t.Fatalf("expected descending scores, got %v", over)
	}
	// The first score-2 record (u0) wins the tie by insertion order.
	if over[2].URL != "u0" {
		t.Fatalf("tie must resolve by insertion order, got %s", over[2].URL)
	}
}

// Seven scraped articles: three match a keyword in the title, two more pass
// only via an affirmative AI verdict, two are irrelevant. With cap 5 the
// summary retains exactly the five relevant ones.
func TestEndToEndSelection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	aiYes := &stubClassifier{configured: true, verdict: true, reason: "relevantné"}
	aiNo := &stubClassifier{configured: true, verdict: false, reason: "mimo"}

	keywordScorer := NewScorer(Config{Keywords: []string{"virus"}}, aiNo, nil, nil)
	aiScorer := NewScorer(Config{Keywords: []string{"virus"}}, aiYes, nil, nil)

	var relevant []domain.ArticleRecord
	add := func(scorer *Scorer, title, text string) {
		rec := domain.ArticleRecord{URL: title, Title: title, Text: text}
		scorer.ScoreArticle(ctx, &rec)
		if rec.Relevant {
			relevant = append(relevant, rec)
		}
	}

	add(keywordScorer, "Virus A", "text o viru")
	add(keywordScorer, "Virus B", "další text")
	add(keywordScorer, "Virus C", "jiný text")
	add(aiScorer, "Studio o zdraví", "dlouhý text bez klíčových slov")
	add(aiScorer, "Lékařský objev", "další text bez klíčových slov")
	add(keywordScorer, "Fotbal", "výsledky zápasu")
	add(keywordScorer, "Počasí", "předpověď na víkend")

	if len(relevant) != 5 {
		t.Fatalf("expected 5 relevant articles, got %d", len(relevant))
	}

	selected := SelectTop(relevant, 5)
	if len(selected) != 5 {
		t.Fatalf("cap 5 with 5 relevant must retain all, got %d", len(selected))
	}
}
