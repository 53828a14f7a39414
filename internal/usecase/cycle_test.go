package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"HealthNewsRelay/internal/domain"
)

type stubSources struct {
	sources []domain.Source
	refs    map[string][]domain.ArticleRef
	errs    map[string]error
}

func (s *stubSources) Sources() []domain.Source { return s.sources }

func (s *stubSources) FetchSource(_ context.Context, src domain.Source) ([]domain.ArticleRef, error) {
	if err := s.errs[src.Name]; err != nil {
		return nil, err
	}
	return s.refs[src.Name], nil
}

type stubTransformer struct {
	calls int
	err   error
}

func (t *stubTransformer) Transform(_ context.Context, ref domain.ArticleRef) (domain.ArticleRecord, error) {
	t.calls++
	if t.err != nil {
		return domain.ArticleRecord{}, t.err
	}
	return domain.ArticleRecord{URL: ref.URL, Title: ref.Title, Score: 1}, nil
}

type stubPublisher struct {
	hourlyCalls  int
	summaryCalls int
	lastSummary  []domain.ArticleRecord
	hourlyErr    error
}

func (p *stubPublisher) PublishHourly(_ context.Context, articles []domain.ArticleRecord, _ time.Time) ([]string, error) {
	p.hourlyCalls++
	if p.hourlyErr != nil {
		return nil, p.hourlyErr
	}
	return []string{"hourly.docx", "hourly.html"}, nil
}

func (p *stubPublisher) PublishSummary(_ context.Context, articles []domain.ArticleRecord, _ time.Time) ([]string, error) {
	p.summaryCalls++
	p.lastSummary = append([]domain.ArticleRecord(nil), articles...)
	return []string{"summary.docx"}, nil
}

type stubStore struct {
	seen   map[string]bool
	marked []string
}

func (s *stubStore) Seen(_ context.Context, urls []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, u := range urls {
		if s.seen[u] {
			out[u] = true
		}
	}
	return out, nil
}

func (s *stubStore) MarkProcessed(_ context.Context, rec domain.ArticleRecord) error {
	s.marked = append(s.marked, rec.URL)
	return nil
}

type stubMailbox struct {
	messages []domain.MailMessage
	err      error
}

func (m *stubMailbox) FetchMessages(_ context.Context, _ time.Time) ([]domain.MailMessage, error) {
	return m.messages, m.err
}

func webDeps(refs []domain.ArticleRef) (Deps, *stubPublisher, *stubTransformer) {
	publisher := &stubPublisher{}
	transformer := &stubTransformer{}
	deps := Deps{
		Sources: &stubSources{
			sources: []domain.Source{{Name: "web", Kind: "rss"}},
			refs:    map[string][]domain.ArticleRef{"web": refs},
		},
		Transformer: transformer,
		Publisher:   publisher,
	}
	return deps, publisher, transformer
}

func TestRunPublishesAndAccumulates(t *testing.T) {
	t.Parallel()

	deps, publisher, _ := webDeps([]domain.ArticleRef{
		{URL: "http://example.org/a", Title: "A"},
		{URL: "http://example.org/b", Title: "B"},
	})
	cycle := New(Config{EnableWeb: true}, deps)

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if err := cycle.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if publisher.hourlyCalls != 1 || publisher.summaryCalls != 1 {
		t.Fatalf("expected one hourly and one summary publish, got %d/%d",
			publisher.hourlyCalls, publisher.summaryCalls)
	}
	if cycle.SummarySize() != 2 {
		t.Fatalf("summary set must hold both articles, got %d", cycle.SummarySize())
	}

	// Second run with nothing new publishes nothing.
	deps.Sources.(*stubSources).refs["web"] = nil
	if err := cycle.Run(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if publisher.hourlyCalls != 1 {
		t.Fatalf("empty cycle must not publish")
	}
}

func TestDayRollover(t *testing.T) {
	t.Parallel()

	deps, _, _ := webDeps([]domain.ArticleRef{{URL: "http://example.org/a", Title: "A"}})
	cycle := New(Config{EnableWeb: true, StartHour: 8}, deps)

	day1 := time.Date(2026, 8, 27, 22, 0, 0, 0, time.UTC)
	if err := cycle.Run(context.Background(), day1); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cycle.SummarySize() != 1 {
		t.Fatalf("expected 1 accumulated article")
	}

	// A new date before the start hour keeps the previous day's set.
	deps.Sources.(*stubSources).refs["web"] = nil
	early := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)
	if err := cycle.Run(context.Background(), early); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cycle.SummarySize() != 1 {
		t.Fatalf("set must survive past midnight before the start hour")
	}

	// From the start hour on, the set resets.
	morning := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	if err := cycle.Run(context.Background(), morning); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cycle.SummarySize() != 0 {
		t.Fatalf("set must reset on the first run of the new day, got %d", cycle.SummarySize())
	}
}

func TestPerCycleCap(t *testing.T) {
	t.Parallel()

	var refs []domain.ArticleRef
	for i := 0; i < 30; i++ {
		refs = append(refs, domain.ArticleRef{URL: string(rune('a'+i%26)) + "://example.org", Title: "x"})
	}
	for i := range refs {
		refs[i].URL = refs[i].URL + string(rune('0' + i%10))
	}

	deps, _, transformer := webDeps(refs)
	cycle := New(Config{EnableWeb: true, MaxPerCycle: 20}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if transformer.calls > 20 {
		t.Fatalf("cap must bound transforms, got %d", transformer.calls)
	}
}

func TestSourceFailureSkipsSource(t *testing.T) {
	t.Parallel()

	publisher := &stubPublisher{}
	deps := Deps{
		Sources: &stubSources{
			sources: []domain.Source{{Name: "down"}, {Name: "up"}},
			refs: map[string][]domain.ArticleRef{
				"up": {{URL: "http://example.org/ok", Title: "OK"}},
			},
			errs: map[string]error{"down": errors.New("listing 500")},
		},
		Transformer: &stubTransformer{},
		Publisher:   publisher,
	}
	cycle := New(Config{EnableWeb: true}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("a failing source must not fail the cycle: %v", err)
	}
	if publisher.hourlyCalls != 1 {
		t.Fatalf("the healthy source must still publish")
	}
}

func TestMailboxFailureAbortsCycle(t *testing.T) {
	t.Parallel()

	deps := Deps{
		Mailbox:     &stubMailbox{err: errors.New("imap down")},
		Transformer: &stubTransformer{},
		Publisher:   &stubPublisher{},
	}
	cycle := New(Config{EnableMail: true}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("a configured but failing mailbox must abort the cycle")
	}
}

func TestMailboxLinksBecomeCandidates(t *testing.T) {
	t.Parallel()

	publisher := &stubPublisher{}
	transformer := &stubTransformer{}
	deps := Deps{
		Mailbox: &stubMailbox{messages: []domain.MailMessage{
			{Subject: "Newsletter", From: "news@example.org",
				URLs: []string{"http://example.org/1", "http://example.org/2"}},
		}},
		Transformer: transformer,
		Publisher:   publisher,
	}
	cycle := New(Config{EnableMail: true}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if transformer.calls != 2 {
		t.Fatalf("every mail link must become a candidate, got %d", transformer.calls)
	}
}

func TestSeenArticlesAreSkipped(t *testing.T) {
	t.Parallel()

	deps, _, transformer := webDeps([]domain.ArticleRef{
		{URL: "http://example.org/old", Title: "Old"},
		{URL: "http://example.org/new", Title: "New"},
	})
	store := &stubStore{seen: map[string]bool{"http://example.org/old": true}}
	deps.Store = store
	cycle := New(Config{EnableWeb: true}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if transformer.calls != 1 {
		t.Fatalf("seen url must be skipped, got %d transforms", transformer.calls)
	}
	if len(store.marked) != 1 || store.marked[0] != "http://example.org/new" {
		t.Fatalf("only the fresh article must be marked: %v", store.marked)
	}
}

func TestHourlyFailureKeepsSummarySet(t *testing.T) {
	t.Parallel()

	deps, publisher, _ := webDeps([]domain.ArticleRef{{URL: "http://example.org/a", Title: "A"}})
	publisher.hourlyErr = errors.New("disk full")
	cycle := New(Config{EnableWeb: true}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("hourly publish failure must surface")
	}
	if cycle.SummarySize() != 0 {
		t.Fatalf("summary set must not grow when the hourly batch failed")
	}
	if publisher.summaryCalls != 0 {
		t.Fatalf("summary must not publish after an hourly failure")
	}
}

func TestSummaryCap(t *testing.T) {
	t.Parallel()

	var refs []domain.ArticleRef
	for i := 0; i < 7; i++ {
		refs = append(refs, domain.ArticleRef{URL: "http://example.org/" + string(rune('a'+i)), Title: "T"})
	}
	deps, publisher, _ := webDeps(refs)
	cycle := New(Config{EnableWeb: true, SummaryLimit: 5}, deps)

	if err := cycle.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(publisher.lastSummary) != 5 {
		t.Fatalf("summary must respect the cap, got %d", len(publisher.lastSummary))
	}
}
