// Package usecase orchestrates one processing cycle: discover candidates on
// the web and in the mailbox, score and transform the relevant ones, publish
// the hourly batch and maintain the daily summary set.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
	"HealthNewsRelay/internal/relevance"
)

// Cycle defaults.
const (
	defaultMaxPerCycle  = 20
	defaultSummaryLimit = 5
	defaultStartHour    = 8
	defaultMailLookback = 24 * time.Hour
)

// Config carries the cycle tunables and mode switches.
type Config struct {
	// MaxPerCycle caps how many web candidates one cycle transforms.
	MaxPerCycle int
	// SummaryLimit caps the daily summary set.
	SummaryLimit int
	// StartHour is the hour from which a new calendar day resets the
	// summary set.
	StartHour int
	// MailLookback bounds how far back the mailbox search reaches.
	MailLookback time.Duration
	EnableWeb    bool
	EnableMail   bool
}

// Deps bundles the ports a cycle needs. Mailbox, Uploader, Store and
// Notifier may be nil; the corresponding step is then skipped.
type Deps struct {
	Sources     ports.ArticleSource
	Mailbox     ports.Mailbox
	Scorer      *relevance.Scorer
	Transformer ports.Transformer
	Publisher   ports.Publisher
	Uploader    ports.Uploader
	Store       ports.ProcessedStore
	Notifier    ports.Notifier
	Logger      *slog.Logger
}

// Cycle holds the per-day accumulation state between runs. It is driven by a
// single scheduler goroutine and is not safe for concurrent runs.
type Cycle struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger

	currentDate string
	summarySet  []domain.ArticleRecord
}

// New builds a cycle, filling config defaults.
func New(cfg Config, deps Deps) *Cycle {
	if cfg.MaxPerCycle <= 0 {
		cfg.MaxPerCycle = defaultMaxPerCycle
	}
	if cfg.SummaryLimit <= 0 {
		cfg.SummaryLimit = defaultSummaryLimit
	}
	if cfg.StartHour <= 0 {
		cfg.StartHour = defaultStartHour
	}
	if cfg.MailLookback <= 0 {
		cfg.MailLookback = defaultMailLookback
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cycle{cfg: cfg, deps: deps, logger: logger}
}

// Run executes one full cycle at the given time.
func (c *Cycle) Run(ctx context.Context, now time.Time) error {
	c.rolloverDay(now)

	var processed []domain.ArticleRecord

	// The mail pass runs first: it is the only discovery step that can abort
	// the cycle, and aborting before any web article is marked processed
	// means nothing is lost to a transient IMAP outage.
	if c.cfg.EnableMail && c.deps.Mailbox != nil {
		mailArticles, err := c.runMail(ctx, now)
		if err != nil {
			return fmt.Errorf("mailbox pass: %w", err)
		}
		processed = append(processed, mailArticles...)
	}

	if c.cfg.EnableWeb && c.deps.Sources != nil {
		webArticles := c.runWeb(ctx)
		processed = append(processed, webArticles...)
	}

	if len(processed) == 0 {
		c.logger.Info("cycle produced no new articles")
		return nil
	}

	paths, err := c.deps.Publisher.PublishHourly(ctx, processed, now)
	if err != nil {
		return fmt.Errorf("publish hourly batch: %w", err)
	}

	// Persistence happens only after the hourly batch is safely on disk: the
	// summary set grows and the articles become skippable in later cycles.
	for _, rec := range processed {
		c.markProcessed(ctx, rec)
	}
	c.summarySet = append(c.summarySet, processed...)
	selected := relevance.SelectTop(c.summarySet, c.cfg.SummaryLimit)

	summaryPaths, err := c.deps.Publisher.PublishSummary(ctx, selected, now)
	if err != nil {
		return fmt.Errorf("publish daily summary: %w", err)
	}
	paths = append(paths, summaryPaths...)

	c.upload(ctx, paths)
	c.notify(ctx, processed, selected, now)

	c.logger.Info("cycle finished",
		"processed", len(processed),
		"summary_size", len(selected),
		"artifacts", len(paths))
	return nil
}

// rolloverDay resets the summary accumulation once per calendar day, but
// only from the start hour on so late-night cycles keep extending the
// previous day's set.
func (c *Cycle) rolloverDay(now time.Time) {
	today := now.Format("2006-01-02")
	if c.currentDate == "" {
		c.currentDate = today
		return
	}
	if today != c.currentDate && now.Hour() >= c.cfg.StartHour {
		c.logger.Info("new day, resetting summary set", "date", today)
		c.currentDate = today
		c.summarySet = nil
	}
}

// runWeb walks the configured sources. A failing source is skipped, never
// fatal; the per-cycle cap bounds the total transformation work.
func (c *Cycle) runWeb(ctx context.Context) []domain.ArticleRecord {
	var out []domain.ArticleRecord
	budget := c.cfg.MaxPerCycle

	for _, src := range c.deps.Sources.Sources() {
		if budget <= 0 {
			c.logger.Info("per-cycle article cap reached")
			break
		}

		if c.deps.Scorer != nil {
			gate := c.deps.Scorer.ScoreSource(ctx, src)
			if gate.Err != nil {
				c.logger.Warn("source gate failed, skipping source", "source", src.Name, "error", gate.Err)
				continue
			}
			if !gate.Relevant {
				c.logger.Info("source gated out", "source", src.Name)
				continue
			}
		}

		refs, err := c.deps.Sources.FetchSource(ctx, src)
		if err != nil {
			c.logger.Warn("source fetch failed, skipping source", "source", src.Name, "error", err)
			continue
		}

		fresh := c.filterSeen(ctx, refs)
		for _, ref := range fresh {
			if budget <= 0 {
				break
			}
			budget--
			if rec, ok := c.process(ctx, ref); ok {
				out = append(out, rec)
			}
		}
	}
	return out
}

// runMail pulls newsletters and treats each linked URL as a candidate. A
// configured mailbox that fails aborts the cycle so transient IMAP outages
// never silently drop mail.
func (c *Cycle) runMail(ctx context.Context, now time.Time) ([]domain.ArticleRecord, error) {
	since := now.Add(-c.cfg.MailLookback)
	messages, err := c.deps.Mailbox.FetchMessages(ctx, since)
	if err != nil {
		return nil, err
	}

	var refs []domain.ArticleRef
	for _, msg := range messages {
		for _, u := range msg.URLs {
			refs = append(refs, domain.ArticleRef{
				URL:    u,
				Title:  msg.Subject,
				Origin: "mailbox:" + msg.From,
			})
		}
	}

	var out []domain.ArticleRecord
	for _, ref := range c.filterSeen(ctx, refs) {
		if rec, ok := c.process(ctx, ref); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// process transforms and scores one candidate; only relevant articles come
// back. Irrelevant articles are marked immediately so they are never scored
// again; relevant ones are marked after the batch publishes.
func (c *Cycle) process(ctx context.Context, ref domain.ArticleRef) (domain.ArticleRecord, bool) {
	rec, err := c.deps.Transformer.Transform(ctx, ref)
	if err != nil {
		c.logger.Warn("transform failed", "url", ref.URL, "error", err)
		return domain.ArticleRecord{}, false
	}

	if c.deps.Scorer != nil {
		c.deps.Scorer.ScoreArticle(ctx, &rec)
	} else {
		rec.Relevant = true
	}

	if !rec.Relevant {
		c.markProcessed(ctx, rec)
		c.logger.Info("article scored irrelevant", "url", rec.URL, "score", rec.Score)
		return domain.ArticleRecord{}, false
	}
	return rec, true
}

// filterSeen drops candidates already handled in earlier cycles. A store
// failure degrades to processing everything rather than losing articles.
func (c *Cycle) filterSeen(ctx context.Context, refs []domain.ArticleRef) []domain.ArticleRef {
	if c.deps.Store == nil || len(refs) == 0 {
		return refs
	}

	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		urls = append(urls, ref.URL)
	}

	seen, err := c.deps.Store.Seen(ctx, urls)
	if err != nil {
		c.logger.Warn("seen lookup failed, processing all candidates", "error", err)
		return refs
	}

	fresh := make([]domain.ArticleRef, 0, len(refs))
	for _, ref := range refs {
		if !seen[ref.URL] {
			fresh = append(fresh, ref)
		}
	}
	return fresh
}

func (c *Cycle) markProcessed(ctx context.Context, rec domain.ArticleRecord) {
	if c.deps.Store == nil {
		return
	}
	if err := c.deps.Store.MarkProcessed(ctx, rec); err != nil {
		c.logger.Warn("mark processed failed", "url", rec.URL, "error", err)
	}
}

// upload mirrors the artifacts to the remote store. Upload failure is logged
// and the cycle continues; the local artifacts remain authoritative.
func (c *Cycle) upload(ctx context.Context, paths []string) {
	if c.deps.Uploader == nil || !c.deps.Uploader.Configured() {
		return
	}
	if err := c.deps.Uploader.Upload(ctx, paths); err != nil {
		c.logger.Warn("artifact upload failed", "error", err)
	}
}

// notify sends a short digest; failure is logged, never fatal.
func (c *Cycle) notify(ctx context.Context, processed, selected []domain.ArticleRecord, now time.Time) {
	if c.deps.Notifier == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Cyklus %s*\nSpracované články: %d\nV dennom súhrne: %d\n",
		now.Format("2006-01-02 15:04"), len(processed), len(selected))
	for _, rec := range processed {
		title := rec.TranslatedTitle
		if title == "" {
			title = rec.Title
		}
		fmt.Fprintf(&sb, "\n- %s (%d b.)", title, rec.Score)
	}

	if err := c.deps.Notifier.PublishDigest(ctx, sb.String()); err != nil {
		c.logger.Warn("digest delivery failed", "error", err)
	}
}

// SummarySize reports the current accumulation, for diagnostics.
func (c *Cycle) SummarySize() int {
	return len(c.summarySet)
}
