package ports

import (
	"context"
	"time"

	"HealthNewsRelay/internal/chain"
	"HealthNewsRelay/internal/domain"
)

// ArticleSource exposes the configured web sources and fetches candidate
// article references from one of them.
type ArticleSource interface {
	Sources() []domain.Source
	FetchSource(ctx context.Context, src domain.Source) ([]domain.ArticleRef, error)
}

// Mailbox pulls newsletters received since the given time.
type Mailbox interface {
	FetchMessages(ctx context.Context, since time.Time) ([]domain.MailMessage, error)
}

// PageFetcher downloads raw page content for source-level relevance checks.
type PageFetcher interface {
	Download(ctx context.Context, url string) (string, error)
}

// Extractor downloads an article and builds the initial record (title, body,
// publish metadata, detected language).
type Extractor interface {
	Extract(ctx context.Context, url string) (domain.ArticleRecord, error)
}

// Classifier asks an external model whether a text is topically relevant.
type Classifier interface {
	Configured() bool
	Classify(ctx context.Context, title, body string) (verdict bool, reason string, err error)
}

// TranslateRequest is the uniform input contract of translation providers.
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
}

// RewriteRequest is the uniform input contract of generation providers.
type RewriteRequest struct {
	Title        string
	Body         string
	SystemPrompt string
}

// TranslationProvider is one adapter in the translation fallback chain.
type TranslationProvider = chain.Provider[TranslateRequest]

// RewriteProvider is one adapter in the stylized-rewrite fallback chain.
type RewriteProvider = chain.Provider[RewriteRequest]

// Transformer turns a candidate reference into a full article record.
type Transformer interface {
	Transform(ctx context.Context, ref domain.ArticleRef) (domain.ArticleRecord, error)
}

// Publisher renders batch artifacts and returns the local file paths.
type Publisher interface {
	PublishHourly(ctx context.Context, articles []domain.ArticleRecord, now time.Time) ([]string, error)
	PublishSummary(ctx context.Context, articles []domain.ArticleRecord, now time.Time) ([]string, error)
}

// Uploader pushes local artifacts to the remote file store.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, localPaths []string) error
}

// ProcessedStore remembers article URLs handled in earlier cycles.
type ProcessedStore interface {
	Seen(ctx context.Context, urls []string) (map[string]bool, error)
	MarkProcessed(ctx context.Context, rec domain.ArticleRecord) error
}

// Notifier delivers an end-of-cycle digest to an out-of-band channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
