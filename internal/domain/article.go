package domain

import "time"

// Source is a configured feed or listing page polled for candidate articles.
type Source struct {
	Name     string
	URL      string
	Kind     string
	Selector string
}

// Source kinds resolvable through the fetcher registry.
const (
	SourceKindRSS  = "rss"
	SourceKindHTML = "html"
)

// ArticleRef points at a candidate article discovered during a fetch pass.
// It carries only what the listing or mailbox exposed; the full record is
// built by the transformer.
type ArticleRef struct {
	URL         string
	Title       string
	Snippet     string
	Origin      string
	PublishedAt time.Time
}

// ArticleRecord is the unit carried through the pipeline. Translated and
// stylized fields are populated only after a successful transformation; when
// every generation provider fails they hold the failure placeholders, never
// empty strings.
type ArticleRecord struct {
	URL             string
	SourceName      string
	Title           string
	Text            string
	Language        string
	PublishedAt     time.Time
	TranslatedTitle string
	StylizedText    string
	SummaryText     string
	AppendixText    string
	Score           int
	Relevant        bool
	Reasons         []string
	ProcessedAt     time.Time
}

// MailMessage is a newsletter pulled from the mailbox.
type MailMessage struct {
	Subject string
	From    string
	Date    time.Time
	Text    string
	URLs    []string
}

// User-visible placeholders written when the whole rewrite chain is
// exhausted. Rendering always has displayable content.
const (
	SummaryFailedPlaceholder  = "Generovanie súhrnu zlyhalo. Prosím, prečítajte si originálny článok."
	AppendixFailedPlaceholder = "Generovanie dovetku zlyhalo."
)
