// Package mailbox pulls newsletter mail over IMAP and reduces each message to
// its plain text and the article links it carries.
package mailbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
)

var linkExpr = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)

// Footer markers; everything from the first matching line down is trimmed.
var footerMarkers = []string{
	"unsubscribe",
	"odhlásiť",
	"odhlasit",
	"zrušiť odber",
	"view in browser",
	"zobraziť v prehliadači",
}

// Config holds the IMAP connection settings.
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Folder          string
	ProcessedFolder string
}

// IMAPMailbox implements ports.Mailbox over a TLS IMAP session. Each fetch
// opens a fresh session; processed messages are moved to a dedicated folder
// so the next cycle never sees them again.
type IMAPMailbox struct {
	cfg    Config
	logger *slog.Logger
}

var _ ports.Mailbox = (*IMAPMailbox)(nil)

// New builds the mailbox adapter, filling folder defaults.
func New(cfg Config, logger *slog.Logger) *IMAPMailbox {
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Folder == "" {
		cfg.Folder = "INBOX"
	}
	if cfg.ProcessedFolder == "" {
		cfg.ProcessedFolder = "Processed"
	}
	return &IMAPMailbox{cfg: cfg, logger: logger}
}

// Configured reports whether the adapter has connection credentials.
func (m *IMAPMailbox) Configured() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// FetchMessages returns the newsletters received since the given time and
// moves them to the processed folder.
func (m *IMAPMailbox) FetchMessages(ctx context.Context, since time.Time) ([]domain.MailMessage, error) {
	if !m.Configured() {
		return nil, fmt.Errorf("mailbox is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := imapclient.DialTLS(fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port), nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", m.cfg.Host, err)
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login(m.cfg.Username, m.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(m.cfg.Folder, false); err != nil {
		return nil, fmt.Errorf("select %s: %w", m.cfg.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search since %s: %w", since.Format("2006-01-02"), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	ch := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, ch)
	}()

	var messages []domain.MailMessage
	for msg := range ch {
		parsed, err := parseMessage(msg, section)
		if err != nil {
			m.warn("skip unparseable message", "error", err)
			continue
		}
		messages = append(messages, parsed)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	if err := m.moveProcessed(c, seqset); err != nil {
		m.warn("move to processed failed", "error", err)
	}

	m.info("mailbox fetched", "messages", len(messages), "since", since.Format("2006-01-02"))
	return messages, nil
}

// moveProcessed copies the handled messages to the processed folder and
// expunges them from the inbox. The folder is created on first use.
func (m *IMAPMailbox) moveProcessed(c *imapclient.Client, seqset *imap.SeqSet) error {
	if err := c.Copy(seqset, m.cfg.ProcessedFolder); err != nil {
		if createErr := c.Create(m.cfg.ProcessedFolder); createErr != nil {
			return fmt.Errorf("create folder %s: %w", m.cfg.ProcessedFolder, createErr)
		}
		if err := c.Copy(seqset, m.cfg.ProcessedFolder); err != nil {
			return fmt.Errorf("copy to %s: %w", m.cfg.ProcessedFolder, err)
		}
	}

	flags := []interface{}{imap.DeletedFlag}
	if err := c.Store(seqset, imap.FormatFlagsOp(imap.AddFlags, true), flags, nil); err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}
	if err := c.Expunge(nil); err != nil {
		return fmt.Errorf("expunge: %w", err)
	}
	return nil
}

func parseMessage(msg *imap.Message, section *imap.BodySectionName) (domain.MailMessage, error) {
	out := domain.MailMessage{}
	if msg.Envelope != nil {
		out.Subject = msg.Envelope.Subject
		out.Date = msg.Envelope.Date
		if len(msg.Envelope.From) > 0 {
			out.From = msg.Envelope.From[0].Address()
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return out, fmt.Errorf("message has no body section")
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return out, fmt.Errorf("open mail reader: %w", err)
	}

	text, err := extractPlainText(mr)
	if err != nil {
		return out, err
	}

	out.Text = TrimFooter(text)
	out.URLs = ExtractLinks(out.Text)
	return out, nil
}

// extractPlainText walks the MIME parts and returns the first text/plain
// part, falling back to stripped text/html when no plain part exists.
func extractPlainText(mr *mail.Reader) (string, error) {
	var htmlFallback string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read mail part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		raw, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			return string(raw), nil
		case "text/html":
			if htmlFallback == "" {
				htmlFallback = stripTags(string(raw))
			}
		}
	}
	if htmlFallback == "" {
		return "", fmt.Errorf("no readable text part")
	}
	return htmlFallback, nil
}

var tagExpr = regexp.MustCompile(`<[^>]*>`)

func stripTags(html string) string {
	return strings.TrimSpace(tagExpr.ReplaceAllString(html, " "))
}

// TrimFooter drops everything from the first footer marker line down, so
// unsubscribe links never enter the pipeline as candidate articles.
func TrimFooter(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range footerMarkers {
			if strings.Contains(lower, marker) {
				return strings.TrimSpace(strings.Join(lines[:i], "\n"))
			}
		}
	}
	return strings.TrimSpace(text)
}

// ExtractLinks returns the distinct http(s) URLs in order of appearance,
// trailing punctuation removed.
func ExtractLinks(text string) []string {
	matches := linkExpr.FindAllString(text, -1)
	seen := map[string]struct{}{}
	var urls []string
	for _, raw := range matches {
		u := strings.TrimRight(raw, ".,;:!?")
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

func (m *IMAPMailbox) info(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

func (m *IMAPMailbox) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
