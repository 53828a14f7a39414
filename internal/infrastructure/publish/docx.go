package publish

import (
	"fmt"
	"os"
	"time"

	"github.com/fumiama/go-docx"

	"HealthNewsRelay/internal/domain"
)

// Font sizes in half-points, the unit DOCX runs use.
const (
	sizeDocTitle  = "32" // 16pt
	sizeHeadline  = "28" // 14pt
	sizeBody      = "22" // 11pt
	sizeAppendix  = "20" // 10pt
	sizeSourceURL = "18" // 9pt
)

const excerptRunes = 500

// writeDocx renders one batch document: a title line, the generation
// timestamp, then each article's headline, source, original-text excerpt,
// summary and appendix.
func writeDocx(path, title string, now time.Time, articles []domain.ArticleRecord) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size(sizeDocTitle).Bold()
	doc.AddParagraph().AddText("Vygenerované: " + now.Format("2006-01-02 15:04")).Size(sizeSourceURL)
	doc.AddParagraph()

	for i, article := range articles {
		headline := article.TranslatedTitle
		if headline == "" {
			headline = article.Title
		}

		doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, headline)).Size(sizeHeadline).Bold()
		doc.AddParagraph().AddText("Zdroj: " + article.URL).Size(sizeSourceURL)

		if excerpt := excerptText(article.Text); excerpt != "" {
			doc.AddParagraph().AddText(excerpt).Size(sizeAppendix)
		}
		if article.SummaryText != "" {
			doc.AddParagraph().AddText(article.SummaryText).Size(sizeBody)
		}
		if article.AppendixText != "" {
			doc.AddParagraph().AddText(article.AppendixText).Size(sizeAppendix).Italic()
		}
		doc.AddParagraph()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := doc.WriteTo(file); err != nil {
		return fmt.Errorf("write docx %s: %w", path, err)
	}
	return nil
}

// excerptText bounds the original article text to a short preview.
func excerptText(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes]) + "..."
}
