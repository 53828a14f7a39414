// Package publish renders article batches into DOCX and HTML artifacts laid
// out under the output root, and mirrors them to the FTP store.
//
// Layout:
//
//	<out>/2026-08-28/14-00/2026-08-28_14-00.docx  hourly batch
//	<out>/2026-08-28/2026-08-28_summary.docx      daily summary
//
// with a matching .html next to each document.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
)

// FilePublisher implements ports.Publisher on the local filesystem.
type FilePublisher struct {
	outDir string
	logger *slog.Logger
}

var _ ports.Publisher = (*FilePublisher)(nil)

// NewFilePublisher builds a publisher rooted at outDir.
func NewFilePublisher(outDir string, logger *slog.Logger) *FilePublisher {
	return &FilePublisher{outDir: outDir, logger: logger}
}

// PublishHourly writes the hourly batch artifacts and returns their paths.
func (p *FilePublisher) PublishHourly(ctx context.Context, articles []domain.ArticleRecord, now time.Time) ([]string, error) {
	day := now.Format("2006-01-02")
	hour := now.Format("15-04")
	dir := filepath.Join(p.outDir, day, hour)
	base := fmt.Sprintf("%s_%s", day, hour)
	title := fmt.Sprintf("Zdravotné správy %s %s", day, now.Format("15:04"))

	return p.write(ctx, dir, base, title, now, articles)
}

// PublishSummary writes the daily summary artifacts and returns their paths.
func (p *FilePublisher) PublishSummary(ctx context.Context, articles []domain.ArticleRecord, now time.Time) ([]string, error) {
	day := now.Format("2006-01-02")
	dir := filepath.Join(p.outDir, day)
	base := day + "_summary"
	title := "Denný súhrn zdravotných správ " + day

	return p.write(ctx, dir, base, title, now, articles)
}

func (p *FilePublisher) write(ctx context.Context, dir, base, title string, now time.Time, articles []domain.ArticleRecord) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	docxPath := filepath.Join(dir, base+".docx")
	if err := writeDocx(docxPath, title, now, articles); err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(dir, base+".html")
	var buf bytes.Buffer
	if err := renderHTML(&buf, title, now, articles); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", htmlPath, err)
	}

	p.info("batch published", "dir", dir, "articles", len(articles))
	return []string{docxPath, htmlPath}, nil
}

func (p *FilePublisher) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
