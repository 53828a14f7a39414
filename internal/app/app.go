// Package app wires configuration to adapters and drives the run modes.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"HealthNewsRelay/internal/config"
	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/fetcher"
	"HealthNewsRelay/internal/infrastructure/extract"
	"HealthNewsRelay/internal/infrastructure/feed"
	"HealthNewsRelay/internal/infrastructure/llm"
	"HealthNewsRelay/internal/infrastructure/mailbox"
	"HealthNewsRelay/internal/infrastructure/publish"
	"HealthNewsRelay/internal/infrastructure/scheduler"
	"HealthNewsRelay/internal/infrastructure/storage"
	"HealthNewsRelay/internal/infrastructure/telegram"
	"HealthNewsRelay/internal/infrastructure/translate"
	"HealthNewsRelay/internal/logging"
	"HealthNewsRelay/internal/ports"
	"HealthNewsRelay/internal/relevance"
	"HealthNewsRelay/internal/transform"
	"HealthNewsRelay/internal/usecase"
)

// Options select the run mode.
type Options struct {
	RunOnce  bool
	WebOnly  bool
	MailOnly bool
}

// Application wires configs to the cycle and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	opts   Options
	cycle  *usecase.Cycle
	logger *slog.Logger
	db     *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := fetcher.NewRegistry()
	registry.Register(feed.NewRSSStrategy(nil))
	registry.Register(feed.NewHTMLStrategy(nil))
	source := fetcher.NewRegistrySource(registry, toDomainSources(cfg.Sources), baseLogger.With("component", "fetcher"))

	classifierKey := cfg.Generate.OpenAIAPIKey
	if classifierKey == "" {
		classifierKey = cfg.Generate.OpenAISecondaryAPIKey
	}
	classifier := llm.NewClassifier(classifierKey, cfg.Generate.OpenAIModel)

	scorer := relevance.NewScorer(relevance.Config{
		Keywords:           cfg.Pipeline.Keywords,
		MinKeywords:        cfg.Pipeline.MinKeywords,
		FailOpen:           cfg.Pipeline.FailOpen(),
		MaxClassifierChars: cfg.Pipeline.MaxClassifierChars,
	}, classifier, feed.NewPageClient(nil), baseLogger.With("component", "relevance"))

	transformer := transform.New(transform.Config{
		Extractor: extract.New(nil),
		Translators: []ports.TranslationProvider{
			translate.NewDeepL(cfg.Translate.DeepLAPIKey, nil),
			translate.NewGoogle(cfg.Translate.GoogleAPIKey, nil),
		},
		Rewriters: []ports.RewriteProvider{
			llm.NewOpenAI("openai-primary", cfg.Generate.OpenAIAPIKey, cfg.Generate.OpenAIModel),
			llm.NewOpenAI("openai-secondary", cfg.Generate.OpenAISecondaryAPIKey, cfg.Generate.OpenAIModel),
			llm.NewDeepSeek(cfg.Generate.DeepSeekAPIKey, cfg.Generate.DeepSeekModel, nil),
			llm.NewAnthropic(cfg.Generate.AnthropicAPIKey, cfg.Generate.AnthropicModel),
			llm.NewGemini(cfg.Generate.GeminiAPIKey, cfg.Generate.GeminiModel, nil),
		},
		SystemPrompt:      cfg.Generate.SystemPrompt,
		MaxTranslateChars: cfg.Pipeline.MaxTranslateChars,
		Logger:            baseLogger.With("component", "transform"),
	})

	var db *sql.DB
	var store ports.ProcessedStore
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		store = storage.NewPostgresStore(db)
	}

	var mail ports.Mailbox
	imapBox := mailbox.New(mailbox.Config{
		Host:            cfg.Mail.Host,
		Port:            cfg.Mail.Port,
		Username:        cfg.Mail.Username,
		Password:        cfg.Mail.Password,
		Folder:          cfg.Mail.Folder,
		ProcessedFolder: cfg.Mail.ProcessedFolder,
	}, baseLogger.With("component", "mailbox"))
	if imapBox.Configured() {
		mail = imapBox
	}

	var notifier ports.Notifier
	tg := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if tg.Configured() {
		notifier = tg
	}

	publisher := publish.NewFilePublisher(cfg.Output.Dir, baseLogger.With("component", "publish"))
	uploader := publish.NewFTPUploader(publish.FTPConfig{
		Host:      cfg.FTP.Host,
		Port:      cfg.FTP.Port,
		Username:  cfg.FTP.Username,
		Password:  cfg.FTP.Password,
		RemoteDir: cfg.FTP.RemoteDir,
	}, cfg.Output.Dir, baseLogger.With("component", "ftp"))

	cycle := usecase.New(usecase.Config{
		MaxPerCycle:  cfg.Pipeline.MaxPerCycle,
		SummaryLimit: cfg.Pipeline.SummaryLimit,
		StartHour:    cfg.Scheduler.StartHour,
		MailLookback: time.Duration(cfg.Mail.LookbackHours) * time.Hour,
		EnableWeb:    !opts.MailOnly,
		EnableMail:   !opts.WebOnly && mail != nil,
	}, usecase.Deps{
		Sources:     source,
		Mailbox:     mail,
		Scorer:      scorer,
		Transformer: transformer,
		Publisher:   publisher,
		Uploader:    uploader,
		Store:       store,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "cycle"),
	})

	return &Application{cfg: cfg, opts: opts, cycle: cycle, logger: baseLogger, db: db}, nil
}

// Run executes a single cycle or the scheduled loop depending on the mode.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	loc := a.cfg.Scheduler.Location()
	if a.opts.RunOnce {
		return a.cycle.Run(ctx, time.Now().In(loc))
	}

	sched := scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval())
	err := sched.Start(ctx, func(now time.Time) {
		if err := a.cycle.Run(ctx, now.In(loc)); err != nil {
			a.logger.Error("cycle failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func toDomainSources(cfg []config.SourceConfig) []domain.Source {
	out := make([]domain.Source, 0, len(cfg))
	for _, src := range cfg {
		out = append(out, domain.Source{
			Name:     src.Name,
			URL:      src.URL,
			Kind:     src.Kind,
			Selector: src.Selector,
		})
	}
	return out
}
