// Package config loads the application configuration: YAML file when
// present, environment overrides for secrets, defaults for everything else.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Europe/Bratislava"
	configPathEnv   = "NEWS_RELAY_CONFIG"

	databaseDSNEnv     = "DATABASE_DSN"
	openAIPrimaryEnv   = "OPENAI_API_KEY_PRIMARY"
	openAISecondaryEnv = "OPENAI_API_KEY_SECONDARY"
	deepSeekKeyEnv     = "DEEPSEEK_API_KEY"
	anthropicKeyEnv    = "ANTHROPIC_API_KEY"
	geminiKeyEnv       = "GEMINI_API_KEY"
	deepLKeyEnv        = "DEEPL_API_KEY"
	googleKeyEnv       = "GOOGLE_TRANSLATE_API_KEY"
	emailHostEnv       = "EMAIL_HOST"
	emailPortEnv       = "EMAIL_PORT"
	emailUserEnv       = "EMAIL_USERNAME"
	emailPassEnv       = "EMAIL_PASSWORD"
	ftpHostEnv         = "FTP_HOST"
	ftpPortEnv         = "FTP_PORT"
	ftpUserEnv         = "FTP_USERNAME"
	ftpPassEnv         = "FTP_PASSWORD"
	ftpRemoteDirEnv    = "FTP_REMOTE_DIR"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Database  DatabaseConfig  `yaml:"database"`
	Mail      MailConfig      `yaml:"mail"`
	FTP       FTPConfig       `yaml:"ftp"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Translate TranslateConfig `yaml:"translate"`
	Generate  GenerateConfig  `yaml:"generate"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// LoggingConfig controls console output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OutputConfig names the local artifact root.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// SchedulerConfig defines the processing cadence.
type SchedulerConfig struct {
	IntervalMinutes int            `yaml:"intervalMinutes"`
	StartHour       int            `yaml:"startHour"`
	Timezone        string         `yaml:"timezone"`
	location        *time.Location `yaml:"-"`
}

// Interval resolves the configured cadence.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PipelineConfig tunes scoring and batching.
type PipelineConfig struct {
	MaxPerCycle        int      `yaml:"maxPerCycle"`
	SummaryLimit       int      `yaml:"summaryLimit"`
	Keywords           []string `yaml:"keywords"`
	MinKeywords        int      `yaml:"minKeywords"`
	ClassifierFailOpen *bool    `yaml:"classifierFailOpen"`
	MaxClassifierChars int      `yaml:"maxClassifierChars"`
	MaxTranslateChars  int      `yaml:"maxTranslateChars"`
}

// FailOpen resolves the classifier error policy; unset means fail-open.
func (p PipelineConfig) FailOpen() bool {
	if p.ClassifierFailOpen == nil {
		return true
	}
	return *p.ClassifierFailOpen
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// MailConfig describes the newsletter mailbox.
type MailConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Folder          string `yaml:"folder"`
	ProcessedFolder string `yaml:"processedFolder"`
	LookbackHours   int    `yaml:"lookbackHours"`
}

// FTPConfig describes the remote artifact store.
type FTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	RemoteDir string `yaml:"remoteDir"`
}

// TelegramConfig wires the digest chat.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   int64  `yaml:"chatId"`
}

// TranslateConfig carries the translation chain keys.
type TranslateConfig struct {
	DeepLAPIKey  string `yaml:"deeplApiKey"`
	GoogleAPIKey string `yaml:"googleApiKey"`
}

// GenerateConfig carries the rewrite chain keys and models, in chain order.
type GenerateConfig struct {
	OpenAIAPIKey          string `yaml:"openaiApiKey"`
	OpenAISecondaryAPIKey string `yaml:"openaiSecondaryApiKey"`
	OpenAIModel           string `yaml:"openaiModel"`
	DeepSeekAPIKey        string `yaml:"deepseekApiKey"`
	DeepSeekModel         string `yaml:"deepseekModel"`
	AnthropicAPIKey       string `yaml:"anthropicApiKey"`
	AnthropicModel        string `yaml:"anthropicModel"`
	GeminiAPIKey          string `yaml:"geminiApiKey"`
	GeminiModel           string `yaml:"geminiModel"`
	SystemPrompt          string `yaml:"systemPrompt"`
	SystemPromptPath      string `yaml:"systemPromptPath"`
}

// SourceConfig describes a single web source.
type SourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Kind     string `yaml:"kind"`
	Selector string `yaml:"selector"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.loadPromptFile()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	setString := func(env string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
		}
	}
	setInt := func(env string, target *int) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}

	setString(databaseDSNEnv, &c.Database.DSN)
	setString(openAIPrimaryEnv, &c.Generate.OpenAIAPIKey)
	setString(openAISecondaryEnv, &c.Generate.OpenAISecondaryAPIKey)
	setString(deepSeekKeyEnv, &c.Generate.DeepSeekAPIKey)
	setString(anthropicKeyEnv, &c.Generate.AnthropicAPIKey)
	setString(geminiKeyEnv, &c.Generate.GeminiAPIKey)
	setString(deepLKeyEnv, &c.Translate.DeepLAPIKey)
	setString(googleKeyEnv, &c.Translate.GoogleAPIKey)
	setString(emailHostEnv, &c.Mail.Host)
	setInt(emailPortEnv, &c.Mail.Port)
	setString(emailUserEnv, &c.Mail.Username)
	setString(emailPassEnv, &c.Mail.Password)
	setString(ftpHostEnv, &c.FTP.Host)
	setInt(ftpPortEnv, &c.FTP.Port)
	setString(ftpUserEnv, &c.FTP.Username)
	setString(ftpPassEnv, &c.FTP.Password)
	setString(ftpRemoteDirEnv, &c.FTP.RemoteDir)
	setString(telegramTokenEnv, &c.Telegram.BotToken)

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// loadPromptFile replaces the inline system prompt when a prompt file is
// configured and readable.
func (c *Config) loadPromptFile() {
	if c.Generate.SystemPromptPath == "" {
		return
	}
	raw, err := os.ReadFile(c.Generate.SystemPromptPath)
	if err != nil {
		log.Printf("config: cannot read prompt file %s: %v (keeping inline prompt)", c.Generate.SystemPromptPath, err)
		return
	}
	c.Generate.SystemPrompt = string(raw)
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}
	if override.Output.Dir != "" {
		base.Output = override.Output
	}

	if override.Scheduler.IntervalMinutes > 0 {
		base.Scheduler.IntervalMinutes = override.Scheduler.IntervalMinutes
	}
	if override.Scheduler.StartHour > 0 {
		base.Scheduler.StartHour = override.Scheduler.StartHour
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Pipeline.MaxPerCycle > 0 {
		base.Pipeline.MaxPerCycle = override.Pipeline.MaxPerCycle
	}
	if override.Pipeline.SummaryLimit > 0 {
		base.Pipeline.SummaryLimit = override.Pipeline.SummaryLimit
	}
	if len(override.Pipeline.Keywords) > 0 {
		base.Pipeline.Keywords = override.Pipeline.Keywords
	}
	if override.Pipeline.MinKeywords > 0 {
		base.Pipeline.MinKeywords = override.Pipeline.MinKeywords
	}
	if override.Pipeline.ClassifierFailOpen != nil {
		base.Pipeline.ClassifierFailOpen = override.Pipeline.ClassifierFailOpen
	}
	if override.Pipeline.MaxClassifierChars > 0 {
		base.Pipeline.MaxClassifierChars = override.Pipeline.MaxClassifierChars
	}
	if override.Pipeline.MaxTranslateChars > 0 {
		base.Pipeline.MaxTranslateChars = override.Pipeline.MaxTranslateChars
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Mail.Host != "" {
		base.Mail = override.Mail
	}
	if override.FTP.Host != "" {
		base.FTP = override.FTP
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != 0 {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.Translate.DeepLAPIKey != "" {
		base.Translate.DeepLAPIKey = override.Translate.DeepLAPIKey
	}
	if override.Translate.GoogleAPIKey != "" {
		base.Translate.GoogleAPIKey = override.Translate.GoogleAPIKey
	}

	base.Generate = mergeGenerate(base.Generate, override.Generate)

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func mergeGenerate(base, override GenerateConfig) GenerateConfig {
	pick := func(base, override string) string {
		if override != "" {
			return override
		}
		return base
	}
	return GenerateConfig{
		OpenAIAPIKey:          pick(base.OpenAIAPIKey, override.OpenAIAPIKey),
		OpenAISecondaryAPIKey: pick(base.OpenAISecondaryAPIKey, override.OpenAISecondaryAPIKey),
		OpenAIModel:           pick(base.OpenAIModel, override.OpenAIModel),
		DeepSeekAPIKey:        pick(base.DeepSeekAPIKey, override.DeepSeekAPIKey),
		DeepSeekModel:         pick(base.DeepSeekModel, override.DeepSeekModel),
		AnthropicAPIKey:       pick(base.AnthropicAPIKey, override.AnthropicAPIKey),
		AnthropicModel:        pick(base.AnthropicModel, override.AnthropicModel),
		GeminiAPIKey:          pick(base.GeminiAPIKey, override.GeminiAPIKey),
		GeminiModel:           pick(base.GeminiModel, override.GeminiModel),
		SystemPrompt:          pick(base.SystemPrompt, override.SystemPrompt),
		SystemPromptPath:      pick(base.SystemPromptPath, override.SystemPromptPath),
	}
}

// The default rewrite instruction: Slovak popular-science summary with an
// educational appendix the splitter can find.
const defaultSystemPrompt = `Si redaktor populárno-náučného spravodajstva o zdraví a vede.
Zo zadaného článku napíš pútavý súhrn v slovenčine v rozsahu dvoch až troch odsekov.
Na záver pridaj samostatný odsek označený "Edukačný dovetok:", ktorý čitateľovi
vysvetlí jednu zaujímavú súvislosť z článku.`

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Output:  OutputConfig{Dir: "out"},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 60,
			StartHour:       8,
			Timezone:        defaultTimezone,
			location:        tz,
		},
		Pipeline: PipelineConfig{
			MaxPerCycle:        20,
			SummaryLimit:       5,
			MinKeywords:        1,
			MaxClassifierChars: 2000,
			MaxTranslateChars:  10000,
		},
		Mail: MailConfig{Port: 993, Folder: "INBOX", ProcessedFolder: "Processed", LookbackHours: 24},
		FTP:  FTPConfig{Port: 21, RemoteDir: "news"},
		Generate: GenerateConfig{
			SystemPrompt: defaultSystemPrompt,
		},
		Sources: []SourceConfig{
			{Name: "idnes-zdravi", URL: "https://servis.idnes.cz/rss.aspx?c=zdravi", Kind: "rss"},
			{Name: "novinky-veda", URL: "https://www.novinky.cz/rss/veda-skoly", Kind: "rss"},
			{Name: "aktuality-zdravie", URL: "https://www.aktuality.sk/rss/zdravie/", Kind: "rss"},
		},
	}
}
