package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Import    ImportConfig    `yaml:"import" mapstructure:"import"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ScorerConfig configures the LLM district scorer.
type ScorerConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	Temperature       float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	CacheTTLMinutes   int     `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
	CacheMaxEntries   int     `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// AuthConfig configures the e-mail allow-list login.
type AuthConfig struct {
	AllowedEmails     []string `yaml:"allowed_emails" mapstructure:"allowed_emails"`
	SessionTTLMinutes int      `yaml:"session_ttl_minutes" mapstructure:"session_ttl_minutes"`
}

// ImportConfig configures the offline report/hierarchy import.
type ImportConfig struct {
	OCR OCRConfig `yaml:"ocr" mapstructure:"ocr"`
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WATERINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("scorer.provider", "anthropic")
	v.SetDefault("scorer.temperature", 0.3)
	v.SetDefault("scorer.timeout_secs", 30)
	v.SetDefault("scorer.concurrency", 4)
	v.SetDefault("scorer.requests_per_second", 5)
	v.SetDefault("scorer.cache_ttl_minutes", 60)
	v.SetDefault("scorer.cache_max_entries", 512)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("auth.allowed_emails", []string{"admin@gmail.com"})
	v.SetDefault("auth.session_ttl_minutes", 480)
	v.SetDefault("import.ocr.provider", "local")
	v.SetDefault("import.ocr.pdftotext_path", "pdftotext")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by the given command scope.
// Scopes: "store" (database access), "scorer" (LLM provider keys).
func (c *Config) Validate(scopes ...string) error {
	var errs []string
	for _, scope := range scopes {
		switch scope {
		case "store":
			switch c.Store.Driver {
			case "postgres":
				if c.Store.DatabaseURL == "" {
					errs = append(errs, "store.database_url is required for postgres (WATERINTEL_STORE_DATABASE_URL)")
				}
			case "sqlite":
				if c.Store.DatabaseURL == "" {
					errs = append(errs, "store.database_url is required for sqlite (file path or :memory:)")
				}
			default:
				errs = append(errs, "store.driver must be postgres or sqlite, got "+c.Store.Driver)
			}
		case "scorer":
			switch c.Scorer.Provider {
			case "anthropic":
				if c.Anthropic.Key == "" {
					errs = append(errs, "anthropic.key is required (WATERINTEL_ANTHROPIC_KEY)")
				}
			case "gemini":
				if c.Gemini.Key == "" {
					errs = append(errs, "gemini.key is required (WATERINTEL_GEMINI_KEY)")
				}
			default:
				errs = append(errs, "scorer.provider must be anthropic or gemini, got "+c.Scorer.Provider)
			}
			if c.Scorer.Temperature < 0 || c.Scorer.Temperature > 1 {
				errs = append(errs, "scorer.temperature must be between 0 and 1")
			}
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
