package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public origin used to build callback/redirect URLs
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type PaystackConfig struct {
	SecretKey   string `yaml:"secret_key"`
	BaseURL     string `yaml:"base_url"`
	CallbackURL string `yaml:"callback_url"` // defaults to <server.base_url>/api/v1/payments/verify
}

type BillingConfig struct {
	Currency   string `yaml:"currency"`   // billing currency code, e.g. NGN
	ProAmount  int64  `yaml:"pro_amount"` // pro plan price in major units
	AdminEmail string `yaml:"admin_email"`
}

type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"`
	AdminIDs  []string `yaml:"admin_ids"`
}

type EmailConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	From    string `yaml:"from"`
}

type TelegramConfig struct {
	BotToken     string  `yaml:"bot_token"`
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	MaxPromptTokens int    `yaml:"max_prompt_tokens"`
}

type SchedConfig struct {
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	SweepInterval    time.Duration `yaml:"sweep_interval"`
	SweepStaleAfter  time.Duration `yaml:"sweep_stale_after"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Paystack PaystackConfig `yaml:"paystack"`
	Billing  BillingConfig  `yaml:"billing"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	AI       AIConfig       `yaml:"ai"`
	Sched    SchedConfig    `yaml:"sched"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies environment overrides for secrets,
// fills defaults and validates required fields once, so request handlers never
// have to re-check presence.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets may come from the process environment instead of the file.
	overrideEnv(&cfg.Database.URL, "DATABASE_URL")
	overrideEnv(&cfg.Paystack.SecretKey, "PAYSTACK_SECRET_KEY")
	overrideEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideEnv(&cfg.Email.APIKey, "EMAIL_API_KEY")
	overrideEnv(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	overrideEnv(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	overrideEnv(&cfg.AI.GeminiKey, "GEMINI_API_KEY")

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Paystack.BaseURL == "" {
		cfg.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Paystack.CallbackURL == "" {
		cfg.Paystack.CallbackURL = cfg.Server.BaseURL + "/api/v1/payments/verify"
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "NGN"
	}
	cfg.Billing.Currency = strings.ToUpper(strings.TrimSpace(cfg.Billing.Currency))
	if cfg.Billing.ProAmount <= 0 {
		cfg.Billing.ProAmount = 2999
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxPromptTokens <= 0 {
		cfg.AI.MaxPromptTokens = 2048
	}
	if cfg.Sched.ReminderInterval <= 0 {
		cfg.Sched.ReminderInterval = time.Hour
	}
	if cfg.Sched.SweepInterval <= 0 {
		cfg.Sched.SweepInterval = 5 * time.Minute
	}
	if cfg.Sched.SweepStaleAfter <= 0 {
		cfg.Sched.SweepStaleAfter = 10 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Paystack.SecretKey == "" {
		return nil, errors.New("paystack.secret_key is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
