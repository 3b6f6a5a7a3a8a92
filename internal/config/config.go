package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvPreview     = "preview"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Config struct {
	Environment string `mapstructure:"DM_ENVIRONMENT" validate:"oneof=development test preview staging production"`
	AppName     string `mapstructure:"DM_APP_NAME" validate:"required"`
	HTTPAddress string `mapstructure:"HTTP_ADDRESS" validate:"required"`
	URLPrefix   string `mapstructure:"URL_PREFIX" validate:"required,startswith=/"`

	DataAPIURL       string        `mapstructure:"DM_DATA_API_URL" validate:"required,url"`
	DataAPIAuthToken string        `mapstructure:"DM_DATA_API_AUTH_TOKEN" validate:"required"`
	DataAPITimeout   time.Duration `mapstructure:"DM_DATA_API_TIMEOUT" validate:"gt=0"`

	NotifyAPIKey                        string `mapstructure:"DM_NOTIFY_API_KEY" validate:"required"`
	NotifyBaseURL                       string `mapstructure:"DM_NOTIFY_BASE_URL" validate:"required,url"`
	NotifyClarificationQuestionTemplate string `mapstructure:"NOTIFY_TEMPLATE_CLARIFICATION_QUESTION" validate:"required,uuid"`
	NotifyConfirmationTemplate          string `mapstructure:"NOTIFY_TEMPLATE_CLARIFICATION_QUESTION_CONFIRMATION" validate:"required,uuid"`
	// Comma separated domain=address pairs. Live environments reroute test
	// mailboxes to the simulator.
	NotifyRedirectDomains string `mapstructure:"DM_NOTIFY_REDIRECT_DOMAINS_TO_ADDRESS"`

	WebURL string `mapstructure:"DM_WEB_URL" validate:"required,url"`

	SecretKey           string        `mapstructure:"SECRET_KEY" validate:"required"`
	SessionCookieName   string        `mapstructure:"SESSION_COOKIE_NAME" validate:"required"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	SessionLifetime     time.Duration `mapstructure:"PERMANENT_SESSION_LIFETIME" validate:"gt=0"`
	CSRFEnabled         bool          `mapstructure:"WTF_CSRF_ENABLED"`

	LogLevel      string `mapstructure:"DM_LOG_LEVEL" validate:"oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	PlainTextLogs bool   `mapstructure:"DM_PLAIN_TEXT_LOGS"`
}

// fakeNotifyKey has the shape of a real Notify key so the client can be built
// locally; requests made with it are rejected by Notify.
const fakeNotifyKey = "not_a_real_key-00000000-0000-0000-0000-000000000000-00000000-0000-0000-0000-000000000000"

var validate = validator.New()

func defaults(v *viper.Viper) {
	v.SetDefault("DM_ENVIRONMENT", EnvDevelopment)
	v.SetDefault("DM_APP_NAME", "brief-responses-frontend")
	v.SetDefault("HTTP_ADDRESS", ":5006")
	v.SetDefault("URL_PREFIX", "/suppliers/opportunities")
	v.SetDefault("DM_DATA_API_URL", "")
	v.SetDefault("DM_DATA_API_AUTH_TOKEN", "")
	v.SetDefault("DM_DATA_API_TIMEOUT", 15*time.Second)
	v.SetDefault("DM_NOTIFY_API_KEY", "")
	v.SetDefault("DM_NOTIFY_BASE_URL", "https://api.notifications.service.gov.uk")
	v.SetDefault("NOTIFY_TEMPLATE_CLARIFICATION_QUESTION", "520e0623-119e-41ac-990b-b9cdb0e9c30d")
	v.SetDefault("NOTIFY_TEMPLATE_CLARIFICATION_QUESTION_CONFIRMATION", "d74a8a05-eae6-49cb-bc08-63d95b92b4d3")
	v.SetDefault("DM_NOTIFY_REDIRECT_DOMAINS_TO_ADDRESS", "")
	v.SetDefault("DM_WEB_URL", "https://www.digitalmarketplace.service.gov.uk")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("SESSION_COOKIE_NAME", "dm_session")
	v.SetDefault("SESSION_COOKIE_SECURE", true)
	v.SetDefault("PERMANENT_SESSION_LIFETIME", time.Hour)
	v.SetDefault("WTF_CSRF_ENABLED", true)
	v.SetDefault("DM_LOG_LEVEL", "DEBUG")
	v.SetDefault("DM_PLAIN_TEXT_LOGS", false)
}

// environmentDefaults layers the per-environment overrides on top of the base
// defaults. Explicit environment variables still win.
func environmentDefaults(v *viper.Viper, env string) {
	switch env {
	case EnvDevelopment:
		v.SetDefault("DM_PLAIN_TEXT_LOGS", true)
		v.SetDefault("SESSION_COOKIE_SECURE", false)
		v.SetDefault("DM_DATA_API_URL", "http://localhost:5000")
		v.SetDefault("DM_DATA_API_AUTH_TOKEN", "myToken")
		v.SetDefault("DM_NOTIFY_API_KEY", fakeNotifyKey)
		v.SetDefault("DM_WEB_URL", "http://localhost")
		v.SetDefault("SECRET_KEY", "verySecretKey")
	case EnvTest:
		v.SetDefault("DM_PLAIN_TEXT_LOGS", true)
		v.SetDefault("DM_LOG_LEVEL", "CRITICAL")
		v.SetDefault("WTF_CSRF_ENABLED", false)
		v.SetDefault("DM_DATA_API_URL", "http://localhost:5000")
		v.SetDefault("DM_DATA_API_AUTH_TOKEN", "myToken")
		v.SetDefault("DM_NOTIFY_API_KEY", fakeNotifyKey)
		v.SetDefault("DM_WEB_URL", "http://localhost")
		v.SetDefault("SECRET_KEY", "verySecretKey")
	case EnvPreview, EnvStaging, EnvProduction:
		v.SetDefault("DM_NOTIFY_REDIRECT_DOMAINS_TO_ADDRESS",
			"example.com=success@simulator.amazonses.com,"+
				"example.gov.uk=success@simulator.amazonses.com,"+
				"user.marketplace.team=success@simulator.amazonses.com")
	}
}

// Load reads an optional .env file from path and then the process environment.
func Load(path string) (Config, error) {
	const op = "config.Load"

	// .env is optional in deployed environments
	_ = godotenv.Load(path)

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)
	environmentDefaults(v, strings.ToLower(v.GetString("DM_ENVIRONMENT")))

	var cfg Config
	// Unmarshal only sees keys viper knows about, so every field needs a default.
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	cfg.Environment = strings.ToLower(cfg.Environment)
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	cfg.URLPrefix = strings.TrimRight(cfg.URLPrefix, "/")

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

// SlogLevel converts the DM log level names into slog levels. CRITICAL has no
// slog equivalent and silences everything below it.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// RedirectDomains parses NotifyRedirectDomains into a domain -> address map.
func (c Config) RedirectDomains() map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(c.NotifyRedirectDomains, ",") {
		domain, address, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || domain == "" || address == "" {
			continue
		}
		result[strings.ToLower(domain)] = address
	}
	return result
}
