// Package config resolves settings from defaults, an optional YAML file,
// PROMPTBLOCKS_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/promptblocks/internal/llm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PROMPTBLOCKS_DB.
const EnvPrefix = "PROMPTBLOCKS"

const (
	KeyDB              = "db"
	KeyUser            = "user"
	KeyVerbose         = "verbose"
	KeyLogLevel        = "log_level"
	KeyAPIKey          = "llm.api_key"
	KeyEndpoint        = "llm.endpoint"
	KeyModel           = "llm.model"
	KeyTimeoutMs       = "llm.timeout_ms"
	KeyLogCalls        = "llm.log_calls"
	KeyRateLimit       = "llm.rate_limit"
	KeyRateWindow      = "llm.rate_window"
	KeySuggestInterval = "llm.suggest_interval"
	KeyRetryAttempts   = "persistence.retry_attempts"
	KeyRetryInitial    = "persistence.retry_initial"
	KeyRetryMax        = "persistence.retry_max"
	KeyCacheSize       = "persistence.cache_size"
)

// Config is the resolved application configuration.
type Config struct {
	DBPath   string
	User     string
	Verbose  bool
	LogLevel string
	LLM      llm.LLMConfig

	RetryAttempts int
	RetryInitial  time.Duration
	RetryMax      time.Duration
	CacheSize     int
}

// Dir returns the per-user settings directory, ~/.promptblocks.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptblocks"
	}
	return filepath.Join(home, ".promptblocks")
}

// defaultUser is the OS account name, so a local install works without --user.
func defaultUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	llmDefaults := llm.DefaultConfig()

	v.SetDefault(KeyDB, filepath.Join(Dir(), "promptblocks.db"))
	v.SetDefault(KeyUser, defaultUser())
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyEndpoint, llmDefaults.Endpoint)
	v.SetDefault(KeyModel, llmDefaults.Model)
	v.SetDefault(KeyTimeoutMs, llmDefaults.TimeoutMs)
	v.SetDefault(KeyLogCalls, false)
	v.SetDefault(KeyRateLimit, llmDefaults.RateLimit)
	v.SetDefault(KeyRateWindow, llmDefaults.RateWindow)
	v.SetDefault(KeySuggestInterval, llmDefaults.SuggestInterval)
	v.SetDefault(KeyRetryAttempts, 3)
	v.SetDefault(KeyRetryInitial, 200*time.Millisecond)
	v.SetDefault(KeyRetryMax, 2*time.Second)
	v.SetDefault(KeyCacheSize, 128)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// the conventional variable name works too
	_ = v.BindEnv(KeyAPIKey, EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY")
	return v
}

// BindFlags wires the root command's persistent flags into v.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{KeyDB, KeyUser, KeyVerbose} {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(name, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and resolves the final Config. An
// explicit configFile must exist; the default ~/.promptblocks/config.yaml is
// optional.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	llmCfg := llm.DefaultConfig()
	llmCfg.APIKey = strings.TrimSpace(v.GetString(KeyAPIKey))
	llmCfg.Endpoint = strings.TrimRight(v.GetString(KeyEndpoint), "/")
	llmCfg.Model = v.GetString(KeyModel)
	llmCfg.TimeoutMs = v.GetInt(KeyTimeoutMs)
	llmCfg.LogCalls = v.GetBool(KeyLogCalls)
	llmCfg.RateLimit = v.GetInt(KeyRateLimit)
	llmCfg.RateWindow = v.GetDuration(KeyRateWindow)
	llmCfg.SuggestInterval = v.GetDuration(KeySuggestInterval)

	cfg := &Config{
		DBPath:        v.GetString(KeyDB),
		User:          strings.TrimSpace(v.GetString(KeyUser)),
		Verbose:       v.GetBool(KeyVerbose),
		LogLevel:      v.GetString(KeyLogLevel),
		LLM:           llmCfg,
		RetryAttempts: v.GetInt(KeyRetryAttempts),
		RetryInitial:  v.GetDuration(KeyRetryInitial),
		RetryMax:      v.GetDuration(KeyRetryMax),
		CacheSize:     v.GetInt(KeyCacheSize),
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db path is empty")
	}
	return cfg, nil
}

// Level returns the slog level: debug with --verbose, else log_level.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// NewLogger builds the process logger writing text records to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
