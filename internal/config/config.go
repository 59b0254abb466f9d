package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DAYBOOK_STORAGE_BACKEND
const EnvPrefix = "DAYBOOK"

// Config holds all configuration for the application
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
}

// StorageConfig selects the persistence medium
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite, files, redis, memory
	DataDir string `mapstructure:"data_dir"`
}

// RedisConfig holds Redis connection settings for the redis backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
	File   string `mapstructure:"file"`   // empty means stderr
}

// AutosaveConfig tunes the note editor
type AutosaveConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// Options controls where Load looks for configuration
type Options struct {
	// ConfigFile overrides the default $data_dir/config.yaml lookup
	ConfigFile string
	// Flags are bound over every other source when set
	Flags *pflag.FlagSet
}

// FlagKeys maps command-line flag names to config keys
var FlagKeys = map[string]string{
	"backend":   "storage.backend",
	"data-dir":  "storage.data_dir",
	"log-level": "log.level",
}

// Load resolves configuration from defaults, config file, .env, the
// environment and flags, in increasing precedence.
func Load(opts Options) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if opts.Flags != nil {
		for flag, key := range FlagKeys {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(expandHome(v.GetString("storage.data_dir")), "config.yaml")
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		// Only the default config file is optional
		if opts.ConfigFile != "" || fileExists(configFile) {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.data_dir", "~/.daybook")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "daybook:")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("autosave.delay", "1s")
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "sqlite", "files", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q (use sqlite, files, redis or memory)", cfg.Storage.Backend)
	}

	if cfg.Storage.DataDir == "" && (cfg.Storage.Backend == "sqlite" || cfg.Storage.Backend == "files") {
		return fmt.Errorf("storage data_dir is required for the %s backend", cfg.Storage.Backend)
	}

	if cfg.Storage.Backend == "redis" && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required for the redis backend")
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", cfg.Log.Format)
	}

	if cfg.Autosave.Delay <= 0 {
		return fmt.Errorf("autosave delay must be positive")
	}

	return nil
}

// expandHome resolves a leading ~ against the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
