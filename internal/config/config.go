package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Moss     MossConfig     `mapstructure:"moss"`
	Download DownloadConfig `mapstructure:"download"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type MossConfig struct {
	Server     string  `mapstructure:"server"`
	Port       int     `mapstructure:"port"`
	UserID     string  `mapstructure:"user_id"`
	UploadRate float64 `mapstructure:"upload_rate"`
}

type DownloadConfig struct {
	Connections int           `mapstructure:"connections"`
	RetryCount  int           `mapstructure:"retry_count"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

// ArchiveConfig enables pushing downloaded report bundles to an
// S3-compatible bucket. Disabled unless configured.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/canvasmoss")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The original grading workflow read the credential from a lowercase
	// `user_id` environment variable; keep both spellings working.
	if cfg.Moss.UserID == "" {
		cfg.Moss.UserID = os.Getenv("MOSS_USER_ID")
	}
	if cfg.Moss.UserID == "" {
		cfg.Moss.UserID = os.Getenv("user_id")
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("moss.server", "moss.stanford.edu")
	viper.SetDefault("moss.port", 7690)
	viper.SetDefault("moss.upload_rate", 0)

	viper.SetDefault("download.connections", 8)
	viper.SetDefault("download.retry_count", 3)
	viper.SetDefault("download.retry_delay", "100ms")
	viper.SetDefault("download.timeout", "30s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", true)
	viper.SetDefault("logging.no_color", false)

	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.use_ssl", true)
	viper.SetDefault("archive.prefix", "moss-reports")
}
