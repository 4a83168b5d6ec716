package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FormatJSON  = "json"
	FormatTable = "table"

	defaultTimeout = 30 * time.Second
)

type Config struct {
	Console ConsoleConfig `mapstructure:"console"`
	Report  ReportConfig  `mapstructure:"report"`
}

type ConsoleConfig struct {
	URL      string        `mapstructure:"url"`
	Identity string        `mapstructure:"identity"`
	Key      string        `mapstructure:"key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Insecure bool          `mapstructure:"insecure"`
}

type ReportConfig struct {
	Format         string `mapstructure:"format"`
	SkipIncomplete bool   `mapstructure:"skip_incomplete"`
	FailOnStale    bool   `mapstructure:"fail_on_stale"`
}

var cfg *Config

// InitConfig loads .env, the config file and environment into viper and
// decodes the result. Flags must already be bound with viper.BindPFlag.
func InitConfig(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "defcheck"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.BindEnv("console.url", "PCC_URL")
	viper.BindEnv("console.identity", "PCC_IDENTITY")
	viper.BindEnv("console.key", "PCC_SECRET")
	viper.BindEnv("console.timeout", "PCC_TIMEOUT")
	viper.BindEnv("console.insecure", "PCC_INSECURE")

	viper.SetDefault("console.timeout", defaultTimeout)
	viper.SetDefault("report.format", FormatJSON)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	cfg = c
	return nil
}

func Get() *Config {
	if cfg == nil {
		if err := InitConfig(""); err != nil {
			return &Config{}
		}
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Console.URL == "" {
		return fmt.Errorf("console URL required. Set via --url, PCC_URL, or config file")
	}
	if c.Console.Identity == "" {
		return fmt.Errorf("access key identity required. Set via --identity, PCC_IDENTITY, or config file")
	}
	if c.Console.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Console.Timeout)
	}
	switch c.GetFormat() {
	case FormatJSON, FormatTable:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Report.Format, FormatJSON, FormatTable)
	}
	return nil
}

func (c *Config) GetFormat() string {
	if c.Report.Format != "" {
		return strings.ToLower(c.Report.Format)
	}
	return FormatJSON
}

func (c *Config) GetTimeout() time.Duration {
	if c.Console.Timeout > 0 {
		return c.Console.Timeout
	}
	return defaultTimeout
}
