// Package config provides Viper configuration loading utilities.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// JSONLogFormat indicates JSON log format.
	JSONLogFormat = "json"
	// TextLogFormat indicates text log format.
	TextLogFormat = "text"

	// EnvPrefix is the prefix for environment variables
	// (e.g., STARTER_KIT_PACKAGE_MANAGER).
	EnvPrefix = "STARTER_KIT"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Format     string        `mapstructure:"format"`
	Level      zerolog.Level `mapstructure:"level"`
	WithCaller bool          `mapstructure:"with_caller"`
}

// Config holds the CLI configuration.
type Config struct {
	DefaultTargetDir string `mapstructure:"default_target_dir"`
	PackageManager   string `mapstructure:"package_manager"`
	TemplatesDir     string `mapstructure:"templates_dir"`

	Logging LogConfig `mapstructure:"logging"`
}

// LoaderConfig holds configuration for the config loader.
type LoaderConfig struct {
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix string

	// ConfigPaths is a list of directories to search for config files.
	ConfigPaths []string

	// ConfigName is the name of the config file (without extension).
	ConfigName string

	// Defaults is a map of default values.
	Defaults map[string]interface{}
}

// DefaultLoaderConfig returns default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		EnvPrefix:  EnvPrefix,
		ConfigName: "config",
		ConfigPaths: []string{
			"/etc/starter-kit/",
			"$HOME/.starter-kit",
			".",
		},
		Defaults: map[string]interface{}{
			"default_target_dir":  "my-app",
			"package_manager":     "",
			"templates_dir":       "",
			"logging.level":       "info",
			"logging.format":      TextLogFormat,
			"logging.with_caller": false,
		},
	}
}

// Load reads configuration from file and environment variables.
// If configPath is empty, it searches the default paths and a missing file
// is not an error. If configPath is set it must exist.
func Load(configPath string, cfg *LoaderConfig) error {
	if cfg == nil {
		cfg = DefaultLoaderConfig()
	}

	log.Debug().Msg("Loading configuration")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName(cfg.ConfigName)
		for _, path := range cfg.ConfigPaths {
			viper.AddConfigPath(path)
		}
	}

	// Environment variable configuration
	viper.SetEnvPrefix(cfg.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	for key, value := range cfg.Defaults {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			log.Debug().Msg("No config file found, using defaults")
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	log.Debug().
		Str("config_file", viper.ConfigFileUsed()).
		Msg("Configuration loaded")

	return nil
}

// GetLogConfig returns the logging configuration from Viper.
func GetLogConfig() LogConfig {
	logLevelStr := viper.GetString("logging.level")
	logLevel, err := zerolog.ParseLevel(logLevelStr)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	logFormatOpt := viper.GetString("logging.format")
	var logFormat string
	switch logFormatOpt {
	case JSONLogFormat:
		logFormat = JSONLogFormat
	case TextLogFormat:
		logFormat = TextLogFormat
	case "":
		logFormat = TextLogFormat
	default:
		log.Warn().
			Str("format", logFormatOpt).
			Msg("Invalid log format, using text")
		logFormat = TextLogFormat
	}

	return LogConfig{
		Format:     logFormat,
		Level:      logLevel,
		WithCaller: viper.GetBool("logging.with_caller"),
	}
}

// Get returns the configuration from Viper. Call it after Load().
func Get() *Config {
	return &Config{
		DefaultTargetDir: viper.GetString("default_target_dir"),
		PackageManager:   viper.GetString("package_manager"),
		TemplatesDir:     viper.GetString("templates_dir"),
		Logging:          GetLogConfig(),
	}
}

// ResolvePackageManager returns the configured override if set, otherwise
// the identity described by the npm user agent.
func (c *Config) ResolvePackageManager() (pkgmanager.Identity, error) {
	if c.PackageManager != "" {
		id, err := pkgmanager.Parse(c.PackageManager)
		if err != nil {
			return pkgmanager.Identity{}, fmt.Errorf("package_manager: %w", err)
		}
		return id, nil
	}
	return pkgmanager.FromUserAgent(os.Getenv(pkgmanager.UserAgentEnv)), nil
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(cfg LogConfig, w io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level)

	var logger zerolog.Logger
	if cfg.Format == JSONLogFormat {
		logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}).With().Timestamp().Logger()
	}

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}

	log.Logger = logger
}
