// Package config loads innopage settings from a TOML file, INNOPAGE_*
// environment variables and bound command line flags.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wilhasse/innopage/fault"
)

const EnvPrefix = "INNOPAGE"

// Keys as they appear in the config file.
const (
	KeyLogLevel       = "log.level"
	KeyLogDevelopment = "log.development"
	KeyOnCorruption   = "decode.on_corruption"
	KeyMaxRecords     = "decode.max_records"
	KeyScanWorkers    = "scan.workers"
)

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Decode struct {
	OnCorruption string `mapstructure:"on_corruption"`
	MaxRecords   int    `mapstructure:"max_records"`
}

type Scan struct {
	Workers int `mapstructure:"workers"`
}

type Config struct {
	Log    Log    `mapstructure:"log"`
	Decode Decode `mapstructure:"decode"`
	Scan   Scan   `mapstructure:"scan"`
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyOnCorruption, "error")
	v.SetDefault(KeyMaxRecords, 1000)
	v.SetDefault(KeyScanWorkers, 4)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a TOML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "%s", KeyLogLevel)
	}
	if _, err := fault.ParsePolicy(c.Decode.OnCorruption); err != nil {
		return errors.Wrapf(err, "%s", KeyOnCorruption)
	}
	if c.Decode.MaxRecords < 0 {
		return errors.Errorf("%s must not be negative, got %d", KeyMaxRecords, c.Decode.MaxRecords)
	}
	if c.Scan.Workers < 1 {
		return errors.Errorf("%s must be at least 1, got %d", KeyScanWorkers, c.Scan.Workers)
	}
	return nil
}

// Policy returns the corruption policy. It is valid after Validate.
func (c *Config) Policy() fault.Policy {
	p, _ := fault.ParsePolicy(c.Decode.OnCorruption)
	return p
}

// NewLogger builds a zap logger: JSON output for production, console output
// for development.
func NewLogger(c Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// NewReporter builds the fault reporter the settings ask for.
func (c *Config) NewReporter(log *zap.Logger) *fault.Reporter {
	return fault.New(fault.WithLogger(log), fault.WithPolicy(c.Policy()))
}
