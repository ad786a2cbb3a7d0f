// Package config loads run settings from defaults, an optional
// timbermatch.yaml, an optional .env file and TIMBERMATCH_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

const (
	EnvPrefix = "TIMBERMATCH"
	FileName  = "timbermatch"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds every tunable of a sizing run and of the HTTP server
type Config struct {
	Seed       int32  `mapstructure:"seed"`
	WidthClass string `mapstructure:"width_class"`
	SIUnits    bool   `mapstructure:"si_units"`
	Workers    int    `mapstructure:"workers"`
	Columns    int    `mapstructure:"columns"`
	LogLevel   string `mapstructure:"log_level"`

	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Seed:       timber.DefaultSeed,
		WidthClass: timber.Narrow.String(),
		SIUnits:    true,
		Workers:    0,
		Columns:    10,
		LogLevel:   "info",
		Addr:       ":8080",
		RateLimit:  1,
		RateBurst:  3,
	}
}

// Load reads the configuration. dir is searched for timbermatch.yaml and
// .env; an empty dir means the working directory. Missing files are not an
// error, environment variables override file values.
func Load(dir string) (Config, error) {
	if dir == "" {
		dir = "."
	}
	envFile := dir + string(os.PathSeparator) + ".env"
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: %s: %w", envFile, err)
	}

	v := viper.New()
	def := Default()
	v.SetDefault("seed", def.Seed)
	v.SetDefault("width_class", def.WidthClass)
	v.SetDefault("si_units", def.SIUnits)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("columns", def.Columns)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("addr", def.Addr)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("rate_burst", def.RateBurst)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if _, err := timber.ParseWidthClass(c.WidthClass); err != nil {
		return fmt.Errorf("%w: width_class: %v", ErrInvalid, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, c.Workers)
	}
	if c.Columns <= 0 {
		return fmt.Errorf("%w: columns must be > 0, got %d", ErrInvalid, c.Columns)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("%w: rate_limit and rate_burst must be > 0", ErrInvalid)
	}
	return nil
}

// TimberOptions converts the catalog settings
func (c Config) TimberOptions() (timber.Options, error) {
	wc, err := timber.ParseWidthClass(c.WidthClass)
	if err != nil {
		return timber.Options{}, err
	}
	return timber.Options{Seed: c.Seed, WidthClass: wc}, nil
}
