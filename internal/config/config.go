// Package config loads the settings of the jobdispatch command.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// JOBDISPATCH_WORKERS=8.
const EnvPrefix = "JOBDISPATCH"

// Config holds all configuration for the command.
// The mapstructure tags are used by Viper to unmarshal the data.
type Config struct {
	ServiceName string `mapstructure:"service_name" validate:"required"`

	Workers    int           `mapstructure:"workers" validate:"gte=1"`
	Jobs       int           `mapstructure:"jobs" validate:"gte=1"`
	JobDelay   time.Duration `mapstructure:"job_delay" validate:"gte=0"`
	PinWorkers bool          `mapstructure:"pin_workers"`

	// RateLimit is the shared jobs-per-second budget of all workers.
	// Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=1"`

	// MetricsAddr is the listen address of /metrics. Empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`

	ProgressInitial   time.Duration `mapstructure:"progress_initial" validate:"gt=0"`
	ProgressMax       time.Duration `mapstructure:"progress_max" validate:"gtefield=ProgressInitial"`
	ProgressPrecision int           `mapstructure:"progress_precision" validate:"gte=0,lte=6"`

	TraceStdout bool `mapstructure:"trace_stdout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "jobdispatch")
	v.SetDefault("workers", 4)
	v.SetDefault("jobs", 100)
	v.SetDefault("job_delay", "50ms")
	v.SetDefault("pin_workers", false)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_burst", 1)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("progress_initial", "500ms")
	v.SetDefault("progress_max", "10s")
	v.SetDefault("progress_precision", 1)
	v.SetDefault("trace_stdout", false)
}

// Load reads config.yaml from the given directories (./configs and . when
// none are given), applies JOBDISPATCH_* environment overrides and
// validates the result. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
