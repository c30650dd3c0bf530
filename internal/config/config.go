package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"statdemo/domain/scenario"
	"statdemo/domain/stats"
	"statdemo/internal/errors"
)

// Prefix is prepended to every environment variable name. Nested sections
// add their own name, e.g. STATDEMO_SIMULATION_SEED or STATDEMO_SERVER_PORT.
const Prefix = "STATDEMO"

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Analysis   AnalysisConfig
	Server     ServerConfig
	Profiling  ProfilingConfig
	Logging    LogConfig
}

// SimulationConfig controls scenario generation defaults
type SimulationConfig struct {
	Seed          int64 `default:"42"`
	SampleSize    int   `split_words:"true" default:"200"`
	MaxSampleSize int   `split_words:"true" default:"5000"` // upper bound for sizes requested over HTTP
}

// AnalysisConfig controls the hypothesis runner
type AnalysisConfig struct {
	TTestVariant string `envconfig:"TTEST_VARIANT" default:"student"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    string `default:"8080"`
	GinMode string `split_words:"true" default:"release"`
}

// ProfilingConfig controls the pprof listener
type ProfilingConfig struct {
	Enabled bool   `default:"false"`
	Port    string `default:"6060"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `default:"info"`
	Development bool   `default:"false"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Seed:          scenario.DefaultSeed,
			SampleSize:    scenario.DefaultSampleSize,
			MaxSampleSize: 5000,
		},
		Analysis:  AnalysisConfig{TTestVariant: string(stats.Student)},
		Server:    ServerConfig{Port: "8080", GinMode: "release"},
		Profiling: ProfilingConfig{Port: "6060"},
		Logging:   LogConfig{Level: "info"},
	}
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if c.Simulation.SampleSize <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("%s_SIMULATION_SAMPLE_SIZE must be positive, got %d", Prefix, c.Simulation.SampleSize))
	}
	if c.Simulation.MaxSampleSize < c.Simulation.SampleSize {
		return errors.ConfigInvalid(fmt.Sprintf("%s_SIMULATION_MAX_SAMPLE_SIZE (%d) is below the default sample size (%d)",
			Prefix, c.Simulation.MaxSampleSize, c.Simulation.SampleSize))
	}
	if _, ok := stats.ParseTTestVariant(c.Analysis.TTestVariant); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("%s_ANALYSIS_TTEST_VARIANT must be student or welch, got %q", Prefix, c.Analysis.TTestVariant))
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if c.Profiling.Enabled && c.Profiling.Port == c.Server.Port {
		return errors.ConfigInvalid("profiling port must differ from the server port")
	}
	return nil
}

// Variant returns the parsed t-test variant. Call after Validate.
func (c *Config) Variant() stats.TTestVariant {
	v, _ := stats.ParseTTestVariant(c.Analysis.TTestVariant)
	return v
}
