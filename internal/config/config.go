package config

import (
	"os"
	"strconv"

	"gobayes/internal"
	"gobayes/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sampling   SamplingConfig
	Quadrature QuadratureConfig
	Server     ServerConfig
	Log        LogConfig
}

// SamplingConfig controls Monte Carlo decision metrics
type SamplingConfig struct {
	NumSamples int
	Seed       uint64
	Workers    int
}

// QuadratureConfig bounds the Student-t Bayes factor integral
type QuadratureConfig struct {
	RelTol    float64
	MaxPanels int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds the logger verbosity
type LogConfig struct {
	Level internal.LogLevel
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Sampling:   *loadSamplingConfig(),
		Quadrature: *loadQuadratureConfig(),
		Server:     *loadServerConfig(),
		Log:        *loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSamplingConfig() *SamplingConfig {
	return &SamplingConfig{
		NumSamples: getEnvIntOrDefault("BAYES_NUM_SAMPLES", 20000),
		Seed:       getEnvUintOrDefault("BAYES_SEED", 42),
		Workers:    getEnvIntOrDefault("BAYES_WORKERS", 4),
	}
}

func loadQuadratureConfig() *QuadratureConfig {
	return &QuadratureConfig{
		RelTol:    getEnvFloatOrDefault("BAYES_QUAD_REL_TOL", 1e-8),
		MaxPanels: getEnvIntOrDefault("BAYES_QUAD_MAX_PANELS", 2000),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadLogConfig() *LogConfig {
	level, ok := internal.ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if !ok && os.Getenv("LOG_LEVEL") != "" {
		internal.DefaultLogger.Warn("unknown LOG_LEVEL %q, using INFO", os.Getenv("LOG_LEVEL"))
	}
	return &LogConfig{Level: level}
}

func validateConfig(config *Config) error {
	if config.Sampling.NumSamples <= 0 {
		return errors.ConfigInvalid("BAYES_NUM_SAMPLES must be positive")
	}
	if config.Sampling.Workers <= 0 {
		return errors.ConfigInvalid("BAYES_WORKERS must be positive")
	}
	if !(config.Quadrature.RelTol > 0) {
		return errors.ConfigInvalid("BAYES_QUAD_REL_TOL must be positive")
	}
	if config.Quadrature.MaxPanels <= 0 {
		return errors.ConfigInvalid("BAYES_QUAD_MAX_PANELS must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
