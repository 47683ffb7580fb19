package config

import (
	"os"
	"strconv"

	"abstop/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sampler  SamplerConfig
	Decision DecisionConfig
	Report   ReportConfig
}

// SamplerConfig holds posterior sampling settings
type SamplerConfig struct {
	Draws  int
	Chains int
	Warmup int
	Seed   int64
}

// DecisionConfig holds stopping-rule settings
type DecisionConfig struct {
	Threshold  float64
	ProjectedN int
	Mass       float64
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	HTML    bool
	OutPath string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Sampler: SamplerConfig{
			Draws:  getEnvIntOrDefault("POSTERIOR_DRAWS", 4000),
			Chains: getEnvIntOrDefault("SAMPLER_CHAINS", 4),
			Warmup: getEnvIntOrDefault("SAMPLER_WARMUP", 500),
			Seed:   getEnvInt64OrDefault("SEED", 42),
		},
		Decision: DecisionConfig{
			Threshold:  getEnvFloatOrDefault("LOSS_THRESHOLD", 5000),
			ProjectedN: getEnvIntOrDefault("PROJECTED_N", 1000),
			Mass:       getEnvFloatOrDefault("INTERVAL_MASS", 0.95),
		},
		Report: ReportConfig{
			HTML:    getEnvBoolOrDefault("REPORT_HTML", false),
			OutPath: getEnvOrDefault("REPORT_OUT", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Sampler.Draws <= 0 {
		return errors.ConfigInvalid("POSTERIOR_DRAWS must be positive")
	}
	if config.Sampler.Chains <= 0 {
		return errors.ConfigInvalid("SAMPLER_CHAINS must be positive")
	}
	if config.Decision.ProjectedN <= 0 {
		return errors.ConfigInvalid("PROJECTED_N must be positive")
	}
	if config.Decision.Mass <= 0 || config.Decision.Mass >= 1 {
		return errors.ConfigInvalid("INTERVAL_MASS must lie in (0, 1)")
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
