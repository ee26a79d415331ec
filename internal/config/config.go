package config

import (
	"os"
	"strconv"
	"strings"

	"driftwatch/domain/drift"
	"driftwatch/domain/metrics"
	"driftwatch/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gate     GateConfig
	Drift    DriftConfig
	Paths    PathConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds report store settings. URL may be empty, in which
// case persistence is disabled and results only go to stdout/files.
type DatabaseConfig struct {
	URL string
}

// GateConfig holds evaluation gate settings
type GateConfig struct {
	AccuracyThreshold float64
	F1Threshold       float64
	CVFolds           int
	CVSeed            int64
}

// DriftConfig holds drift engine settings
type DriftConfig struct {
	Policy          drift.Policy
	ExcludedColumns []string
}

// PathConfig holds dataset and report locations consumed by the CLIs
type PathConfig struct {
	ReferenceFile string
	CurrentFile   string
	ReportDir     string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	policy := drift.DefaultPolicy()
	policy.Alpha = getEnvFloatOrDefault("DRIFT_ALPHA", policy.Alpha)
	policy.DriftShareThreshold = getEnvFloatOrDefault("DRIFT_SHARE_THRESHOLD", policy.DriftShareThreshold)
	policy.PSIThreshold = getEnvFloatOrDefault("PSI_THRESHOLD", policy.PSIThreshold)
	policy.KSMaxSamples = getEnvIntOrDefault("KS_MAX_SAMPLES", policy.KSMaxSamples)
	policy.MediumSeverityScore = getEnvFloatOrDefault("MEDIUM_SEVERITY_SCORE", policy.MediumSeverityScore)
	policy.HighSeverityScore = getEnvFloatOrDefault("HIGH_SEVERITY_SCORE", policy.HighSeverityScore)
	policy.MinTestSuccessRate = getEnvFloatOrDefault("MIN_TEST_SUCCESS_RATE", policy.MinTestSuccessRate)
	policy.MaxStableFeatureDrifts = getEnvIntOrDefault("MAX_STABLE_FEATURE_DRIFTS", policy.MaxStableFeatureDrifts)
	if v := os.Getenv("REFERENCE_FALLBACK"); v != "" {
		policy.ReferenceFallback = drift.ReferencePolicy(v)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Gate: GateConfig{
			AccuracyThreshold: getEnvFloatOrDefault("ACCURACY_THRESHOLD", 0.8),
			F1Threshold:       getEnvFloatOrDefault("F1_THRESHOLD", 0.8),
			CVFolds:           getEnvIntOrDefault("CV_FOLDS", 5),
			CVSeed:            int64(getEnvIntOrDefault("CV_SEED", 42)),
		},
		Drift: DriftConfig{
			Policy:          policy,
			ExcludedColumns: splitCSV(getEnvOrDefault("EXCLUDED_COLUMNS", "species,prediction")),
		},
		Paths: PathConfig{
			ReferenceFile: getEnvOrDefault("REFERENCE_FILE", ""),
			CurrentFile:   getEnvOrDefault("CURRENT_FILE", ""),
			ReportDir:     getEnvOrDefault("REPORT_DIR", "reports"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Thresholds returns the gate thresholds as the domain structure
func (c *Config) Thresholds() metrics.ThresholdConfig {
	return metrics.ThresholdConfig{
		AccuracyThreshold: c.Gate.AccuracyThreshold,
		F1Threshold:       c.Gate.F1Threshold,
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	thresholds := config.Thresholds()
	if err := thresholds.Validate(); err != nil {
		return err
	}
	if config.Gate.CVFolds < 2 {
		return errors.ConfigInvalid("CV_FOLDS must be at least 2")
	}
	return config.Drift.Policy.Validate()
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
