package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/depintrust/depintrust/internal/scoring"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string

	// HTTP Server
	HTTPAddr string

	// Scoring
	WeightsFile string
	Weights     scoring.Weights
}

// Load reads configuration from environment variables. When
// DEPINTRUST_WEIGHTS_FILE is set, penalty weights are overlaid from that
// file; otherwise the engine defaults apply.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DEPINTRUST_DB_URL", "postgres://localhost:5432/depintrust?sslmode=disable"),
		HTTPAddr:    getEnv("DEPINTRUST_HTTP_ADDR", ":8080"),
		WeightsFile: getEnv("DEPINTRUST_WEIGHTS_FILE", ""),
	}

	cfg.Weights = scoring.DefaultWeights()
	if cfg.WeightsFile != "" {
		weights, err := LoadWeights(cfg.WeightsFile)
		if err != nil {
			return nil, fmt.Errorf("load weights file: %w", err)
		}
		cfg.Weights = weights
	}

	return cfg, nil
}

// LoadWeights reads a YAML file of penalty-weight overrides. Keys the scoring
// engine does not recognize are ignored, so a weights file may carry extra
// annotations without breaking older binaries.
func LoadWeights(path string) (scoring.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Weights{}, err
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return scoring.Weights{}, fmt.Errorf("parse weights: %w", err)
	}

	return scoring.WeightsFromMap(raw), nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
