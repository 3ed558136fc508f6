package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"smartcart/domain/core"
)

// Config represents the complete engine configuration
type Config struct {
	Analysis    AnalysisConfig
	Recommender RecommenderConfig
	Database    DatabaseConfig
	Export      ExportConfig
}

// AnalysisConfig holds the market basket analysis thresholds
type AnalysisConfig struct {
	MinSupport    float64
	MinConfidence float64
}

// RecommenderConfig holds the hybrid recommender settings
type RecommenderConfig struct {
	NComponents      int
	NRecommendations int
	SimilarityWeight float64
	FactorWeight     float64
	MaxIterations    int
	Seed             int64
}

// DatabaseConfig holds settings for the SQL transaction source
type DatabaseConfig struct {
	URL   string
	Table string
}

// ExportConfig holds settings for rule exports
type ExportConfig struct {
	Path  string
	Sheet string
}

// Load reads configuration from environment variables (a .env file is
// honored when present) and validates it
func Load() (*Config, error) {
	// Best-effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	config := &Config{
		Analysis: AnalysisConfig{
			MinSupport:    getEnvFloatOrDefault("MIN_SUPPORT", 0.1),
			MinConfidence: getEnvFloatOrDefault("MIN_CONFIDENCE", 0.5),
		},
		Recommender: RecommenderConfig{
			NComponents:      getEnvIntOrDefault("N_COMPONENTS", 10),
			NRecommendations: getEnvIntOrDefault("N_RECOMMENDATIONS", 10),
			SimilarityWeight: getEnvFloatOrDefault("SIMILARITY_WEIGHT", 0.6),
			FactorWeight:     getEnvFloatOrDefault("FACTOR_WEIGHT", 0.4),
			MaxIterations:    getEnvIntOrDefault("FACTOR_MAX_ITERATIONS", 500),
			Seed:             int64(getEnvIntOrDefault("FACTOR_SEED", 42)),
		},
		Database: DatabaseConfig{
			URL:   os.Getenv("DATABASE_URL"),
			Table: getEnvOrDefault("TRANSACTIONS_TABLE", "transactions"),
		},
		Export: ExportConfig{
			Path:  getEnvOrDefault("RULES_EXPORT_PATH", "rules.xlsx"),
			Sheet: getEnvOrDefault("RULES_EXPORT_SHEET", "Association Rules"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if v := config.Analysis.MinSupport; v <= 0 || v > 1 {
		return core.NewConfigError("MIN_SUPPORT", core.ErrInvalidSupport)
	}
	if v := config.Analysis.MinConfidence; v <= 0 || v > 1 {
		return core.NewConfigError("MIN_CONFIDENCE", core.ErrInvalidConfidence)
	}
	if config.Recommender.NComponents <= 0 {
		return core.NewConfigError("N_COMPONENTS", core.ErrInvalidCount)
	}
	if config.Recommender.NRecommendations <= 0 {
		return core.NewConfigError("N_RECOMMENDATIONS", core.ErrInvalidCount)
	}
	if config.Recommender.SimilarityWeight < 0 || config.Recommender.FactorWeight < 0 {
		return core.NewConfigError("SIMILARITY_WEIGHT/FACTOR_WEIGHT", core.ErrInvalidWeight)
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
