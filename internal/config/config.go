package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
)

// Config is the process-level configuration, read from the environment
type Config struct {
	Environment string
	LogLevel    string

	Optimizer optimization.OptimizationConfig

	Run struct {
		Seed        int64
		CatalogFile string
	}

	Output struct {
		Directory string
		LogDir    string
		Formats   []string
	}

	Monitoring struct {
		PrometheusPort int
	}
}

// Load reads the configuration from environment variables, falling back to defaults
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	defaults := optimization.DefaultOptimizationConfig()
	cfg.Optimizer = optimization.OptimizationConfig{
		PopulationSize: getEnvInt("CROP_POPULATION_SIZE", defaults.PopulationSize),
		MutationRate:   getEnvFloat("CROP_MUTATION_RATE", defaults.MutationRate),
		TotalPlotArea:  getEnvFloat("CROP_PLOT_SIZE", defaults.TotalPlotArea),
		MaxGrowthTime:  getEnvInt("CROP_GROWTH_TIME", defaults.MaxGrowthTime),
		Generations:    getEnvInt("CROP_GENERATIONS", defaults.Generations),
		TournamentSize: getEnvInt("CROP_TOURNAMENT_SIZE", defaults.TournamentSize),
		TopK:           getEnvInt("CROP_TOP_K", defaults.TopK),
		DaysPerYear:    defaults.DaysPerYear,
		MaxAttempts:    getEnvInt("CROP_MAX_ATTEMPTS", defaults.MaxAttempts),
	}

	cfg.Run.Seed = getEnvInt64("CROP_SEED", 0)
	cfg.Run.CatalogFile = getEnv("CROP_CATALOG_FILE", "")

	cfg.Output.Directory = getEnv("CROP_OUTPUT_DIR", "results")
	cfg.Output.LogDir = getEnv("CROP_LOG_DIR", "logs")
	cfg.Output.Formats = getEnvList("CROP_OUTPUT_FORMATS", []string{"console"})

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 0)

	return cfg
}

// IsDevelopment reports whether the process runs in the development environment
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// IsVerbose reports whether debug logging is requested
func (c *Config) IsVerbose() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
