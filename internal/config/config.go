package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"quote-risk/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultMaxTrials caps the trial count a remote caller may request.
const DefaultMaxTrials = 1_000_000

// SimulationConfig holds engine defaults that are not part of a job.
type SimulationConfig struct {
	Trials        int
	MaxTrials     int
	Seed          *int64
	Workers       int
	ChunkSize     int
	HistogramBins int
	Model         simulation.Model
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation          SimulationConfig
	DataPath            string
	LogDir              string
	ReportDir           string
	HTTPAddr            string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	reportDir := filepath.Join(dataPath, "reports")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		Simulation:          loadSimulation(),
		DataPath:            dataPath,
		LogDir:              logDir,
		ReportDir:           reportDir,
		HTTPAddr:            getEnv("QR_HTTP_ADDR", ":8080"),
		EnableMermaidCharts: getEnvBool("QR_ENABLE_MERMAID_CHARTS", true),
	}

	if err := cfg.Simulation.Model.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSimulation() SimulationConfig {
	defaults := simulation.DefaultModel()

	sc := SimulationConfig{
		Trials:        getEnvInt("QR_TRIALS", simulation.DefaultTrialCount),
		MaxTrials:     getEnvInt("QR_MAX_TRIALS", DefaultMaxTrials),
		Workers:       getEnvInt("QR_WORKERS", runtime.GOMAXPROCS(0)),
		ChunkSize:     getEnvInt("QR_CHUNK_SIZE", simulation.DefaultChunkSize),
		HistogramBins: getEnvInt("QR_HISTOGRAM_BINS", simulation.DefaultHistogramBins),
		Model: simulation.Model{
			OvertimeProbability: getEnvFloat("QR_OVERTIME_PROBABILITY", defaults.OvertimeProbability),
			OvertimeMultiplier:  getEnvFloat("QR_OVERTIME_MULTIPLIER", defaults.OvertimeMultiplier),
			ReworkMinHours:      getEnvFloat("QR_REWORK_MIN_HOURS", defaults.ReworkMinHours),
			ReworkMaxHours:      getEnvFloat("QR_REWORK_MAX_HOURS", defaults.ReworkMaxHours),
		},
	}

	if value, ok := os.LookupEnv("QR_SEED"); ok {
		if seed, err := strconv.ParseInt(value, 10, 64); err == nil {
			sc.Seed = &seed
		} else {
			log.Warn().Str("value", value).Msg("Ignoring unparseable QR_SEED")
		}
	}
	return sc
}

// EngineOptions translates the configuration into engine options.
func (c SimulationConfig) EngineOptions() []simulation.Option {
	return []simulation.Option{
		simulation.WithModel(c.Model),
		simulation.WithWorkers(c.Workers),
		simulation.WithChunkSize(c.ChunkSize),
	}
}

// ApplyDefaults fills a job's unset trial count from the configuration.
func (c SimulationConfig) ApplyDefaults(p simulation.Parameters) simulation.Parameters {
	if p.TrialCount == 0 && c.Trials > 0 {
		p.TrialCount = c.Trials
	}
	return p.WithDefaults()
}

// Prepare applies defaults and rejects jobs above the configured trial limit.
func (c SimulationConfig) Prepare(p simulation.Parameters) (simulation.Parameters, error) {
	p = c.ApplyDefaults(p)
	if c.MaxTrials > 0 && p.TrialCount > c.MaxTrials {
		return p, &simulation.InvalidParametersError{
			Problems: []string{fmt.Sprintf("trial_count %d exceeds the limit of %d", p.TrialCount, c.MaxTrials)},
		}
	}
	return p, nil
}

// NewEngine builds an engine with the configured defaults and seed.
func (c SimulationConfig) NewEngine() *simulation.Engine {
	e := simulation.NewEngine(c.EngineOptions()...)
	if c.Seed != nil {
		e.SetSeed(*c.Seed)
	}
	return e
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
