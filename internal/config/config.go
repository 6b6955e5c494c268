// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration shared by the server and the
// ingestion tool.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite event store.
	DBPath string `koanf:"db_path"`

	// CSVDir is the directory of source CSV files for ingestion.
	CSVDir string `koanf:"csv_dir"`

	// MinSampleSize is the per-pitch-type floor for recommendation queries.
	MinSampleSize int `koanf:"min_sample_size"`

	// DefaultPitchLimit and MaxPitchLimit bound the pitches endpoint cap.
	DefaultPitchLimit int `koanf:"default_pitch_limit"`
	MaxPitchLimit     int `koanf:"max_pitch_limit"`

	// QueueSize bounds the ingestion row queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of normalize workers.
	WorkerCount int `koanf:"worker_count"`

	// BatchSize sets the insert batch size used within a file transaction.
	BatchSize int `koanf:"batch_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8000",
		DBPath:            "data/pitchmix.db",
		CSVDir:            "data/csvs",
		MinSampleSize:     5,
		DefaultPitchLimit: 500,
		MaxPitchLimit:     2000,
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU(),
		BatchSize:         500,
	}
}
