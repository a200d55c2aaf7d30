package circadia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is read from the environment at startup
type Config struct {
	Port string `env:"PORT,default=8090"`

	// Canvas
	ChartWidth  int `env:"CHART_WIDTH,default=1000"`
	ChartHeight int `env:"CHART_HEIGHT,default=1000"`
	ChartMargin int `env:"CHART_MARGIN,default=70"`
	SampleRate  int `env:"SAMPLE_RATE,default=10"`

	// Data sources, URL or local path
	EstrusSource    string `env:"ESTRUS_SOURCE,default=lib/estrus_activity.json"`
	NonEstrusSource string `env:"NON_ESTRUS_SOURCE,default=lib/non_estrus_activity.json"`
	ActivityKey     string `env:"ACTIVITY_KEY,default=activity"`
	DatasetFile     string `env:"DATASET_FILE"`

	// Selection journal output: none, memory, badger
	Journal      string `env:"JOURNAL,default=none"`
	JournalPath  string `env:"JOURNAL_PATH,default=./circadia_journal"`
	JournalBatch int    `env:"JOURNAL_BATCH,default=10"`

	ReloadInterval time.Duration `env:"RELOAD_INTERVAL,default=0s"`
	LoadTimeout    time.Duration `env:"LOAD_TIMEOUT,default=30s"`

	// Front end: web or tui
	UI string `env:"UI,default=web"`

	// Observability: none, honeycomb, grafana
	OTelMode  string `env:"OTEL_MODE,default=none"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load reads the process environment
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from any lookuper, tests use a map
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.DatasetFile != "" {
		ds, err := LoadDatasetFileName(cfg.DatasetFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset file: %w", err)
		}
		cfg.applyDataset(ds)
	}

	return &cfg, nil
}

// Layout is the canvas described by the config
func (c *Config) Layout() Layout {
	return Layout{Width: c.ChartWidth, Height: c.ChartHeight, Margin: c.ChartMargin}
}

// DatasetFile describes a pair of recordings on disk or on the network.
// Any field left empty keeps the environment value.
type DatasetFile struct {
	Name        string `json:"name"`
	Estrus      string `json:"estrus"`
	NonEstrus   string `json:"nonEstrus"`
	ActivityKey string `json:"activityKey"`
}

func (c *Config) applyDataset(ds *DatasetFile) {
	if ds.Estrus != "" {
		c.EstrusSource = ds.Estrus
	}
	if ds.NonEstrus != "" {
		c.NonEstrusSource = ds.NonEstrus
	}
	if ds.ActivityKey != "" {
		c.ActivityKey = ds.ActivityKey
	}
	slog.Info("Dataset file applied",
		slog.String("name", ds.Name),
		slog.String("estrus", c.EstrusSource),
		slog.String("nonEstrus", c.NonEstrusSource))
}

// LoadDatasetFileName pulls a given filename config off local disk
// Validation is performed on the file before decoding
func LoadDatasetFileName(filename string) (*DatasetFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadDataset(file)
}

func validateLoad(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

// LoadDataset decodes a dataset description, unknown fields are rejected
func LoadDataset(file *os.File) (*DatasetFile, error) {
	var ds DatasetFile
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ds); err != nil {
		slog.Error("could not decode file")
		return nil, err
	}

	if ds.Estrus == "" && ds.NonEstrus == "" {
		return nil, errors.New("dataset names no sources")
	}

	return &ds, nil
}
