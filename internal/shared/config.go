package shared

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputFolder = "collected_reviews"
	DefaultOutputCSV    = "app_ready_reviews.csv"
	DefaultConfigFile   = "config.yaml"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	PlacesBase      string
	PlacesTimeout   time.Duration
	OutputFolder    string
	OutputCSV       string
	ConfigFile      string
	MetricsTextfile string
}

// FileConfig is the bundled YAML config. Credentials in it take precedence over the
// environment when the pipeline driver resolves them.
type FileConfig struct {
	APIKey       string `yaml:"google_places_api_key"`
	PlaceID      string `yaml:"google_place_id"`
	OutputFolder string `yaml:"output_folder"`
	OutputCSV    string `yaml:"output_csv"`
}

// Load builds the config from defaults, then the YAML file (if present), then env.
func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "dev"),
		LogLevel:        env("LOG_LEVEL", "info"),
		PlacesBase:      env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place/details/json"),
		PlacesTimeout:   time.Duration(atoi("PLACES_TIMEOUT_SECONDS", 30)) * time.Second,
		OutputFolder:    DefaultOutputFolder,
		OutputCSV:       DefaultOutputCSV,
		ConfigFile:      env("PLACES_CONFIG", DefaultConfigFile),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	if fc, err := ReadFileConfig(c.ConfigFile); err != nil {
		log.Warn().Err(err).Str("path", c.ConfigFile).Msg("config file unreadable, using defaults")
	} else {
		if fc.OutputFolder != "" {
			c.OutputFolder = fc.OutputFolder
		}
		if fc.OutputCSV != "" {
			c.OutputCSV = fc.OutputCSV
		}
	}

	c.OutputFolder = env("OUTPUT_FOLDER", c.OutputFolder)
	c.OutputCSV = env("OUTPUT_CSV", c.OutputCSV)
	return c
}

// ReadFileConfig returns a zero FileConfig when path does not exist.
func ReadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
