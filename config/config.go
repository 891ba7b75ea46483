package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once from the environment.
// The catalog comes from either a newline-delimited file or a Postgres
// categories table; exactly one source must be configured.
type Config struct {
	Addr              string
	AllowedOrigins    []string
	CategoriesFile    string
	PostgresURL       string
	ClassifierURL     string
	ClassifierTimeout time.Duration
	Debug             bool
}

func Load() (Config, error) {
	cfg := Config{
		Addr:              getenv("ADDR", ":3000"),
		CategoriesFile:    os.Getenv("CATEGORIES_FILE"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		ClassifierURL:     os.Getenv("CLASSIFIER_URL"),
		ClassifierTimeout: 15 * time.Second,
		Debug:             os.Getenv("DEBUG") == "true",
	}

	origins, ok := os.LookupEnv("ALLOWED_ORIGINS")
	if !ok {
		return Config{}, errors.New("missing ALLOWED_ORIGINS")
	}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.ClassifierURL == "" {
		return Config{}, errors.New("missing CLASSIFIER_URL")
	}
	if cfg.CategoriesFile == "" && cfg.PostgresURL == "" {
		return Config{}, errors.New("missing catalog source: set CATEGORIES_FILE or POSTGRES_URL")
	}

	if raw := os.Getenv("CLASSIFIER_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return Config{}, errors.New("invalid CLASSIFIER_TIMEOUT_SECONDS")
		}
		cfg.ClassifierTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
