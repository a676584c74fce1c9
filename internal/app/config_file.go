package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file YAML configuration schema. Credentials may
// also come from the environment (or a .env file), which takes precedence
// over the YAML values.
type FileConfig struct {
	Interests string `yaml:"interests"`

	Research struct {
		LookbackDays       int      `yaml:"lookback_days"`
		MaxRawPapers       int      `yaml:"max_raw_papers"`
		MaxSelectedPapers  int      `yaml:"max_selected_papers"`
		Categories         []string `yaml:"categories"`
		RequireProjectLink bool     `yaml:"require_project_link"`
		MaxFigures         int      `yaml:"max_figures"`
	} `yaml:"research"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		Key     string `yaml:"key"`
	} `yaml:"llm"`

	Keys struct {
		XBearer string `yaml:"x_bearer"`
	} `yaml:"keys"`

	Output struct {
		RootDir        string `yaml:"root_dir"`
		FilenamePrefix string `yaml:"filename_prefix"`
		PDF            bool   `yaml:"pdf"`
	} `yaml:"output"`
}

// LoadConfig reads the YAML file, layers environment credentials on top and
// applies defaults. Validation is eager: a missing model credential is a
// startup error, caught before any remote call.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Best-effort .env; absence is fine.
	_ = godotenv.Load()

	cfg := Config{
		Interests:          fc.Interests,
		Categories:         fc.Research.Categories,
		LookbackDays:       fc.Research.LookbackDays,
		MaxRawPapers:       fc.Research.MaxRawPapers,
		MaxSelectedPapers:  fc.Research.MaxSelectedPapers,
		RequireProjectLink: fc.Research.RequireProjectLink,
		MaxFigures:         fc.Research.MaxFigures,
		LLMBaseURL:         fc.LLM.BaseURL,
		LLMModel:           fc.LLM.Model,
		LLMAPIKey:          firstNonEmpty(os.Getenv("LLM_API_KEY"), fc.LLM.Key),
		XBearerToken:       firstNonEmpty(os.Getenv("X_BEARER_TOKEN"), fc.Keys.XBearer),
		OutputRoot:         fc.Output.RootDir,
		FilenamePrefix:     fc.Output.FilenamePrefix,
		PDF:                fc.Output.PDF,
	}

	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	if cfg.MaxRawPapers <= 0 {
		cfg.MaxRawPapers = 200
	}
	if cfg.MaxSelectedPapers <= 0 {
		cfg.MaxSelectedPapers = 20
	}
	if cfg.MaxFigures <= 0 {
		cfg.MaxFigures = 3
	}
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = "./reports"
	}
	if cfg.FilenamePrefix == "" {
		cfg.FilenamePrefix = "pulse"
	}

	if cfg.LLMAPIKey == "" {
		return Config{}, errors.New("LLM API key is missing: set llm.key or LLM_API_KEY")
	}
	if cfg.LLMModel == "" {
		return Config{}, errors.New("llm.model is required")
	}
	if len(cfg.Categories) == 0 {
		return Config{}, errors.New("research.categories is required")
	}
	return cfg, nil
}

// ResolveReportDate turns the optional -date flag into the report's target
// timestamp: end of the given day in UTC. Without an override the report
// targets three days ago, leaving room for submission indexing delays on
// the feed side.
func ResolveReportDate(flagDate string, now time.Time) (time.Time, error) {
	day := now.UTC().AddDate(0, 0, -3)
	if flagDate != "" {
		parsed, err := time.Parse("2006-01-02", flagDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", flagDate)
		}
		day = parsed
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC), nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
