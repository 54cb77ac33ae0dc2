package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/gemini"
	"github.com/fwojciec/briefly/openai"
	"gopkg.in/yaml.v3"
)

// Default values used when neither flags, environment nor the config file
// set an option.
const (
	defaultProvider = "gemini"
	defaultEngine   = "readability"
	defaultAddr     = "127.0.0.1:8765"
	defaultTimeout  = 15 * time.Second
	defaultRate     = 1.0
	defaultRender   = "auto"
)

// FileConfig is the schema of the optional YAML config file.
type FileConfig struct {
	DB string `yaml:"db"`

	Extract struct {
		Engine            string        `yaml:"engine"`
		Strategy          string        `yaml:"strategy"`
		CharThreshold     int           `yaml:"charThreshold"`
		WordThreshold     *int          `yaml:"wordThreshold"`
		NbTopCandidates   int           `yaml:"nbTopCandidates"`
		KeepClasses       bool          `yaml:"keepClasses"`
		ClassesToPreserve []string      `yaml:"classesToPreserve"`
		MinChars          int           `yaml:"minChars"`
		MinWords          int           `yaml:"minWords"`
		MaxInputChars     int           `yaml:"maxInputChars"`
		Browser           bool          `yaml:"browser"`
		Render            string        `yaml:"render"`
		Timeout           time.Duration `yaml:"timeout"`
		RatePerDomain     float64       `yaml:"ratePerDomain"`
	} `yaml:"extract"`

	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base"`
		APIKey   string `yaml:"key"`
	} `yaml:"llm"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// LoadConfigFile reads a YAML config file. A missing file yields an empty
// config when optional is true.
func LoadConfigFile(path string, optional bool) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && optional {
		return fc, nil
	} else if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	return fc, nil
}

// Config is the resolved configuration for one run.
type Config struct {
	DBPath string

	Engine        string
	ExtractOpts   briefly.ExtractOptions
	MinChars      int
	MinWords      int
	MaxInputChars int

	// Render is when pages are loaded in a browser: auto (when the
	// static page looks rendered by scripts), never or always.
	Render        string
	Timeout       time.Duration
	RatePerDomain float64

	Provider string
	Model    string
	BaseURL  string
	APIKey   string

	Addr string
}

// ResolveConfig merges flags, environment and file config in that order
// of precedence over the built-in defaults. getenv is usually os.Getenv.
func ResolveConfig(cli *CLI, fc FileConfig, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBPath:        firstNonEmpty(cli.DB, fc.DB),
		Engine:        strings.ToLower(firstNonEmpty(cli.Extract.Engine, fc.Extract.Engine, defaultEngine)),
		ExtractOpts:   briefly.DefaultExtractOptions(),
		MinChars:      briefly.DefaultMinChars,
		MinWords:      fc.Extract.MinWords,
		MaxInputChars: briefly.DefaultMaxInputChars,
		Render:        strings.ToLower(firstNonEmpty(cli.Render, fc.Extract.Render, defaultRender)),
		Timeout:       defaultTimeout,
		RatePerDomain: defaultRate,
		Provider:      strings.ToLower(firstNonEmpty(cli.Provider, fc.LLM.Provider, defaultProvider)),
		BaseURL:       firstNonEmpty(getenv("OPENAI_BASE_URL"), fc.LLM.BaseURL),
		Addr:          firstNonEmpty(fc.Server.Addr, defaultAddr),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cli.Browser || fc.Extract.Browser {
		cfg.Render = "always"
	}

	if fc.Extract.Strategy != "" {
		cfg.ExtractOpts.Strategy = briefly.Strategy(fc.Extract.Strategy)
	}
	if fc.Extract.CharThreshold > 0 {
		cfg.ExtractOpts.CharThreshold = fc.Extract.CharThreshold
	}
	if fc.Extract.WordThreshold != nil {
		cfg.ExtractOpts.WordThreshold = *fc.Extract.WordThreshold
	}
	if fc.Extract.NbTopCandidates > 0 {
		cfg.ExtractOpts.NbTopCandidates = fc.Extract.NbTopCandidates
	}
	cfg.ExtractOpts.KeepClasses = fc.Extract.KeepClasses
	cfg.ExtractOpts.ClassesToPreserve = fc.Extract.ClassesToPreserve
	cfg.ExtractOpts.Debug = cli.Verbose
	if err := cfg.ExtractOpts.Validate(); err != nil {
		return nil, err
	}

	if fc.Extract.MinChars > 0 {
		cfg.MinChars = fc.Extract.MinChars
	}
	if fc.Extract.MaxInputChars > 0 {
		cfg.MaxInputChars = fc.Extract.MaxInputChars
	}
	if fc.Extract.Timeout > 0 {
		cfg.Timeout = fc.Extract.Timeout
	}
	if fc.Extract.RatePerDomain > 0 {
		cfg.RatePerDomain = fc.Extract.RatePerDomain
	}

	switch cfg.Provider {
	case "gemini":
		cfg.Model = firstNonEmpty(cli.Model, fc.LLM.Model, gemini.DefaultModel)
		cfg.APIKey = firstKey(getenv("GEMINI_API_KEY"), fc.LLM.APIKey)
	case "openai":
		cfg.Model = firstNonEmpty(cli.Model, fc.LLM.Model, openai.DefaultModel)
		cfg.APIKey = firstKey(getenv("OPENAI_API_KEY"), fc.LLM.APIKey)
	default:
		return nil, briefly.Errorf(briefly.EINVALID, "unknown provider %q (want gemini or openai)", cfg.Provider)
	}

	switch cfg.Engine {
	case "readability", "trafilatura", "go-readability":
	default:
		return nil, briefly.Errorf(briefly.EINVALID, "unknown engine %q (want readability, trafilatura or go-readability)", cfg.Engine)
	}

	switch cfg.Render {
	case "auto", "never", "always":
	default:
		return nil, briefly.Errorf(briefly.EINVALID, "unknown render mode %q (want auto, never or always)", cfg.Render)
	}

	return cfg, nil
}

// IsPlaceholderKey reports whether key is unset or still the sample value
// from the example config, such as "your_gemini_api_key_here".
func IsPlaceholderKey(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || (strings.HasPrefix(key, "your_") && strings.HasSuffix(key, "_here"))
}

func firstKey(keys ...string) string {
	for _, k := range keys {
		if !IsPlaceholderKey(k) {
			return strings.TrimSpace(k)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "briefly.db"
	}
	dir := filepath.Join(home, ".briefly")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "briefly.db")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "briefly.yaml"
	}
	return filepath.Join(home, ".briefly", "config.yaml")
}
