package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the ranking tunables.
const (
	EnvFileMatches     = "QUESTIONS_FILE_MATCHES"
	EnvSentenceMatches = "QUESTIONS_SENTENCE_MATCHES"
)

// UI modes.
const (
	UIModeAuto  = "auto"
	UIModeTUI   = "tui"
	UIModePlain = "plain"
)

// RankingConfig holds how many files and sentences each phase keeps.
type RankingConfig struct {
	FileMatches     int `yaml:"file_matches"`
	SentenceMatches int `yaml:"sentence_matches"`
}

// LanguageConfig selects the stopword profile used by the normalizer.
type LanguageConfig struct {
	Name          string `yaml:"name"`
	Tag           string `yaml:"tag"`
	StopwordsFile string `yaml:"stopwords_file,omitempty"`
}

// CorpusConfig controls which files of the corpus directory are read.
type CorpusConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
}

// EngineConfig tunes the ranking engine.
type EngineConfig struct {
	Workers int `yaml:"workers"`
}

// UIConfig selects the interactive surface.
type UIConfig struct {
	Mode string `yaml:"mode"`
}

// LogConfig sets the diagnostic log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Ranking  RankingConfig  `yaml:"ranking"`
	Language LanguageConfig `yaml:"language"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Engine   EngineConfig   `yaml:"engine"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/questions/config.yaml.
// If neither exists, it writes defaults to ~/.config/questions/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides the ranking tunables from the environment. lookup is
// normally os.LookupEnv.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, o := range []struct {
		key string
		dst *int
	}{
		{EnvFileMatches, &c.Ranking.FileMatches},
		{EnvSentenceMatches, &c.Ranking.SentenceMatches},
	} {
		v, ok := lookup(o.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", o.key, err)
		}
		*o.dst = n
	}
	return nil
}

// Validate reports settings the application cannot run with.
func (c *AppConfig) Validate() error {
	if c.Ranking.FileMatches < 1 {
		return fmt.Errorf("ranking.file_matches must be positive, got %d", c.Ranking.FileMatches)
	}
	if c.Ranking.SentenceMatches < 1 {
		return fmt.Errorf("ranking.sentence_matches must be positive, got %d", c.Ranking.SentenceMatches)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	switch c.UI.Mode {
	case UIModeAuto, UIModeTUI, UIModePlain:
	default:
		return fmt.Errorf("unknown ui.mode %q", c.UI.Mode)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "questions", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Ranking:  RankingConfig{FileMatches: 1, SentenceMatches: 1},
		Language: LanguageConfig{Name: "english", Tag: "en"},
		Engine:   EngineConfig{Workers: 4},
		UI:       UIConfig{Mode: UIModeAuto},
		Log:      LogConfig{Level: "warn"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Ranking.FileMatches == 0 {
		cfg.Ranking.FileMatches = def.Ranking.FileMatches
	}
	if cfg.Ranking.SentenceMatches == 0 {
		cfg.Ranking.SentenceMatches = def.Ranking.SentenceMatches
	}
	if cfg.Language.Name == "" {
		cfg.Language.Name = def.Language.Name
	}
	if cfg.Language.Tag == "" {
		cfg.Language.Tag = def.Language.Tag
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = def.Engine.Workers
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = def.UI.Mode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
