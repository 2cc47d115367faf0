package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
// It is built once at process start and passed to every component.
type Config struct {
	// Paths
	ProjectRoot  string `env:"PROJECT_ROOT"`
	InputDir     string `env:"INPUT_DIR" env-default:"data/aligned"`
	OutputPath   string `env:"OUTPUT_PATH" env-default:"data/processed/imitation_cleaned.tsv"`
	InputPattern string `env:"INPUT_PATTERN" env-default:"book%d_aligned.tsv"`

	// Transform settings
	StrictRows   bool   `env:"STRICT_ROWS" env-default:"false"`
	VerifyOutput bool   `env:"VERIFY_OUTPUT" env-default:"true"`
	SourceLang   string `env:"SOURCE_LANG" env-default:"latin"`
	TargetLang   string `env:"TARGET_LANG" env-default:"english"`

	SQL      SQLExportConfig
	Template TemplateConfig

	// Logging
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

var langPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// LoadConfig loads configuration from environment variables.
// envFile names a dotenv file to load first; when empty, a ./.env file is
// loaded if present.
func LoadConfig(envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// ResolvePaths makes every relative path absolute against ProjectRoot.
// An empty ProjectRoot means the current working directory.
func (c *Config) ResolvePaths() error {
	root := c.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}
	c.ProjectRoot = root

	c.InputDir = c.resolve(c.InputDir)
	c.OutputPath = c.resolve(c.OutputPath)
	c.Template.RawFile = c.resolve(c.Template.RawFile)
	c.Template.OutputFile = c.resolve(c.Template.OutputFile)
	if c.SQL.ScriptPath != "" {
		c.SQL.ScriptPath = c.resolve(c.SQL.ScriptPath)
	}

	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return errors.New("input directory is required")
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("output path is required")
	}

	if strings.Count(c.InputPattern, "%d") != 1 || strings.Count(c.InputPattern, "%") != 1 {
		return fmt.Errorf("input pattern %q must contain exactly one %%d verb", c.InputPattern)
	}

	if strings.ContainsRune(c.InputPattern, filepath.Separator) {
		return fmt.Errorf("input pattern %q must be a file name, not a path", c.InputPattern)
	}

	if !langPattern.MatchString(c.SourceLang) {
		return fmt.Errorf("source language %q must be a lower-case identifier", c.SourceLang)
	}

	if !langPattern.MatchString(c.TargetLang) {
		return fmt.Errorf("target language %q must be a lower-case identifier", c.TargetLang)
	}

	if c.SourceLang == c.TargetLang {
		return errors.New("source and target languages must differ")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q (expected json or console)", c.LogFormat)
	}

	if err := c.SQL.Validate(); err != nil {
		return err
	}

	return nil
}
