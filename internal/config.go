package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/assetkit/internal/pattern"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var suffixRe = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Fixer   FixerConfig       `yaml:"fixer"`
	Renamer RenamerConfig     `yaml:"renamer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Fixer.Validate(); err != nil {
		return err
	}
	return c.Renamer.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level" env:"APP_LOG_LEVEL"`
	LogFormat string     `yaml:"log_format" env:"APP_LOG_FORMAT"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// FixerConfig describes where image references live in the character file.
//
// Mapping replaces the built-in image table when non-empty.
type FixerConfig struct {
	ListField string            `yaml:"list_field" env:"FIXER_LIST_FIELD"`
	NameField string            `yaml:"name_field" env:"FIXER_NAME_FIELD"`
	Fields    []string          `yaml:"fields" env:"FIXER_FIELDS"`
	Mapping   map[string]string `yaml:"mapping"`
}

// Validate validates the fixer configuration.
func (c *FixerConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ListField, validation.Required),
		validation.Field(&c.NameField, validation.Required),
		validation.Field(&c.Fields, validation.Required, validation.Each(validation.Required)),
	); err != nil {
		return err
	}
	for from, to := range c.Mapping {
		if from == "" || to == "" {
			return fmt.Errorf("fixer: mapping entries must be non-empty, got %q → %q", from, to)
		}
	}
	return nil
}

// RenamerConfig holds the asset catalog layout and reference rewrite rules.
type RenamerConfig struct {
	BundleSuffix     string   `yaml:"bundle_suffix" env:"RENAMER_BUNDLE_SUFFIX"`
	ExcludeSuffixes  []string `yaml:"exclude_suffixes" env:"RENAMER_EXCLUDE_SUFFIXES"`
	SourceExtensions []string `yaml:"source_extensions" env:"RENAMER_SOURCE_EXTENSIONS"`
	SkipDirs         []string `yaml:"skip_dirs" env:"RENAMER_SKIP_DIRS"`
	Patterns         []string `yaml:"patterns"`
	ReportDir        string   `yaml:"report_dir" env:"RENAMER_REPORT_DIR"`
}

// Validate validates the renamer configuration.
func (c *RenamerConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BundleSuffix, validation.Required, validation.Match(suffixRe)),
		validation.Field(&c.ExcludeSuffixes, validation.Each(validation.Match(suffixRe))),
		validation.Field(&c.SourceExtensions, validation.Required, validation.Each(validation.Match(suffixRe))),
		validation.Field(&c.SkipDirs, validation.Each(validation.Required)),
		validation.Field(&c.Patterns, validation.Required, validation.Each(validation.By(validTemplate))),
		validation.Field(&c.ReportDir, validation.Required),
	); err != nil {
		return err
	}
	if slices.Contains(c.ExcludeSuffixes, c.BundleSuffix) {
		return fmt.Errorf("renamer: bundle suffix %q is also excluded", c.BundleSuffix)
	}
	return nil
}

func validTemplate(value interface{}) error {
	s, _ := value.(string)
	_, err := pattern.Parse(s)
	return err
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelWarn,
			LogFormat: LogFormatJSON,
		},
		Fixer: FixerConfig{
			ListField: "alien_characters",
			NameField: "name",
			Fields:    []string{"photo", "bigBg"},
		},
		Renamer: RenamerConfig{
			BundleSuffix:     ".imageset",
			ExcludeSuffixes:  []string{".colorset"},
			SourceExtensions: []string{".m", ".swift"},
			SkipDirs:         []string{"Pods"},
			Patterns:         slices.Clone(pattern.DefaultTemplates),
			ReportDir:        ".",
		},
	}
}
