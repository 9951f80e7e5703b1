package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Catalog CatalogConfig     `yaml:"catalog"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Catalog.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// StaticDir, when set, is served at / for the page shell and its assets.
	StaticDir string `yaml:"static_dir"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port         int      `yaml:"port"`
	CORSOrigins  []string `yaml:"cors_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MaxBodyBytes, validation.Min(int64(0))),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CatalogConfig holds catalog behaviour settings.
//
// CategoriesFile is the YAML seed for the fixed category list. When
// WatchCategories is set the file is re-applied on every change.
type CatalogConfig struct {
	CategoriesFile  string `yaml:"categories_file"`
	WatchCategories bool   `yaml:"watch_categories"`
	DefaultLimit    int    `yaml:"default_limit"`
	MaxLimit        int    `yaml:"max_limit"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DefaultLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxLimit, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("catalog: max_limit %d is below default_limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.WatchCategories && c.CategoriesFile == "" {
		return fmt.Errorf("catalog: watch_categories requires categories_file")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:         8080,
				CORSOrigins:  []string{"*"},
				MaxBodyBytes: 1 << 20,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./hoken.db",
		},
		Catalog: CatalogConfig{
			CategoriesFile: "config/categories.yaml",
			DefaultLimit:   20,
			MaxLimit:       100,
		},
	}
}
