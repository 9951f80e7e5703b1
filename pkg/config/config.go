// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load reads filename and decodes it into target.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	if err := Decode(data, target); err != nil {
		return fmt.Errorf("config file %s: %w", filename, err)
	}
	return nil
}

// Decode expands ${VAR} references in data, unmarshals the YAML into target
// and runs target's Validate method when it has one.
func Decode[T any](data []byte, target *T) error {
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// LoadOptional loads filename when it exists and leaves target untouched
// otherwise, so that built-in defaults apply. Defaults are still validated.
func LoadOptional[T any](filename string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if validator, ok := any(target).(Validator); ok {
			if err := validator.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		}
		return nil
	}
	return Load(filename, target)
}
