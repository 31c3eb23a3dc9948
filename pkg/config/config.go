// Package config holds the stepper settings and reads them from TOML files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the stepper configuration. Keys in the TOML file are the field
// names.
type Config struct {
	// MaxSteps bounds run and show; zero or less means no bound.
	MaxSteps int

	// ViewCacheSize is the number of rendered views a session keeps.
	ViewCacheSize int

	// Color is one of auto, always or never.
	Color string

	// LogLevel is a zerolog level name.
	LogLevel string

	// HistoryFile stores the interactive prompt history. Empty disables it.
	HistoryFile string `toml:",omitempty"`
}

// Defaults are the settings used when no file or flag says otherwise.
var Defaults = Config{
	MaxSteps:      10000,
	ViewCacheSize: 128,
	Color:         ColorAuto,
	LogLevel:      "warn",
}

// Keys are the Go field names.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load reads file over cfg. Fields missing from the file keep their value.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid Color %q, want %s, %s or %s", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.ViewCacheSize <= 0 {
		return fmt.Errorf("ViewCacheSize must be positive, got %d", c.ViewCacheSize)
	}
	return nil
}

// Dump encodes cfg as TOML.
func Dump(cfg Config) ([]byte, error) {
	return tomlSettings.Marshal(&cfg)
}
