// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/secfield"
)

// ConfigFileName is the config file looked up in the data directory.
const ConfigFileName = "secfield.yaml"

// DefaultMaskRune is drawn once per secret character by terminal hosts.
const DefaultMaskRune = "•"

// CodePoint is a rune written in config files as "U+F0000" or "0xF0000".
type CodePoint rune

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CodePoint) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "U+"):
		s = s[2:]
	case strings.HasPrefix(upper, "0X"):
		s = s[2:]
	default:
		return fmt.Errorf("line %d: code point %q must start with U+ or 0x", value.Line, value.Value)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid code point %q: %w", value.Line, value.Value, err)
	}
	*c = CodePoint(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c CodePoint) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c CodePoint) String() string {
	return fmt.Sprintf("U+%04X", rune(c))
}

// Config holds secure field settings. Every field instance copies them at
// creation; later changes only affect new fields.
type Config struct {
	MaxLength  int              `yaml:"max_length" description:"Secret capacity in code points" default:"1024"`
	RangeStart CodePoint        `yaml:"range_start" description:"First code point of the reserved placeholder range" default:"U+F0000"`
	RangeEnd   CodePoint        `yaml:"range_end" description:"Exclusive end of the reserved placeholder range" default:"U+FFFFE"`
	MaskRune   string           `yaml:"mask_rune" description:"Character terminal hosts draw for each secret position" default:"•"`
	KDF        crypto.KDFParams `yaml:"kdf" description:"Argon2id parameters used when deriving keys from the secret"`
}

// DefaultConfig returns the default configuration for runtime use.
func DefaultConfig() Config {
	return Config{
		MaxLength:  secfield.DefaultMaxLength,
		RangeStart: CodePoint(secfield.DefaultRangeStart),
		RangeEnd:   CodePoint(secfield.DefaultRangeEnd),
		MaskRune:   DefaultMaskRune,
		KDF:        crypto.DefaultKDFParams(),
	}
}

// Validate checks the placeholder range, the mask rune and the KDF parameters.
func (c Config) Validate() error {
	if err := secfield.ValidateRange(rune(c.RangeStart), rune(c.RangeEnd), c.MaxLength); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.MaskRune) != 1 {
		return fmt.Errorf("mask_rune must be a single character, got %q", c.MaskRune)
	}
	if err := c.KDF.Validate(); err != nil {
		return fmt.Errorf("invalid kdf block: %w", err)
	}
	return nil
}

// Mask returns the configured mask rune.
func (c Config) Mask() rune {
	r, _ := utf8.DecodeRuneInString(c.MaskRune)
	return r
}

// FieldOptions converts the config into secfield options.
func (c Config) FieldOptions() []secfield.Option {
	return []secfield.Option{
		secfield.WithMaxLength(c.MaxLength),
		secfield.WithPlaceholderRange(rune(c.RangeStart), rune(c.RangeEnd)),
	}
}

// DefaultDataDir is the default data directory
const DefaultDataDir = "~/.secfield"

// GetDataDir returns the data directory.
// Resolution order: -d flag > SECFIELD_DATA env var > ~/.secfield
func GetDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDir := os.Getenv("SECFIELD_DATA"); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".secfield")
}

// GetConfigPath returns the path to the config file in the data directory.
// Returns empty string if dataDir is empty.
func GetConfigPath(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, ConfigFileName)
}

// LoadConfig loads configuration from secfield.yaml in the data directory.
func LoadConfig(dataDir string) (Config, error) {
	return LoadConfigFromPath(GetConfigPath(dataDir))
}

// LoadConfigFromPath loads configuration from the specified path.
// If path is empty or the file doesn't exist, returns default config.
func LoadConfigFromPath(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay config file values
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}
