// Package config handles pmxtool configuration loading and management.
package config

import (
	"fmt"
	"slices"

	"github.com/Faultbox/pmxkit/internal/logger"
)

// Config holds all pmxtool settings.
type Config struct {
	Codec   CodecConfig   `yaml:"codec" json:"codec"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CodecConfig controls how documents are checked while decoding.
type CodecConfig struct {
	Validate    bool `yaml:"validate" json:"validate"`
	CheckWidths bool `yaml:"check_widths" json:"check_widths"`
	WidthSlack  int  `yaml:"width_slack" json:"width_slack"`
}

// OutputConfig holds defaults for commands that write documents or reports.
type OutputConfig struct {
	Encoding    string `yaml:"encoding" json:"encoding"`       // keep, utf8, utf16le
	Widths      string `yaml:"widths" json:"widths"`           // keep, minimal
	Compression string `yaml:"compression" json:"compression"` // auto, none, zstd, lz4
	Format      string `yaml:"format" json:"format"`           // text, yaml, cbor
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogFile string `yaml:"log_file" json:"log_file"`
}

// Accepted option values.
var (
	Encodings    = []string{"keep", "utf8", "utf16le"}
	WidthModes   = []string{"keep", "minimal"}
	Compressions = []string{"auto", "none", "zstd", "lz4"}
	Formats      = []string{"text", "yaml", "cbor"}
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Validate:    true,
			CheckWidths: false,
			WidthSlack:  2,
		},
		Output: OutputConfig{
			Encoding:    "keep",
			Widths:      "keep",
			Compression: "auto",
			Format:      "text",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects option values no command understands.
func (c *Config) Validate() error {
	if err := oneOf("output.encoding", c.Output.Encoding, Encodings); err != nil {
		return err
	}
	if err := oneOf("output.widths", c.Output.Widths, WidthModes); err != nil {
		return err
	}
	if err := oneOf("output.compression", c.Output.Compression, Compressions); err != nil {
		return err
	}
	if err := oneOf("output.format", c.Output.Format, Formats); err != nil {
		return err
	}
	if c.Codec.WidthSlack < 0 || c.Codec.WidthSlack > 2 {
		return fmt.Errorf("codec.width_slack: %d not in [0, 2]", c.Codec.WidthSlack)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func oneOf(key, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%s: %q is not one of %v", key, value, allowed)
	}
	return nil
}
