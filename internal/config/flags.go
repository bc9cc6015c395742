package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. A flag overrides the config file only
// when the user set it explicitly.
type Flags struct {
	set *pflag.FlagSet

	configPath  string
	debug       bool
	logFile     string
	noValidate  bool
	checkWidths bool
	widthSlack  int

	encoding    string
	widths      string
	compression string
	format      string
}

// NewFlags registers the flags shared by every command on fs.
func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{set: fs}
	fs.StringVar(&f.configPath, "config", "", "Path to config file (.yaml, .json or .jsonc)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this file (rotated)")
	fs.BoolVar(&f.noValidate, "no-validate", false, "Skip reference validation after decoding")
	fs.BoolVar(&f.checkWidths, "check-widths", false, "Reject index widths far from the minimal width")
	fs.IntVar(&f.widthSlack, "width-slack", 0, "Width steps tolerated by --check-widths")
	return f
}

// AddConvertFlags registers the flags of the convert command.
func (f *Flags) AddConvertFlags() {
	f.set.StringVar(&f.encoding, "encoding", "", "Text encoding: keep, utf8, utf16le")
	f.set.StringVar(&f.widths, "widths", "", "Index widths: keep, minimal")
	f.set.StringVar(&f.compression, "compression", "", "Output container: auto, none, zstd, lz4")
}

// AddDumpFlags registers the flags of the dump command.
func (f *Flags) AddDumpFlags() {
	f.set.StringVar(&f.format, "format", "", "Report format: text, yaml, cbor")
}

// FlagSet returns the underlying flag set for command-specific flags.
func (f *Flags) FlagSet() *pflag.FlagSet {
	return f.set
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	return f.configPath
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil || f.set == nil {
		return
	}
	changed := f.set.Changed

	if changed("debug") && f.debug {
		cfg.Logging.Level = "debug"
	}
	if changed("log-file") {
		cfg.Logging.LogFile = f.logFile
	}
	if changed("no-validate") {
		cfg.Codec.Validate = !f.noValidate
	}
	if changed("check-widths") {
		cfg.Codec.CheckWidths = f.checkWidths
	}
	if changed("width-slack") {
		cfg.Codec.WidthSlack = f.widthSlack
	}
	if changed("encoding") {
		cfg.Output.Encoding = f.encoding
	}
	if changed("widths") {
		cfg.Output.Widths = f.widths
	}
	if changed("compression") {
		cfg.Output.Compression = f.compression
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
}
