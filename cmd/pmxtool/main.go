// pmxtool is a CLI utility for inspecting and converting PMX model files.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Faultbox/pmxkit/internal/checksum"
	"github.com/Faultbox/pmxkit/internal/config"
	"github.com/Faultbox/pmxkit/internal/container"
	"github.com/Faultbox/pmxkit/internal/logger"
	"github.com/Faultbox/pmxkit/internal/report"
	"github.com/Faultbox/pmxkit/pkg/encoding"
	"github.com/Faultbox/pmxkit/pkg/pmx"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
	errMismatch       = errors.New("round trip mismatch")
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout)
	logger.Sync()

	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
	case errors.Is(err, errUnknownCommand):
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, stdout io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, stdout)
	case "verify":
		return cmdVerify(args, stdout)
	case "convert", "conv":
		return cmdConvert(args, stdout)
	case "dump":
		return cmdDump(args, stdout)
	case "config":
		return cmdConfig(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pmxtool - PMX model file utility

Usage:
  pmxtool <command> [options]

Commands:
  info <file>...                 Show version, settings, names and section counts
  verify <file>...               Decode, re-encode and compare BLAKE3 digests
  convert <in> <out>             Re-encode a model
      --encoding keep|utf8|utf16le
      --widths keep|minimal
      --compression auto|none|zstd|lz4
  dump <file>                    Print a structural summary
      --format text|yaml|cbor
  config                         Print the effective configuration
      --write                    Save it to the user config directory

Global options:
  --config <path>    Config file (.yaml, .json or .jsonc)
  --debug            Enable debug logging
  --log-file <path>  Also write logs to a rotated file
  --no-validate      Skip reference validation after decoding
  --check-widths     Reject index widths far from the minimal width
  --width-slack <n>  Width steps tolerated by --check-widths

Files ending in .zst or .lz4 are written compressed; compressed input is
detected automatically.

Examples:
  pmxtool info miku.pmx
  pmxtool verify models/*.pmx
  pmxtool convert miku.pmx miku.pmx.zst --encoding utf8 --widths minimal
  pmxtool dump miku.pmx --format yaml`)
}

// setup parses the command's flags, loads the configuration and initializes
// logging. extra registers command-specific flags.
func setup(name string, args []string, extra func(*config.Flags)) (*config.Config, *pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags := config.NewFlags(fs)
	if extra != nil {
		extra(flags)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, fs, nil
}

func newDecoder(cfg *config.Config) *pmx.Decoder {
	return &pmx.Decoder{
		SkipValidation: !cfg.Codec.Validate,
		CheckWidths:    cfg.Codec.CheckWidths,
		WidthSlack:     cfg.Codec.WidthSlack,
		Logger:         logger.Named("pmx"),
	}
}

func newEncoder() *pmx.Encoder {
	return &pmx.Encoder{Logger: logger.Named("pmx")}
}

// loaded is a decoded model together with the raw document bytes.
type loaded struct {
	path        string
	raw         []byte
	compression container.Compression
	model       *pmx.Model
}

func load(path string, cfg *config.Config) (*loaded, error) {
	raw, c, err := container.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("read model file",
		zap.String("path", path),
		zap.Stringer("container", c),
		zap.Int("size", len(raw)))

	m, err := newDecoder(cfg).Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &loaded{path: path, raw: raw, compression: c, model: m}, nil
}

func (l *loaded) summary() *report.Summary {
	s := report.New(l.model)
	s.File = l.path
	s.Compression = l.compression.String()
	s.Size = int64(len(l.raw))
	s.Digest = checksum.Sum(l.raw).String()
	return s
}

func cmdInfo(args []string, stdout io.Writer) error {
	cfg, fs, err := setup("info", args, nil)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: pmxtool info <file>...", errUsage)
	}

	for i, path := range fs.Args() {
		l, err := load(path, cfg)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := report.Write(stdout, l.summary().Brief(), report.Text); err != nil {
			return err
		}
	}
	return nil
}

func cmdVerify(args []string, stdout io.Writer) error {
	cfg, fs, err := setup("verify", args, nil)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: pmxtool verify <file>...", errUsage)
	}

	failed := 0
	for _, path := range fs.Args() {
		l, err := load(path, cfg)
		if err != nil {
			return err
		}
		out, err := newEncoder().Marshal(l.model)
		if err != nil {
			return fmt.Errorf("%s: re-encoding: %w", path, err)
		}

		in, re := checksum.Sum(l.raw), checksum.Sum(out)
		if in == re {
			fmt.Fprintf(stdout, "OK        %s  %s\n", in.Short(), path)
			continue
		}
		failed++
		logger.Error("round trip mismatch",
			zap.String("path", path),
			zap.String("input", in.String()),
			zap.String("output", re.String()),
			zap.Int("input_size", len(l.raw)),
			zap.Int("output_size", len(out)))
		fmt.Fprintf(stdout, "MISMATCH  %s  %s (re-encoded %s)\n", in.Short(), path, re.Short())
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errMismatch, failed, fs.NArg())
	}
	return nil
}

func cmdConvert(args []string, stdout io.Writer) error {
	cfg, fs, err := setup("convert", args, (*config.Flags).AddConvertFlags)
	if err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: pmxtool convert <in> <out> [options]", errUsage)
	}
	inPath, outPath := fs.Arg(0), fs.Arg(1)

	l, err := load(inPath, cfg)
	if err != nil {
		return err
	}
	m := l.model

	enc := m.Settings.Encoding
	if cfg.Output.Encoding != "keep" {
		if enc, err = encoding.ParseEncoding(cfg.Output.Encoding); err != nil {
			return err
		}
	}
	switch cfg.Output.Widths {
	case "minimal":
		m.Settings = m.MinimalSettings(enc)
	default:
		m.Settings.Encoding = enc
	}

	c := container.FromPath(outPath)
	if cfg.Output.Compression != "auto" {
		if c, err = container.Parse(cfg.Output.Compression); err != nil {
			return err
		}
	}

	data, err := newEncoder().Marshal(m)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if ext := c.Extension(); !strings.HasSuffix(strings.ToLower(outPath), ext) {
		logger.Warn("output name does not carry the container extension",
			zap.String("out", outPath),
			zap.Stringer("container", c),
			zap.String("extension", ext))
	}
	if err := container.WriteFile(outPath, data, c); err != nil {
		return err
	}

	logger.Info("converted model",
		zap.String("in", inPath),
		zap.String("out", outPath),
		zap.Stringer("encoding", enc),
		zap.Stringer("container", c),
		zap.String("digest", checksum.Sum(data).Short()))
	fmt.Fprintf(stdout, "Wrote %s (%d bytes, %s, %s)\n", outPath, len(data), enc, c)
	return nil
}

func cmdDump(args []string, stdout io.Writer) error {
	cfg, fs, err := setup("dump", args, (*config.Flags).AddDumpFlags)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: pmxtool dump <file> [--format text|yaml|cbor]", errUsage)
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	l, err := load(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	return report.Write(stdout, l.summary(), format)
}

func cmdConfig(args []string, stdout io.Writer) error {
	var (
		flags *config.Flags
		write bool
	)
	cfg, _, err := setup("config", args, func(f *config.Flags) {
		flags = f
		f.AddConvertFlags()
		f.AddDumpFlags()
		f.FlagSet().BoolVar(&write, "write", false, "Save the effective configuration")
	})
	if err != nil {
		return err
	}

	if write {
		path := flags.ConfigPath()
		if path == "" {
			path, err = cfg.Save()
		} else {
			err = cfg.SaveTo(path)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved config to %s\n", path)
		return nil
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
