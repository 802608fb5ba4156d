package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"geomesh/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the result of parsing the command line.
type Options struct {
	ConfigPath string
	Paths      []string

	// Snapshot is the PNG output path; empty starts the interactive viewer.
	Snapshot string
	Width    int
	Height   int

	LogLevel   string
	LogFormat  string
	LogFile    string
	Format     string
	WidthScale float64
	Background string

	// set records which flags were given explicitly.
	set map[string]bool
}

// Apply overlays explicitly given flags on cfg and validates the result.
func (o *Options) Apply(cfg *config.Config) error {
	if o.set["log-level"] {
		cfg.LogLevel = o.LogLevel
	}
	if o.set["log-format"] {
		cfg.LogFormat = o.LogFormat
	}
	if o.set["log-file"] {
		cfg.LogFile = o.LogFile
	}
	if o.set["f"] {
		cfg.Format = o.Format
	}
	if o.set["scale"] {
		cfg.WidthScale = o.WidthScale
	}
	if o.set["bg"] {
		cfg.Background = o.Background
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return nil
}

// Parse processes command-line arguments. It returns the parsed options, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("geomap", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
geomap - colored line graphs and triangulated polygons in the terminal.

Usage:
  geomap [options] [FILE...]

Arguments:
  FILE
    .gl line graph, .sg triangle graph, or a polygon file
    (.geojson, .json, .kml, .csv, .wkt).

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := config.Defaults()
	opts := &Options{set: map[string]bool{}}
	flagSet.StringVar(&opts.ConfigPath, "config", "", "Path to an HCL configuration file.")
	flagSet.StringVar(&opts.Format, "f", "", "Force the file format of every FILE: 'gl', 'sg' or 'poly'.")
	flagSet.Float64Var(&opts.WidthScale, "scale", defaults.WidthScale, "Multiplier applied to edge widths.")
	flagSet.StringVar(&opts.LogLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&opts.LogFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file. The viewer discards logs when empty.")
	flagSet.StringVar(&opts.Snapshot, "snapshot", "", "Render the scene to this PNG file and exit.")
	size := flagSet.String("size", "1280x720", "Snapshot size in pixels, WIDTHxHEIGHT.")
	flagSet.StringVar(&opts.Background, "bg", defaults.Background, "Background color, #RRGGBB.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	flagSet.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.Paths = flagSet.Args()

	w, h, err := parseSize(*size)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid size: " + err.Error()}
	}
	opts.Width, opts.Height = w, h

	if opts.Snapshot != "" && len(opts.Paths) == 0 && opts.ConfigPath == "" {
		return nil, false, &ExitError{Code: 2, Message: "snapshot needs at least one FILE or a -config with layers"}
	}
	return opts, false, nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q: expected WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	if w <= 0 || h <= 0 || w > 16384 || h > 16384 {
		return 0, 0, fmt.Errorf("%q: out of range", s)
	}
	return w, h, nil
}
