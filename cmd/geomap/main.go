package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"

	"geomesh/internal/cli"
	"geomesh/internal/config"
	"geomesh/internal/ctxlog"
	"geomesh/internal/loader"
	"geomesh/internal/render"
	"geomesh/internal/tui"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, loads the scene and either writes a snapshot or starts
// the viewer.
func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cfg := config.Defaults()
	if opts.ConfigPath != "" {
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return &cli.ExitError{Code: 2, Message: err.Error()}
		}
	}
	if err := opts.Apply(cfg); err != nil {
		return err
	}

	logW, closeLog, err := logOutput(cfg.LogFile, opts.Snapshot != "")
	if err != nil {
		return err
	}
	defer closeLog()
	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, logW)
	gg.SetLogger(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	scene, err := loader.Load(ctx, cfg, opts.Paths...)
	if err != nil {
		return err
	}

	if opts.Snapshot != "" {
		return snapshot(ctx, scene, cfg, opts)
	}

	p := tea.NewProgram(tui.New(ctx, cfg, scene), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// logOutput picks the log destination. The viewer owns the terminal, so it
// only logs to a file.
func logOutput(path string, snapshot bool) (io.Writer, func(), error) {
	if path == "" {
		if snapshot {
			return os.Stderr, func() {}, nil
		}
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func snapshot(ctx context.Context, s *loader.Scene, cfg *config.Config, opts *cli.Options) error {
	logger := ctxlog.FromContext(ctx)
	f, err := os.Create(opts.Snapshot)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	err = render.Snapshot(f, s, render.SnapshotOptions{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: cfg.Background,
		Scale:      cfg.WidthScale,
		Palette:    render.NewPalette(cfg.PaletteOverrides()),
		Layers:     render.AllLayers,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", opts.Snapshot, err)
	}
	logger.Info("Snapshot written.", slog.String("path", opts.Snapshot), slog.Int("width", opts.Width), slog.Int("height", opts.Height))
	return nil
}
