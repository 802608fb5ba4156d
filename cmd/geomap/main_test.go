package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"geomesh/internal/cli"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, []string{"--not-a-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined")
}

func TestRun_BadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "geomap.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level = \n"), 0o600))

	err := run(&bytes.Buffer{}, []string{"-config", cfgPath, "-snapshot", filepath.Join(dir, "out.png")})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Contains(t, err.Error(), "failed to parse config file")
}

func TestRun_Snapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	graph := filepath.Join(dir, "roads.gl")
	require.NoError(t, os.WriteFile(graph, []byte("3\n0 0\n0 1\n1 1\n2\n0 1 4 1\n1 2 2 2\n"), 0o600))
	out := filepath.Join(dir, "roads.png")
	logFile := filepath.Join(dir, "geomap.log")

	err := run(&bytes.Buffer{}, []string{"-snapshot", out, "-size", "64x48", "-log-file", logFile, "-log-level", "debug", graph})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 48, img.Bounds().Dy())

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(logs), "Snapshot written.")
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := run(&bytes.Buffer{}, []string{"-snapshot", filepath.Join(dir, "x.png"), "-log-file", filepath.Join(dir, "log"), filepath.Join(dir, "missing.gl")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.gl")
}
