package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geomap.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
log_level   = "debug"
width_scale = 2.5

palette {
  color_id = 3
  hex      = "#FF8800"
}

layer "roads" {
  path  = "roads.gl"
  layer = 1
}

layer "rivers" {
  path    = "rivers.gl"
  visible = false
}

polygon "park" {
  path = "park.geojson"
  fill = 2
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	hidden := false
	fill := 2
	want := &Config{
		LogLevel:   "debug",
		LogFormat:  "text",
		WidthScale: 2.5,
		Background: "#0B0F14",
		Palette:    []PaletteEntry{{ColorID: 3, Hex: "#FF8800"}},
		Layers: []Layer{
			{Name: "roads", Path: "roads.gl", Layer: 1},
			{Name: "rivers", Path: "rivers.gl", Visible: &hidden},
		},
		Polygons: []Polygon{{Name: "park", Path: "park.geojson", Fill: &fill}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, cfg.Layers[0].IsVisible())
	assert.False(t, cfg.Layers[1].IsVisible())

	overrides := cfg.PaletteOverrides()
	require.Contains(t, overrides, int32(3))
	assert.Equal(t, "#ff8800", overrides[3].Hex())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `log_level = `, "failed to parse"},
		{"unknown attribute", `zoom = 3`, "failed to decode"},
		{"wrong type", `width_scale = "wide"`, "failed to decode"},
		{"bad level", `log_level = "loud"`, "log_level"},
		{"bad scale", `width_scale = 0`, "width_scale"},
		{"bad background", `background = "navy"`, "background"},
		{"bad palette", "palette {\n  color_id = 1\n  hex = \"#12\"\n}", "palette color_id 1"},
		{"layer without path", "layer \"x\" {\n  path = \"\"\n}", "path is empty"},
		{"bad format", `format = "shp"`, "format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.LogFormat = "xml"
	cfg.WidthScale = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
	assert.Contains(t, err.Error(), "width_scale")
}
