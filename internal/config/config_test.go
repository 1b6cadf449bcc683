package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 128, cfg.Detection.Threshold)
	assert.Equal(t, 5, cfg.Detection.InteriorWallMinThickness)
	assert.Equal(t, 10, cfg.Detection.ExteriorWallMinThickness)
	assert.Equal(t, 50, cfg.Detection.MinLineLength)
	assert.Equal(t, 20, cfg.Detection.MinOpeningWidth)
	assert.Equal(t, 200, cfg.Detection.MaxOpeningWidth)
	assert.Equal(t, 10, cfg.Detection.MinColumnSize)
	assert.Equal(t, 100, cfg.Detection.MaxColumnSize)
	assert.Equal(t, 10000, cfg.Detection.MaxRegionPixels)
	assert.InDelta(t, 2.75, cfg.Quantity.WallHeight, 1e-9)
	assert.InDelta(t, 0.20, cfg.Quantity.SlabThickness, 1e-9)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, 300, cfg.Input.DPI)
	assert.Equal(t, "Bauzeichnung-Analyse", cfg.Export.ProjectName)
	assert.Equal(t, "BauzeichnungAnalyzer", cfg.Export.CreatedBy)
	assert.False(t, cfg.S3.Enabled())

	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aufmass.yaml")
	content := `
detection:
  threshold: 100
  exterior_wall_min_thickness: 12
quantity:
  wall_height: 3.0
export:
  project_name: Musterhaus
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Detection.Threshold)
	assert.Equal(t, 12, cfg.Detection.ExteriorWallMinThickness)
	assert.InDelta(t, 3.0, cfg.Quantity.WallHeight, 1e-9)
	assert.Equal(t, "Musterhaus", cfg.Export.ProjectName)

	// untouched keys keep defaults
	assert.Equal(t, 5, cfg.Detection.InteriorWallMinThickness)
	assert.InDelta(t, 0.20, cfg.Quantity.SlabThickness, 1e-9)
	assert.Equal(t, "deu", cfg.OCR.Language)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection: [unterminated"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"AUFMASS_THRESHOLD":    "140",
		"AUFMASS_WALL_HEIGHT":  "2.5",
		"AUFMASS_OCR_LANGUAGE": "eng",
		"AUFMASS_OCR_ENABLED":  "false",
		"AUFMASS_S3_BUCKET":    "plans",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	base := Default()
	cfg, err := ApplyEnv(base, lookup)
	require.NoError(t, err)

	assert.Equal(t, 140, cfg.Detection.Threshold)
	assert.InDelta(t, 2.5, cfg.Quantity.WallHeight, 1e-9)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.False(t, cfg.OCR.Enabled)
	assert.True(t, cfg.S3.Enabled())

	// the input value is not modified
	assert.Equal(t, 128, base.Detection.Threshold)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"int", "AUFMASS_THRESHOLD", "abc"},
		{"float", "AUFMASS_SLAB_THICKNESS", "dick"},
		{"bool", "AUFMASS_OCR_ENABLED", "vielleicht"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tt.key {
					return tt.val, true
				}
				return "", false
			}
			_, err := ApplyEnv(Default(), lookup)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold negative", func(c *Config) { c.Detection.Threshold = -1 }},
		{"threshold too high", func(c *Config) { c.Detection.Threshold = 256 }},
		{"zero line length", func(c *Config) { c.Detection.MinLineLength = 0 }},
		{"exterior below interior", func(c *Config) { c.Detection.ExteriorWallMinThickness = 3 }},
		{"opening range inverted", func(c *Config) { c.Detection.MinOpeningWidth = 300 }},
		{"column range inverted", func(c *Config) { c.Detection.MinColumnSize = 200 }},
		{"wall height", func(c *Config) { c.Quantity.WallHeight = 0 }},
		{"slab thickness", func(c *Config) { c.Quantity.SlabThickness = -0.1 }},
		{"ocr language", func(c *Config) { c.OCR.Language = "" }},
		{"dpi", func(c *Config) { c.Input.DPI = 0 }},
		{"workers", func(c *Config) { c.Input.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("threshold bounds inclusive", func(t *testing.T) {
		cfg := Default()
		cfg.Detection.Threshold = 0
		assert.NoError(t, cfg.Validate())
		cfg.Detection.Threshold = 255
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Setenv("AUFMASS_MIN_LINE_LENGTH", "60")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Detection.MinLineLength)
}
