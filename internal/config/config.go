package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete, immutable set of tunables for one analysis run.
//
// A Config is passed by value into every component constructor. Zero values
// are never used implicitly: start from Default and override what you need.
type Config struct {
	Detection DetectionConfig `yaml:"detection" json:"detection"`
	Quantity  QuantityConfig  `yaml:"quantity" json:"quantity"`
	OCR       OCRConfig       `yaml:"ocr" json:"ocr"`
	Input     InputConfig     `yaml:"input" json:"input"`
	Export    ExportConfig    `yaml:"export" json:"export"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	S3        S3Config        `yaml:"s3" json:"s3"`
}

// DetectionConfig holds the pixel thresholds used by the binarizer, the
// scanners and the classifiers.
type DetectionConfig struct {
	// Threshold is the binarization cut-off; intensities below it are foreground.
	Threshold int `yaml:"threshold" json:"threshold"`

	InteriorWallMinThickness int `yaml:"interior_wall_min_thickness" json:"interior_wall_min_thickness"`
	ExteriorWallMinThickness int `yaml:"exterior_wall_min_thickness" json:"exterior_wall_min_thickness"`

	// MinLineLength is the shortest run the line scanner reports.
	MinLineLength int `yaml:"min_line_length" json:"min_line_length"`

	MinOpeningWidth int `yaml:"min_opening_width" json:"min_opening_width"`
	MaxOpeningWidth int `yaml:"max_opening_width" json:"max_opening_width"`

	MinColumnSize int `yaml:"min_column_size" json:"min_column_size"`
	MaxColumnSize int `yaml:"max_column_size" json:"max_column_size"`

	// MaxRegionPixels caps a single flood fill; larger regions are dropped.
	MaxRegionPixels int `yaml:"max_region_pixels" json:"max_region_pixels"`
}

// QuantityConfig holds the story defaults used by the quantity engine.
type QuantityConfig struct {
	WallHeight    float64 `yaml:"wall_height" json:"wall_height"`
	SlabThickness float64 `yaml:"slab_thickness" json:"slab_thickness"`
}

// OCRConfig selects the Tesseract language and whether OCR runs at all.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Language string `yaml:"language" json:"language"`
}

// InputConfig controls page rasterization and page-level parallelism.
type InputConfig struct {
	DPI     int `yaml:"dpi" json:"dpi"`
	Workers int `yaml:"workers" json:"workers"`
}

// ExportConfig carries the metadata written into every export.
type ExportConfig struct {
	ProjectName string `yaml:"project_name" json:"project_name"`
	CreatedBy   string `yaml:"created_by" json:"created_by"`
}

// LoggingConfig mirrors the options accepted by logging.New.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// S3Config configures the optional artifact upload. Bucket empty means disabled.
type S3Config struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	Prefix          string `yaml:"prefix" json:"prefix"`
	AccessKeyID     string `yaml:"access_key_id" json:"-"`
	SecretAccessKey string `yaml:"secret_access_key" json:"-"`
	UsePathStyle    bool   `yaml:"use_path_style" json:"use_path_style"`
}

// Enabled reports whether uploads are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the stock configuration for German floor plans at 300 DPI.
func Default() Config {
	return Config{
		Detection: DetectionConfig{
			Threshold:                128,
			InteriorWallMinThickness: 5,
			ExteriorWallMinThickness: 10,
			MinLineLength:            50,
			MinOpeningWidth:          20,
			MaxOpeningWidth:          200,
			MinColumnSize:            10,
			MaxColumnSize:            100,
			MaxRegionPixels:          10000,
		},
		Quantity: QuantityConfig{
			WallHeight:    2.75,
			SlabThickness: 0.20,
		},
		OCR: OCRConfig{
			Enabled:  true,
			Language: "deu",
		},
		Input: InputConfig{
			DPI:     300,
			Workers: 4,
		},
		Export: ExportConfig{
			ProjectName: "Bauzeichnung-Analyse",
			CreatedBy:   "BauzeichnungAnalyzer",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		S3: S3Config{
			Region:       "us-east-1",
			UsePathStyle: true,
		},
	}
}

// LoadFile reads a YAML file on top of Default. Keys absent from the file
// keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, then the optional YAML
// file, then AUFMASS_* environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg, err := ApplyEnv(cfg, os.LookupEnv)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv returns a copy of cfg with environment overrides applied.
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	ints := map[string]*int{
		"AUFMASS_THRESHOLD":                   &cfg.Detection.Threshold,
		"AUFMASS_INTERIOR_WALL_MIN_THICKNESS": &cfg.Detection.InteriorWallMinThickness,
		"AUFMASS_EXTERIOR_WALL_MIN_THICKNESS": &cfg.Detection.ExteriorWallMinThickness,
		"AUFMASS_MIN_LINE_LENGTH":             &cfg.Detection.MinLineLength,
		"AUFMASS_MIN_OPENING_WIDTH":           &cfg.Detection.MinOpeningWidth,
		"AUFMASS_MAX_OPENING_WIDTH":           &cfg.Detection.MaxOpeningWidth,
		"AUFMASS_MIN_COLUMN_SIZE":             &cfg.Detection.MinColumnSize,
		"AUFMASS_MAX_COLUMN_SIZE":             &cfg.Detection.MaxColumnSize,
		"AUFMASS_MAX_REGION_PIXELS":           &cfg.Detection.MaxRegionPixels,
		"AUFMASS_DPI":                         &cfg.Input.DPI,
		"AUFMASS_WORKERS":                     &cfg.Input.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	floats := map[string]*float64{
		"AUFMASS_WALL_HEIGHT":    &cfg.Quantity.WallHeight,
		"AUFMASS_SLAB_THICKNESS": &cfg.Quantity.SlabThickness,
	}
	for key, dst := range floats {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = f
	}

	strs := map[string]*string{
		"AUFMASS_OCR_LANGUAGE":         &cfg.OCR.Language,
		"AUFMASS_PROJECT_NAME":         &cfg.Export.ProjectName,
		"AUFMASS_CREATED_BY":           &cfg.Export.CreatedBy,
		"AUFMASS_LOG_LEVEL":            &cfg.Logging.Level,
		"AUFMASS_LOG_FORMAT":           &cfg.Logging.Format,
		"AUFMASS_S3_ENDPOINT":          &cfg.S3.Endpoint,
		"AUFMASS_S3_REGION":            &cfg.S3.Region,
		"AUFMASS_S3_BUCKET":            &cfg.S3.Bucket,
		"AUFMASS_S3_PREFIX":            &cfg.S3.Prefix,
		"AUFMASS_S3_ACCESS_KEY_ID":     &cfg.S3.AccessKeyID,
		"AUFMASS_S3_SECRET_ACCESS_KEY": &cfg.S3.SecretAccessKey,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("AUFMASS_OCR_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid AUFMASS_OCR_ENABLED: %w", err)
		}
		cfg.OCR.Enabled = b
	}

	return cfg, nil
}

// Validate checks ranges and orderings. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	d := c.Detection

	if d.Threshold < 0 || d.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold %d outside [0,255]", d.Threshold))
	}
	positive := map[string]int{
		"interior_wall_min_thickness": d.InteriorWallMinThickness,
		"exterior_wall_min_thickness": d.ExteriorWallMinThickness,
		"min_line_length":             d.MinLineLength,
		"min_opening_width":           d.MinOpeningWidth,
		"max_opening_width":           d.MaxOpeningWidth,
		"min_column_size":             d.MinColumnSize,
		"max_column_size":             d.MaxColumnSize,
		"max_region_pixels":           d.MaxRegionPixels,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, positive[name]))
		}
	}
	if d.ExteriorWallMinThickness < d.InteriorWallMinThickness {
		errs = append(errs, errors.New("exterior_wall_min_thickness must not be below interior_wall_min_thickness"))
	}
	if d.MinOpeningWidth > d.MaxOpeningWidth {
		errs = append(errs, errors.New("min_opening_width exceeds max_opening_width"))
	}
	if d.MinColumnSize > d.MaxColumnSize {
		errs = append(errs, errors.New("min_column_size exceeds max_column_size"))
	}
	if c.Quantity.WallHeight <= 0 {
		errs = append(errs, fmt.Errorf("wall_height must be positive, got %g", c.Quantity.WallHeight))
	}
	if c.Quantity.SlabThickness <= 0 {
		errs = append(errs, fmt.Errorf("slab_thickness must be positive, got %g", c.Quantity.SlabThickness))
	}
	if c.OCR.Enabled && c.OCR.Language == "" {
		errs = append(errs, errors.New("ocr language must be set when ocr is enabled"))
	}
	if c.Input.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.Input.DPI))
	}
	if c.Input.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Input.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
