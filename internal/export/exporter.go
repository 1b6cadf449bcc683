package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/logging"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// Format names an output format.
type Format string

const (
	FormatExcel Format = "excel"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatArrow Format = "arrow"

	// FormatAll selects every format above.
	FormatAll Format = "all"
)

// Formats lists the concrete formats in the order ExportAll writes them.
var Formats = []Format{FormatExcel, FormatCSV, FormatJSON, FormatArrow}

// Extension returns the default file extension of f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatExcel:
		return ".xlsx"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatArrow:
		return ".arrow"
	}
	return ""
}

// ParseFormat accepts excel, xlsx, csv, json, arrow and all, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excel", "xlsx":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "arrow":
		return FormatArrow, nil
	case "all":
		return FormatAll, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Exporter writes a quantity result to files. Writers never modify the result.
type Exporter struct {
	ProjectName string
	CreatedBy   string

	// Now supplies the creation timestamp; nil means time.Now.
	Now func() time.Time

	logger *zap.Logger
}

// New returns an exporter carrying the project metadata from cfg.
func New(cfg config.ExportConfig, logger *zap.Logger) *Exporter {
	return &Exporter{
		ProjectName: cfg.ProjectName,
		CreatedBy:   cfg.CreatedBy,
		logger:      logging.OrNop(logger),
	}
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Write exports result in one concrete format and returns the written path.
// A path without extension gets the format's default extension.
func (e *Exporter) Write(format Format, result *quantity.Result, path string) (string, error) {
	switch format {
	case FormatExcel:
		return e.WriteExcel(result, path)
	case FormatCSV:
		return e.WriteCSV(result, path)
	case FormatJSON:
		return e.WriteJSON(result, path)
	case FormatArrow:
		return e.WriteArrow(result, path)
	}
	return "", fmt.Errorf("cannot write format %q", format)
}

// ExportAll writes every format as dir/base.<ext>. A failing format does not
// stop the others; the written paths are returned with the joined errors.
func (e *Exporter) ExportAll(result *quantity.Result, dir, base string) (map[Format]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make(map[Format]string, len(Formats))
	var errs []error
	for _, f := range Formats {
		path, err := e.Write(f, result, filepath.Join(dir, base+f.Extension()))
		if err != nil {
			e.logger.Error("export failed", zap.String("format", string(f)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			continue
		}
		written[f] = path
	}

	e.logger.Info("export finished", zap.Int("formats", len(written)), zap.String("dir", dir))
	return written, errors.Join(errs...)
}

// prepare applies the default extension and creates the parent directory.
func prepare(path string, format Format) (string, error) {
	if filepath.Ext(path) == "" {
		path += format.Extension()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}
