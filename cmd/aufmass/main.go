package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/analyzer"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/export"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/logging"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/metrics"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/pdf"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/server"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/storage"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version":
			fmt.Fprintf(stdout, "aufmass %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "serve":
			if err := serve(ctx, args[1:], stderr); err != nil {
				fmt.Fprintf(stderr, "Fehler: %v\n", err)
				return 1
			}
			return 0
		}
	}

	if err := analyze(ctx, args, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Fehler: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "aufmass - Bauzeichnung-Analyse-Tool, automatische Mengenermittlung")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  aufmass [options] <input>    Analyze a PDF or raster floor plan")
	fmt.Fprintln(w, "  aufmass serve [-c file]      Run the MCP server on stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -s, --scale N:D         Drawing scale (default 1:100)")
	fmt.Fprintln(w, "  -o, --output PATH       Export file; with -f all, the directory and base name")
	fmt.Fprintln(w, "  -f, --format FORMAT     excel, csv, json, arrow or all (default excel)")
	fmt.Fprintln(w, "  -c, --config FILE       YAML configuration file")
	fmt.Fprintln(w, "      --pages LIST        PDF pages, e.g. 1,3,5-7 (default all)")
	fmt.Fprintln(w, "      --overlay PATH      Write the detected elements of page 1 as an image")
	fmt.Fprintln(w, "      --metrics-file PATH Write Prometheus metrics in text format")
	fmt.Fprintln(w, "  -v, --verbose           Debug logging")
	fmt.Fprintln(w, "      --version           Print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  AUFMASS_LOG_LEVEL=debug      Enable debug logging")
	fmt.Fprintln(w, "  AUFMASS_S3_BUCKET=...        Upload exports to S3")
}

type options struct {
	scale       string
	output      string
	format      string
	configPath  string
	pages       string
	overlay     string
	metricsFile string
	verbose     bool
	input       string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("aufmass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	for _, name := range []string{"s", "scale"} {
		fs.StringVar(&o.scale, name, "1:100", "drawing scale")
	}
	for _, name := range []string{"o", "output"} {
		fs.StringVar(&o.output, name, "", "export path")
	}
	for _, name := range []string{"f", "format"} {
		fs.StringVar(&o.format, name, string(export.FormatExcel), "export format")
	}
	for _, name := range []string{"c", "config"} {
		fs.StringVar(&o.configPath, name, "", "configuration file")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.BoolVar(&o.verbose, name, false, "debug logging")
	}
	fs.StringVar(&o.pages, "pages", "", "PDF pages")
	fs.StringVar(&o.overlay, "overlay", "", "overlay image path")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "metrics text file")

	// Options may follow the input file.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return o, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch len(positional) {
	case 0:
		return o, errors.New("missing input file")
	case 1:
		o.input = positional[0]
	default:
		return o, fmt.Errorf("expected one input file, got %d", len(positional))
	}
	return o, nil
}

func loadConfig(path string, verbose bool) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("falling back to default logger", zap.Error(err))
	}
	return cfg, logger, nil
}

func analyze(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	pages, err := pdf.ParsePageList(o.pages)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig(o.configPath, o.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	m := metrics.New()
	a, err := analyzer.New(cfg, logger, analyzer.WithMetrics(m))
	if err != nil {
		return err
	}

	res, err := a.Analyze(ctx, o.input, o.scale, pages)
	if err != nil {
		return err
	}
	printSummary(stdout, res)

	if o.overlay != "" {
		if err := res.SaveOverlay(res.Pages[0].Number, o.overlay); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nOverlay: %s\n", o.overlay)
	}

	var written []string
	if o.output != "" {
		stopExport := m.Time(metrics.StageExport)
		written, err = writeExports(export.New(cfg.Export, logger), format, res, o.output)
		stopExport()
		if len(written) > 0 {
			fmt.Fprintf(stdout, "\nExportiert nach: %s\n", strings.Join(written, ", "))
		}
		if err != nil {
			return err
		}
	}

	if cfg.S3.Enabled() && len(written) > 0 {
		pub, err := storage.NewS3Publisher(ctx, cfg.S3, logger)
		if err != nil {
			return err
		}
		keys, err := pub.PublishAll(ctx, written)
		for _, key := range keys {
			fmt.Fprintf(stdout, "Hochgeladen: s3://%s/%s\n", cfg.S3.Bucket, key)
		}
		if err != nil {
			return err
		}
	}

	if o.metricsFile != "" {
		if err := m.WriteTextfile(o.metricsFile); err != nil {
			return err
		}
	}
	return nil
}

func writeExports(ex *export.Exporter, format export.Format, res *analyzer.AnalysisResult, output string) ([]string, error) {
	if format != export.FormatAll {
		path, err := ex.Write(format, res.Quantities, output)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	files, err := ex.ExportAll(res.Quantities, filepath.Dir(output), base)
	written := make([]string, 0, len(files))
	for _, f := range export.Formats {
		if path, ok := files[f]; ok {
			written = append(written, path)
		}
	}
	return written, err
}

// printSummary writes the human-readable result overview.
func printSummary(w io.Writer, res *analyzer.AnalysisResult) {
	s := res.Summary()
	fmt.Fprintln(w, "\n=== Analyseergebnis ===")
	fmt.Fprintf(w, "Datei: %s\n", s.Source)
	fmt.Fprintf(w, "Maßstab: %s\n", s.Scale)
	fmt.Fprintf(w, "Seiten: %d\n", s.Pages)

	fmt.Fprintln(w, "\nErkannte Elemente:")
	for _, key := range analyzer.CountOrder {
		if n := s.ElementCounts[key]; n > 0 {
			fmt.Fprintf(w, "  - %s: %d\n", key, n)
		}
	}
	if s.DimensionsFound > 0 || s.RoomsFound > 0 {
		fmt.Fprintf(w, "\nMaßangaben: %d, Räume: %d\n", s.DimensionsFound, s.RoomsFound)
	}
	if s.OCRFailures > 0 {
		fmt.Fprintf(w, "Texterkennung fehlgeschlagen auf %d Seite(n)\n", s.OCRFailures)
	}

	if len(s.QuantitySummary) == 0 {
		return
	}
	fmt.Fprintln(w, "\nZusammenfassung:")
	for _, category := range s.QuantitySummary.SortedCategories() {
		units := s.QuantitySummary[category]
		parts := make([]string, 0, len(units))
		for _, unit := range s.QuantitySummary.SortedUnits(category) {
			parts = append(parts, fmt.Sprintf("%.2f %s", units[unit], unit))
		}
		fmt.Fprintf(w, "  %s: %s\n", category, strings.Join(parts, ", "))
	}
}

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("aufmass serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath string
	var verbose bool
	fs.StringVar(&configPath, "c", "", "configuration file")
	fs.StringVar(&configPath, "config", "", "configuration file")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	fs.BoolVar(&verbose, "verbose", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(configPath, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("starting MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	a, err := analyzer.New(cfg, logger, analyzer.WithMetrics(metrics.New()))
	if err != nil {
		return err
	}
	server.Version = Version
	srv := server.New(a, export.New(cfg.Export, logger), logger.Named("server"))
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
