package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/imaging"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/logging"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/metrics"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/ocr"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/pdf"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// ErrNoPages is returned when the input yields no page to analyze, for
// example a page selection outside the document.
var ErrNoPages = errors.New("no pages to analyze")

// PageRenderer rasterizes PDF pages.
type PageRenderer interface {
	Render(ctx context.Context, path string, pages []int) ([]pdf.Page, error)
}

// Analyzer runs the complete pipeline: page loading, element detection,
// text extraction and quantity calculation.
type Analyzer struct {
	cfg       config.Config
	logger    *zap.Logger
	detector  *detection.Detector
	calc      quantity.Calculator
	extractor ocr.Extractor
	renderer  PageRenderer
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithExtractor replaces the OCR engine. A nil extractor disables OCR.
func WithExtractor(ex ocr.Extractor) Option {
	return func(a *Analyzer) { a.extractor = ex }
}

// WithRenderer replaces the PDF rasterizer.
func WithRenderer(r PageRenderer) Option {
	return func(a *Analyzer) { a.renderer = r }
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New validates cfg and builds an analyzer. OCR uses Tesseract with the
// configured language unless disabled in cfg or replaced by WithExtractor.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	a := &Analyzer{
		cfg:      cfg,
		logger:   logger,
		detector: detection.NewDetector(cfg.Detection, logger.Named("detection")),
		calc:     quantity.NewCalculator(cfg.Quantity),
		renderer: pdf.NewRasterizer(cfg.Input.DPI, logger.Named("pdf")),
		now:      time.Now,
	}
	if cfg.OCR.Enabled {
		a.extractor = ocr.NewTesseractExtractor(cfg.OCR.Language)
	}
	for _, opt := range opts {
		opt(a)
	}

	logger.Info("analyzer initialized",
		zap.Int("dpi", cfg.Input.DPI),
		zap.Bool("ocr", a.extractor != nil),
		zap.String("ocr_language", cfg.OCR.Language))
	return a, nil
}

// Detector returns the element detector used by the analyzer.
func (a *Analyzer) Detector() *detection.Detector {
	return a.detector
}

// Calculator returns the quantity engine used by the analyzer.
func (a *Analyzer) Calculator() quantity.Calculator {
	return a.calc
}

// Analyze processes a PDF or raster file. pages selects 1-based PDF pages;
// empty means all. Raster files are a single page.
//
// Errors:
//   - imaging.ErrNotFound if the file does not exist
//   - imaging.ErrUnsupportedFormat for unknown extensions
//   - ErrNoPages if nothing is left to analyze
func (a *Analyzer) Analyze(ctx context.Context, path, scale string, pages []int) (*AnalysisResult, error) {
	if err := imaging.CheckInput(path); err != nil {
		return nil, err
	}
	a.logger.Info("starting analysis", zap.String("path", path), zap.String("scale", scale))

	loaded, err := a.loadPages(ctx, path, pages)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, ErrNoPages
	}
	a.logger.Info("pages loaded", zap.Int("pages", len(loaded)))

	return a.run(ctx, loaded, path, scale)
}

// AnalyzeImage processes one in-memory page. source names it in the result.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, scale, source string) (*AnalysisResult, error) {
	return a.run(ctx, []pdf.Page{{Number: 1, Image: img}}, source, scale)
}

// ExtractText returns the full recognized text of img, or an error when OCR
// is disabled.
func (a *Analyzer) ExtractText(img image.Image) (string, error) {
	if a.extractor == nil {
		return "", errors.New("ocr is disabled")
	}
	return a.extractor.FullText(imaging.PreprocessForOCR(img))
}

func (a *Analyzer) loadPages(ctx context.Context, path string, pages []int) ([]pdf.Page, error) {
	defer a.metrics.Time(metrics.StageLoad)()

	if pdf.IsPDF(path) {
		rendered, err := a.renderer.Render(ctx, path, pages)
		if err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}
		return rendered, nil
	}

	if len(pdf.SelectPages(pages, 1)) == 0 {
		return nil, nil
	}
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return []pdf.Page{{Number: 1, Image: img}}, nil
}

func (a *Analyzer) run(ctx context.Context, pages []pdf.Page, source, scale string) (*AnalysisResult, error) {
	factor := a.detector.Scale(scale)

	results := make([]PageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Input.Workers)
	for i, p := range pages {
		g.Go(func() error {
			pr, err := a.processPage(gctx, p, factor, len(pages))
			if err != nil {
				return err
			}
			results[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &AnalysisResult{
		ID:          uuid.NewString(),
		Source:      source,
		Scale:       scale,
		ScaleFactor: factor,
		CreatedAt:   a.now(),
		Pages:       results,
		Elements:    make([]detection.Element, 0),
		Dimensions:  make([]ocr.Dimension, 0),
		Labels:      make([]ocr.TextRegion, 0),
		Rooms:       make([]ocr.TextRegion, 0),
	}
	for _, pr := range results {
		res.Elements = append(res.Elements, pr.Elements...)
		res.Dimensions = append(res.Dimensions, pr.Dimensions...)
		res.Labels = append(res.Labels, pr.Labels...)
		res.Rooms = append(res.Rooms, pr.Rooms...)
	}

	stop := a.metrics.Time(metrics.StageQuantity)
	res.Quantities = a.calc.Calculate(res.Elements)
	stop()

	a.logger.Info("analysis finished",
		zap.String("id", res.ID),
		zap.Int("elements", len(res.Elements)),
		zap.Int("dimensions", len(res.Dimensions)),
		zap.Int("labels", len(res.Labels)),
		zap.Int("items", res.Quantities.Len()))
	return res, nil
}

// processPage detects elements and reads text on one page. OCR failures are
// logged and recorded on the page; they never fail the page.
func (a *Analyzer) processPage(ctx context.Context, p pdf.Page, scale float64, total int) (PageResult, error) {
	if err := ctx.Err(); err != nil {
		return PageResult{}, err
	}
	a.logger.Debug("analyzing page", zap.Int("page", p.Number), zap.Int("pages", total))

	bounds := p.Image.Bounds()
	pr := PageResult{
		Number:     p.Number,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Dimensions: []ocr.Dimension{},
		Labels:     []ocr.TextRegion{},
		Rooms:      []ocr.TextRegion{},
		Image:      p.Image,
	}

	stop := a.metrics.Time(metrics.StageDetect)
	bm, err := a.detector.Binarize(p.Image)
	if err != nil {
		stop()
		return PageResult{}, fmt.Errorf("page %d: %w", p.Number, err)
	}
	pr.Elements = a.detector.DetectBitmap(bm, scale)
	stop()

	counts := make(map[string]int, len(detection.Kinds))
	for kind, n := range detection.CountByKind(pr.Elements) {
		counts[kind.String()] = n
	}
	a.metrics.RecordElements(counts)
	a.metrics.RecordPage()

	if a.extractor != nil {
		a.readText(&pr, p.Image)
	}
	return pr, nil
}

func (a *Analyzer) readText(pr *PageResult, img image.Image) {
	defer a.metrics.Time(metrics.StageOCR)()

	regions, err := a.extractText(img)
	if err != nil {
		a.logger.Warn("ocr failed", zap.Int("page", pr.Number), zap.Error(err))
		a.metrics.RecordOCRFailure()
		pr.OCRError = err.Error()
		return
	}
	pr.Dimensions = ocr.ExtractDimensions(regions)
	pr.Labels = ocr.ExtractLabels(regions)
	pr.Rooms = ocr.FindRoomLabels(regions)
}

// extractText shields the page from panics inside the OCR engine.
func (a *Analyzer) extractText(img image.Image) (regions []ocr.TextRegion, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ocr panic: %v", r)
		}
	}()
	return a.extractor.ExtractText(imaging.PreprocessForOCR(img))
}
