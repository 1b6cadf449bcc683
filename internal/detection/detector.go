package detection

import (
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
)

// Capabilities reports which recognition passes are implemented. The
// disabled ones exist as functions that always return no candidates.
type Capabilities struct {
	DoorSwings  bool `json:"door_swings"`
	DashedBeams bool `json:"dashed_beams"`
	HatchSlabs  bool `json:"hatch_slabs"`
}

// Detector runs the full detection pipeline over one page.
type Detector struct {
	cfg        config.DetectionConfig
	logger     *zap.Logger
	walls      WallClassifier
	openings   OpeningClassifier
	structural StructuralClassifier
}

// NewDetector wires the three classifiers from one configuration.
func NewDetector(cfg config.DetectionConfig, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		cfg:        cfg,
		logger:     logger,
		walls:      NewWallClassifier(cfg),
		openings:   NewOpeningClassifier(cfg),
		structural: NewStructuralClassifier(cfg),
	}
}

// Capabilities reports the implemented passes.
func (d *Detector) Capabilities() Capabilities {
	return Capabilities{}
}

// Scale parses a drawing scale and logs a warning when it falls back.
func (d *Detector) Scale(scale string) float64 {
	factor, ok := ParseScale(scale)
	if !ok {
		d.logger.Warn("invalid scale, using 1:100", zap.String("scale", scale))
	}
	return factor
}

// Binarize thresholds img with the configured threshold.
func (d *Detector) Binarize(img image.Image) (*Bitmap, error) {
	bm, err := BinarizeImage(img, d.cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}
	return bm, nil
}

// DetectAll binarizes img and returns walls, openings and structural elements
// in that order.
func (d *Detector) DetectAll(img image.Image, scale string) ([]Element, error) {
	bm, err := d.Binarize(img)
	if err != nil {
		return nil, err
	}
	return d.DetectBitmap(bm, d.Scale(scale)), nil
}

// DetectBitmap runs the line scanner and both region passes concurrently over
// the shared, read-only bitmap and merges the results.
func (d *Detector) DetectBitmap(bm *Bitmap, scale float64) []Element {
	d.logger.Debug("starting element detection",
		zap.Int("width", bm.Width()),
		zap.Int("height", bm.Height()),
		zap.Float64("scale", scale))

	var walls, openings, structural []Element
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		walls = d.DetectWalls(bm, scale)
	}()
	go func() {
		defer wg.Done()
		openings = d.DetectOpenings(bm, scale)
	}()
	go func() {
		defer wg.Done()
		structural = d.DetectStructural(bm, scale)
	}()
	wg.Wait()

	elements := make([]Element, 0, len(walls)+len(openings)+len(structural))
	elements = append(elements, walls...)
	elements = append(elements, openings...)
	elements = append(elements, structural...)

	d.logger.Info("element detection finished",
		zap.Int("walls", len(walls)),
		zap.Int("openings", len(openings)),
		zap.Int("structural", len(structural)),
		zap.Int("total", len(elements)))

	return elements
}

// DetectWalls runs only the line scanner and wall classifier.
func (d *Detector) DetectWalls(bm *Bitmap, scale float64) []Element {
	runs := ScanLines(bm, LineOptions{
		MinLength:    d.cfg.MinLineLength,
		MinThickness: d.cfg.InteriorWallMinThickness,
	})
	return d.walls.Classify(runs, scale)
}

// DetectOpenings runs only the opening classifier.
func (d *Detector) DetectOpenings(bm *Bitmap, scale float64) []Element {
	return d.openings.Classify(bm, scale)
}

// DetectStructural runs only the structural classifier.
func (d *Detector) DetectStructural(bm *Bitmap, scale float64) []Element {
	return d.structural.Classify(bm, scale)
}
