package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/imaging"
)

// DefaultDPI is the rasterization resolution for plan drawings.
const DefaultDPI = 300

// Page is one rasterized PDF page.
type Page struct {
	// Number is the 1-based page number in the source document.
	Number int
	Image  image.Image
}

// Rasterizer renders PDF pages to images with poppler's pdftoppm.
type Rasterizer struct {
	// DPI is the render resolution. Values <= 0 select DefaultDPI.
	DPI int

	// Command is the pdftoppm executable; empty means "pdftoppm" on PATH.
	Command string

	logger *zap.Logger
}

// NewRasterizer returns a rasterizer at the given resolution.
func NewRasterizer(dpi int, logger *zap.Logger) *Rasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rasterizer{DPI: dpi, logger: logger}
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// PageCount returns the number of pages in the PDF at path.
func (r *Rasterizer) PageCount(path string) (int, error) {
	if err := checkPDF(path); err != nil {
		return 0, err
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	return n, nil
}

// Render rasterizes the selected 1-based pages in ascending order. An empty
// selection renders every page. Out-of-range and duplicate page numbers are
// ignored.
func (r *Rasterizer) Render(ctx context.Context, path string, pages []int) ([]Page, error) {
	count, err := r.PageCount(path)
	if err != nil {
		return nil, err
	}

	selected := SelectPages(pages, count)
	if len(selected) == 0 {
		return []Page{}, nil
	}

	workDir, err := os.MkdirTemp("", "aufmass-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	prefix := filepath.Join(workDir, "page")
	if len(selected) == count {
		if err := r.run(ctx, path, prefix, 0); err != nil {
			return nil, err
		}
	} else {
		for _, p := range selected {
			if err := r.run(ctx, path, prefix, p); err != nil {
				return nil, err
			}
		}
	}

	files, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no rendered pages found")
	}
	sort.Slice(files, func(i, j int) bool {
		return pageNumberFromName(files[i]) < pageNumberFromName(files[j])
	})

	result := make([]Page, 0, len(files))
	for _, f := range files {
		img, err := imaging.Load(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode rendered page: %w", err)
		}
		result = append(result, Page{Number: pageNumberFromName(f), Image: img})
	}

	r.logger.Debug("rasterized pdf",
		zap.String("path", path),
		zap.Int("pages", len(result)),
		zap.Int("dpi", r.dpi()))
	return result, nil
}

// run invokes pdftoppm for one page, or for the whole document when page is 0.
func (r *Rasterizer) run(ctx context.Context, path, prefix string, page int) error {
	args := []string{"-png", "-r", strconv.Itoa(r.dpi())}
	if page > 0 {
		args = append(args, "-f", strconv.Itoa(page), "-l", strconv.Itoa(page))
	}
	args = append(args, path, prefix)

	cmd := exec.CommandContext(ctx, r.command(), args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if page > 0 {
			return fmt.Errorf("pdftoppm failed on page %d: %w: %s", page, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (r *Rasterizer) dpi() int {
	if r.DPI <= 0 {
		return DefaultDPI
	}
	return r.DPI
}

func (r *Rasterizer) command() string {
	if r.Command == "" {
		return "pdftoppm"
	}
	return r.Command
}

// SelectPages returns the valid 1-based page numbers from pages in ascending
// order without duplicates. An empty selection means every page.
func SelectPages(pages []int, count int) []int {
	if len(pages) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}
	seen := make(map[int]bool, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if p < 1 || p > count || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// ParsePageList parses "1,3,5-7" into page numbers.
func ParsePageList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	pages := make([]int, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			if to < from {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			for p := from; p <= to; p++ {
				pages = append(pages, p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q: %w", part, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func checkPDF(path string) error {
	if err := imaging.CheckInput(path); err != nil {
		return err
	}
	if !IsPDF(path) {
		return fmt.Errorf("%w: %s", imaging.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

// pageNumberFromName extracts N from ".../page-0N.png".
func pageNumberFromName(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.LastIndex(base, "-"); idx >= 0 {
		if v, err := strconv.Atoi(base[idx+1:]); err == nil {
			return v
		}
	}
	return 0
}
