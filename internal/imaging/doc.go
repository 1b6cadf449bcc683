// Package imaging loads floor-plan pages and prepares them for detection
// and text recognition.
//
// # Input Formats
//
// Load and ImageCache decode PNG, JPEG, GIF, TIFF and BMP. Other extensions
// fail with ErrUnsupportedFormat and missing files with ErrNotFound, so
// callers can tell the two apart with errors.Is.
//
// # Preprocessing
//
//   - ToGray: BT.601 luminance, origin normalized to (0, 0)
//   - PreprocessForDetection: contrast and sharpening for faint scans
//   - PreprocessForOCR: median denoise, contrast, hard threshold
//
// # Overlays
//
// RenderOverlay outlines detected elements on a copy of the page, one color
// per element class. The source image is never modified.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
package imaging
