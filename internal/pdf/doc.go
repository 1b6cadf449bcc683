// Package pdf turns PDF plan sets into page images.
//
// Page counting uses pdfcpu, which also rejects damaged files before any
// rendering starts. Rendering shells out to poppler's pdftoppm, which must
// be installed:
//   - Ubuntu/Debian: apt-get install poppler-utils
//   - macOS: brew install poppler
//
// Pages are rendered as PNG into a temporary directory, decoded, and
// returned in ascending page order. The directory is removed before Render
// returns.
package pdf
