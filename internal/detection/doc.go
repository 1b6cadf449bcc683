// Package detection extracts building elements from a binarized floor plan.
//
// The pipeline works on a Bitmap, an immutable boolean raster where dark
// strokes are foreground. Three independent passes read the same bitmap:
//
//   - Line scanning: ScanLines finds axis-aligned strokes of at least
//     MinLineLength pixels and measures their thickness. WallClassifier turns
//     thick strokes into exterior and interior walls.
//   - Gap extraction: OpeningClassifier flood-fills background regions that
//     are enclosed by strokes and sorts openings of plausible size into
//     windows (height < 2 × width) and doors.
//   - Solid extraction: StructuralClassifier flood-fills foreground regions
//     and keeps compact, well-filled squares as columns.
//
// Detector runs the passes concurrently and merges their output in the
// order walls, openings, structural elements.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - BoundingBox holds the inclusive origin plus width and height
//
// # Scale
//
// Pixel measurements become meters by multiplying with the scale factor
// from ParseScale ("1:50" → 0.02). Invalid scales fall back to 1:100.
//
// # Confidence Scores
//
// Every classifier assigns a fixed confidence per kind:
//   - Walls: 0.8
//   - Windows and doors: 0.7
//   - Columns: 0.75
//   - Beams: 0.65, slabs: 0.6 (only via NewBeam and NewSlab)
//
// # Limitations
//
// Door-swing arcs, dashed beam lines and slab hatching are not recognized.
// The corresponding functions exist and return nothing; Capabilities reports
// them as unavailable. Only axis-aligned walls are found, and the same
// stroke may be reported by both the horizontal and the vertical pass.
package detection
