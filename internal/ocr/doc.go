// Package ocr reads dimension annotations and labels from floor plans.
//
// Text recognition goes through the Extractor interface. The production
// implementation, TesseractExtractor, wraps the Tesseract engine via
// gosseract/v2 and defaults to the German language pack ("deu").
//
// # Prerequisites
//
// Tesseract and the language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-deu
//   - macOS: brew install tesseract tesseract-lang
//
// # Post-processing
//
// The remaining functions are pure and work on recognized words:
//
//   - ParseDimension: "3,50 m", "350 cm" and "3500 mm" all read as 3.5 m
//   - ExtractDimensions: every word that parses as a dimension
//   - ExtractLabels: mostly alphabetic words of two or more characters
//   - FindRoomLabels: words naming a room (Wohnzimmer, Bad, Flur, ...)
//
// # Error Handling
//
// OCR failures are returned to the caller. The analyzer treats them as
// per-page degradations and continues with geometry detection.
package ocr
