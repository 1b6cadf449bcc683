// Package analyzer orchestrates a complete floor plan analysis.
//
// For each input file the analyzer:
//
//  1. loads the pages (PDFs are rasterized, raster files are one page)
//  2. detects walls, openings and structural elements on every page
//  3. reads dimension annotations and labels with OCR
//  4. computes the bill of quantities over all pages
//
// Pages are processed concurrently, bounded by Input.Workers, and merged in
// page order. A page whose OCR fails keeps its geometry; the failure is
// logged, counted and recorded in PageResult.OCRError.
//
// # Usage
//
//	a, err := analyzer.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	res, err := a.Analyze(ctx, "grundriss.pdf", "1:100", nil)
//	if err != nil {
//	    return err
//	}
//	for _, item := range res.Quantities.Items() {
//	    fmt.Println(item.Description, item.Quantity, item.Unit)
//	}
package analyzer
