package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// SheetName is the worksheet holding the take-off list.
const SheetName = "Aufmaß-Liste"

// headerRow is the row of the column headings; items start below it.
const headerRow = 5

var excelHeader = []string{"Pos.", "Kategorie", "Beschreibung", "Menge", "Einheit", "Anmerkungen"}

var columnWidths = map[string]float64{
	"A": 8,
	"B": 15,
	"C": 25,
	"D": 12,
	"E": 10,
	"F": 40,
}

// WriteExcel writes a formatted workbook: title, creation info, the item
// table with bordered cells and a summary block below it.
func (e *Exporter) WriteExcel(result *quantity.Result, path string) (string, error) {
	path, err := prepare(path, FormatExcel)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.fillWorkbook(f, result); err != nil {
		return "", fmt.Errorf("failed to build workbook: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	e.logger.Info("excel export written", zap.String("path", path))
	return path, nil
}

func (e *Exporter) fillWorkbook(f *excelize.File, result *quantity.Result) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return err
	}

	if err := f.MergeCell(SheetName, "A1", "F1"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A1", "Aufmaß-Liste: "+e.ProjectName); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A2", "Erstellt am: "+e.now().Format("02.01.2006 15:04")); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A3", "Erstellt von: "+e.CreatedBy); err != nil {
		return err
	}

	for i, h := range excelHeader {
		if err := setCell(f, i+1, headerRow, h, styles.header); err != nil {
			return err
		}
	}

	row := headerRow
	for _, it := range result.Items() {
		row++
		values := []interface{}{
			it.Position,
			it.Category,
			it.Description,
			quantity.Round(it.Quantity, 2),
			string(it.Unit),
			it.Notes,
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v, styles.cell); err != nil {
				return err
			}
		}
	}

	summary := result.Summary()
	if len(summary) > 0 {
		row += 3
		if err := setCell(f, 1, row, "Zusammenfassung", styles.heading); err != nil {
			return err
		}
		row++
		for _, cat := range summary.SortedCategories() {
			for _, unit := range summary.SortedUnits(cat) {
				row++
				if err := setCell(f, 2, row, cat, 0); err != nil {
					return err
				}
				if err := setCell(f, 4, row, summary[cat][unit], 0); err != nil {
					return err
				}
				if err := setCell(f, 5, row, string(unit), 0); err != nil {
					return err
				}
			}
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

type excelStyles struct {
	title   int
	heading int
	header  int
	cell    int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s excelStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, err
	}
	if s.heading, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"CCE5FF"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.cell, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return s, err
	}
	return s, nil
}

// setCell writes v at (col, row); style 0 leaves the default style.
func setCell(f *excelize.File, col, row int, v interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(SheetName, cell, cell, style)
}
