package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// CSVDelimiter is the field separator German spreadsheet tools expect.
const CSVDelimiter = ';'

const utf8BOM = "\ufeff"

var csvHeader = []string{"Position", "Kategorie", "Beschreibung", "Menge", "Einheit", "Anmerkungen"}

// EncodeCSV writes the items to w, prefixed with a UTF-8 byte order mark.
func (e *Exporter) EncodeCSV(w io.Writer, result *quantity.Result) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = CSVDelimiter
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range result.Items() {
		record := []string{
			strconv.Itoa(it.Position),
			it.Category,
			it.Description,
			formatQuantity(it.Quantity),
			string(it.Unit),
			it.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the items as semicolon-separated CSV.
func (e *Exporter) WriteCSV(result *quantity.Result, path string) (string, error) {
	path, err := prepare(path, FormatCSV)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := e.EncodeCSV(f, result); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("csv export written", zap.String("path", path))
	return path, nil
}

// formatQuantity rounds to two decimals and drops trailing zeros.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(quantity.Round(v, 2), 'f', -1, 64)
}
