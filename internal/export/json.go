package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// Document is the JSON export shape.
type Document struct {
	Meta    Meta             `json:"meta"`
	Items   []DocumentItem   `json:"items"`
	Summary quantity.Summary `json:"summary"`
}

// Meta describes the export.
type Meta struct {
	ProjectName string `json:"project_name"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	TotalItems  int    `json:"total_items"`
}

// DocumentItem is an item with its quantity rounded to two decimals and
// its dimensions rounded to four.
type DocumentItem struct {
	Position    int                `json:"position"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Quantity    float64            `json:"quantity"`
	Unit        quantity.Unit      `json:"unit"`
	Dimensions  map[string]float64 `json:"dimensions"`
	Notes       string             `json:"notes"`
}

// Document builds the export document for result.
func (e *Exporter) Document(result *quantity.Result) Document {
	items := result.Items()
	doc := Document{
		Meta: Meta{
			ProjectName: e.ProjectName,
			CreatedBy:   e.CreatedBy,
			CreatedAt:   e.now().Format(time.RFC3339),
			TotalItems:  len(items),
		},
		Items:   make([]DocumentItem, 0, len(items)),
		Summary: result.Summary(),
	}
	for _, it := range items {
		dims := make(map[string]float64, len(it.Dimensions))
		for k, v := range it.Dimensions {
			dims[k] = quantity.Round(v, 4)
		}
		doc.Items = append(doc.Items, DocumentItem{
			Position:    it.Position,
			Category:    it.Category,
			Description: it.Description,
			Quantity:    quantity.Round(it.Quantity, 2),
			Unit:        it.Unit,
			Dimensions:  dims,
			Notes:       it.Notes,
		})
	}
	return doc
}

// EncodeJSON writes the indented export document to w.
func (e *Exporter) EncodeJSON(w io.Writer, result *quantity.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(e.Document(result))
}

// WriteJSON writes the export document to path.
func (e *Exporter) WriteJSON(result *quantity.Result, path string) (string, error) {
	path, err := prepare(path, FormatJSON)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := e.EncodeJSON(f, result); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("json export written", zap.String("path", path))
	return path, nil
}
