package export

import (
	"fmt"
	"os"
	"sort"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// ItemSchema is the Arrow schema of exported items. Quantities keep full
// precision; dimensions are stored as a string to float64 map.
var ItemSchema = arrow.NewSchema([]arrow.Field{
	{Name: "position", Type: arrow.PrimitiveTypes.Int64},
	{Name: "category", Type: arrow.BinaryTypes.String},
	{Name: "description", Type: arrow.BinaryTypes.String},
	{Name: "quantity", Type: arrow.PrimitiveTypes.Float64},
	{Name: "unit", Type: arrow.BinaryTypes.String},
	{Name: "dimensions", Type: arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Float64)},
	{Name: "notes", Type: arrow.BinaryTypes.String},
}, nil)

// Schema returns ItemSchema with the project name and creator attached as
// schema metadata.
func (e *Exporter) Schema() *arrow.Schema {
	meta := arrow.NewMetadata(
		[]string{"project_name", "created_by"},
		[]string{e.ProjectName, e.CreatedBy},
	)
	return arrow.NewSchema(ItemSchema.Fields(), &meta)
}

// Record builds one Arrow record batch from the items. The caller must
// Release it.
func (e *Exporter) Record(mem memory.Allocator, result *quantity.Result) arrow.Record {
	b := array.NewRecordBuilder(mem, e.Schema())
	defer b.Release()

	position := b.Field(0).(*array.Int64Builder)
	category := b.Field(1).(*array.StringBuilder)
	description := b.Field(2).(*array.StringBuilder)
	qty := b.Field(3).(*array.Float64Builder)
	unit := b.Field(4).(*array.StringBuilder)
	dims := b.Field(5).(*array.MapBuilder)
	dimKeys := dims.KeyBuilder().(*array.StringBuilder)
	dimValues := dims.ItemBuilder().(*array.Float64Builder)
	notes := b.Field(6).(*array.StringBuilder)

	for _, it := range result.Items() {
		position.Append(int64(it.Position))
		category.Append(it.Category)
		description.Append(it.Description)
		qty.Append(it.Quantity)
		unit.Append(string(it.Unit))

		dims.Append(true)
		keys := make([]string, 0, len(it.Dimensions))
		for k := range it.Dimensions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dimKeys.Append(k)
			dimValues.Append(it.Dimensions[k])
		}

		notes.Append(it.Notes)
	}

	return b.NewRecord()
}

// WriteArrow writes the items as an Arrow IPC file with one record batch.
func (e *Exporter) WriteArrow(result *quantity.Result, path string) (string, error) {
	path, err := prepare(path, FormatArrow)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	rec := e.Record(mem, result)
	defer rec.Release()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return "", fmt.Errorf("failed to create arrow writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish arrow file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("arrow export written", zap.String("path", path), zap.Int64("rows", rec.NumRows()))
	return path, nil
}
