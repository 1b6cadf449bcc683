// Package export writes a bill of quantities to files.
//
// Four formats are supported:
//
//   - Excel (.xlsx): sheet "Aufmaß-Liste" with a title row, creation info,
//     a bordered item table starting at row 5 and a "Zusammenfassung" block
//   - CSV: semicolon separated, UTF-8 with byte order mark so that German
//     Excel installations open it directly
//   - JSON: {meta, items, summary} with quantities rounded to two decimals
//     and dimensions to four
//   - Arrow: an IPC file with one record batch, for analytics tooling
//
// Paths without an extension get the format's default. ExportAll writes
// every format and keeps going when one of them fails.
package export
