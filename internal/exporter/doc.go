// Package exporter writes the weekly dataset to files and HTTP responses.
//
// CSVWriter produces the merged dataset layout that dataprocessing.ParseCSV
// reads back, optionally with a UTF-8 BOM for Excel.
//
// XLSXWriter builds a workbook with four sheets: the records, the summary
// statistics with the three insights, the yearly VEI buckets and the genre
// counts.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.WriteOptions{})
//	err := w.WriteFile("data/merged_dataset.csv", records)
//
//	err = exporter.Export(rw, exporter.FormatXLSX, dash, records)
package exporter
