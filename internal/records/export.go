package records

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export formats. Each one maps to a fixed file name in the export directory.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const xlsxSheet = "Records"

type exportFormat struct {
	fileName    string
	contentType string
	write       func(io.Writer, []Record) error
}

var exportFormats = map[string]exportFormat{
	FormatCSV:  {fileName: "export.csv", contentType: "text/csv; charset=utf-8", write: WriteCSV},
	FormatJSON: {fileName: "export.json", contentType: "application/json", write: WriteJSON},
	FormatXLSX: {fileName: "export.xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", write: WriteXLSX},
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, rec := range recs {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("csv record %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the records as a two-space indented JSON array.
func WriteJSON(w io.Writer, recs []Record) error {
	data, err := json.MarshalIndent(toResponses(recs), "", "  ")
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteXLSX writes a single-sheet workbook with the same columns as WriteCSV.
func WriteXLSX(w io.Writer, recs []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, rec := range recs {
		r := i + 2
		values := []any{
			rec.ID,
			rec.Filename,
			rec.UploadedAt.UTC().Format(UploadedAtLayout),
			rec.PatientID,
			rec.ProcedureCode,
			rec.AmountClaimed.InexactFloat64(),
			rec.DateOfService,
			rec.ExtractionConfidence,
			rec.Consent,
			rec.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx record %d: %w", rec.ID, err)
			}
		}
	}

	for _, w := range []struct {
		col   string
		width float64
	}{{"B", 28}, {"C", 28}, {"J", 48}} {
		if err := f.SetColWidth(xlsxSheet, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("xlsx column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
