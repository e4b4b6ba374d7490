// Package export serializes normalized contract records to
// spreadsheet-compatible byte streams.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
)

// SheetName is the worksheet the XLSX export writes into.
const SheetName = "Contratos"

// WriteCSV writes the fixed column set plus one row per record.
func WriteCSV(w io.Writer, records []contract.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(contract.Columns()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with the same layout as the CSV
// export, plus a frozen, bold header row.
func WriteXLSX(w io.Writer, records []contract.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := headerRow()
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := asAny(r.Row())
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.CoordinatesToCellName(len(contract.Columns()), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol, bold); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteFile picks the format from the file extension (.csv or .xlsx) and
// writes the records to path.
func WriteFile(path string, records []contract.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = WriteCSV(f, records)
	case ".xlsx":
		err = WriteXLSX(f, records)
	default:
		err = fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func headerRow() []any {
	return asAny(contract.Columns())
}

func asAny(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
