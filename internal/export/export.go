// Package export renders result tables for use outside the toolkit.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/harborstats/ukproj/internal/npp"
)

// CSV writes the table in the processed-artifact column layout.
func CSV(w io.Writer, table npp.Table) error {
	data, err := table.EncodeCSV()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// XLSX renders the table as a single-sheet workbook with a bold header row.
func XLSX(table npp.Table) ([]byte, error) {
	xlsx := excelize.NewFile()

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	_ = xlsx.SetColWidth(sheet, "A", "A", 16)
	_ = xlsx.SetColWidth(sheet, "B", "E", 12)

	header := []any{npp.FieldGeography, npp.FieldYear, npp.FieldGender, npp.FieldAge, npp.FieldValue}
	if err := xlsx.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if style, err := xlsx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = xlsx.SetCellStyle(sheet, "A1", "E1", style)
	}

	for i, o := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{o.GeographyCode, o.Year, o.Gender, o.Age, o.Value}
		if err := xlsx.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	_ = xlsx.SetSheetName(sheet, "Projection")

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
