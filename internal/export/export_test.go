package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/harborstats/ukproj/internal/export"
	"github.com/harborstats/ukproj/internal/npp"
)

func sampleTable() npp.Table {
	return npp.Table{
		{GeographyCode: "E92000001", Year: 2016, Gender: 1, Age: 0, Value: 341.273},
		{GeographyCode: "S92000003", Year: 2050, Gender: 2, Age: 90, Value: 99.5},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.CSV(&buf, sampleTable()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "1,0,2016,341.273,E92000001" {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
}

func TestXLSX(t *testing.T) {
	data, err := export.XLSX(sampleTable())
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Projection")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != npp.FieldGeography || rows[0][4] != npp.FieldValue {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "E92000001" || rows[1][1] != "2016" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][3] != "90" {
		t.Fatalf("unexpected terminal age cell: %v", rows[2])
	}
}
