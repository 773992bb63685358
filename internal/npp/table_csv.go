package npp

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Column names of the processed table artifact, in artifact order. The query
// engine reuses them as grouping field identifiers.
const (
	FieldGender    = "GENDER"
	FieldAge       = "C_AGE"
	FieldYear      = "PROJECTED_YEAR_NAME"
	FieldValue     = "OBS_VALUE"
	FieldGeography = "GEOGRAPHY_CODE"
)

var csvHeader = []string{FieldGender, FieldAge, FieldYear, FieldValue, FieldGeography}

// EncodeCSV renders the table in the processed-artifact CSV layout.
func (t Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, o := range t {
		rec := []string{
			strconv.Itoa(o.Gender),
			strconv.Itoa(o.Age),
			strconv.Itoa(o.Year),
			strconv.FormatFloat(o.Value, 'f', -1, 64),
			o.GeographyCode,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses a processed-artifact CSV back into a table.
func DecodeCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table artifact")
	}
	table := make(Table, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: %d columns, want %d", i+1, len(rec), len(csvHeader))
		}
		gender, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad gender %q", i+1, rec[0])
		}
		age, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad age %q", i+1, rec[1])
		}
		year, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad year %q", i+1, rec[2])
		}
		value, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad value %q", i+1, rec[3])
		}
		table = append(table, Observation{
			Gender:        gender,
			Age:           age,
			Year:          year,
			Value:         value,
			GeographyCode: rec[4],
		})
	}
	return table, nil
}
